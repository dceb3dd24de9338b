// Package dataset provides the tabular row source for compliance
// evaluation. A dataset is a delimited file with a header row; each data
// row becomes a column-name to raw-value mapping.
//
// Reading is a single sequential forward scan, one row at a time, so
// memory stays bounded for large files. A failure reading the underlying
// source is fatal to the run and propagates as a SourceError; it is never
// retried or swallowed here.
package dataset
