// Package runner ties the store, the dataset reader and the evaluator
// into complete compliance runs, and hosts the long-running modes: cron
// scheduled re-runs and a policy directory watcher that re-extracts rules
// when policy text changes.
package runner
