package store

// SchemaVersion is the current database schema version. Bump on any
// incompatible schema change.
const SchemaVersion = 1

// Schema creates all tables and indexes. Statements are idempotent so
// opening an existing database is safe.
const Schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS policies (
    id       TEXT PRIMARY KEY,
    name     TEXT NOT NULL,
    raw_text TEXT NOT NULL,
    scope    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rules (
    id          TEXT PRIMARY KEY,
    policy_id   TEXT NOT NULL REFERENCES policies(id) ON DELETE CASCADE,
    seq         INTEGER NOT NULL,
    rule_code   TEXT NOT NULL,
    description TEXT NOT NULL,
    category    TEXT NOT NULL,
    severity    TEXT NOT NULL,
    check_type  TEXT NOT NULL,
    params      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rules_policy ON rules(policy_id, seq);
CREATE INDEX IF NOT EXISTS idx_rules_category ON rules(policy_id, category);

CREATE TABLE IF NOT EXISTS datasets (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    description  TEXT,
    dataset_type TEXT NOT NULL,
    file_path    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS violations (
    id                  TEXT PRIMARY KEY,
    policy_id           TEXT NOT NULL,
    rule_id             TEXT NOT NULL,
    dataset_id          TEXT NOT NULL,
    seq                 INTEGER NOT NULL,
    employee_identifier TEXT NOT NULL,
    evidence            TEXT NOT NULL,
    risk                TEXT NOT NULL,
    explanation         TEXT
);
CREATE INDEX IF NOT EXISTS idx_violations_pair ON violations(policy_id, dataset_id, seq);
`

// InsertSchemaVersion records the schema version if not already present.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

// GetSchemaVersion reads back the recorded schema version.
const GetSchemaVersion = `SELECT version FROM schema_version LIMIT 1`
