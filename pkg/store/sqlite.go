package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"veritas-hq/themis/pkg/compliance"
	"veritas-hq/themis/pkg/dataset"
	"veritas-hq/themis/pkg/extract"
	"veritas-hq/themis/pkg/rules"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/themis.db",
		MaxOpenConns: 10,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if necessary) a SQLite-backed store and
// initializes the schema.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "store.sqlite"),
	}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("SQLite store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

// initialize sets pragmas, creates the schema and verifies its version.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}
	if _, err := s.db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return NewStorageError("sqlite", "enable_foreign_keys", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// SavePolicy persists a policy, assigning an ID when empty.
func (s *SQLiteStore) SavePolicy(ctx context.Context, p *Policy) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO policies (id, name, raw_text, scope) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, raw_text=excluded.raw_text, scope=excluded.scope`,
		p.ID, p.Name, p.RawText, string(p.Scope))
	if err != nil {
		return NewStorageError("sqlite", "save_policy", err)
	}
	return nil
}

// GetPolicy retrieves a policy by ID.
func (s *SQLiteStore) GetPolicy(ctx context.Context, id string) (*Policy, error) {
	p := &Policy{}
	var scope string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, raw_text, scope FROM policies WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.RawText, &scope)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("policy %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "get_policy", err)
	}
	p.Scope = extract.Scope(scope)
	return p, nil
}

// ListPolicies returns all policies.
func (s *SQLiteStore) ListPolicies(ctx context.Context) ([]*Policy, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, raw_text, scope FROM policies ORDER BY name`)
	if err != nil {
		return nil, NewStorageError("sqlite", "list_policies", err)
	}
	defer rows.Close()

	var out []*Policy
	for rows.Next() {
		p := &Policy{}
		var scope string
		if err := rows.Scan(&p.ID, &p.Name, &p.RawText, &scope); err != nil {
			return nil, NewStorageError("sqlite", "list_policies", err)
		}
		p.Scope = extract.Scope(scope)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "list_policies", err)
	}
	return out, nil
}

// ReplaceRules replaces the policy's rule set with rs inside one
// transaction.
func (s *SQLiteStore) ReplaceRules(ctx context.Context, policyID string, rs []rules.Rule) ([]*StoredRule, error) {
	if _, err := s.GetPolicy(ctx, policyID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, NewStorageError("sqlite", "replace_rules", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rules WHERE policy_id = ?`, policyID); err != nil {
		return nil, NewStorageError("sqlite", "replace_rules", err)
	}

	stored := make([]*StoredRule, len(rs))
	for i, r := range rs {
		params, err := json.Marshal(r.Params)
		if err != nil {
			return nil, NewStorageError("sqlite", "replace_rules", err)
		}
		id := uuid.NewString()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO rules (id, policy_id, seq, rule_code, description, category, severity, check_type, params)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, policyID, i, r.RuleCode, r.Description, string(r.Category), string(r.Severity), string(r.CheckType), string(params))
		if err != nil {
			return nil, NewStorageError("sqlite", "replace_rules", err)
		}
		stored[i] = &StoredRule{ID: id, PolicyID: policyID, Rule: r}
	}

	if err := tx.Commit(); err != nil {
		return nil, NewStorageError("sqlite", "replace_rules", err)
	}
	return stored, nil
}

// ListRules returns the policy's rules in insertion order, optionally
// filtered by category.
func (s *SQLiteStore) ListRules(ctx context.Context, policyID string, category rules.Category) ([]*StoredRule, error) {
	query := `SELECT id, policy_id, rule_code, description, category, severity, check_type, params
		FROM rules WHERE policy_id = ?`
	args := []interface{}{policyID}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, string(category))
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewStorageError("sqlite", "list_rules", err)
	}
	defer rows.Close()

	var out []*StoredRule
	for rows.Next() {
		sr := &StoredRule{}
		var cat, sev, ct, params string
		if err := rows.Scan(&sr.ID, &sr.PolicyID, &sr.RuleCode, &sr.Description, &cat, &sev, &ct, &params); err != nil {
			return nil, NewStorageError("sqlite", "list_rules", err)
		}
		sr.Category = rules.Category(cat)
		sr.Severity = rules.Severity(sev)
		sr.CheckType = rules.CheckType(ct)
		if err := json.Unmarshal([]byte(params), &sr.Params); err != nil {
			return nil, NewStorageError("sqlite", "list_rules", err)
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "list_rules", err)
	}
	return out, nil
}

// SaveDataset persists dataset metadata, assigning an ID when empty.
func (s *SQLiteStore) SaveDataset(ctx context.Context, d *dataset.Dataset) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO datasets (id, name, description, dataset_type, file_path) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, description=excluded.description,
			dataset_type=excluded.dataset_type, file_path=excluded.file_path`,
		d.ID, d.Name, d.Description, string(d.Type), d.FilePath)
	if err != nil {
		return NewStorageError("sqlite", "save_dataset", err)
	}
	return nil
}

// GetDataset retrieves dataset metadata by ID.
func (s *SQLiteStore) GetDataset(ctx context.Context, id string) (*dataset.Dataset, error) {
	d := &dataset.Dataset{}
	var dt string
	var desc sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, dataset_type, file_path FROM datasets WHERE id = ?`, id).
		Scan(&d.ID, &d.Name, &desc, &dt, &d.FilePath)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("dataset %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "get_dataset", err)
	}
	d.Description = desc.String
	d.Type = dataset.Type(dt)
	return d, nil
}

// ListDatasets returns all datasets.
func (s *SQLiteStore) ListDatasets(ctx context.Context) ([]*dataset.Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, dataset_type, file_path FROM datasets ORDER BY name`)
	if err != nil {
		return nil, NewStorageError("sqlite", "list_datasets", err)
	}
	defer rows.Close()

	var out []*dataset.Dataset
	for rows.Next() {
		d := &dataset.Dataset{}
		var dt string
		var desc sql.NullString
		if err := rows.Scan(&d.ID, &d.Name, &desc, &dt, &d.FilePath); err != nil {
			return nil, NewStorageError("sqlite", "list_datasets", err)
		}
		d.Description = desc.String
		d.Type = dataset.Type(dt)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "list_datasets", err)
	}
	return out, nil
}

// ReplaceViolations supersedes the pair's violations with vs inside one
// transaction.
func (s *SQLiteStore) ReplaceViolations(ctx context.Context, policyID, datasetID string, vs []compliance.Violation) ([]*StoredViolation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, NewStorageError("sqlite", "replace_violations", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM violations WHERE policy_id = ? AND dataset_id = ?`, policyID, datasetID); err != nil {
		return nil, NewStorageError("sqlite", "replace_violations", err)
	}

	stored := make([]*StoredViolation, len(vs))
	for i, v := range vs {
		v.PolicyID = policyID
		v.DatasetID = datasetID
		id := uuid.NewString()
		var explanation interface{}
		if v.Explanation != "" {
			explanation = v.Explanation
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO violations (id, policy_id, rule_id, dataset_id, seq, employee_identifier, evidence, risk, explanation)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, v.PolicyID, v.RuleID, v.DatasetID, i, v.EmployeeIdentifier, v.Evidence, string(v.Risk), explanation)
		if err != nil {
			return nil, NewStorageError("sqlite", "replace_violations", err)
		}
		stored[i] = &StoredViolation{ID: id, Violation: v}
	}

	if err := tx.Commit(); err != nil {
		return nil, NewStorageError("sqlite", "replace_violations", err)
	}
	return stored, nil
}

// ListViolations returns violations filtered by policy and dataset, in
// insertion order.
func (s *SQLiteStore) ListViolations(ctx context.Context, policyID, datasetID string) ([]*StoredViolation, error) {
	query := `SELECT id, policy_id, rule_id, dataset_id, employee_identifier, evidence, risk, explanation
		FROM violations WHERE 1=1`
	var args []interface{}
	if policyID != "" {
		query += ` AND policy_id = ?`
		args = append(args, policyID)
	}
	if datasetID != "" {
		query += ` AND dataset_id = ?`
		args = append(args, datasetID)
	}
	query += ` ORDER BY policy_id, dataset_id, seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewStorageError("sqlite", "list_violations", err)
	}
	defer rows.Close()

	var out []*StoredViolation
	for rows.Next() {
		sv := &StoredViolation{}
		var risk string
		var explanation sql.NullString
		if err := rows.Scan(&sv.ID, &sv.PolicyID, &sv.RuleID, &sv.DatasetID,
			&sv.EmployeeIdentifier, &sv.Evidence, &risk, &explanation); err != nil {
			return nil, NewStorageError("sqlite", "list_violations", err)
		}
		sv.Risk = rules.Severity(risk)
		sv.Explanation = explanation.String
		out = append(out, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "list_violations", err)
	}
	return out, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
