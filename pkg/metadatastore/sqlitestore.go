package metadatastore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Latif-Arib/ML-Project/pkg/models"
)

// SQLiteStore provides SQLite-based persistence for transform artifact records
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based storage instance
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Format: file:path?param=value
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Writes are serialized by SQLite anyway
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// In-memory databases report "memory", which is fine for tests
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to check journal mode: %w", err)
	}
	if journalMode != "wal" && journalMode != "delete" && journalMode != "memory" {
		db.Close()
		return nil, fmt.Errorf("unexpected journal mode: got %s", journalMode)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// retryOnBusy retries a database operation if it fails due to SQLITE_BUSY,
// on top of the busy_timeout pragma
func (s *SQLiteStore) retryOnBusy(operation func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if strings.Contains(err.Error(), "SQLITE_BUSY") {
			// 10ms, 20ms, 40ms, ...
			backoff := time.Duration(10*(1<<uint(i))) * time.Millisecond
			time.Sleep(backoff)
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries: %w", maxRetries, err)
}

// initSchema creates the database schema if it doesn't exist
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transform_artifacts (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		target_column TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		data TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transform_artifacts_created_at ON transform_artifacts(created_at);
	CREATE INDEX IF NOT EXISTS idx_transform_artifacts_status ON transform_artifacts(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveArtifact saves an artifact record, replacing one with the same ID
func (s *SQLiteStore) SaveArtifact(artifact *models.TransformArtifact) error {
	if err := artifact.Validate(); err != nil {
		return fmt.Errorf("invalid artifact: %w", err)
	}
	if artifact.CreatedAt.IsZero() {
		artifact.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO transform_artifacts (id, path, target_column, status, created_at, data)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	err = s.retryOnBusy(func() error {
		_, err := s.db.Exec(query,
			artifact.ID,
			artifact.Path,
			artifact.TargetColumn,
			string(artifact.Status),
			artifact.CreatedAt.UnixNano(),
			string(data),
		)
		return err
	}, 5)
	if err != nil {
		return fmt.Errorf("failed to save artifact: %w", err)
	}

	return nil
}

// GetArtifact retrieves an artifact record by ID
func (s *SQLiteStore) GetArtifact(id string) (*models.TransformArtifact, error) {
	var data string
	query := `SELECT data FROM transform_artifacts WHERE id = ?`

	err := s.db.QueryRow(query, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}

	return decodeArtifact(data)
}

// ListArtifacts lists artifact records, newest first. A limit of zero or
// less returns every record.
func (s *SQLiteStore) ListArtifacts(limit int) ([]*models.TransformArtifact, error) {
	query := `SELECT data FROM transform_artifacts ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	artifacts := make([]*models.TransformArtifact, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			continue
		}

		artifact, err := decodeArtifact(data)
		if err != nil {
			continue
		}

		artifacts = append(artifacts, artifact)
	}

	return artifacts, rows.Err()
}

// LatestArtifact returns the newest record with the given status, or the
// newest record of any status when status is empty
func (s *SQLiteStore) LatestArtifact(status models.ArtifactStatus) (*models.TransformArtifact, error) {
	query := `SELECT data FROM transform_artifacts ORDER BY created_at DESC, rowid DESC LIMIT 1`
	args := []any{}
	if status != "" {
		query = `SELECT data FROM transform_artifacts WHERE status = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`
		args = append(args, string(status))
	}

	var data string
	err := s.db.QueryRow(query, args...).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest artifact: %w", err)
	}

	return decodeArtifact(data)
}

func decodeArtifact(data string) (*models.TransformArtifact, error) {
	var artifact models.TransformArtifact
	if err := json.Unmarshal([]byte(data), &artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact: %w", err)
	}
	return &artifact, nil
}
