// Package storage persists the ledger state as a single named snapshot
// in sqlite: one row, one JSON blob, written back after every mutation
// and loaded once at startup.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"moneytree/internal/ledger"
	"moneytree/internal/log"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SchemaVersion tags the snapshot payload. Bump it when the State shape
// changes incompatibly; Load refuses payloads newer than it understands.
const SchemaVersion = 1

// SnapshotName keys the single application snapshot row.
const SnapshotName = "moneytree"

type SnapshotStore struct {
	db *sql.DB
}

// envelope is the on-disk payload: the state plus its schema version.
type envelope struct {
	SchemaVersion int          `json:"schemaVersion"`
	SavedAt       time.Time    `json:"savedAt"`
	State         ledger.State `json:"state"`
}

func NewSnapshotStore(dbPath string) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := migrateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

// migrateSchema applies the embedded migrations to the store's database.
func migrateSchema(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("sqlite migration driver: %w", err)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("embedded migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return src.Close()
}

func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save implements ledger.SnapshotStore.
func (s *SnapshotStore) Save(ctx context.Context, state ledger.State) error {
	payload, err := json.Marshal(envelope{
		SchemaVersion: SchemaVersion,
		SavedAt:       time.Now().UTC(),
		State:         state,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (name, schema_version, payload, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			schema_version = excluded.schema_version,
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP`,
		SnapshotName, SchemaVersion, payload)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot saved",
		"name", SnapshotName,
		"bytes", len(payload),
		"transactions", len(state.Transactions),
		log.FieldComponent, log.ComponentStorage)
	return nil
}

// Load reads the snapshot. The second return is false when no snapshot
// exists yet (fresh install).
func (s *SnapshotStore) Load(ctx context.Context) (ledger.State, bool, error) {
	var (
		version int
		payload []byte
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT schema_version, payload FROM snapshots WHERE name = ?`, SnapshotName)
	if err := row.Scan(&version, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.State{}, false, nil
		}
		return ledger.State{}, false, fmt.Errorf("read snapshot: %w", err)
	}

	if version > SchemaVersion {
		return ledger.State{}, false, fmt.Errorf(
			"snapshot schema version %d is newer than supported version %d", version, SchemaVersion)
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return ledger.State{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return env.State, true, nil
}
