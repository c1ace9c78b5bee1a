// Package grabhistory is a small SQLite-backed stand-in for the
// surrounding queue/import pipeline's grab-history service, which
// spec.md §1 places out of scope as an external collaborator. It exists so
// the adapter has something concrete to recover mappings from (see
// internal/reconcile's RecoverFromHistory) and to exercise in tests and
// local deployments; a real deployment wires internal/collab.GrabHistory to
// the surrounding system's own history store instead.
package grabhistory

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure Go SQLite driver, registers as "sqlite"

	"github.com/MaxwellDPS/seedr-adapter/internal/collab"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store persists grab history in a local SQLite database and implements
// collab.GrabHistory.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	insert, markImported, list *sql.Stmt
}

var _ collab.GrabHistory = (*Store)(nil)

// Open opens (creating if necessary) the SQLite database at dbPath,
// applies migrations, and prepares statements. Use ":memory:" in tests.
func Open(ctx context.Context, dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("opening grab history database", slog.String("path", dbPath))

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("grabhistory: opening %s: %w", dbPath, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("grabhistory: setting WAL mode: %w", err)
	}

	if err := runMigrations(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, logger: logger}
	if err := s.prepareStatements(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func runMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	subFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("grabhistory: creating migration sub-filesystem: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, subFS)
	if err != nil {
		return fmt.Errorf("grabhistory: creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("grabhistory: running migrations: %w", err)
	}

	for _, r := range results {
		logger.Info("applied migration", slog.String("source", r.Source.Path))
	}

	return nil
}

func (s *Store) prepareStatements(ctx context.Context) error {
	var err error

	s.insert, err = s.db.PrepareContext(ctx, `
		INSERT INTO grab_history (download_id, seedr_name, seedr_transfer_id, imported, created_at)
		VALUES (?, ?, ?, 0, ?)
		ON CONFLICT(download_id) DO UPDATE SET seedr_name = excluded.seedr_name,
			seedr_transfer_id = excluded.seedr_transfer_id`)
	if err != nil {
		return fmt.Errorf("grabhistory: preparing insert: %w", err)
	}

	s.markImported, err = s.db.PrepareContext(ctx, `UPDATE grab_history SET imported = 1 WHERE download_id = ?`)
	if err != nil {
		return fmt.Errorf("grabhistory: preparing markImported: %w", err)
	}

	s.list, err = s.db.PrepareContext(ctx,
		`SELECT download_id, seedr_name, seedr_transfer_id, imported FROM grab_history`)
	if err != nil {
		return fmt.Errorf("grabhistory: preparing list: %w", err)
	}

	return nil
}

// RecordGrab inserts or updates the historical record for a submitted
// release, called by Submit's caller once the adapter has returned a
// download id.
func (s *Store) RecordGrab(ctx context.Context, downloadID, seedrName, seedrTransferID string, createdAt int64) error {
	if _, err := s.insert.ExecContext(ctx, downloadID, seedrName, seedrTransferID, createdAt); err != nil {
		return fmt.Errorf("grabhistory: recording grab %s: %w", downloadID, err)
	}

	return nil
}

// MarkImported flags a grab as imported so RecoverFromHistory skips it.
func (s *Store) MarkImported(ctx context.Context, downloadID string) error {
	if _, err := s.markImported.ExecContext(ctx, downloadID); err != nil {
		return fmt.Errorf("grabhistory: marking %s imported: %w", downloadID, err)
	}

	return nil
}

// ListGrabs implements collab.GrabHistory.
func (s *Store) ListGrabs(ctx context.Context) ([]collab.GrabRecord, error) {
	rows, err := s.list.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("grabhistory: listing grabs: %w", err)
	}
	defer rows.Close()

	var records []collab.GrabRecord

	for rows.Next() {
		var (
			r        collab.GrabRecord
			imported int
		)

		if err := rows.Scan(&r.DownloadID, &r.SeedrName, &r.SeedrTransferID, &imported); err != nil {
			return nil, fmt.Errorf("grabhistory: scanning grab row: %w", err)
		}

		r.Imported = imported == 1
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("grabhistory: iterating grab rows: %w", err)
	}

	return records, nil
}

// Close closes prepared statements and the underlying database connection.
func (s *Store) Close() error {
	for _, stmt := range []*sql.Stmt{s.insert, s.markImported, s.list} {
		if stmt != nil {
			if err := stmt.Close(); err != nil {
				s.logger.Warn("error closing statement", slog.String("error", err.Error()))
			}
		}
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("grabhistory: closing database: %w", err)
	}

	return nil
}

