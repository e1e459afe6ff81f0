package queue

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped when schema.sql changes in a way existing
// migrations can't reconcile. Prefer an additive migration in
// migrateColumns over bumping this, so installs don't lose their queue.
const schemaVersion = 1

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if err := s.createSchema(ctx); err != nil {
			return err
		}
	}
	return s.migrateColumns(ctx)
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// migrateColumns adds columns that newer releases introduced, rather than
// forcing an existing install to discard its queue database. Grounded on
// dvdtoplex's database.py _run_migrations, which adds poster_path the same
// defensive way.
func (s *Store) migrateColumns(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, "PRAGMA table_info(jobs)")
	if err != nil {
		return fmt.Errorf("inspect jobs table: %w", err)
	}
	existing := map[string]struct{}{}
	for rows.Next() {
		var (
			cid, notnull, pk int
			name, ctype      string
			dflt             any
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return fmt.Errorf("scan jobs column: %w", err)
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read jobs columns: %w", err)
	}
	rows.Close()

	additions := []struct {
		column string
		ddl    string
	}{
		{"poster_ref", "ALTER TABLE jobs ADD COLUMN poster_ref TEXT NOT NULL DEFAULT ''"},
	}
	for _, addition := range additions {
		if _, ok := existing[addition.column]; ok {
			continue
		}
		if _, err := s.db.ExecContext(ctx, addition.ddl); err != nil {
			return fmt.Errorf("migrate column %s: %w", addition.column, err)
		}
	}
	return nil
}
