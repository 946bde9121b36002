package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := applySchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	migrations := []struct {
		table, column, ddl string
	}{
		{"records", "energy_level", "INTEGER"},
		{"user_config", "last_settled_day", "TEXT NOT NULL DEFAULT ''"},
		{"quotes", "is_favorite", "INTEGER NOT NULL DEFAULT 0"},
	}
	for _, m := range migrations {
		if err := ensureColumn(ctx, db, m.table, m.column, m.ddl); err != nil {
			return err
		}
	}

	return nil
}

// ensureColumn backfills databases created before the column existed.
func ensureColumn(ctx context.Context, db *sql.DB, table, column, ddl string) error {
	var exists int
	err := db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT 1 FROM pragma_table_info('%s') WHERE name = ? LIMIT 1", table),
		column).Scan(&exists)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("check %s.%s column: %w", table, column, err)
	}

	alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, ddl)
	if _, err := db.ExecContext(ctx, alter); err != nil {
		return fmt.Errorf("add %s.%s column: %w", table, column, err)
	}

	return nil
}
