// Package migrate provides database migration functionality for PostgreSQL databases.
// It supports applying, rolling back, and stepping through migrations with transaction safety.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/schoolattendance/backend/internal/logger"
)

// NoVersion is reported when no migration has been applied yet.
const NoVersion = -1

type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

type Migrator struct {
	conn       *pgx.Conn
	migrations []Migration
}

// NewMigrator connects to the database and loads migrations from fsys.
func NewMigrator(ctx context.Context, connectionString string, fsys fs.FS) (*Migrator, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	migrations, err := LoadMigrations(fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	conn, err := pgx.Connect(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Migrator{
		conn:       conn,
		migrations: migrations,
	}, nil
}

func (m *Migrator) Close(ctx context.Context) error {
	return m.conn.Close(ctx)
}

// Latest returns the highest known migration version.
func (m *Migrator) Latest() int {
	return len(m.migrations) - 1
}

// LoadMigrations reads NNNNNN_name.up.sql / NNNNNN_name.down.sql pairs from the
// root of fsys. Versions must be contiguous from 0 and every version needs an
// up file.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		baseName := entry.Name()
		if len(baseName) < 7 || baseName[6] != '_' {
			continue
		}

		version, err := strconv.Atoi(baseName[:6])
		if err != nil {
			continue
		}

		var isUp bool
		var name string
		switch {
		case strings.HasSuffix(baseName, ".up.sql"):
			isUp = true
			name = strings.TrimSuffix(baseName[7:], ".up.sql")
		case strings.HasSuffix(baseName, ".down.sql"):
			name = strings.TrimSuffix(baseName[7:], ".down.sql")
		default:
			continue
		}

		data, err := fs.ReadFile(fsys, baseName)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", baseName, err)
		}

		mig, ok := byVersion[version]
		if !ok {
			mig = &Migration{Version: version, Name: name}
			byVersion[version] = mig
		}
		if isUp {
			mig.UpSQL = string(data)
		} else {
			mig.DownSQL = string(data)
		}
	}

	if len(byVersion) == 0 {
		return nil, errors.New("no valid migration files found")
	}

	versions := make([]int, 0, len(byVersion))
	for v := range byVersion {
		versions = append(versions, v)
	}
	sort.Ints(versions)

	migrations := make([]Migration, 0, len(versions))
	for i, v := range versions {
		if v != i {
			return nil, fmt.Errorf("migration %d is missing", i)
		}
		if strings.TrimSpace(byVersion[v].UpSQL) == "" {
			return nil, fmt.Errorf("migration %d is missing up.sql file", v)
		}
		migrations = append(migrations, *byVersion[v])
	}
	return migrations, nil
}

// GetCurrentVersion returns the last applied version, or NoVersion.
func (m *Migrator) GetCurrentVersion(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context cancelled: %w", err)
	}

	var version sql.NullInt64 // Use NullInt64 to handle NULL from MAX()
	err := m.conn.QueryRow(ctx, "SELECT MAX(version) FROM migrations").Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return NoVersion, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
			return NoVersion, nil // Table doesn't exist yet, no migrations applied
		}
		return 0, fmt.Errorf("failed to get current migration version: %w", err)
	}

	if !version.Valid {
		return NoVersion, nil
	}

	return int(version.Int64), nil
}

// Up applies all pending migrations in order starting from currentVersion + 1.
func (m *Migrator) Up(ctx context.Context) error {
	current, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version before applying migrations: %w", err)
	}
	return m.forward(ctx, current, len(m.migrations))
}

// Down rolls back the last migration. Version 0 owns the migrations table and
// is never rolled back.
func (m *Migrator) Down(ctx context.Context) error {
	current, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version before rolling back: %w", err)
	}
	_, err = m.rollback(ctx, current)
	return err
}

// Steps applies or rolls back a specific number of migrations.
// Positive steps apply migrations forward, negative steps roll back migrations.
func (m *Migrator) Steps(ctx context.Context, steps int) error {
	current, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version before executing steps: %w", err)
	}

	switch {
	case steps > 0:
		return m.forward(ctx, current, steps)
	case steps < 0:
		for i := 0; i < -steps; i++ {
			current, err = m.rollback(ctx, current)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// forward applies at most limit migrations after current.
func (m *Migrator) forward(ctx context.Context, current, limit int) error {
	for applied := 0; applied < limit && current+1 < len(m.migrations); applied++ {
		migration := m.migrations[current+1]

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled while applying migration %d: %w", migration.Version, err)
		}

		logger.LogInfo("Applying migration", "version", migration.Version, "name", migration.Name)
		if err := m.applyMigration(ctx, migration, true); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}
		current = migration.Version
	}
	return nil
}

// rollback undoes migration current and returns the new current version.
func (m *Migrator) rollback(ctx context.Context, current int) (int, error) {
	if current <= 0 {
		return current, errors.New("no migrations to rollback")
	}
	if current >= len(m.migrations) {
		return current, fmt.Errorf("migration %d not found in loaded migrations", current)
	}
	if err := ctx.Err(); err != nil {
		return current, fmt.Errorf("context cancelled while rolling back migration %d: %w", current, err)
	}

	migration := m.migrations[current]
	if strings.TrimSpace(migration.DownSQL) == "" {
		return current, fmt.Errorf("migration %d does not have a down.sql file or it is empty", current)
	}

	logger.LogInfo("Rolling back migration", "version", migration.Version, "name", migration.Name)
	if err := m.applyMigration(ctx, migration, false); err != nil {
		return current, fmt.Errorf("failed to rollback migration %d: %w", current, err)
	}
	return current - 1, nil
}

// applyMigration applies a single migration (up or down) within a transaction.
func (m *Migrator) applyMigration(ctx context.Context, migration Migration, up bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	sql := migration.DownSQL
	if up {
		sql = migration.UpSQL
	}

	tx, err := m.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, stmt := range SplitStatements(sql) {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration SQL for version %d (statement %d): %w\nStatement: %s", migration.Version, i+1, err, stmt)
		}
	}

	if up {
		if _, err := tx.Exec(ctx,
			"INSERT INTO migrations (version) VALUES ($1) ON CONFLICT (version) DO NOTHING",
			migration.Version,
		); err != nil {
			return fmt.Errorf("failed to record migration version %d: %w", migration.Version, err)
		}
	} else {
		if _, err := tx.Exec(ctx,
			"DELETE FROM migrations WHERE version = $1",
			migration.Version,
		); err != nil {
			return fmt.Errorf("failed to remove migration version %d: %w", migration.Version, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SplitStatements splits a migration file on semicolons, dropping blanks.
// Migration files must not contain semicolons inside statements.
func SplitStatements(sql string) []string {
	var out []string
	for _, stmt := range strings.Split(sql, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
