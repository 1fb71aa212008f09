package storage

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations применяет встроенные миграции, которые еще не отмечены в schema_migrations.
func RunMigrations(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	log := logger.Named("Migrations")

	if err := createMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := getAppliedMigrations(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	files, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	// Файлы в формате 001_name.sql, 002_name.sql и т.д.
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name() < files[j].Name()
	})

	for _, file := range files {
		name := file.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		version := getMigrationVersion(name)
		if version == 0 {
			log.Warn("Skipping invalid migration file", zap.String("file", name))
			continue
		}
		if applied[version] {
			log.Debug("Migration already applied", zap.Int("version", version))
			continue
		}

		content, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if err := applyMigration(ctx, db, name, string(content), version); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", version, err)
		}
		log.Info("Applied migration", zap.Int("version", version), zap.String("file", name))
	}
	return nil
}

func createMigrationsTable(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`)
	return err
}

func getAppliedMigrations(ctx context.Context, db *pgxpool.Pool) (map[int]bool, error) {
	rows, err := db.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// getMigrationVersion извлекает номер версии из имени файла; 0 - имя не подходит.
func getMigrationVersion(filename string) int {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0
	}
	return version
}

// upSection возвращает часть миграции между "-- +migrate Up" и "-- +migrate Down".
func upSection(name, content string) (string, error) {
	parts := strings.Split(content, "-- +migrate Down")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid migration file format: %s", name)
	}
	upSQL := strings.TrimSpace(parts[0])
	upSQL = strings.TrimPrefix(upSQL, "-- +migrate Up")
	return strings.TrimSpace(upSQL), nil
}

func applyMigration(ctx context.Context, db *pgxpool.Pool, name, content string, version int) error {
	upSQL, err := upSection(name, content)
	if err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, upSQL); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}
	if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
		return fmt.Errorf("failed to mark migration as applied: %w", err)
	}
	return tx.Commit(ctx)
}
