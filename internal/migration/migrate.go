// Package migration applies the embedded SQL schema on startup.
// Files run in lexical order and each applied file is recorded in
// schema_migrations so reruns are no-ops.
package migration

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migration",
	fx.Invoke(Run),
)

// Run applies all pending migrations.
func Run(db *gorm.DB, log *zap.Logger) error {
	ctx := context.Background()

	if err := db.WithContext(ctx).Exec(
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	).Error; err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	names, err := migrationFiles()
	if err != nil {
		return err
	}

	applied := map[string]bool{}
	var versions []string
	if err := db.WithContext(ctx).
		Table("schema_migrations").
		Pluck("version", &versions).Error; err != nil {
		return err
	}
	for _, version := range versions {
		applied[version] = true
	}

	mlog := log.Named("migration")
	for _, name := range names {
		if applied[name] {
			continue
		}

		contents, err := embeddedMigrations.ReadFile(migrationsDir + "/" + name)
		if err != nil {
			return err
		}

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(contents)).Error; err != nil {
				return fmt.Errorf("apply %s: %w", name, err)
			}
			return tx.Exec(
				`INSERT INTO schema_migrations (version) VALUES (?)`, name,
			).Error
		})
		if err != nil {
			return err
		}
		mlog.Info("migration applied", zap.String("version", name))
	}
	return nil
}

func migrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
