package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"embed"

	"github.com/pkg/errors"

	"github.com/knipselapp/knipsel/internal/version"
)

// Migration system overview:
//
// Schema version is stored in system_setting under "schema_version".
// On a fresh database LATEST.sql is applied and the version recorded.
// On an existing database, incremental migration files newer than the
// recorded version are applied in order, then the version is bumped.
//
// Migration files live at store/migration/{driver}/{version}/NN__description.sql
// and are sorted lexicographically within a version directory.

//go:embed migration
var migrationFS embed.FS

const (
	// MigrateFileNameSplit separates the patch number from the description,
	// for example "1__create_table.sql".
	MigrateFileNameSplit = "__"
	// LatestSchemaFileName holds the full schema for new installations.
	LatestSchemaFileName = "LATEST.sql"

	schemaVersionSettingName = "schema_version"
)

// Migrate brings the database schema up to the current version.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}

	currentVersion := version.GetCurrentVersion(s.profile.Mode)

	if !initialized {
		if err := s.applyLatestSchema(ctx); err != nil {
			return errors.Wrap(err, "failed to apply latest schema")
		}
		if err := s.setSchemaVersion(ctx, currentVersion); err != nil {
			return errors.Wrap(err, "failed to record schema version")
		}
		slog.Info("database initialized", slog.String("version", currentVersion))
		return nil
	}

	schemaVersion, err := s.getSchemaVersion(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to read schema version")
	}
	if version.IsVersionGreaterThan(schemaVersion, currentVersion) {
		return errors.Errorf("database schema version %s is newer than binary version %s", schemaVersion, currentVersion)
	}
	if schemaVersion == currentVersion {
		return nil
	}

	filePaths, err := s.pendingMigrationFiles(schemaVersion)
	if err != nil {
		return errors.Wrap(err, "failed to collect migration files")
	}
	for _, filePath := range filePaths {
		if err := s.execMigrationFile(ctx, filePath); err != nil {
			return errors.Wrapf(err, "failed to apply migration %s", filePath)
		}
		slog.Info("applied migration", slog.String("file", filePath))
	}

	if err := s.setSchemaVersion(ctx, currentVersion); err != nil {
		return errors.Wrap(err, "failed to record schema version")
	}
	slog.Info("database migrated", slog.String("from", schemaVersion), slog.String("to", currentVersion))
	return nil
}

func (s *Store) applyLatestSchema(ctx context.Context) error {
	filePath := filepath.Join("migration", s.profile.Driver, LatestSchemaFileName)
	return s.execMigrationFile(ctx, filePath)
}

// pendingMigrationFiles returns migration files for versions newer than
// schemaVersion, in apply order.
func (s *Store) pendingMigrationFiles(schemaVersion string) ([]string, error) {
	root := filepath.Join("migration", s.profile.Driver)
	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if version.IsVersionGreaterThan(entry.Name(), version.GetMinorVersion(schemaVersion)+".0") {
			dirs = append(dirs, entry.Name())
		}
	}
	sort.Strings(dirs)

	var filePaths []string
	for _, dir := range dirs {
		files, err := fs.ReadDir(migrationFS, filepath.Join(root, dir))
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(files))
		for _, file := range files {
			if strings.HasSuffix(file.Name(), ".sql") {
				names = append(names, file.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			filePaths = append(filePaths, filepath.Join(root, dir, name))
		}
	}
	return filePaths, nil
}

func (s *Store) execMigrationFile(ctx context.Context, filePath string) error {
	buf, err := fs.ReadFile(migrationFS, filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read migration file %s", filePath)
	}

	tx, err := s.driver.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrapf(err, "failed to execute statement of %s", filePath)
	}
	return tx.Commit()
}

func (s *Store) getSchemaVersion(ctx context.Context) (string, error) {
	query := "SELECT value FROM system_setting WHERE name = " + s.settingPlaceholder(1)
	var value string
	err := s.driver.GetDB().QueryRowContext(ctx, query, schemaVersionSettingName).Scan(&value)
	if err == sql.ErrNoRows {
		return "0.0.0", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) setSchemaVersion(ctx context.Context, value string) error {
	stmt := "INSERT INTO system_setting (name, value) VALUES (" +
		s.settingPlaceholder(1) + ", " + s.settingPlaceholder(2) +
		") ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value"
	_, err := s.driver.GetDB().ExecContext(ctx, stmt, schemaVersionSettingName, value)
	return err
}

func (s *Store) settingPlaceholder(n int) string {
	if s.profile.Driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
