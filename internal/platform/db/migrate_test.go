package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPendingMigrationsSortsSQLFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_folders.sql", "001_init.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := PendingMigrations(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"001_init.sql", "002_folders.sql"}, files)
}

func TestPendingMigrationsMissingDir(t *testing.T) {
	_, err := PendingMigrations(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestRepositoryMigrationsPresent(t *testing.T) {
	files, err := PendingMigrations(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.Contains(t, files, "001_init.sql")
}
