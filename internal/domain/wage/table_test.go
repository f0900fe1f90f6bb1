package wage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()
	require.Equal(t, int64(10360), table.BaseFor(2026).Hourly)
	require.Equal(t, int64(10030), table.BaseFor(2025).Hourly)
	require.Equal(t, int64(10360), table.BaseFor(2030).Hourly, "future years use the latest entry")
	require.Equal(t, int64(10030), table.BaseFor(2019).Hourly, "older years use the earliest entry")
	require.Equal(t, 2026, table.Latest().Year)
}

func TestLoadTableOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wages.yaml")
	body := "minimumWages:\n  - year: 2027\n    hourly: 10800\n  - year: 2026\n    hourly: 10360\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	table, err := LoadTable(path)
	require.NoError(t, err)
	require.Equal(t, []Entry{{Year: 2026, Hourly: 10360}, {Year: 2027, Hourly: 10800}}, table.Entries())
}

func TestParseTableRejectsBadInput(t *testing.T) {
	_, err := ParseTable([]byte("minimumWages: []\n"))
	require.ErrorIs(t, err, ErrEmptyTable)

	_, err = ParseTable([]byte("minimumWages:\n  - year: 2026\n    hourly: 0\n"))
	require.Error(t, err)

	_, err = ParseTable([]byte("minimumWages:\n  - year: 2026\n    hourly: 1\n  - year: 2026\n    hourly: 2\n"))
	require.Error(t, err)
}
