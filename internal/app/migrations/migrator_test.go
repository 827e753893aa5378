package migrations

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, "001", MigrationVersion("001_init.sql"))
	assert.Equal(t, "002", MigrationVersion("sql/002_add_index_on_email.sql"))
	assert.Equal(t, "noversion.sql", MigrationVersion("noversion.sql"))
}

func TestPendingFilesSorted(t *testing.T) {
	fsys := fstest.MapFS{
		"010_late.sql":  {Data: []byte("SELECT 1;")},
		"002_mid.sql":   {Data: []byte("SELECT 1;")},
		"001_first.sql": {Data: []byte("SELECT 1;")},
		"README.md":     {Data: []byte("notes")},
	}

	files, err := PendingFiles(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_first.sql", "002_mid.sql", "010_late.sql"}, files)
}

func TestEmbeddedMigrationsDefineConstraints(t *testing.T) {
	files, err := PendingFiles(EmbeddedFS())
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_init.sql", files[0])

	var all strings.Builder
	for _, f := range files {
		content, err := fs.ReadFile(EmbeddedFS(), f)
		require.NoError(t, err)
		all.Write(content)
	}

	schema := all.String()
	assert.Contains(t, schema, "CONSTRAINT employees_email_key UNIQUE (email)")
	assert.Contains(t, schema, "CONSTRAINT admins_username_key UNIQUE (username)")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS sessions")
}
