package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/bug-journal-api/internal/logging"
	"github.com/yukikurage/bug-journal-api/internal/testutil"
)

func TestMigrateCmd(t *testing.T) {
	logger = logging.Discard()

	cfg = testutil.Config()
	cfg.DBPath = filepath.Join(t.TempDir(), "journal.db")
	require.NoError(t, migrateCmd.RunE(migrateCmd, nil))

	cfg = testutil.Config()
	cfg.DBPath = filepath.Join(t.TempDir(), "missing", "journal.db")
	err := migrateCmd.RunE(migrateCmd, nil)
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(err.Error(), "failed to connect to database"), err.Error())
}
