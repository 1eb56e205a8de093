package main

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	f, err := parseFlags([]string{"-migrate", "up", "-config", "/etc/taskr/config.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "up", f.migrate)
	assert.Equal(t, "/etc/taskr/config.yaml", f.configPath)

	f, err = parseFlags(nil)
	require.NoError(t, err)
	assert.Empty(t, f.migrate)
	assert.Equal(t, ".env", f.envFile)

	f, err = parseFlags([]string{"-env", "local.env"})
	require.NoError(t, err)
	assert.Equal(t, "local.env", f.envFile)

	_, err = parseFlags([]string{"-unknown"})
	assert.Error(t, err)
}

func TestRunMigrations_UnknownCommand(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	log, _ := logger.GetTestLogger(t)
	err = runMigrations(context.Background(), db, "sideways", log)
	assert.ErrorContains(t, err, `unknown migration command "sideways"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
