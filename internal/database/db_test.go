// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "waluna.db")

	db, err := New(dbPath)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, dbPath, db.Path())

	var name string
	err = db.QueryRowContext(context.Background(),
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'cache_entries'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "cache_entries", name)

	var mode string
	require.NoError(t, db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestMigrationsAreRecordedOnce(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "waluna.db")

	db, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM migrations").Scan(&count))
	assert.Equal(t, 1, count)
}
