// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package suggest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return NewCatalogFromNames(
		"Dan Da Dan",
		"Sousou no Frieren",
		"Frieren: Beyond Journey's End",
		"Shōgun",
		"One Piece",
	)
}

func TestCatalogFind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		term  string
		limit int
		want  []string
	}{
		{name: "closest first", term: "frieren", limit: 10, want: []string{"Sousou no Frieren", "Frieren: Beyond Journey's End"}},
		{name: "case folded", term: "FRIEREN", limit: 10, want: []string{"Sousou no Frieren", "Frieren: Beyond Journey's End"}},
		{name: "limit", term: "frieren", limit: 1, want: []string{"Sousou no Frieren"}},
		{name: "diacritics", term: "shogun", limit: 10, want: []string{"Shōgun"}},
		{name: "subsequence", term: "dndn", limit: 10, want: []string{"Dan Da Dan"}},
		{name: "no match", term: "zzz", limit: 10, want: []string{}},
		{name: "blank", term: "   ", limit: 10, want: []string{}},
		{name: "zero limit", term: "frieren", limit: 0, want: []string{}},
	}

	catalog := testCatalog()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, catalog.Find(tt.term, tt.limit))
		})
	}
}

func TestCatalogAliases(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog([]Entry{
		{Name: "Frieren: Beyond Journey's End"},
		{Name: "Sousou no Frieren", Aliases: []string{"Frieren", " "}},
	})

	assert.Equal(t, 2, catalog.Len())
	assert.Equal(t, []string{"Sousou no Frieren", "Frieren: Beyond Journey's End"}, catalog.Find("frieren", 10))
}

func TestCatalogDedupes(t *testing.T) {
	t.Parallel()

	catalog := NewCatalogFromNames("Dan Da Dan", "dan da dan", " ", "")
	assert.Equal(t, 1, catalog.Len())
	assert.Equal(t, []string{"Dan Da Dan"}, catalog.Find("dan", 10))

	var empty *Catalog
	assert.Zero(t, empty.Len())
	assert.Empty(t, empty.Find("dan", 10))
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
		wantLen int
		wantErr bool
	}{
		{name: "json strings", file: "catalog.json", content: `["Dan Da Dan", "One Piece"]`, wantLen: 2},
		{name: "json objects", file: "catalog.json", content: `[{"name": "Dan Da Dan", "aliases": ["Dandadan"]}, "One Piece"]`, wantLen: 2},
		{name: "yaml mixed", file: "catalog.yaml", content: "- Dan Da Dan\n- name: Sousou no Frieren\n  aliases: [Frieren]\n", wantLen: 2},
		{name: "yml extension", file: "catalog.yml", content: "- One Piece\n", wantLen: 1},
		{name: "invalid json", file: "catalog.json", content: `{"names": `, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			catalog, err := LoadCatalog(path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, catalog.Len())
		})
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
