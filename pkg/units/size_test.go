// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Size
	}{
		{"decimal with space", "6.78 GB", Size{Value: 6.78, Unit: "GB", Bytes: 6780000000}},
		{"decimal no space", "700MB", Size{Value: 700, Unit: "MB", Bytes: 700000000}},
		{"binary unit", "1.5 GiB", Size{Value: 1.5, Unit: "GB", Bytes: 1610612736}},
		{"comma separator", "1,5 GiB", Size{Value: 1.5, Unit: "GB", Bytes: 1610612736}},
		{"unit first", "GB(6.78)", Size{Value: 6.78, Unit: "GB", Bytes: 6780000000}},
		{"unit first spaced", "MiB ( 512 )", Size{Value: 512, Unit: "MB", Bytes: 536870912}},
		{"lowercase", "350.2 mib", Size{Value: 350.2, Unit: "MB", Bytes: 367211315}},
		{"bytes", "512 B", Size{Value: 512, Unit: "B", Bytes: 512}},
		{"kibibytes", "2 KiB", Size{Value: 2, Unit: "KB", Bytes: 2048}},
		{"terabytes", "1.2 TB", Size{Value: 1.2, Unit: "TB", Bytes: 1200000000000}},
		{"leading prefix only", "1.234.5 KB", Size{Value: 1.234, Unit: "KB", Bytes: 1234}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseSize(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want.Unit, got.Unit)
			assert.Equal(t, tt.want.Bytes, got.Bytes)
			assert.InDelta(t, tt.want.Value, got.Value, 1e-9)
		})
	}
}

func TestParseSizeRejects(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "big", "GB", "6.78 XB", "1.5 GBs", "(6.78)GB", ". GB"} {
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			_, ok := ParseSize(input)
			assert.False(t, ok)
		})
	}
}

func TestParseSizeSeparatorsAgree(t *testing.T) {
	t.Parallel()

	dot, ok := ParseSize("1.5 GiB")
	require.True(t, ok)
	comma, ok := ParseSize("1,5 GiB")
	require.True(t, ok)
	assert.Equal(t, dot, comma)
}
