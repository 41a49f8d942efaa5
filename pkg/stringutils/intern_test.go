// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package stringutils

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestInternSharesMemory(t *testing.T) {
	t.Parallel()

	a := Intern(string([]byte("1080p")))
	b := Intern(string([]byte("1080p")))

	assert.Equal(t, a, b)
	assert.Equal(t, unsafe.StringData(a), unsafe.StringData(b))
	assert.Equal(t, "", Intern(""))
}

func TestInternLower(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hevc", InternLower("HEVC"))
	assert.Equal(t, "", InternLower(""))
}

func TestInternAll(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"AAC", "FLAC"}, InternAll([]string{" AAC", "", "FLAC "}))
	assert.Nil(t, InternAll([]string{"", "  "}))
	assert.Nil(t, InternAll(nil))
}
