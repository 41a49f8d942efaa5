// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package releases

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVideoCodec(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"x264":  "AVC",
		"H.264": "AVC",
		"h264":  "AVC",
		"x265":  "HEVC",
		"HEVC":  "HEVC",
		"av1":   "AV1",
		" mpeg": "MPEG",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeVideoCodec(in), in)
	}
}

func TestNormalizeCodecsDedupes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"AVC", "HEVC"}, NormalizeCodecs([]string{"x264", "H.264", "HEVC", "x265"}))
	assert.Nil(t, NormalizeCodecs(nil))
	assert.Nil(t, NormalizeCodecs([]string{" "}))
}

func TestNormalizeAudio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "EAC3", NormalizeAudio("E-AC-3"))
	assert.Equal(t, "EAC3", NormalizeAudio("DDP"))
	assert.Equal(t, "Opus", NormalizeAudio("opus"))
	assert.Equal(t, "DTS-HD", NormalizeAudio("DTS-HD"))
	assert.Equal(t, "PCM", NormalizeAudio("PCM"))
	assert.Equal(t, []string{"AAC", "FLAC"}, NormalizeAudioList([]string{"AAC", "aac", "FLAC"}))
}

func TestNormalizeSource(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "WEB-DL", NormalizeSource("Web-DL"))
	assert.Equal(t, "WEB-DL", NormalizeSource("WEBDL"))
	assert.Equal(t, "WEBRip", NormalizeSource("webrip"))
	assert.Equal(t, "BluRay", NormalizeSource("BD"))
	assert.Equal(t, "Laserdisc", NormalizeSource(" Laserdisc "))
}
