package util

import (
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// GuessExt returns a file extension hint (".mp3", ".wav", ...) for an
// uploaded audio payload. Magic bytes win over the filename; an unrecognized
// payload with no usable filename extension falls back to ".wav".
func GuessExt(filename string, head []byte) string {
	if kind, err := filetype.Match(head); err == nil && kind.Extension != "" && kind.Extension != "unknown" {
		return "." + kind.Extension
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mp3", ".m4a", ".webm", ".ogg", ".wav", ".flac", ".aac":
		return ext
	}
	return ".wav"
}

// IsAudio reports whether the payload sniffs as an audio or video container.
// Video counts because webm/mp4 uploads with audio-only streams are common.
func IsAudio(head []byte) bool {
	return filetype.IsAudio(head) || filetype.IsVideo(head)
}

// Argmax returns the index of the largest value. Returns -1 for an empty
// slice.
func Argmax(xs []float64) int {
	if len(xs) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}
