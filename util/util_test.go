package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// wavHeader is the start of a RIFF/WAVE file, enough for magic-byte sniffing.
var wavHeader = []byte{
	'R', 'I', 'F', 'F', 0x24, 0x00, 0x00, 0x00,
	'W', 'A', 'V', 'E', 'f', 'm', 't', ' ',
}

func TestGuessExtSniffsMagicBytes(t *testing.T) {
	// Magic bytes win even when the filename disagrees.
	assert.Equal(t, ".wav", GuessExt("clip.mp3", wavHeader))
}

func TestGuessExtFallsBackToFilename(t *testing.T) {
	junk := []byte{0x00, 0x01, 0x02, 0x03}

	assert.Equal(t, ".ogg", GuessExt("song.OGG", junk))
	assert.Equal(t, ".m4a", GuessExt("song.m4a", junk))
}

func TestGuessExtDefaultsToWav(t *testing.T) {
	assert.Equal(t, ".wav", GuessExt("blob", []byte{0x00, 0x01}))
	assert.Equal(t, ".wav", GuessExt("archive.zip", []byte{0x00, 0x01}))
}

func TestIsAudio(t *testing.T) {
	assert.True(t, IsAudio(wavHeader))
	assert.False(t, IsAudio([]byte{0x00, 0x01, 0x02}))
}

func TestArgmax(t *testing.T) {
	assert.Equal(t, 2, Argmax([]float64{0.1, -3, 7, 7}))
	assert.Equal(t, 0, Argmax([]float64{5}))
	assert.Equal(t, -1, Argmax(nil))
}
