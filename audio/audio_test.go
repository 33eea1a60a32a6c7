package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCenterCropExactLength(t *testing.T) {
	y := []float32{1, 2, 3, 4}
	assert.Equal(t, y, CenterCrop(y, 4))
}

func TestCenterCropTakesCenteredWindow(t *testing.T) {
	y := []float32{1, 2, 3, 4, 5, 6}
	assert.Equal(t, []float32{2, 3, 4, 5}, CenterCrop(y, 4))

	// Odd leftover lands at the front.
	y = []float32{1, 2, 3, 4, 5}
	assert.Equal(t, []float32{1, 2, 3, 4}, CenterCrop(y, 4))
}

func TestCenterCropPadsShortClips(t *testing.T) {
	out := CenterCrop([]float32{1, 2}, 6)
	assert.Equal(t, []float32{0, 0, 1, 2, 0, 0}, out)

	// Odd pad puts the extra zero at the end.
	out = CenterCrop([]float32{1, 2}, 5)
	assert.Equal(t, []float32{0, 1, 2, 0, 0}, out)
}

func TestCenterCropEmptyInput(t *testing.T) {
	out := CenterCrop(nil, 4)
	assert.Equal(t, []float32{0, 0, 0, 0}, out)
}
