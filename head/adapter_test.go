package head

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdaptMatchingWidthIsIdempotent(t *testing.T) {
	emb := []float32{1, 2, 3}

	out := Adapt(emb, 3)

	assert.Equal(t, emb, out)
	// Same backing array, not a copy.
	out[0] = 9
	assert.Equal(t, float32(9), emb[0])

	assert.Equal(t, out, Adapt(out, 3))
}

func TestAdaptTruncatesWider(t *testing.T) {
	out := Adapt([]float32{1, 2, 3, 4}, 2)
	assert.Equal(t, []float32{1, 2}, out)
}

func TestAdaptZeroPadsNarrower(t *testing.T) {
	out := Adapt([]float32{1, 2}, 4)
	assert.Equal(t, []float32{1, 2, 0, 0}, out)
}
