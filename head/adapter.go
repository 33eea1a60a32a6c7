package head

// Adapt reconciles a runtime embedding against the width the head was
// trained for: equal widths pass through unchanged, wider embeddings are
// truncated, narrower ones are zero-padded on the right.
func Adapt(emb []float32, want int) []float32 {
	switch {
	case len(emb) == want:
		return emb
	case len(emb) > want:
		return emb[:want]
	default:
		out := make([]float32, want)
		copy(out, emb)
		return out
	}
}
