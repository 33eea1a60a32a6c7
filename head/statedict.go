package head

import (
	"encoding/json"
	"fmt"
	"os"
)

// Tensor is one named weight from the exported state dict. The training
// exporter writes every tensor as a flat value list plus its shape.
type Tensor struct {
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// StateDict maps torch-style parameter names ("trunk.0.weight",
// "reg_heads.tempo.fc.bias", ...) to tensors.
type StateDict map[string]Tensor

// LoadStateDict reads the exported head weights from a JSON file.
func LoadStateDict(path string) (StateDict, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read head weights: %w", err)
	}
	var sd StateDict
	if err := json.Unmarshal(raw, &sd); err != nil {
		return nil, fmt.Errorf("failed to parse head weights: %w", err)
	}
	if _, ok := sd["trunk.0.weight"]; !ok {
		return nil, fmt.Errorf("bad head checkpoint: missing 'trunk.0.weight' in state_dict")
	}
	return sd, nil
}

// ExpectedDim returns the input width the head was trained for, read off the
// first trunk layer's weight matrix.
func (sd StateDict) ExpectedDim() (int, error) {
	t, ok := sd["trunk.0.weight"]
	if !ok || len(t.Shape) != 2 {
		return 0, fmt.Errorf("bad head checkpoint: missing 'trunk.0.weight' in state_dict")
	}
	return t.Shape[1], nil
}

// matrix validates a named tensor against the given shape and returns its
// data in row-major order.
func (sd StateDict) matrix(name string, rows, cols int) ([]float64, error) {
	t, ok := sd[name]
	if !ok {
		return nil, fmt.Errorf("state_dict missing %q", name)
	}
	if len(t.Shape) != 2 || t.Shape[0] != rows || t.Shape[1] != cols {
		return nil, fmt.Errorf("%s: want shape [%d %d], got %v", name, rows, cols, t.Shape)
	}
	if len(t.Data) != rows*cols {
		return nil, fmt.Errorf("%s: shape %v does not match %d values", name, t.Shape, len(t.Data))
	}
	return t.Data, nil
}

// vector validates a named tensor as a length-n vector and returns its data.
func (sd StateDict) vector(name string, n int) ([]float64, error) {
	t, ok := sd[name]
	if !ok {
		return nil, fmt.Errorf("state_dict missing %q", name)
	}
	if len(t.Shape) != 1 || t.Shape[0] != n || len(t.Data) != n {
		return nil, fmt.Errorf("%s: want shape [%d], got %v with %d values", name, n, t.Shape, len(t.Data))
	}
	return t.Data, nil
}
