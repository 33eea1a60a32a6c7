package head

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInvertLinearColumn(t *testing.T) {
	s := &Scalers{
		Mean: map[string]float64{"energy": 0.5},
		Std:  map[string]float64{"energy": 2.0},
	}

	assert.InDelta(t, 2.5, s.Invert("energy", 1.0), 1e-9)
	assert.InDelta(t, 0.5, s.Invert("energy", 0.0), 1e-9)
}

func TestInvertLogScaledColumns(t *testing.T) {
	s := &Scalers{
		Mean: map[string]float64{"tempo": 0, "duration_ms": 0},
		Std:  map[string]float64{"tempo": 1, "duration_ms": 1},
	}

	// A standardized prediction of log1p(120) must come back as 120 BPM.
	p := math.Log1p(120)
	assert.InDelta(t, 120, s.Invert("tempo", p), 1e-6)
	assert.InDelta(t, 240000, s.Invert("duration_ms", math.Log1p(240000)), 1e-3)
}

func TestLoadScalers(t *testing.T) {
	path := writeFile(t, "scalers.json", `{
		"mean": {"energy": 0.5, "tempo": 4.7},
		"std": {"energy": 0.2, "tempo": 0.3}
	}`)

	s, err := LoadScalers(path, []string{"energy", "tempo"})
	require.NoError(t, err)
	assert.Equal(t, 0.5, s.Mean["energy"])
	assert.Equal(t, 0.3, s.Std["tempo"])
}

func TestLoadScalersMissingColumn(t *testing.T) {
	path := writeFile(t, "scalers.json", `{"mean": {"energy": 0.5}, "std": {"energy": 0.2}}`)

	_, err := LoadScalers(path, []string{"energy", "tempo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tempo")
}

func TestLoadScalersMalformed(t *testing.T) {
	path := writeFile(t, "scalers.json", `{not json`)

	_, err := LoadScalers(path, []string{"energy"})
	require.Error(t, err)
}

func TestLoadClassMaps(t *testing.T) {
	path := writeFile(t, "class_maps.json", `{
		"key": {"classes": [-1, 0, 1, 2]},
		"mode": {"classes": [0, 1]}
	}`)

	cm, err := LoadClassMaps(path)
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 0, 1, 2}, cm["key"].Classes)
	assert.Equal(t, []int{0, 1}, cm["mode"].Classes)
}

func TestLoadClassMapsEmpty(t *testing.T) {
	path := writeFile(t, "class_maps.json", `{}`)

	_, err := LoadClassMaps(path)
	require.Error(t, err)
}
