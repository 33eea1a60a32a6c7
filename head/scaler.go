package head

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/mager/cochlea/cochlea"
)

// Scalers holds the per-column mean/std recorded at training time, used to
// map standardized regression outputs back to human units.
type Scalers struct {
	Mean map[string]float64 `json:"mean"`
	Std  map[string]float64 `json:"std"`
}

// LoadScalers reads the scaler JSON and verifies every regression column has
// both statistics. A malformed file is a load error, not a per-request one.
func LoadScalers(path string, regCols []string) (*Scalers, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scalers: %w", err)
	}
	var s Scalers
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scalers: %w", err)
	}
	for _, c := range regCols {
		if _, ok := s.Mean[c]; !ok {
			return nil, fmt.Errorf("scalers missing mean for %q", c)
		}
		if _, ok := s.Std[c]; !ok {
			return nil, fmt.Errorf("scalers missing std for %q", c)
		}
	}
	return &s, nil
}

// Invert de-standardizes one regression output: p*std + mean, then expm1 for
// columns trained on log1p values (tempo, duration_ms).
func (s *Scalers) Invert(name string, p float64) float64 {
	val := p*s.Std[name] + s.Mean[name]
	if cochlea.LogScaledCols[name] {
		val = math.Expm1(val)
	}
	return val
}

// ClassMap is one classification column's index-to-value mapping.
type ClassMap struct {
	Classes []int `json:"classes"`
}

// ClassMaps is keyed by classification column ("key", "mode", ...).
type ClassMaps map[string]ClassMap

// LoadClassMaps reads the class map JSON.
func LoadClassMaps(path string) (ClassMaps, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read class maps: %w", err)
	}
	var cm ClassMaps
	if err := json.Unmarshal(raw, &cm); err != nil {
		return nil, fmt.Errorf("failed to parse class maps: %w", err)
	}
	if len(cm) == 0 {
		return nil, fmt.Errorf("class maps file %s has no columns", path)
	}
	return cm, nil
}
