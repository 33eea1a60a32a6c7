// Package head implements the trained multi-task head: a small MLP trunk with
// one scalar regression head per regression column and one logits head per
// classification column. Weights come from an exported state dict; the
// forward pass is plain dense algebra, so dropout is omitted (identity at
// inference).
package head

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"
	"gonum.org/v1/gonum/mat"
)

// linear is a single fully connected layer y = Wx + b.
type linear struct {
	w *mat.Dense
	b *mat.VecDense
}

func (l *linear) apply(x *mat.VecDense) *mat.VecDense {
	r, _ := l.w.Dims()
	y := mat.NewVecDense(r, nil)
	y.MulVec(l.w, x)
	y.AddVec(y, l.b)
	return y
}

func reluInPlace(v *mat.VecDense) {
	raw := v.RawVector().Data
	for i, x := range raw {
		if x < 0 {
			raw[i] = 0
		}
	}
}

// Model is the loaded multi-task head.
type Model struct {
	trunk1 linear // d_in -> hidden
	trunk2 linear // hidden -> hidden/2

	regCols []string
	clsCols []string

	regHeads map[string]linear // hidden/2 -> 1
	clsHeads map[string]linear // hidden/2 -> n_classes

	// DIn is the input width the head was trained for.
	DIn int
}

// Outputs holds one forward pass: standardized regression predictions and raw
// classification logits, keyed by column.
type Outputs struct {
	Reg    map[string]float64
	Logits map[string][]float64
}

// NewModel builds the head from a state dict and the class maps, mirroring
// the trained architecture: Linear(d_in, hidden) + ReLU + Dropout +
// Linear(hidden, hidden/2) + ReLU, then per-column heads on hidden/2.
// Layer widths come off the tensor shapes so the checkpoint is the single
// source of truth (the trained artifact uses cochlea.Hidden).
func NewModel(sd StateDict, classMaps ClassMaps, regCols []string) (*Model, error) {
	dIn, err := sd.ExpectedDim()
	if err != nil {
		return nil, err
	}

	hidden := sd["trunk.0.weight"].Shape[0]
	t3, ok := sd["trunk.3.weight"]
	if !ok || len(t3.Shape) != 2 || t3.Shape[1] != hidden {
		return nil, fmt.Errorf("bad head checkpoint: trunk.3.weight missing or inconsistent with trunk.0")
	}
	half := t3.Shape[0]

	m := &Model{
		regCols:  append([]string(nil), regCols...),
		regHeads: make(map[string]linear, len(regCols)),
		clsHeads: make(map[string]linear, len(classMaps)),
		DIn:      dIn,
	}

	m.clsCols = maps.Keys(classMaps)
	sort.Strings(m.clsCols)

	if m.trunk1, err = sd.layer("trunk.0", hidden, dIn); err != nil {
		return nil, err
	}
	if m.trunk2, err = sd.layer("trunk.3", half, hidden); err != nil {
		return nil, err
	}

	for _, c := range m.regCols {
		l, err := sd.layer("reg_heads."+c+".fc", 1, half)
		if err != nil {
			return nil, err
		}
		m.regHeads[c] = l
	}
	for _, c := range m.clsCols {
		n := len(classMaps[c].Classes)
		if n == 0 {
			return nil, fmt.Errorf("class map %q has no classes", c)
		}
		l, err := sd.layer("cls_heads."+c+".fc", n, half)
		if err != nil {
			return nil, err
		}
		m.clsHeads[c] = l
	}

	return m, nil
}

// layer loads "<prefix>.weight" and "<prefix>.bias" as a linear layer.
func (sd StateDict) layer(prefix string, rows, cols int) (linear, error) {
	wData, err := sd.matrix(prefix+".weight", rows, cols)
	if err != nil {
		return linear{}, err
	}
	bData, err := sd.vector(prefix+".bias", rows)
	if err != nil {
		return linear{}, err
	}
	return linear{
		w: mat.NewDense(rows, cols, wData),
		b: mat.NewVecDense(rows, bData),
	}, nil
}

// Forward runs the head on one adapted embedding. The input length must
// equal DIn.
func (m *Model) Forward(emb []float32) (Outputs, error) {
	if len(emb) != m.DIn {
		return Outputs{}, fmt.Errorf("embedding width %d, head expects %d", len(emb), m.DIn)
	}

	x := mat.NewVecDense(m.DIn, nil)
	for i, v := range emb {
		x.SetVec(i, float64(v))
	}

	h := m.trunk1.apply(x)
	reluInPlace(h)
	h = m.trunk2.apply(h)
	reluInPlace(h)

	out := Outputs{
		Reg:    make(map[string]float64, len(m.regCols)),
		Logits: make(map[string][]float64, len(m.clsCols)),
	}
	for _, c := range m.regCols {
		head := m.regHeads[c]
		y := head.apply(h)
		out.Reg[c] = y.AtVec(0)
	}
	for _, c := range m.clsCols {
		head := m.clsHeads[c]
		y := head.apply(h)
		logits := make([]float64, y.Len())
		copy(logits, y.RawVector().Data)
		out.Logits[c] = logits
	}
	return out, nil
}

// ClassCols returns the classification columns in deterministic order.
func (m *Model) ClassCols() []string {
	return m.clsCols
}
