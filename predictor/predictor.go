// Package predictor wires the full inference pipeline: decode → crop → embed
// → adapt → head forward → de-standardize. One predictor exists per process;
// its artifacts load on first use so the server can start before the
// checkpoint is in place.
package predictor

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mager/cochlea/audio"
	"github.com/mager/cochlea/backbone"
	"github.com/mager/cochlea/cochlea"
	"github.com/mager/cochlea/config"
	"github.com/mager/cochlea/head"
	"github.com/mager/cochlea/util"
)

// Predictor runs inference requests. Construct with ProvidePredictor; call
// Ready or PredictBytes to trigger the artifact load.
type Predictor struct {
	cfg config.Config
	log *zap.SugaredLogger

	loadOnce sync.Once
	loadErr  error

	backbone  *backbone.Backbone
	model     *head.Model
	scalers   *head.Scalers
	classMaps head.ClassMaps
}

// ProvidePredictor provides the process-wide predictor.
func ProvidePredictor(cfg config.Config, log *zap.SugaredLogger) *Predictor {
	return &Predictor{cfg: cfg, log: log}
}

var Options = ProvidePredictor

// load pulls in every artifact: scalers, class maps, head weights, backbone.
// Runs at most once; the error is sticky.
func (p *Predictor) load() error {
	p.loadOnce.Do(func() {
		p.loadErr = p.loadArtifacts()
	})
	return p.loadErr
}

func (p *Predictor) loadArtifacts() error {
	scalers, err := head.LoadScalers(p.cfg.ScalersJSON, cochlea.RegressionCols)
	if err != nil {
		return err
	}
	classMaps, err := head.LoadClassMaps(p.cfg.ClassMapJSON)
	if err != nil {
		return err
	}
	sd, err := head.LoadStateDict(p.cfg.HeadWeights)
	if err != nil {
		return err
	}
	model, err := head.NewModel(sd, classMaps, cochlea.RegressionCols)
	if err != nil {
		return err
	}
	bb, err := backbone.Load(p.cfg, p.log)
	if err != nil {
		return err
	}

	if bb.Dim != model.DIn {
		p.log.Warnw("embedding dim mismatch, auto-adapting embeddings",
			"runtime", bb.Dim, "expected", model.DIn)
	}

	p.scalers = scalers
	p.classMaps = classMaps
	p.model = model
	p.backbone = bb
	return nil
}

// Ready loads the artifacts if they are not loaded yet and reports the
// sticky load error, if any.
func (p *Predictor) Ready() error {
	return p.load()
}

// PredictBytes writes the upload to a temp file with the given extension
// hint, runs the pipeline, and returns the prediction.
func (p *Predictor) PredictBytes(ctx context.Context, content []byte, ext string) (*cochlea.Prediction, error) {
	if err := p.load(); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "cochlea-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	return p.predictFromPath(ctx, tmp.Name())
}

func (p *Predictor) predictFromPath(ctx context.Context, path string) (*cochlea.Prediction, error) {
	t0 := time.Now()

	clip, err := audio.LoadClip(ctx, path)
	if err != nil {
		return nil, err
	}

	emb, err := p.backbone.Embed(clip)
	if err != nil {
		return nil, err
	}
	emb = head.Adapt(emb, p.model.DIn)

	out, err := p.model.Forward(emb)
	if err != nil {
		return nil, err
	}

	var feats cochlea.Features
	for _, c := range cochlea.RegressionCols {
		setRegression(&feats, c, p.scalers.Invert(c, out.Reg[c]))
	}
	for _, c := range p.model.ClassCols() {
		idx := util.Argmax(out.Logits[c])
		setClass(&feats, c, p.classMaps[c].Classes[idx])
	}

	return &cochlea.Prediction{
		Features: feats,
		Meta: cochlea.Meta{
			ModelVersion: cochlea.ModelVersion,
			EmbeddingDim: len(emb),
			LatencyMs:    int(time.Since(t0).Milliseconds()),
		},
	}, nil
}

func setRegression(f *cochlea.Features, name string, v float64) {
	switch name {
	case "acousticness":
		f.Acousticness = v
	case "danceability":
		f.Danceability = v
	case "energy":
		f.Energy = v
	case "instrumentalness":
		f.Instrumentalness = v
	case "liveness":
		f.Liveness = v
	case "loudness":
		f.Loudness = v
	case "speechiness":
		f.Speechiness = v
	case "tempo":
		f.Tempo = v
	case "valence":
		f.Valence = v
	case "duration_ms":
		f.DurationMs = v
	}
}

func setClass(f *cochlea.Features, name string, v int) {
	switch name {
	case "key":
		f.Key = v
	case "mode":
		f.Mode = v
	case "time_signature":
		f.TimeSignature = v
	}
}

// Close releases the backbone session, if it ever loaded.
func (p *Predictor) Close() error {
	if p.backbone != nil {
		return p.backbone.Close()
	}
	return nil
}
