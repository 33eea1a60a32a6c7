// Package backbone wraps the pretrained acoustic tagging model (a Cnn14
// export) behind ONNX Runtime. It produces one fixed-length embedding per
// waveform; everything downstream of the embedding lives in the head package.
package backbone

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"

	"github.com/mager/cochlea/cochlea"
	"github.com/mager/cochlea/config"
)

// ortInitOnce ensures ONNX Runtime is initialized only once per process.
var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// Backbone runs the embedding model. Construct with Load.
type Backbone struct {
	session *ort.DynamicAdvancedSession
	log     *zap.SugaredLogger

	// Dim is the runtime embedding width, probed once at load time.
	Dim int
}

// Load ensures the checkpoint exists (fetching it from cfg.CheckpointURL if
// needed), boots an ONNX Runtime session for it, and probes the embedding
// width with a one second silent waveform.
func Load(cfg config.Config, log *zap.SugaredLogger) (*Backbone, error) {
	ckpt, err := ensureCheckpoint(cfg, log)
	if err != nil {
		return nil, err
	}

	ortInitOnce.Do(func() {
		if cfg.OrtLibrary != "" {
			ort.SetSharedLibraryPath(cfg.OrtLibrary)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return nil, fmt.Errorf("failed to initialize ONNX Runtime: %w", ortInitErr)
	}

	session, err := ort.NewDynamicAdvancedSession(
		ckpt,
		[]string{"waveform"},
		[]string{"embedding"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create backbone session: %w", err)
	}

	b := &Backbone{session: session, log: log}

	// Probe the actual runtime embedding dim; the head reconciles any
	// mismatch against its own expected width.
	probe := make([]float32, cochlea.SampleRate)
	emb, err := b.Embed(probe)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("embedding dim probe failed: %w", err)
	}
	b.Dim = len(emb)
	log.Infow("backbone loaded", "checkpoint", ckpt, "embedding_dim", b.Dim)

	return b, nil
}

// Embed runs one forward pass and returns the embedding for a mono waveform.
func (b *Backbone) Embed(waveform []float32) ([]float32, error) {
	inputShape := ort.NewShape(1, int64(len(waveform)))
	inputTensor, err := ort.NewTensor(inputShape, waveform)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	// nil output lets ONNX Runtime allocate it.
	outputs := []ort.Value{nil}
	if err := b.session.Run([]ort.Value{inputTensor}, outputs); err != nil {
		return nil, fmt.Errorf("backbone inference failed: %w", err)
	}
	if outputs[0] == nil {
		return nil, fmt.Errorf("backbone produced no embedding output")
	}
	defer outputs[0].Destroy()

	outputTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected embedding tensor type")
	}

	// Shape is (1, D); copy out before the tensor is destroyed.
	data := outputTensor.GetData()
	emb := make([]float32, len(data))
	copy(emb, data)
	return emb, nil
}

// Close releases the ONNX Runtime session.
func (b *Backbone) Close() error {
	if b.session != nil {
		b.session.Destroy()
	}
	return nil
}

// ensureCheckpoint returns the checkpoint path, downloading it when the file
// is missing and a URL is configured.
func ensureCheckpoint(cfg config.Config, log *zap.SugaredLogger) (string, error) {
	if _, err := os.Stat(cfg.CheckpointPath); err == nil {
		return cfg.CheckpointPath, nil
	}
	if cfg.CheckpointURL == "" {
		return "", fmt.Errorf("checkpoint %s missing and COCHLEA_CHECKPOINTURL not set", cfg.CheckpointPath)
	}

	log.Infow("fetching backbone checkpoint", "url", cfg.CheckpointURL)
	if err := os.MkdirAll(filepath.Dir(cfg.CheckpointPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create checkpoint dir: %w", err)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Get(cfg.CheckpointURL)
	if err != nil {
		return "", fmt.Errorf("checkpoint download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("checkpoint download: unexpected status %s", resp.Status)
	}

	// Write to a temp name first so a partial download never looks like a
	// valid checkpoint.
	tmp := cfg.CheckpointPath + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("failed to create checkpoint file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("checkpoint download: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to close checkpoint file: %w", err)
	}
	if err := os.Rename(tmp, cfg.CheckpointPath); err != nil {
		return "", fmt.Errorf("failed to move checkpoint into place: %w", err)
	}

	return cfg.CheckpointPath, nil
}
