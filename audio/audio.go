// Package audio turns uploaded files into the fixed-length mono waveform the
// backbone expects. Compressed formats (mp3, m4a, webm, ogg, ...) are decoded
// by an ffmpeg subprocess, which also handles resampling and downmixing.
package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"

	"github.com/mager/cochlea/cochlea"
)

// Decode reads the audio file at path and returns mono float32 PCM at
// cochlea.SampleRate. ffmpeg must be on PATH.
func Decode(ctx context.Context, path string) ([]float32, error) {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-f", "f32le",
		"-acodec", "pcm_f32le",
		"-ac", "1",
		"-ar", fmt.Sprint(cochlea.SampleRate),
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return nil, fmt.Errorf("ffmpeg decode: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("ffmpeg decode: %w", err)
	}

	raw := out.Bytes()
	if len(raw) < 4 {
		return nil, fmt.Errorf("ffmpeg produced no samples")
	}

	n := len(raw) / 4
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
		samples[i] = math.Float32frombits(bits)
	}
	return samples, nil
}

// CenterCrop returns exactly need samples: the centered window of y when it
// is long enough, otherwise y zero-padded evenly on both sides.
func CenterCrop(y []float32, need int) []float32 {
	if len(y) >= need {
		s := (len(y) - need) / 2
		return y[s : s+need]
	}
	pad := need - len(y)
	out := make([]float32, need)
	copy(out[pad/2:], y)
	return out
}

// LoadClip decodes path and crops it to the fixed clip length.
func LoadClip(ctx context.Context, path string) ([]float32, error) {
	y, err := Decode(ctx, path)
	if err != nil {
		return nil, err
	}
	return CenterCrop(y, cochlea.CropSamples), nil
}
