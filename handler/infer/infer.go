package infer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/dhowden/tag"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mager/cochlea/cochlea"
	"github.com/mager/cochlea/util"
)

// maxUploadBytes caps the multipart form memory; larger files spill to disk.
const maxUploadBytes = 32 << 20

// Inferencer runs the prediction pipeline on raw upload bytes.
type Inferencer interface {
	PredictBytes(ctx context.Context, content []byte, ext string) (*cochlea.Prediction, error)
}

// InferHandler is an http.Handler that accepts an uploaded audio file and
// returns predicted music attributes.
type InferHandler struct {
	log       *zap.SugaredLogger
	predictor Inferencer
}

func (*InferHandler) Pattern() string {
	return "/infer"
}

func (*InferHandler) Method() string {
	return http.MethodPost
}

// NewInferHandler builds a new InferHandler.
func NewInferHandler(log *zap.SugaredLogger, predictor Inferencer) *InferHandler {
	return &InferHandler{
		log:       log,
		predictor: predictor,
	}
}

// Infer audio features
// @Summary Predict music attributes for an uploaded audio file
// @Description Accepts a multipart upload, runs the embedding backbone and multi-task head, and returns Spotify-style features
// @Accept mpfd
// @Produce json
// @Success 200 {object} cochlea.Prediction
// @Router /infer [post]
// @Param file formData file true "Audio file (wav, mp3, m4a, webm, ogg)"
func (h *InferHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "No file provided", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read file: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(content) == 0 {
		http.Error(w, "Empty file", http.StatusBadRequest)
		return
	}

	requestID := uuid.NewString()
	ext := util.GuessExt(header.Filename, content)
	l := h.log.With("request_id", requestID, "filename", header.Filename, "format", ext)

	if !util.IsAudio(content) {
		// Let the decoder have the final say, but leave a trace for when it
		// rejects the payload.
		l.Warnw("upload does not sniff as audio")
	}

	pred, err := h.predictor.PredictBytes(r.Context(), content, ext)
	if err != nil {
		l.Errorw("inference failed", "error", err)
		http.Error(w, "Inference failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	pred.Meta.RequestID = requestID
	pred.Meta.Format = strings.TrimPrefix(ext, ".")

	// Embedded tags are a nice-to-have; uploads from browser recordings
	// usually have none.
	if md, err := tag.ReadFrom(bytes.NewReader(content)); err == nil {
		pred.Meta.Title = md.Title()
		pred.Meta.Artist = md.Artist()
	}

	l.Infow("inference complete", "latency_ms", pred.Meta.LatencyMs, "embedding_dim", pred.Meta.EmbeddingDim)
	json.NewEncoder(w).Encode(pred)
}
