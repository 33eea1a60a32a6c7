package health

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Warmer loads the model artifacts if needed and reports whether the process
// can serve inference.
type Warmer interface {
	Ready() error
}

// ReadyHandler is an http.Handler reporting model readiness. The first probe
// warms the model.
type ReadyHandler struct {
	log    *zap.SugaredLogger
	warmer Warmer
}

func (*ReadyHandler) Pattern() string {
	return "/readyz"
}

func (*ReadyHandler) Method() string {
	return http.MethodGet
}

// NewReadyHandler builds a new ReadyHandler.
func NewReadyHandler(log *zap.SugaredLogger, warmer Warmer) *ReadyHandler {
	return &ReadyHandler{
		log:    log,
		warmer: warmer,
	}
}

// ServeHTTP handles an HTTP request to the /readyz endpoint.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.warmer.Ready(); err != nil {
		h.log.Errorw("model not ready", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(Response{Status: "model not ready: " + err.Error()})
		return
	}

	json.NewEncoder(w).Encode(Response{Status: "ok"})
}
