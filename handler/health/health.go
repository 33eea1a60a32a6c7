package health

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// HealthHandler is an http.Handler reporting process liveness.
type HealthHandler struct {
	log *zap.SugaredLogger
}

func (*HealthHandler) Pattern() string {
	return "/healthz"
}

func (*HealthHandler) Method() string {
	return http.MethodGet
}

// NewHealthHandler builds a new HealthHandler.
func NewHealthHandler(log *zap.SugaredLogger) *HealthHandler {
	return &HealthHandler{
		log: log,
	}
}

type Response struct {
	Status string `json:"status"`
}

// ServeHTTP handles an HTTP request to the /healthz endpoint.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{Status: "ok"})
}
