package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mager/cochlea/logger"
)

func TestHealthHandler(t *testing.T) {
	log, _ := logger.NewTestLogger()
	handler := NewHealthHandler(log)

	req, err := http.NewRequest(http.MethodGet, "/healthz", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusOK)
	}

	// Check the response body
	var resp Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Errorf("failed to unmarshal response: %v", err)
	}

	if resp.Status != "ok" {
		t.Errorf("handler returned wrong status: got %v want %v",
			resp.Status, "ok")
	}
}

type fakeWarmer struct {
	err   error
	calls int
}

func (f *fakeWarmer) Ready() error {
	f.calls++
	return f.err
}

func TestReadyHandlerWarm(t *testing.T) {
	log, _ := logger.NewTestLogger()
	warmer := &fakeWarmer{}
	handler := NewReadyHandler(log, warmer)

	req, err := http.NewRequest(http.MethodGet, "/readyz", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusOK)
	}
	if warmer.calls != 1 {
		t.Errorf("expected one warm call, got %d", warmer.calls)
	}
}

func TestReadyHandlerNotReady(t *testing.T) {
	log, _ := logger.NewTestLogger()
	handler := NewReadyHandler(log, &fakeWarmer{err: errors.New("checkpoint missing")})

	req, err := http.NewRequest(http.MethodGet, "/readyz", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusServiceUnavailable {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusServiceUnavailable)
	}

	var resp Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Errorf("failed to unmarshal response: %v", err)
	}
	if resp.Status == "ok" {
		t.Errorf("expected failure status, got %q", resp.Status)
	}
}
