package metrics

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *PasteMetrics

	// Must not panic
	m.RecordPasteCreated("flat")
	m.RecordPasteViewed()
	m.RecordPasteUpdated()
	m.RecordPasteDeleted("expired", 3)
	m.RecordUploadBytes(1024)
	m.RecordHTTPRequest("GET", "/api/pastes/{id}", "200", time.Millisecond)
}

func TestDisabledHandler(t *testing.T) {
	if IsEnabled() {
		t.Skip("registry already initialized by another test")
	}

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Errorf("disabled metrics must 404, got %d", rec.Code)
	}
}

func TestEnabledMetrics(t *testing.T) {
	InitRegistry()
	InitRegistry() // second call is a no-op

	if !IsEnabled() {
		t.Fatal("expected metrics to be enabled")
	}

	m := NewPasteMetrics()
	if m == nil {
		t.Fatal("expected non-nil metrics when enabled")
	}

	m.RecordPasteCreated("blocks")
	m.RecordPasteUpdated()
	m.RecordHTTPRequest("PUT", "/api/pastes/{id}", "200", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Errorf("expected 200 from /metrics, got %d", rec.Code)
	}
}
