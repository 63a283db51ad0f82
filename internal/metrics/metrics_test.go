package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHandler_nilMetrics(t *testing.T) {
	var m *Metrics
	m.IncLoadDropped()
	m.ObserveLayerFetch("burgs", "ok")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	m.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestRouter_exposesRegisteredMetrics(t *testing.T) {
	m := New()
	m.ObserveLayerFetch("cells", "rejected")
	m.ObserveLayerLoad(40 * time.Millisecond)
	m.IncViewFit("replay")
	m.IncDrawSession("aborted")
	m.ObserveAPIRequest("burgs", http.StatusOK, 10*time.Millisecond)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	m.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	for _, want := range []string{
		`questmap_layer_fetch_total{category="cells",outcome="rejected"} 1`,
		`questmap_view_fits_total{mode="replay"} 1`,
		`questmap_draw_sessions_total{outcome="aborted"} 1`,
		`questmap_api_requests_total{endpoint="burgs",status="200"} 1`,
		"questmap_layer_load_duration_seconds_count 1",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body; body=%s", want, body)
		}
	}
}

func TestIncLoadDropped(t *testing.T) {
	m := New()
	m.IncLoadDropped()
	m.IncLoadDropped()
	if got := testutil.ToFloat64(m.loadsDropped); got != 2 {
		t.Fatalf("expected 2 dropped loads, got %v", got)
	}
}

func TestRouter_healthz(t *testing.T) {
	rr := httptest.NewRecorder()
	New().Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("expected 200 ok, got %d %q", rr.Code, rr.Body.String())
	}
}
