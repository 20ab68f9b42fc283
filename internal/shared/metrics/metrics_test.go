package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRenderIncludesCountersAndHistogram(t *testing.T) {
	IncDocumentsUploaded()
	IncSummaryFailed()
	IncEmailsSent()
	IncEmailsFailed()
	ObserveSummaryDuration(750 * time.Millisecond)

	out := Render()
	for _, want := range []string{
		"# TYPE documents_uploaded_total counter",
		"# TYPE summary_failed_total counter",
		"# TYPE emails_sent_total counter",
		"# TYPE emails_failed_total counter",
		"# TYPE summary_duration_ms histogram",
		`summary_duration_ms_bucket{le="+Inf"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 2 {
		t.Fatalf("unexpected bucket counts: %v", snap.counts)
	}
	if snap.sum != 555 {
		t.Fatalf("expected sum 555, got %v", snap.sum)
	}
}

func TestHandlerServesTextFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Fatalf("unexpected content type %q", got)
	}
}
