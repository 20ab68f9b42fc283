package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	documentsUploadedTotal atomic.Uint64
	summaryFailedTotal     atomic.Uint64
	emailsSentTotal        atomic.Uint64
	emailsFailedTotal      atomic.Uint64

	summaryDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncDocumentsUploaded increments the uploaded-documents counter.
func IncDocumentsUploaded() {
	documentsUploadedTotal.Add(1)
}

// IncSummaryFailed increments the failed-summary counter.
func IncSummaryFailed() {
	summaryFailedTotal.Add(1)
}

// IncEmailsSent increments the delivered-email counter.
func IncEmailsSent() {
	emailsSentTotal.Add(1)
}

// IncEmailsFailed increments the failed-email counter.
func IncEmailsFailed() {
	emailsFailedTotal.Add(1)
}

// ObserveSummaryDuration records how long a summarization call took.
func ObserveSummaryDuration(d time.Duration) {
	value := float64(d) / float64(time.Millisecond)
	if value < 0 {
		value = 0
	}
	summaryDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "documents_uploaded_total", "Total documents uploaded", documentsUploadedTotal.Load())
	writeCounter(&buf, "summary_failed_total", "Total summaries replaced by the failure placeholder", summaryFailedTotal.Load())
	writeCounter(&buf, "emails_sent_total", "Total emails delivered to the SMTP server", emailsSentTotal.Load())
	writeCounter(&buf, "emails_failed_total", "Total email attempts that failed", emailsFailedTotal.Load())
	writeHistogram(&buf, "summary_duration_ms", "Summarization call duration in milliseconds", summaryDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	// Observe already counts each value into every bucket whose bound it fits.
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), snap.counts[i])
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
