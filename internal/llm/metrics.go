package llm

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	llmRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total number of LLM requests",
		},
		[]string{"flow", "status"},
	)

	llmRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "LLM request duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"flow"},
	)
)

func observe(flow string, start time.Time, err error) {
	if flow == "" {
		flow = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	llmRequestsTotal.WithLabelValues(flow, status).Inc()
	llmRequestDuration.WithLabelValues(flow).Observe(time.Since(start).Seconds())
}

type instrumentedText struct {
	next TextGenerator
}

// InstrumentText records request counts and latency per flow.
func InstrumentText(next TextGenerator) TextGenerator {
	return instrumentedText{next: next}
}

func (i instrumentedText) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	out, err := i.next.Generate(ctx, req)
	observe(req.Flow, start, err)
	return out, err
}

type instrumentedImage struct {
	next ImageGenerator
}

func InstrumentImage(next ImageGenerator) ImageGenerator {
	return instrumentedImage{next: next}
}

func (i instrumentedImage) GenerateImage(ctx context.Context, flow, prompt string) (string, error) {
	start := time.Now()
	out, err := i.next.GenerateImage(ctx, flow, prompt)
	observe(flow, start, err)
	return out, err
}
