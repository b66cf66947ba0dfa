package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration  prom.Histogram
	buildOutcome   *prom.CounterVec
	stageDuration  *prom.HistogramVec
	fileResults    *prom.CounterVec
	imageResults   *prom.CounterVec
	minifiedAssets *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "pagebuilder",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pagebuilder",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "pagebuilder",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		fileResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pagebuilder",
			Name:      "file_results_total",
			Help:      "Template file results (rendered, skipped, failed)",
		}, []string{"result"}),
		imageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pagebuilder",
			Name:      "image_results_total",
			Help:      "Image resolutions by result (cache_hit, fetched, placeholder)",
		}, []string{"result"}),
		minifiedAssets: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pagebuilder",
			Name:      "minified_assets_total",
			Help:      "Asset files minified in place, by kind",
		}, []string{"kind"}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.stageDuration, pr.fileResults, pr.imageResults, pr.minifiedAssets)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome ResultLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFileResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.fileResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncImageResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.imageResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddMinifiedAssets(kind string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.minifiedAssets.WithLabelValues(kind).Add(float64(n))
}
