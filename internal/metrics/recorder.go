package metrics

import "time"

// ResultLabel enumerates result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"

	// Per-file render results.
	FileRendered ResultLabel = "rendered"
	FileSkipped  ResultLabel = "skipped"
	FileFailed   ResultLabel = "failed"

	// Image resolution results.
	ImageCacheHit    ResultLabel = "cache_hit"
	ImageFetched     ResultLabel = "fetched"
	ImagePlaceholder ResultLabel = "placeholder"
)

// Recorder defines observability hooks for build, stage, file and image metrics.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome ResultLabel)
	ObserveStageDuration(stage string, d time.Duration)
	IncFileResult(result ResultLabel)
	IncImageResult(result ResultLabel)
	AddMinifiedAssets(kind string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(ResultLabel)                {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncFileResult(ResultLabel)                  {}
func (NoopRecorder) IncImageResult(ResultLabel)                 {}
func (NoopRecorder) AddMinifiedAssets(string, int)              {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
