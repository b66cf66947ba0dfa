package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("global_assets", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(ResultSuccess)
	pr.IncFileResult(FileRendered)
	pr.IncFileResult(FileRendered)
	pr.IncFileResult(FileSkipped)
	pr.IncImageResult(ImageCacheHit)
	pr.AddMinifiedAssets("css", 2)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.fileResults.WithLabelValues(string(FileRendered))), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.fileResults.WithLabelValues(string(FileSkipped))), 0.001)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.minifiedAssets.WithLabelValues("css")), 0.001)
}

func TestNilRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncFileResult(FileFailed)
		pr.ObserveBuildDuration(time.Second)
	})
	assert.IsType(t, NoopRecorder{}, OrNoop(nil))
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := NewRegistry()
	NewPrometheusRecorder(reg).IncBuildOutcome(ResultFailed)

	w := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pagebuilder_build_outcomes_total")
}
