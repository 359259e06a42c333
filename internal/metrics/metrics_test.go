package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHit(t *testing.T) {
	before := testutil.ToFloat64(CacheHitsTotal.WithLabelValues("metrics_test_hit"))

	RecordHit("metrics_test_hit")

	after := testutil.ToFloat64(CacheHitsTotal.WithLabelValues("metrics_test_hit"))
	if after != before+1 {
		t.Errorf("expected hits to increase by 1, got %v -> %v", before, after)
	}
}

func TestRecordFallback_SeparatesOps(t *testing.T) {
	RecordFallback("metrics_test_fallback", OpRead)
	RecordFallback("metrics_test_fallback", OpRead)
	RecordFallback("metrics_test_fallback", OpWrite)

	if got := testutil.ToFloat64(CacheFallbacksTotal.WithLabelValues("metrics_test_fallback", OpRead)); got != 2 {
		t.Errorf("expected 2 read fallbacks, got %v", got)
	}
	if got := testutil.ToFloat64(CacheFallbacksTotal.WithLabelValues("metrics_test_fallback", OpWrite)); got != 1 {
		t.Errorf("expected 1 write fallback, got %v", got)
	}
}

func TestRecordMissResolveAndInvalidation(t *testing.T) {
	RecordMiss("metrics_test_misc")
	RecordResolveError("metrics_test_misc")
	RecordInvalidation("metrics_test_misc")

	for name, value := range map[string]float64{
		"misses":        testutil.ToFloat64(CacheMissesTotal.WithLabelValues("metrics_test_misc")),
		"resolveErrors": testutil.ToFloat64(ResolveErrorsTotal.WithLabelValues("metrics_test_misc")),
		"invalidations": testutil.ToFloat64(InvalidationsTotal.WithLabelValues("metrics_test_misc")),
	} {
		if value != 1 {
			t.Errorf("expected %s to be 1, got %v", name, value)
		}
	}
}
