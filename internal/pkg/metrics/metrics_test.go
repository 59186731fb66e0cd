package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveOperation(t *testing.T) {
	MustRegister()
	MustRegister()

	counter := PromCounters[OperationsTotal].WithLabelValues("wallet", "getBalance", "success")
	before := testutil.ToFloat64(counter)
	ObserveOperation("wallet", "getBalance", "success", 0.2)
	require.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestObserveBatchModes(t *testing.T) {
	ObserveBatch(true, "success")
	ObserveBatch(false, "failed")
	require.Equal(t, 1.0, testutil.ToFloat64(PromCounters[BatchesTotal].WithLabelValues("continue", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(PromCounters[BatchesTotal].WithLabelValues("abort", "failed")))
}
