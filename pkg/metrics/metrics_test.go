package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCountersAndIncrements(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.TracesProcessed.Inc()
	m.ParserWarningsTotal.WithLabelValues("non-monotonic").Inc()

	var out dto.Metric
	require.NoError(t, m.TracesProcessed.Write(&out))
	assert.Equal(t, float64(1), out.GetCounter().GetValue())

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
