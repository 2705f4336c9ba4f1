package datatable_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segmentio/datatable-go"
)

// counterValue returns the sum of the samples of the counter named name
// whose labels include the given name/value pairs.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels ...string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	sum := 0.0
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range family.GetMetric() {
			for i := 0; i+1 < len(labels); i += 2 {
				found := false
				for _, pair := range metric.GetLabel() {
					if pair.GetName() == labels[i] && pair.GetValue() == labels[i+1] {
						found = true
					}
				}
				if !found {
					continue metrics
				}
			}
			sum += metric.GetCounter().GetValue()
		}
	}
	return sum
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, datatable.RegisterMetrics(reg))
	require.NoError(t, datatable.RegisterMetrics(reg))
	defer datatable.UnregisterMetrics(reg)

	f := sequenceFrame(t, 5)
	defer f.Release()

	resolved := counterValue(t, reg, "datatable_selectors_resolved_total", "kind", "slice")
	rejected := counterValue(t, reg, "datatable_selector_errors_total", "error", "ValueError")
	materialized := counterValue(t, reg, "datatable_columns_materialized_total", "target", "memory")
	copies := counterValue(t, reg, "datatable_column_copy_on_write_total")

	_, err := datatable.ResolveSelector(datatable.Slice{Start: 1}, f)
	require.NoError(t, err)
	_, err = datatable.ResolveSelector(7, f)
	require.Error(t, err)

	c := datatable.NewInt32Column([]int32{1, 2, 3})
	defer c.Release()
	c.ApplyRowIndex(datatable.NewArithmeticRowIndex(0, 2, 1))
	require.NoError(t, c.Materialize(true))

	d := c.Clone()
	defer d.Release()
	d.DataEditable(0)

	assert.Equal(t, resolved+1, counterValue(t, reg, "datatable_selectors_resolved_total", "kind", "slice"))
	assert.Equal(t, rejected+1, counterValue(t, reg, "datatable_selector_errors_total", "error", "ValueError"))
	assert.Equal(t, materialized+1, counterValue(t, reg, "datatable_columns_materialized_total", "target", "memory"))
	assert.Equal(t, copies+1, counterValue(t, reg, "datatable_column_copy_on_write_total"))
}
