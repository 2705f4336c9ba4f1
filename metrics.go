package datatable

import (
	"github.com/prometheus/client_golang/prometheus"
)

type engineMetrics struct {
	selectorsResolved     *prometheus.CounterVec
	selectorErrors        *prometheus.CounterVec
	columnsMaterialized   *prometheus.CounterVec
	materializeSeconds    prometheus.Histogram
	copyOnWrite           prometheus.Counter
	persistedBufferBytes  prometheus.Counter
	compressedBlockDecode prometheus.Counter
}

func newEngineMetrics() *engineMetrics {
	return &engineMetrics{
		selectorsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "datatable_selectors_resolved_total",
			Help: "Total number of row selectors resolved into row indexes, by selector kind",
		}, []string{"kind"}),
		selectorErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "datatable_selector_errors_total",
			Help: "Total number of row selectors rejected, by error kind",
		}, []string{"error"}),
		columnsMaterialized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "datatable_columns_materialized_total",
			Help: "Total number of columns converted to a physical representation, by target",
		}, []string{"target"}),
		materializeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "datatable_materialize_seconds",
			Help:    "Time taken to materialize a column in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		copyOnWrite: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "datatable_column_copy_on_write_total",
			Help: "Total number of column representations cloned before being modified",
		}),
		persistedBufferBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "datatable_persisted_buffer_bytes_total",
			Help: "Total number of bytes written to persistent column buffers",
		}),
		compressedBlockDecode: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "datatable_compressed_block_decodes_total",
			Help: "Total number of blocks of compressed columns decoded",
		}),
	}
}

func (m *engineMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.selectorsResolved,
		m.selectorErrors,
		m.columnsMaterialized,
		m.materializeSeconds,
		m.copyOnWrite,
		m.persistedBufferBytes,
		m.compressedBlockDecode,
	}
}

var metrics = newEngineMetrics()

// RegisterMetrics registers the collectors of the package with reg.
// Registering the same collectors twice is not an error.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, collector := range metrics.collectors() {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// UnregisterMetrics removes the collectors of the package from reg.
func UnregisterMetrics(reg prometheus.Registerer) {
	for _, collector := range metrics.collectors() {
		reg.Unregister(collector)
	}
}
