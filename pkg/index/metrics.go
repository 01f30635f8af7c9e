package index

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics for the index.
type Metrics struct {
	FileUpdatesTotal       prometheus.Counter
	FileRemovalsTotal      prometheus.Counter
	ImportResolutionsTotal *prometheus.CounterVec
	ImportMissesTotal      prometheus.Counter
	SymbolsTotal           prometheus.Gauge
}

// NewMetrics creates the index metrics, registering them when a registry is
// provided.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		FileUpdatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "protolens_index_file_updates_total",
			Help: "Total number of file updates applied to the index",
		}),
		FileRemovalsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "protolens_index_file_removals_total",
			Help: "Total number of files removed from the index",
		}),
		ImportResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protolens_index_import_resolutions_total",
				Help: "Total number of imports resolved, by strategy",
			},
			[]string{"strategy"},
		),
		ImportMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "protolens_index_import_misses_total",
			Help: "Total number of import resolution attempts that found no file",
		}),
		SymbolsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "protolens_index_symbols_total",
			Help: "Current number of entries in the symbol table",
		}),
	}

	if registry != nil {
		registry.MustRegister(
			m.FileUpdatesTotal,
			m.FileRemovalsTotal,
			m.ImportResolutionsTotal,
			m.ImportMissesTotal,
			m.SymbolsTotal,
		)
	}
	return m
}
