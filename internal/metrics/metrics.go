// Package metrics exposes Prometheus collectors for the scrape pipeline
// and the dashboard API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every collector the tracker records.
type Metrics struct {
	PagesFetched      *prometheus.CounterVec
	RecordsExtracted  *prometheus.CounterVec
	SnapshotsAccepted *prometheus.CounterVec
	SnapshotsRejected *prometheus.CounterVec
	BackupsCreated    prometheus.Counter
	ProductCount      *prometheus.GaugeVec
	ScrapeDuration    *prometheus.HistogramVec
}

// New registers the tracker's collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PagesFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pricetracker_pages_fetched_total",
			Help: "Listing pages fetched, by competitor and outcome.",
		}, []string{"competitor", "outcome"}),
		RecordsExtracted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pricetracker_records_extracted_total",
			Help: "Product records extracted from listing pages.",
		}, []string{"competitor"}),
		SnapshotsAccepted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pricetracker_snapshots_accepted_total",
			Help: "Snapshots that passed validation and were persisted.",
		}, []string{"competitor"}),
		SnapshotsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pricetracker_snapshots_rejected_total",
			Help: "Snapshots rejected for dropping too far below the previous count.",
		}, []string{"competitor"}),
		BackupsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricetracker_backups_created_total",
			Help: "Dataset backups written before accepted updates.",
		}),
		ProductCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pricetracker_products",
			Help: "Products currently persisted, by competitor.",
		}, []string{"competitor"}),
		ScrapeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pricetracker_scrape_duration_seconds",
			Help:    "Wall time of one competitor scrape.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"competitor"}),
	}
}

// NewDefault registers on the default Prometheus registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
