// Package metrics defines all custom Prometheus metrics for the CRM API.
// It is the single source of truth for metric names, labels, and help
// strings. Metrics self-register with the default registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// ClientsCreatedTotal counts newly created client records.
var ClientsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clients_created_total",
		Help:      "Total number of client records created.",
	},
)

// InvoicesCreatedTotal counts newly created invoices.
// Label:
//   - status: "paid", "partially_paid", or "unpaid"
var InvoicesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoices_created_total",
		Help:      "Total number of invoices created, by payment status.",
	},
	[]string{"status"},
)

// ClientSearchesTotal counts executed client searches.
// Label:
//   - mode: "full" (unbounded) or "paged"
var ClientSearchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_searches_total",
		Help:      "Total number of client searches executed, by mode.",
	},
	[]string{"mode"},
)

// SearchDuration measures how long a search takes, store round-trip included.
// Label:
//   - entity: the searched entity ("client")
var SearchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "Duration of search execution including the store round-trip.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"entity"},
)

// StatsCacheTotal counts monthly-statistics cache lookups.
// Label:
//   - result: "hit", "miss", or "error"
var StatsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_total",
		Help:      "Total number of statistics cache lookups, by result.",
	},
	[]string{"result"},
)
