// Package metrics defines and registers the custom Prometheus metrics for the
// HBnB API. Metrics are registered with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hbnb"

// EntitiesCreatedTotal counts entities created through the API.
// Label:
//   - kind: "user", "place", "amenity" or "review"
var EntitiesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entities_created_total",
		Help:      "Total number of entities created, by kind.",
	},
	[]string{"kind"},
)

// EntitiesDeletedTotal counts entities deleted through the API, cascades excluded.
var EntitiesDeletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entities_deleted_total",
		Help:      "Total number of entities deleted, by kind.",
	},
	[]string{"kind"},
)

// RequestErrorsTotal counts requests rejected by the core.
// Label:
//   - class: "validation", "relationship", "business_rule", "not_found",
//     "forbidden", "unauthorized" or "internal"
var RequestErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_errors_total",
		Help:      "Total number of failed requests, by error class.",
	},
	[]string{"class"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
