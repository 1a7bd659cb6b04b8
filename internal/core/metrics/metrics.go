package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ShipmentsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oceantracker_shipments_created_total",
		Help: "Total number of shipments created, by origin of the request.",
	},
		[]string{"source"},
	)

	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oceantracker_transitions_total",
		Help: "Total number of applied shipment status transitions.",
	},
		[]string{"action"},
	)

	TransitionErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oceantracker_transition_errors_total",
		Help: "Total number of rejected or failed shipment transitions.",
	},
		[]string{"action", "reason"},
	)

	TrackingCacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oceantracker_tracking_cache_lookups_total",
		Help: "Public tracking lookups served from or missed in the cache.",
	},
		[]string{"result"},
	)

	EventPublishFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oceantracker_event_publish_failures_total",
		Help: "Shipment events that could not be delivered to the configured sink.",
	},
		[]string{"sink"},
	)
)

// Handler exposes the default registry for Fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
