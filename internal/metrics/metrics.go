// Package metrics holds the Prometheus collectors for social actions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Likes counts like actions by result: "created", "existing" or "removed".
	Likes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_likes_total",
			Help: "Total number of like actions by result",
		},
		[]string{"result"},
	)

	// Follows counts follow graph mutations: "created", "existing" or "removed".
	Follows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_follows_total",
			Help: "Total number of follow and unfollow actions by result",
		},
		[]string{"result"},
	)

	// Notifications counts fan-out decisions by verb and outcome: "emitted",
	// "suppressed" or "failed".
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_notifications_total",
			Help: "Total number of notification fan-out decisions",
		},
		[]string{"verb", "outcome"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
