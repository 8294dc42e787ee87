// Package metrics holds the prometheus collectors of the rating service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scorebrawl"

type Metrics struct {
	MatchesCreated      *prometheus.CounterVec
	MatchesReverted     prometheus.Counter
	AchievementsAwarded *prometheus.CounterVec
	ScanFailures        prometheus.Counter

	gatherer prometheus.Gatherer
}

func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		MatchesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_created_total",
			Help:      "Matches recorded, by season score type.",
		}, []string{"score_type"}),
		MatchesReverted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_reverted_total",
			Help:      "Matches deleted and reverted.",
		}),
		AchievementsAwarded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "achievements_awarded_total",
			Help:      "Achievements recorded for the first time, by type.",
		}, []string{"type"}),
		ScanFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "achievement_scan_failures_total",
			Help:      "Achievement scans that returned an error.",
		}),
		gatherer: registry,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
