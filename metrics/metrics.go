package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "styler_provider_calls_total",
			Help: "Total number of AI provider calls",
		},
		[]string{"operation", "status"},
	)

	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "styler_provider_call_duration_seconds",
			Help:    "Duration of AI provider calls in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"operation"},
	)

	PlaceholderImages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "styler_placeholder_images_total",
			Help: "Number of clothing items rendered with the placeholder image",
		},
	)

	FeedbackSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "styler_feedback_submissions_total",
			Help: "Feedback submissions by rating and outcome",
		},
		[]string{"rating", "status"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "styler_active_sessions",
			Help: "Number of style board sessions held in memory",
		},
	)
)
