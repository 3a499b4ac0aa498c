package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	WebhookEvents       *prometheus.CounterVec
	ScenesGenerated     prometheus.Counter
	SceneRenderFailures prometheus.Counter
	MementosMinted      *prometheus.CounterVec
	RewardAnnouncements *prometheus.CounterVec
	ConfusionInjections prometheus.Counter
	ActiveConversations prometheus.Gauge
	TurnLatency         prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		WebhookEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Webhook events by event type and outcome.",
		}, []string{"event", "outcome"}),
		ScenesGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenes_generated_total",
			Help:      "Scene comic generations triggered.",
		}),
		SceneRenderFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scene_render_failures_total",
			Help:      "Scene renderer calls that degraded to the fallback panel.",
		}),
		MementosMinted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mementos_minted_total",
			Help:      "Mementos minted by type.",
		}, []string{"type"}),
		RewardAnnouncements: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reward_announcements_total",
			Help:      "Reward tier transitions announced, by tier.",
		}, []string{"tier"}),
		ConfusionInjections: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confusion_injections_total",
			Help:      "Responses overridden by a confusion template.",
		}),
		ActiveConversations: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_conversations",
			Help:      "Number of conversations currently tracked in memory.",
		}),
		TurnLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_processing_ms",
			Help:      "End-to-end processing latency per webhook event in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}),
	}
}

func (m *Metrics) ObserveTurnLatency(d time.Duration) {
	m.TurnLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
