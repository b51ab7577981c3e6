package metrics

import (
	"net/http"

	"github.com/ChiefVishPat/payroll-sentinel/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records assessment outcomes for the /metrics endpoint
type Collector struct {
	registry              *prometheus.Registry
	assessmentsTotal      *prometheus.CounterVec
	assessmentFailures    prometheus.Counter
	alertsSent            prometheus.Counter
	riskScoreDistribution prometheus.Histogram
}

// NewCollector creates a collector backed by a private registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		assessmentsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "assessments_total",
			Help: "Total number of completed risk assessments by risk level",
		}, []string{"risk_level"}),
		assessmentFailures: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "assessment_failures_total",
			Help: "Total number of failed risk assessments",
		}),
		alertsSent: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "alerts_sent_total",
			Help: "Total number of risk alerts delivered",
		}),
		riskScoreDistribution: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "risk_score_distribution",
			Help:    "Distribution of computed risk scores",
			Buckets: []float64{0, 20, 40, 60, 80, 100},
		}),
	}
}

// AssessmentCompleted records a successful assessment
func (c *Collector) AssessmentCompleted(level models.RiskLevel, score int) {
	c.assessmentsTotal.WithLabelValues(string(level)).Inc()
	c.riskScoreDistribution.Observe(float64(score))
}

// AssessmentFailed records a failed assessment
func (c *Collector) AssessmentFailed() {
	c.assessmentFailures.Inc()
}

// AlertSent records a delivered risk alert
func (c *Collector) AlertSent() {
	c.alertsSent.Inc()
}

// Handler exposes the registry over HTTP
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
