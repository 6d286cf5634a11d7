package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chatTurns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "talkitout_chat_turns_total",
		Help: "Number of processed chat turns.",
	})

	classifierFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talkitout_classifier_failures_total",
		Help: "Classifier failures coerced to the safe default, by reason.",
	}, []string{"reason"})

	riskFlagsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talkitout_risk_flags_created_total",
		Help: "Risk flags created, by severity.",
	}, []string{"severity"})

	llmRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "talkitout_llm_request_duration_seconds",
		Help:    "Duration of external generation requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
)

func IncChatTurn() {
	chatTurns.Inc()
}

func IncClassifierFailure(reason string) {
	classifierFailures.WithLabelValues(reason).Inc()
}

func IncRiskFlagCreated(severity string) {
	riskFlagsCreated.WithLabelValues(severity).Inc()
}

func ObserveLLMRequest(d time.Duration, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "error"
	}
	llmRequestDuration.WithLabelValues(outcome).Observe(d.Seconds())
}
