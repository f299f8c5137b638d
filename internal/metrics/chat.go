package metrics

import "github.com/prometheus/client_golang/prometheus"

// Chat-completion Prometheus metrics. The "call" label is the composition
// step: primary, secondary, merge or followup.
var (
	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Total number of chat completion requests",
		},
		[]string{"provider", "call", "status"},
	)

	ChatRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chat_request_duration_seconds",
			Help:      "Chat completion duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"provider", "call"},
	)

	ChatTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_tokens_total",
			Help:      "Total chat completion tokens consumed",
		},
		[]string{"provider", "model", "type"}, // type: prompt / completion
	)

	AnswerOutcomeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answer_outcome_total",
			Help:      "Answer composition outcomes",
		},
		// merged, primary_only, secondary_only, merge_failed, all_failed, no_context, search_error
		[]string{"outcome"},
	)

	FollowUpOutcomeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "followup_outcome_total",
			Help:      "Follow-up question generation outcomes",
		},
		[]string{"outcome"}, // shortcut, generated, fallback
	)
)

var chatMetricsRegistered bool

// RegisterChatMetrics registers chat and composition metrics. Must be called once from main.
func RegisterChatMetrics() {
	if chatMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		ChatRequestsTotal,
		ChatRequestDuration,
		ChatTokensTotal,
		AnswerOutcomeTotal,
		FollowUpOutcomeTotal,
	)
	chatMetricsRegistered = true
}
