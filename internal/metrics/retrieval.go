package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval and speech Prometheus metrics.
var (
	RetrievalPathTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_path_total",
			Help:      "Hybrid search executions by path taken",
		},
		[]string{"path"}, // vector, hybrid, keyword, keyword_fallback, empty
	)

	RetrievalResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_results",
			Help:      "Number of chunks returned by hybrid search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	SpeechRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speech_requests_total",
			Help:      "Total number of speech provider requests",
		},
		[]string{"op", "status"}, // op: synthesize / transcribe
	)

	SpeechRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "speech_request_duration_seconds",
			Help:      "Speech provider request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"op"},
	)

	SpeechAudioBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "speech_audio_bytes",
			Help:      "Audio payload size in bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 9), // 1KiB .. 64MiB
		},
		[]string{"op"},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers retrieval and speech metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		RetrievalPathTotal,
		RetrievalResults,
		SpeechRequestsTotal,
		SpeechRequestDuration,
		SpeechAudioBytes,
	)
	retrievalMetricsRegistered = true
}
