package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once          sync.Once
	metricsRouter *chi.Mux

	defaultHistogramBucketsSeconds = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	btcClientLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "btc_client_latency_seconds",
			Help:    "Histogram of btc client durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	btcTipHeightGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "btc_tip_height",
			Help: "The chain tip height observed at the start of the scan.",
		},
	)

	blocksScannedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scanner_blocks_scanned_total",
			Help: "The total number of blocks fetched and processed.",
		},
	)

	blocksSkippedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scanner_blocks_skipped_total",
			Help: "The total number of blocks skipped after retries were exhausted.",
		},
	)

	transactionsExaminedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scanner_transactions_examined_total",
			Help: "The total number of transactions examined.",
		},
	)

	stakesFoundCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scanner_stakes_found_total",
			Help: "The total number of valid staking transactions decoded.",
		},
	)

	payloadsRejectedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanner_payloads_rejected_total",
			Help: "The total number of OP_RETURN payloads rejected, by reason.",
		},
		[]string{"reason"},
	)

	scanDurationHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scanner_scan_duration_seconds",
			Help:    "Histogram of full scan durations in seconds.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)
)

// Init starts the metrics server on the given port.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

func RecordBTCClientLatency(duration time.Duration, method string, failure bool) {
	status := Success
	if failure {
		status = Error
	}
	btcClientLatency.WithLabelValues(method, status.String()).Observe(duration.Seconds())
}

func SetBtcTipHeight(height uint64) {
	btcTipHeightGauge.Set(float64(height))
}

func IncBlocksScanned() {
	blocksScannedCounter.Inc()
}

func IncBlocksSkipped() {
	blocksSkippedCounter.Inc()
}

func AddTransactionsExamined(n int) {
	transactionsExaminedCounter.Add(float64(n))
}

func IncStakesFound() {
	stakesFoundCounter.Inc()
}

func IncPayloadsRejected(reason string) {
	payloadsRejectedCounter.WithLabelValues(reason).Inc()
}

func ObserveScanDuration(duration time.Duration) {
	scanDurationHistogram.Observe(duration.Seconds())
}
