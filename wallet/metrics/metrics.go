package metrics

import (
	"sync"

	"github.com/kaspanet/txgenerator/wallet/generator"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kaspatxgen_generator"

var (
	registry = prometheus.NewRegistry()

	prometheusTransactions    *prometheus.CounterVec
	prometheusFees            prometheus.Counter
	prometheusUTXOsConsumed   prometheus.Counter
	prometheusTransactionMass prometheus.Histogram
	prometheusSubmissions     *prometheus.CounterVec

	// only init the metrics once
	prometheusMetricsInitOnce sync.Once
)

// Submission results
const (
	resultAccepted      = "accepted"
	resultNetworkError  = "network_error"
	resultRejected      = "rejected"
	resultAlreadyIssued = "already_submitted"
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	factory := promauto.With(registry)

	prometheusTransactions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Number of transactions emitted by the generator",
		},
		[]string{
			"kind", // compound or final
		},
	)
	prometheusFees = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fees_sompi_total",
			Help:      "Sum of the fees of emitted transactions, in sompi",
		},
	)
	prometheusUTXOsConsumed = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "utxos_consumed_total",
			Help:      "Number of entries spent by emitted transactions",
		},
	)
	prometheusTransactionMass = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transaction_mass",
			Help:      "Mass of emitted transactions",
			Buckets:   []float64{1_000, 2_500, 5_000, 10_000, 25_000, 50_000, 75_000, 100_000},
		},
	)
	prometheusSubmissions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Number of submission attempts by result",
		},
		[]string{
			"result",
		},
	)
}

// RecordTransaction accounts for a transaction emitted by the generator.
func RecordTransaction(pending *generator.PendingTransaction) {
	initPrometheusMetrics()

	prometheusTransactions.WithLabelValues(pending.Kind().String()).Inc()
	prometheusFees.Add(float64(pending.Fee()))
	prometheusUTXOsConsumed.Add(float64(len(pending.Entries())))
	prometheusTransactionMass.Observe(float64(pending.Mass()))
}

// RecordSubmission accounts for the outcome of a single submission attempt.
func RecordSubmission(err error) {
	initPrometheusMetrics()

	prometheusSubmissions.WithLabelValues(submissionResult(err)).Inc()
}

func submissionResult(err error) string {
	switch {
	case err == nil:
		return resultAccepted
	case errors.Is(err, generator.ErrAlreadySubmitted):
		return resultAlreadyIssued
	case errors.Is(err, generator.ErrNetwork):
		return resultNetworkError
	default:
		return resultRejected
	}
}

// Gatherer exposes the registry the collectors are registered with.
func Gatherer() prometheus.Gatherer {
	initPrometheusMetrics()
	return registry
}

// WriteToTextfile writes the current values in the text exposition format,
// for consumption by the node exporter's textfile collector.
func WriteToTextfile(path string) error {
	initPrometheusMetrics()
	log.Debugf("Writing metrics to %s", path)
	return errors.WithStack(prometheus.WriteToTextfile(path, registry))
}
