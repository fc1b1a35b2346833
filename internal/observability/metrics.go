package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	transferOutcomeCounter *prometheus.CounterVec
	storeRetryCounter      prometheus.Counter
	ledgerImbalanceCounter prometheus.Counter
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		transferOutcomeCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_transfers_total",
			Help: "Transfer commit attempts by outcome",
		}, []string{"outcome"})

		storeRetryCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "store_busy_retries_total",
			Help: "Number of store operations retried after transient contention",
		})

		ledgerImbalanceCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_imbalance_total",
			Help: "Number of accounts whose balance diverged from their ledger flows",
		})

		prometheus.MustRegister(
			transferOutcomeCounter,
			storeRetryCounter,
			ledgerImbalanceCounter,
		)
	})
}

func IncrementTransferOutcome(outcome string) {
	if transferOutcomeCounter == nil {
		return
	}
	transferOutcomeCounter.WithLabelValues(outcome).Inc()
}

func IncrementStoreRetry() {
	if storeRetryCounter == nil {
		return
	}
	storeRetryCounter.Inc()
}

func IncrementLedgerImbalance() {
	if ledgerImbalanceCounter == nil {
		return
	}
	ledgerImbalanceCounter.Inc()
}
