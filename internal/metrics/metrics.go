package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExecutionsTotal counts terminal executions by direction and outcome
	ExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_executions_total",
			Help: "Total number of bridge executions by outcome",
		},
		[]string{"direction", "status"},
	)

	// ExecutionDuration tracks how long a claimed record takes to reach a terminal state
	ExecutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_execution_duration_seconds",
			Help:    "Execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"direction"},
	)

	// ExecutionAmount tracks the net amount moved per execution
	ExecutionAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_execution_amount",
			Help:    "Net amount moved per execution",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 10, 100, 1000, 10000},
		},
		[]string{"direction"},
	)

	// ClaimConflicts counts claims lost to another executor
	ClaimConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_claim_conflicts_total",
			Help: "Total number of lost compare-and-set claims",
		},
		[]string{"direction"},
	)

	// SightingsTotal counts first observations of user transfers
	SightingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_sightings_total",
			Help: "Total number of deposits observed on chain",
		},
		[]string{"chain"},
	)

	// ConfirmationsReached counts records that reached their confirmation threshold
	ConfirmationsReached = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_confirmations_reached_total",
			Help: "Total number of records that reached the confirmation threshold",
		},
		[]string{"chain"},
	)

	// RPCErrors counts failed chain RPC calls
	RPCErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_rpc_errors_total",
			Help: "Total number of failed chain RPC calls",
		},
		[]string{"chain", "method"},
	)

	// ErrorsTotal counts errors by type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// GasPayments counts gas payment intent transitions
	GasPayments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_gas_payments_total",
			Help: "Total number of gas payment intent transitions",
		},
		[]string{"status"},
	)

	// GasUsed tracks gas used for Ethereum transactions
	GasUsed = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_gas_used",
			Help:    "Gas used for Ethereum transactions",
			Buckets: []float64{21000, 50000, 100000, 200000, 300000, 500000},
		},
		[]string{"operation"},
	)

	// LastProcessedBlock tracks the last processed block number
	LastProcessedBlock = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bridge_last_processed_block",
			Help: "Last processed block number by chain",
		},
		[]string{"chain"},
	)

	// NotificationsSent counts live updates delivered to client queues
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_notifications_sent_total",
			Help: "Total number of live updates enqueued to clients",
		},
		[]string{"kind"},
	)

	// NotificationsDropped counts live updates that could not be delivered
	NotificationsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_notifications_dropped_total",
			Help: "Total number of live updates dropped",
		},
		[]string{"reason"},
	)

	// ConnectedClients tracks open live channels
	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bridge_connected_clients",
			Help: "Number of open live update channels",
		},
	)

	// PendingRecords tracks non-terminal records by kind and status
	PendingRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bridge_pending_records",
			Help: "Number of non-terminal bridge records",
		},
		[]string{"kind", "status"},
	)

	// StuckExecutions tracks records left in executing past the stuck threshold
	StuckExecutions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bridge_stuck_executions",
			Help: "Number of records in executing longer than the stuck threshold",
		},
				[]string{"kind"},
	)

	// ExpiredGasDeposits tracks confirmed direct payment deposits whose gas
	// payment expired before it was funded
	ExpiredGasDeposits = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bridge_expired_gas_deposits",
			Help: "Number of confirmed deposits blocked on an expired gas payment",
		},
	)
)
