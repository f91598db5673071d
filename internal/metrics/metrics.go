package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/osse101/ChitDraw_Go/internal/domain"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)
)

// Raffle Metrics
var (
	RanksAssigned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRanksAssigned,
			Help: HelpTextRanksAssigned,
		},
	)

	AssignmentFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAssignmentFailures,
			Help: HelpTextAssignmentFailures,
		},
		[]string{LabelReason},
	)

	TxRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTxRetries,
			Help: HelpTextTxRetries,
		},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameOperationDuration,
			Help:    HelpTextOperationDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelOperation},
	)

	RafflesStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRafflesStarted,
			Help: HelpTextRafflesStarted,
		},
	)

	RafflesReset = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRafflesReset,
			Help: HelpTextRafflesReset,
		},
	)

	ResetBatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameResetBatches,
			Help: HelpTextResetBatches,
		},
	)

	PoolRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNamePoolRemaining,
			Help: HelpTextPoolRemaining,
		},
	)

	ParticipantsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameParticipantsRegistered,
			Help: HelpTextParticipantsRegistered,
		},
	)

	ParticipantsJoined = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameParticipantsJoined,
			Help: HelpTextParticipantsJoined,
		},
	)

	ParticipantsRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameParticipantsRemoved,
			Help: HelpTextParticipantsRemoved,
		},
	)

	AdminAuthFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameAdminAuthFailures,
			Help: HelpTextAdminAuthFailures,
		},
	)
)

// ObserveOperation records how long a service operation took
func ObserveOperation(operation string, start time.Time) {
	OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordAssignmentFailure counts a rejected assignment under a bounded reason label
func RecordAssignmentFailure(err error) {
	AssignmentFailures.WithLabelValues(FailureReason(err)).Inc()
}

// FailureReason maps an assignment error to its metric label
func FailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrRaffleNotActive), errors.Is(err, domain.ErrPoolNotFound):
		return ReasonNotActive
	case errors.Is(err, domain.ErrAlreadyParticipated):
		return ReasonAlreadyParticipated
	case errors.Is(err, domain.ErrPoolExhausted):
		return ReasonPoolExhausted
	case errors.Is(err, domain.ErrParticipantNotFound):
		return ReasonNotFound
	case errors.Is(err, domain.ErrTransientFailure):
		return ReasonTransient
	case errors.Is(err, domain.ErrTimeout):
		return ReasonTimeout
	default:
		return ReasonOther
	}
}
