package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished = "events_published_total"
)

// Raffle metric names
const (
	MetricNameRanksAssigned          = "raffle_ranks_assigned_total"
	MetricNameAssignmentFailures     = "raffle_assignment_failures_total"
	MetricNameTxRetries              = "raffle_tx_retries_total"
	MetricNameOperationDuration      = "raffle_operation_duration_seconds"
	MetricNameRafflesStarted         = "raffle_starts_total"
	MetricNameRafflesReset           = "raffle_resets_total"
	MetricNameResetBatches           = "raffle_reset_batches_total"
	MetricNamePoolRemaining          = "raffle_pool_remaining"
	MetricNameParticipantsRegistered = "raffle_participants_registered_total"
	MetricNameParticipantsJoined     = "raffle_participants_joined_total"
	MetricNameParticipantsRemoved    = "raffle_participants_removed_total"
	MetricNameAdminAuthFailures      = "raffle_admin_auth_failures_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished = "Total number of events published"
)

// Raffle metric help text
const (
	HelpTextRanksAssigned          = "Total number of ranks handed out"
	HelpTextAssignmentFailures     = "Assignment attempts rejected, by reason"
	HelpTextTxRetries              = "Transactions re-executed after a write conflict"
	HelpTextOperationDuration      = "Raffle service operation latency in seconds"
	HelpTextRafflesStarted         = "Total number of raffle starts"
	HelpTextRafflesReset           = "Total number of raffle resets"
	HelpTextResetBatches           = "Participant batches cleared by resets"
	HelpTextPoolRemaining          = "Ranks still available in the pool as last seen by this process"
	HelpTextParticipantsRegistered = "Total number of participants registered"
	HelpTextParticipantsJoined     = "Participants who logged in for the first time"
	HelpTextParticipantsRemoved    = "Participants removed by an admin"
	HelpTextAdminAuthFailures      = "Rejected admin codes"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelReason    = "reason"
	LabelOperation = "operation"
)

// Assignment failure reasons
const (
	ReasonNotActive           = "not_active"
	ReasonAlreadyParticipated = "already_participated"
	ReasonPoolExhausted       = "pool_exhausted"
	ReasonNotFound            = "not_found"
	ReasonTransient           = "transient"
	ReasonTimeout             = "timeout"
	ReasonOther               = "other"
)

// UnmatchedRoute labels requests chi could not route
const UnmatchedRoute = "unmatched"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgUnexpectedPayload = "Event payload has unexpected type"
	LogMsgMetricsRecorded   = "Metrics recorded for event"
)
