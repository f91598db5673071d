package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
	ErrMsgLockedOut       = "Too many failed admin attempts. Try again later."
	ErrMsgAuthUnavailable = "Admin authentication is unavailable"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "⚠️ SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "⚠️ SECURITY ALERT: Blocking high request rate"
	SecurityAlertLockout    = "⚠️ SECURITY ALERT: Admin access locked for client"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Admin authentication failed"
	LogMsgAuthCheckFailed  = "Admin authentication could not be checked"
	LogMsgLockedOut        = "Admin request rejected during lockout"
)

// HTTP header names
const (
	HeaderAdminCode      = "X-Admin-Code"
	HeaderAuthorization  = "Authorization"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// Paths whose requests are not logged
var QuietPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
}

// Header redaction marker
const (
	RedactedValue = "[REDACTED]"
)

// Rate limiting and lockout defaults
const (
	// DefaultRequestLimit is the number of requests one client may make per window
	DefaultRequestLimit = 1000
	DefaultRateWindow   = 5 * time.Minute

	// FailedAuthAlertThreshold is where repeated bad admin codes start being logged as alerts
	FailedAuthAlertThreshold = 5

	DefaultAdminMaxFailedAttempts = 5
	DefaultAdminLockoutWindow     = 15 * time.Minute

	// TrackedClients bounds the per-client state kept by the detector and the lockout
	TrackedClients = 10000

	DefaultMaxRequestBodyBytes = 1 << 20
	ReadHeaderTimeout          = 5 * time.Second
)
