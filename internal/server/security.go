package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/logger"
)

// AdminAuthenticator checks an admin code
type AdminAuthenticator interface {
	AuthenticateAdmin(ctx context.Context, code string) error
}

// AdminAuthMiddleware requires a valid X-Admin-Code header. Clients that send
// too many wrong codes are locked out for the lockout window.
func AdminAuthMiddleware(auth AdminAuthenticator, lockout *AdminLockout, trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContext(r.Context())
			ip := extractIP(r, trustedProxies)

			if lockout.Locked(ip) {
				log.Warn(LogMsgLockedOut, "ip", ip, "path", r.URL.Path)
				http.Error(w, ErrMsgLockedOut, http.StatusTooManyRequests)
				return
			}

			code := r.Header.Get(HeaderAdminCode)
			err := auth.AuthenticateAdmin(r.Context(), code)
			switch {
			case err == nil:
				lockout.RecordSuccess(ip)
				next.ServeHTTP(w, r)

			case errors.Is(err, domain.ErrUnauthorized):
				locked := lockout.RecordFailure(ip)
				detector.RecordFailedAuth(ip)
				log.Warn(LogMsgAuthFailed,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"has_code", code != "",
					"locked", locked,
					"ip", ip)
				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)

			default:
				// The pool is missing or the store is down; not the client's fault
				log.Error(LogMsgAuthCheckFailed, "error", err, "path", r.URL.Path)
				http.Error(w, ErrMsgAuthUnavailable, http.StatusServiceUnavailable)
			}
		})
	}
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SuspiciousActivityDetector tracks and alerts on suspicious patterns
type SuspiciousActivityDetector struct {
	failedAuth   *windowCounter
	requests     *windowCounter
	requestLimit int
}

// NewSuspiciousActivityDetector allows requestLimit requests per client per window
func NewSuspiciousActivityDetector(requestLimit int, window time.Duration) *SuspiciousActivityDetector {
	if requestLimit <= 0 {
		requestLimit = DefaultRequestLimit
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &SuspiciousActivityDetector{
		failedAuth:   newWindowCounter(TrackedClients, window),
		requests:     newWindowCounter(TrackedClients, window),
		requestLimit: requestLimit,
	}
}

// RecordFailedAuth records a failed authentication attempt
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	if n := s.failedAuth.incr(ip); n >= FailedAuthAlertThreshold {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", n)
	}
}

// RecordRequest records a request for rate monitoring and returns false if rate limit exceeded
func (s *SuspiciousActivityDetector) RecordRequest(ip string) bool {
	n := s.requests.incr(ip)
	if n > s.requestLimit {
		if n%100 == 0 { // Log every 100 requests to avoid log spam
			slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", n)
		}
		return false
	}
	return true
}

// SecurityLoggingMiddleware enforces the per-client request rate limit
func SecurityLoggingMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractIP(r, trustedProxies)

			if !detector.RecordRequest(ip) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractIP gets the client IP address from request.
// It only trusts X-Forwarded-For if the request comes from a trusted proxy.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	isTrusted := false
	for _, proxy := range trustedProxies {
		if proxy == remoteIP {
			isTrusted = true
			break
		}
	}

	if isTrusted {
		forwarded := r.Header.Get(HeaderForwardedFor)
		if forwarded != "" {
			// For X-Forwarded-For: client, proxy1, proxy2
			// We want the rightmost IP (the one that connected to our trusted proxy)
			// since we trust the proxy to accurately report the previous hop.
			ips := strings.Split(forwarded, ",")
			return strings.TrimSpace(ips[len(ips)-1])
		}
	}

	return remoteIP
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME sniffing
			w.Header().Set(HeaderContentType, HeaderValueNoSniff)
			// Prevent clickjacking
			w.Header().Set(HeaderFrameOptions, HeaderValueSameOrigin)
			// Enable XSS protection (for older browsers)
			w.Header().Set(HeaderXSSProtection, HeaderValueXSSBlock)
			// Control referrer information
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)

			next.ServeHTTP(w, r)
		})
	}
}
