package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
	"github.com/nate123456/proof-editor-sub008/pkg/ratelimit"
)

// retryAfterer is implemented by limiters that can say when a key frees up
type retryAfterer interface {
	RetryAfter(key string) time.Duration
}

// RateLimit rejects callers that exceed the limiter's budget with 429. It
// keys on RemoteAddr, so mount it after RealIP.
func RateLimit(limiter ratelimit.Limiter, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + clientIP(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("Rate limiter failed, admitting request", zap.String("key", key), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				if ra, ok := limiter.(retryAfterer); ok {
					seconds := int(math.Ceil(ra.RetryAfter(key).Seconds()))
					w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
				}
				errorHandler.HandleStatus(w, r, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
