package middleware

import (
	"kiosk/shared"
	"kiosk/shared/constant"
	"kiosk/shared/timezone"
	"kiosk/transport/http/response"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const cacheKeyRateLimit = "limiter"

// RateLimit counts requests per kiosk in fixed Redis windows. A kiosk is its tenant, address and user agent.
// The window index is part of the key and the counter is bumped atomically, so concurrent requests never share a count.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	limits := a.config.App.RateLimiter

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limits.Enable || limits.WindowSeconds <= 0 {
				next.ServeHTTP(w, r)

				return
			}

			window := timezone.Now().Unix() / int64(limits.WindowSeconds)
			key := shared.BuildCacheKey(cacheKeyRateLimit, a.requestSource(r), clientIP(r), userAgent(r), strconv.FormatInt(window, 10))

			count, ok := a.hit(r, key, time.Duration(limits.WindowSeconds)*time.Second)
			if !ok {
				next.ServeHTTP(w, r)

				return
			}

			if count > limits.MaxRequests {
				response.WithRequestLimitExceeded(w)

				return
			}

			header := w.Header()
			header.Set(constant.RequestHeaderRateLimit, strconv.Itoa(limits.MaxRequests))
			header.Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, limits.MaxRequests-count)))
			header.Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limits.WindowSeconds))

			next.ServeHTTP(w, r)
		})
	}
}

// hit returns the request count including this one. ok is false when the counter is unavailable and the request should pass.
func (a *appMiddleware) hit(r *http.Request, key string, window time.Duration) (count int, ok bool) {
	n, err := a.cache.Incr(r.Context(), key, window)
	if err != nil {
		log.Warn().Err(err).Msg("rate limiter unavailable, letting request through")

		return 0, false
	}

	return int(n), true
}

func userAgent(r *http.Request) string {
	if ua := r.UserAgent(); ua != constant.Empty {
		return ua
	}

	return "unknown"
}

// clientIP reads the peer address. chi's RealIP has already replaced it with the forwarded address when a proxy set one.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
