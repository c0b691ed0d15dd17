package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"regintel-backend/cache"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags each request with an id, honoring one supplied by the
// caller so upstream proxies can correlate logs
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RateLimit rejects clients exceeding perMinute requests to a path within
// a one minute window. Counters live in the shared cache keyed by client
// IP and path; without a cache the limiter is a no-op so degraded starts
// stay reachable, and counter store errors fail open.
func RateLimit(store *cache.Cache, perMinute int, log zerolog.Logger) gin.HandlerFunc {
	if store == nil || perMinute <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.Request.URL.Path
		count, err := store.IncrementWithTTL(c.Request.Context(), "ratelimit", key, time.Minute)
		if err != nil {
			log.Warn().Err(err).Msg("rate limit counter unavailable")
			c.Next()
			return
		}
		if count > int64(perMinute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "Rate limit exceeded",
				},
			})
			return
		}
		c.Next()
	}
}

// RequestSizeLimit rejects request bodies whose declared length exceeds
// maxBytes
func RequestSizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "REQUEST_TOO_LARGE",
					"message": "Request body too large",
				},
			})
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request with the request id, method,
// route and outcome
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		log.Info().
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	}
}
