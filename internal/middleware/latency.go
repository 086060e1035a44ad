package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/escolacentral/escola-backend/internal/config"
)

// RecordLatency pushes each request's duration (ms) onto a capped Redis
// list. The security dashboard averages these samples; the list cap keeps
// the sample a trailing window without any timer.
func RecordLatency(rdb *redis.Client, sampleSize int64) gin.HandlerFunc {
	key := config.CacheKey.LatencySamplesKey()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := float64(time.Since(start).Microseconds()) / 1000.0
		// Best effort — never let metrics touch the request outcome.
		ctx := context.Background()
		pipe := rdb.Pipeline()
		pipe.LPush(ctx, key, strconv.FormatFloat(elapsed, 'f', 3, 64))
		pipe.LTrim(ctx, key, 0, sampleSize-1)
		_, _ = pipe.Exec(ctx)
	}
}
