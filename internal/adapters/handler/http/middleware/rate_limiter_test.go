package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupTestRedis(t *testing.T) *redis.Client {
	_ = godotenv.Load("../../../../../.env")

	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       1,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping integration test (Redis down): %v", err)
	}

	rdb.FlushDB(ctx)
	return rdb
}

func hit(router *gin.Engine, path, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiterMiddleware_Integration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb := setupTestRedis(t)
	defer rdb.Close()

	ctx := context.Background()

	newRouter := func(limit int) *gin.Engine {
		router := gin.New()
		router.Use(RateLimiterMiddleware(rdb, limit, time.Minute))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	t.Run("Allow requests under the limit", func(t *testing.T) {
		rdb.FlushDB(ctx)
		limit := 5
		router := newRouter(limit)

		for i := 1; i <= limit; i++ {
			w := hit(router, "/test", "192.168.1.100")

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, fmt.Sprintf("%d", limit-i), w.Header().Get("X-RateLimit-Remaining"))
		}

		ttl, err := rdb.TTL(ctx, "rate_limit:192.168.1.100").Result()
		assert.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0), "the window key must expire")
	})

	t.Run("Block requests over the limit", func(t *testing.T) {
		rdb.FlushDB(ctx)
		router := newRouter(2)

		assert.Equal(t, http.StatusOK, hit(router, "/test", "192.168.1.101").Code)
		assert.Equal(t, http.StatusOK, hit(router, "/test", "192.168.1.101").Code)

		w := hit(router, "/test", "192.168.1.101")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "too many requests")

		assert.Equal(t, http.StatusOK, hit(router, "/test", "192.168.1.102").Code, "other clients are unaffected")
	})
}

func TestRateLimiterMiddleware_FailOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	badRdb := redis.NewClient(&redis.Options{Addr: "localhost:9999", DialTimeout: 100 * time.Millisecond})
	defer badRdb.Close()

	router := gin.New()
	router.Use(RateLimiterMiddleware(badRdb, 5, time.Minute))
	router.GET("/test-fail-open", func(c *gin.Context) { c.String(http.StatusOK, "passed") })

	w := hit(router, "/test-fail-open", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "passed", w.Body.String())
}
