package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"food-checker/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow(), "令牌用盡後應拒絕")
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimit(1, time.Minute))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestBodySizeLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(BodySizeLimit(10))
	router.POST("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/echo", strings.NewReader("tiny")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/echo", strings.NewReader("definitely more than ten bytes")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestDeduplication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{DedupWindow: time.Minute}

	router := gin.New()
	router.Use(Deduplication(cfg))
	router.POST("/check", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/item", func(c *gin.Context) { c.Status(http.StatusOK) })

	body := `{"item": "apple"}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/check", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	// 窗口內相同請求體被攔下
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/check", strings.NewReader(body)))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// 不同請求體放行
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/check", strings.NewReader(`{"item": "banana"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	// GET 不做去重
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/item", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/item", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
