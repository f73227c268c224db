package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mead/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
)

type ctxMarkerKey struct{}

func routeLabel(ctx context.Context) (string, bool) {
	return pprof.Label(ctx, telemetry.ProfilingLabelRoute)
}

func TestProfiling_LabelsRoute(t *testing.T) {
	var route, method string
	var ok bool

	r := gin.New()
	r.Use(Profiling(DefaultProfilingConfig()))
	r.GET("/api/v1/products/:id", func(c *gin.Context) {
		route, ok = routeLabel(c.Request.Context())
		method, _ = pprof.Label(c.Request.Context(), telemetry.ProfilingLabelMethod)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/123", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ok)
	assert.Equal(t, "/api/v1/products/:id", route)
	assert.Equal(t, http.MethodGet, method)
}

func TestProfiling_SkipPaths(t *testing.T) {
	var labelled bool

	r := gin.New()
	r.Use(Profiling(DefaultProfilingConfig()))
	r.GET("/health", func(c *gin.Context) {
		_, labelled = routeLabel(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, labelled)
}

func TestProfiling_Disabled(t *testing.T) {
	var labelled bool

	r := gin.New()
	r.Use(Profiling(ProfilingConfig{Enabled: false}))
	r.GET("/api/v1/cart", func(c *gin.Context) {
		_, labelled = routeLabel(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, labelled)
}

func TestProfiling_PreservesContextValues(t *testing.T) {
	var got any

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ctxMarkerKey{}, "kept"))
		c.Next()
	}, Profiling(DefaultProfilingConfig()))
	r.GET("/api/v1/cart", func(c *gin.Context) {
		got = c.Request.Context().Value(ctxMarkerKey{})
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	assert.Equal(t, "kept", got)
}
