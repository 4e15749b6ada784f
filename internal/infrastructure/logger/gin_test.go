package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newObservedRouter(level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
	core, recorded := observer.New(level)
	l := zap.New(core)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), "req-1"))
		c.Next()
	})
	r.Use(GinMiddleware(l), Recovery(l))
	return r, recorded
}

func TestGinMiddleware(t *testing.T) {
	r, recorded := newObservedRouter(zapcore.InfoLevel)
	r.GET("/reservations/:id", func(c *gin.Context) {
		FromContext(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reservations/5?include=all", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	logs := recorded.All()
	require.Len(t, logs, 2)
	assert.Equal(t, "req-1", logs[0].ContextMap()["request_id"])

	entry := logs[1]
	assert.Equal(t, "HTTP Request", entry.Message)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, int64(200), fields["status"])
	assert.Equal(t, "/reservations/:id", fields["route"])
	assert.Equal(t, "include=all", fields["query"])
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		r, recorded := newObservedRouter(zapcore.DebugLevel)
		r.GET("/x", func(c *gin.Context) { c.Status(tt.status) })

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, tt.level, recorded.All()[0].Level, "status %d", tt.status)
	}
}

func TestRecovery(t *testing.T) {
	r, recorded := newObservedRouter(zapcore.InfoLevel)
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INTERNAL"`)
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}
