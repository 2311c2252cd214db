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

func newTestRouter(l *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("request_id", "req-1")
		c.Next()
	})
	r.Use(Recovery(l), GinMiddleware(l))
	return r
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"ok", http.StatusOK, zapcore.InfoLevel},
		{"client error", http.StatusNotFound, zapcore.WarnLevel},
		{"server error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			r := newTestRouter(zap.New(core))
			r.GET("/api/v1/obligations/:id", func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/obligations/abc?x=1", nil))

			logs := recorded.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.level, logs[0].Level)
			fields := logs[0].ContextMap()
			assert.Equal(t, "req-1", fields["request_id"])
			assert.Equal(t, "/api/v1/obligations/:id", fields["route"])
			assert.Equal(t, "x=1", fields["query"])
		})
	}
}

func TestGinMiddleware_PropagatesLoggerToRequestContext(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	r := newTestRouter(zap.New(core))
	r.GET("/ping", func(c *gin.Context) {
		assert.Equal(t, "req-1", GetRequestID(c.Request.Context()))
		L(c.Request.Context()).Info("from service")
		GetGinLogger(c).Debug("from handler")
		c.Status(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	logs := recorded.All()
	require.Len(t, logs, 3)
	for _, entry := range logs {
		assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
	}
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	r := newTestRouter(zap.New(core))
	r.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var panicLogged bool
	for _, entry := range recorded.All() {
		if entry.Message == "Panic recovered" {
			panicLogged = true
		}
	}
	assert.True(t, panicLogged)
}

func TestGetGinLogger_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))
}
