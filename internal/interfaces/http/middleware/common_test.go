package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentmgr/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestRequestID(t *testing.T) {
	newRouter := func(seen *string) *gin.Engine {
		r := gin.New()
		r.Use(RequestID())
		r.GET("/", func(c *gin.Context) {
			*seen = GetRequestID(c)
			c.Status(http.StatusOK)
		})
		return r
	}

	t.Run("generates when absent", func(t *testing.T) {
		var seen string
		w := perform(newRouter(&seen), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Len(t, seen, 32)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("reuses client header", func(t *testing.T) {
		var seen string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := perform(newRouter(&seen), req)
		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("truncates long header", func(t *testing.T) {
		var seen string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
		perform(newRouter(&seen), req)
		assert.Len(t, seen, MaxRequestIDLength)
	})
}

func TestCORSWithConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://app.example.com"}

	r := gin.New()
	r.Use(CORSWithConfig(cfg))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := perform(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := perform(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := perform(r, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("wildcard never sends credentials", func(t *testing.T) {
		wild := DefaultCORSConfig()
		wild.AllowOrigins = []string{"*"}
		r := gin.New()
		r.Use(CORSWithConfig(wild))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "https://any.example.com")
		w := perform(r, req)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestSecureWithConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r := gin.New()
		r.Use(SecureWithConfig(DefaultSecurityConfig()))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := perform(r, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Contains(t, w.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("hsts", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.HSTSEnabled = true
		r := gin.New()
		r.Use(SecureWithConfig(cfg))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := perform(r, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
	})
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), BodyLimit(16))
	r.POST("/", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	t.Run("within limit", func(t *testing.T) {
		w := perform(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`)))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("declared length over limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"0123456789abcdef"}`))
		w := perform(r, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		info := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeBodyTooLarge, info.Code)
		assert.NotEmpty(t, info.RequestID)
	})

	t.Run("unknown length stops reading at limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"0123456789abcdef"}`))
		req.ContentLength = -1
		w := perform(r, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
