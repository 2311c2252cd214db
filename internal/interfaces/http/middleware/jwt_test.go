package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentmgr/backend/internal/infrastructure/auth"
	"github.com/rentmgr/backend/internal/infrastructure/config"
	"github.com/rentmgr/backend/internal/interfaces/http/dto"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService(t *testing.T, expiration time.Duration) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(config.JWTConfig{
		Enabled:               true,
		Secret:                testSecret,
		Issuer:                "rent-test",
		AccessTokenExpiration: expiration,
	})
	require.NoError(t, err)
	return svc
}

func newTestToken(t *testing.T, svc *auth.JWTService, perms ...string) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, _, err := svc.GenerateToken(auth.GenerateTokenInput{
		UserID:      userID,
		Username:    "landlord",
		Permissions: perms,
	})
	require.NoError(t, err)
	return token, userID
}

func signClaims(t *testing.T, claims auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newJWTRouter(svc *auth.JWTService) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), JWTAuthMiddleware(svc))
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	}
	r.GET("/api/v1/obligations", handler)
	r.GET("/health", handler)
	r.GET("/swagger/index.html", handler)
	return r
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService(t, time.Minute)
	token, userID := newTestToken(t, svc, auth.PermObligationRead)

	var claims *auth.Claims
	r := gin.New()
	r.Use(JWTAuthMiddleware(svc))
	r.GET("/x", func(c *gin.Context) {
		claims = GetJWTClaims(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := perform(r, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, claims)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, []string{auth.PermObligationRead}, claims.Permissions)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService(t, time.Minute)
	token, _ := newTestToken(t, svc)

	expired := signClaims(t, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "rent-test",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		UserID: uuid.NewString(),
	})

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{name: "missing header", header: "", code: dto.ErrCodeTokenInvalid},
		{name: "wrong scheme", header: "Basic " + token, code: dto.ErrCodeTokenInvalid},
		{name: "empty bearer", header: BearerPrefix + "  ", code: dto.ErrCodeTokenInvalid},
		{name: "garbage", header: BearerPrefix + "not-a-jwt", code: dto.ErrCodeTokenInvalid},
		{name: "expired", header: BearerPrefix + expired, code: dto.ErrCodeTokenExpired},
	}

	r := newJWTRouter(svc)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/obligations", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := perform(r, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
			info := decodeError(t, w)
			assert.Equal(t, tt.code, info.Code)
			assert.NotEmpty(t, info.RequestID)
		})
	}
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	r := newJWTRouter(newTestJWTService(t, time.Minute))

	for _, path := range []string{"/health", "/swagger/index.html"} {
		w := perform(r, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestGetJWTClaims_Absent(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))

	c.Set(JWTClaimsKey, "not claims")
	assert.Nil(t, GetJWTClaims(c))
}
