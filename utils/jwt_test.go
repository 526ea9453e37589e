package utils

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
	"github.com/tnqbao/gau-cloudlet-service/config"
)

func testJWTConfig() *config.EnvConfig {
	cfg := &config.EnvConfig{}
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.Algorithm = "HS256"
	return cfg
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestExtractToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", ExtractToken(c))

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: "access_token", Value: "from-cookie"})
	c.Request.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "from-cookie", ExtractToken(c))

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, ExtractToken(c))
}

func TestUserIDFromToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	token := signToken(t, cfg.JWT.SecretKey, jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	got, err := UserIDFromToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestUserIDFromToken_Rejects(t *testing.T) {
	cfg := testJWTConfig()

	tests := map[string]string{
		"wrong secret": signToken(t, "other", jwt.MapClaims{"user_id": uuid.NewString()}),
		"expired": signToken(t, cfg.JWT.SecretKey, jwt.MapClaims{
			"user_id": uuid.NewString(),
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}),
		"missing user_id": signToken(t, cfg.JWT.SecretKey, jwt.MapClaims{"sub": "x"}),
		"bad user_id":     signToken(t, cfg.JWT.SecretKey, jwt.MapClaims{"user_id": "not-a-uuid"}),
		"garbage":         "not.a.jwt",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := UserIDFromToken(token, cfg)
			assert.Error(t, err)
		})
	}
}
