package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shule-labs/school-admin-api/internal/models"
	"github.com/shule-labs/school-admin-api/internal/service"
)

func signTestToken(t *testing.T, secret string) string {
	t.Helper()
	now := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID:   7,
		Username: "greenhill",
		Role:     models.RoleSchool,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func performJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, *models.JWTClaims) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	authSvc := service.NewAuthService(nil, nil, nil, service.AuthConfig{TokenSecret: "secret", TokenExpiry: time.Hour})

	var seen *models.JWTClaims
	w := httptest.NewRecorder()
	r := gin.New()
	r.GET("/protected", JWT(authSvc), func(c *gin.Context) {
		if value, ok := c.Get(ContextUserKey); ok {
			seen = value.(*models.JWTClaims)
		}
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w, seen
}

func TestJWTAcceptsValidToken(t *testing.T) {
	w, claims := performJWT(t, "Bearer "+signTestToken(t, "secret"))
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, claims)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, models.RoleSchool, claims.Role)
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	w, _ := performJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTRejectsMalformedHeader(t *testing.T) {
	w, _ := performJWT(t, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	w, _ := performJWT(t, "Bearer "+signTestToken(t, "other"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
