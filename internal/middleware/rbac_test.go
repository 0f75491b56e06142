package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/shule-labs/school-admin-api/internal/models"
)

func performWithClaims(t *testing.T, claims *models.JWTClaims, roles ...models.UserRole) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	r := gin.New()
	r.GET("/protected", func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
	}, RequireRoles(roles...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRolesAllows(t *testing.T) {
	w := performWithClaims(t, &models.JWTClaims{UserID: 1, Role: models.RoleAdmin}, models.RoleAdmin, models.RoleITAdmin)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesForbidsOtherRole(t *testing.T) {
	w := performWithClaims(t, &models.JWTClaims{UserID: 3, Role: models.RoleSchool}, models.RoleAdmin, models.RoleITAdmin)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesRejectsMissingClaims(t *testing.T) {
	w := performWithClaims(t, nil, models.RoleAdmin)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
