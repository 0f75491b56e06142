package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shule-labs/school-admin-api/internal/middleware"
	"github.com/shule-labs/school-admin-api/internal/models"
	appErrors "github.com/shule-labs/school-admin-api/pkg/errors"
)

func newGinContext(method, path string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, nil)
	c.Request = req
	return c, w
}

func TestResolveSchoolIDSchoolRolePinned(t *testing.T) {
	c, _ := newGinContext(http.MethodGet, "/students?school_id=99")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 3, Role: models.RoleSchool})

	id, err := resolveSchoolID(c)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
}

func TestResolveSchoolIDAdminUsesQuery(t *testing.T) {
	c, _ := newGinContext(http.MethodGet, "/students?school_id=7")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 1, Role: models.RoleAdmin})

	id, err := resolveSchoolID(c)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestResolveSchoolIDAdminMissingQuery(t *testing.T) {
	c, _ := newGinContext(http.MethodGet, "/students")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 1, Role: models.RoleAdmin})

	_, err := resolveSchoolID(c)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestResolveSchoolIDAdminBadQuery(t *testing.T) {
	c, _ := newGinContext(http.MethodGet, "/students?school_id=-4")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 1, Role: models.RoleITAdmin})

	_, err := resolveSchoolID(c)
	require.Error(t, err)
}

func TestResolveSchoolIDNoClaims(t *testing.T) {
	c, _ := newGinContext(http.MethodGet, "/students")

	_, err := resolveSchoolID(c)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestParseIDParam(t *testing.T) {
	c, _ := newGinContext(http.MethodGet, "/schools/5")
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	id, err := parseIDParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	c.Params = gin.Params{{Key: "id", Value: "zero"}}
	_, err = parseIDParam(c, "id")
	require.Error(t, err)
}
