package handler

import (
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shule-labs/school-admin-api/internal/middleware"
	"github.com/shule-labs/school-admin-api/internal/models"
	appErrors "github.com/shule-labs/school-admin-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// resolveSchoolID determines the tenant a request operates on. School
// accounts are pinned to their own id; administrators must name the school
// through the school_id query parameter.
func resolveSchoolID(c *gin.Context) (int64, error) {
	claims := claimsFromContext(c)
	if claims == nil {
		return 0, appErrors.ErrUnauthorized
	}
	if claims.Role == models.RoleSchool {
		return claims.UserID, nil
	}

	raw := c.Query("school_id")
	if raw == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "school_id required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "school_id must be a positive integer")
	}
	return id, nil
}

// openUpload returns the "file" part of a multipart upload.
func openUpload(c *gin.Context) (multipart.File, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file upload required")
	}
	file, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to open upload")
	}
	return file, nil
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer")
	}
	return id, nil
}
