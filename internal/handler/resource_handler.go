package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shule-labs/school-admin-api/internal/dto"
	"github.com/shule-labs/school-admin-api/internal/models"
	"github.com/shule-labs/school-admin-api/internal/service"
	appErrors "github.com/shule-labs/school-admin-api/pkg/errors"
	"github.com/shule-labs/school-admin-api/pkg/response"
)

// ResourceHandler exposes resource inventory endpoints.
type ResourceHandler struct {
	resources *service.ResourceService
}

// NewResourceHandler constructs handler.
func NewResourceHandler(resources *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resources: resources}
}

// List returns the school's resource rows.
func (h *ResourceHandler) List(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	resources, err := h.resources.List(c.Request.Context(), schoolID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resources, nil)
}

// Create stores a new resource row.
func (h *ResourceHandler) Create(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resource payload"))
		return
	}
	resource := models.Resource{
		SubjectName:  req.SubjectName,
		Grade:        req.Grade,
		NumStudents:  req.NumStudents,
		NumBooks:     req.NumBooks,
		NumComputers: req.NumComputers,
		SchoolID:     schoolID,
	}
	if err := h.resources.Create(c.Request.Context(), &resource); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resource)
}

// Update rewrites a resource row owned by the school.
func (h *ResourceHandler) Update(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resource payload"))
		return
	}
	resource := models.Resource{
		ID:           id,
		SubjectName:  req.SubjectName,
		Grade:        req.Grade,
		NumStudents:  req.NumStudents,
		NumBooks:     req.NumBooks,
		NumComputers: req.NumComputers,
		SchoolID:     schoolID,
	}
	if err := h.resources.Update(c.Request.Context(), &resource); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resource, nil)
}

// Delete removes a resource row owned by the school.
func (h *ResourceHandler) Delete(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.resources.Delete(c.Request.Context(), schoolID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Summary returns the cross-school per-subject rollup.
func (h *ResourceHandler) Summary(c *gin.Context) {
	summary, err := h.resources.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
