package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shule-labs/school-admin-api/internal/service"
	"github.com/shule-labs/school-admin-api/pkg/response"
)

// SchoolHandler exposes school administration endpoints.
type SchoolHandler struct {
	schools *service.SchoolService
}

// NewSchoolHandler constructs handler.
func NewSchoolHandler(schools *service.SchoolService) *SchoolHandler {
	return &SchoolHandler{schools: schools}
}

// List returns every school account.
func (h *SchoolHandler) List(c *gin.Context) {
	schools, err := h.schools.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schools, nil)
}

// Get returns one school account.
func (h *SchoolHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	school, err := h.schools.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, school, nil)
}

// Delete removes a school account.
func (h *SchoolHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.schools.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
