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

// TeacherHandler exposes teacher roster endpoints.
type TeacherHandler struct {
	teachers *service.TeacherService
	imports  *service.ImportService
}

// NewTeacherHandler constructs handler.
func NewTeacherHandler(teachers *service.TeacherService, imports *service.ImportService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers, imports: imports}
}

// List returns teachers matching the query filters.
func (h *TeacherHandler) List(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.TeacherFilter{
		SchoolID: schoolID,
		Subject:  c.Query("subject"),
		Search:   c.Query("search"),
	}
	teachers, err := h.teachers.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// Get loads one teacher.
func (h *TeacherHandler) Get(c *gin.Context) {
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
	teacher, err := h.teachers.Get(c.Request.Context(), schoolID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Create stores a new teacher.
func (h *TeacherHandler) Create(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload"))
		return
	}
	teacher := models.Teacher{
		Name:        req.Name,
		Subject:     req.Subject,
		Gender:      req.Gender,
		Email:       req.Email,
		Phone:       req.Phone,
		TeacherCode: req.TeacherCode,
		SchoolID:    schoolID,
	}
	if err := h.teachers.Create(c.Request.Context(), &teacher); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// Update rewrites a teacher owned by the school.
func (h *TeacherHandler) Update(c *gin.Context) {
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
	var req dto.TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload"))
		return
	}
	teacher := models.Teacher{
		ID:          id,
		Name:        req.Name,
		Subject:     req.Subject,
		Gender:      req.Gender,
		Email:       req.Email,
		Phone:       req.Phone,
		TeacherCode: req.TeacherCode,
		SchoolID:    schoolID,
	}
	if err := h.teachers.Update(c.Request.Context(), &teacher); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Delete removes a teacher owned by the school.
func (h *TeacherHandler) Delete(c *gin.Context) {
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
	if err := h.teachers.Delete(c.Request.Context(), schoolID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Import loads a teacher roster CSV upload.
func (h *TeacherHandler) Import(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := openUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	result, err := h.imports.ImportTeachers(c.Request.Context(), schoolID, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
