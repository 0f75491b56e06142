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

// StudentHandler exposes student roster endpoints.
type StudentHandler struct {
	students *service.StudentService
	imports  *service.ImportService
}

// NewStudentHandler constructs handler.
func NewStudentHandler(students *service.StudentService, imports *service.ImportService) *StudentHandler {
	return &StudentHandler{students: students, imports: imports}
}

// List returns students matching the query filters.
func (h *StudentHandler) List(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.StudentFilter{
		SchoolID: schoolID,
		Grade:    c.Query("grade"),
		Class:    c.Query("class"),
		Search:   c.Query("search"),
	}
	students, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Get loads one student.
func (h *StudentHandler) Get(c *gin.Context) {
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
	student, err := h.students.Get(c.Request.Context(), schoolID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Create stores a new student.
func (h *StudentHandler) Create(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload"))
		return
	}
	student := models.Student{
		Name:        req.Name,
		Grade:       req.Grade,
		Class:       req.Class,
		Gender:      req.Gender,
		StudentCode: req.StudentCode,
		SchoolID:    schoolID,
	}
	if err := h.students.Create(c.Request.Context(), &student); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update rewrites a student owned by the school.
func (h *StudentHandler) Update(c *gin.Context) {
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
	var req dto.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload"))
		return
	}
	student := models.Student{
		ID:          id,
		Name:        req.Name,
		Grade:       req.Grade,
		Class:       req.Class,
		Gender:      req.Gender,
		StudentCode: req.StudentCode,
		SchoolID:    schoolID,
	}
	if err := h.students.Update(c.Request.Context(), &student); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Delete removes a student owned by the school.
func (h *StudentHandler) Delete(c *gin.Context) {
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
	if err := h.students.Delete(c.Request.Context(), schoolID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Grades lists distinct grades for the school.
func (h *StudentHandler) Grades(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	grades, err := h.students.Grades(c.Request.Context(), schoolID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// Classes lists distinct classes for a grade.
func (h *StudentHandler) Classes(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	grade := c.Query("grade")
	if grade == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "grade required"))
		return
	}
	classes, err := h.students.Classes(c.Request.Context(), schoolID, grade)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Import loads a student roster CSV upload.
func (h *StudentHandler) Import(c *gin.Context) {
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

	result, err := h.imports.ImportStudents(c.Request.Context(), schoolID, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
