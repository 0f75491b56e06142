package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shule-labs/school-admin-api/internal/dto"
	"github.com/shule-labs/school-admin-api/internal/service"
	appErrors "github.com/shule-labs/school-admin-api/pkg/errors"
	"github.com/shule-labs/school-admin-api/pkg/response"
)

// AttendanceHandler exposes attendance recording and rollup endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
	imports    *service.ImportService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(attendance *service.AttendanceService, imports *service.ImportService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, imports: imports}
}

// WeeklySummary returns the cross-school weekly rollup.
func (h *AttendanceHandler) WeeklySummary(c *gin.Context) {
	summary, err := h.attendance.WeeklySummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// MarkStudents records one day's student attendance for the school.
func (h *AttendanceHandler) MarkStudents(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload"))
		return
	}
	inserted, err := h.attendance.MarkStudents(c.Request.Context(), schoolID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"inserted": inserted})
}

// MarkTeachers records one day's teacher attendance for the school.
func (h *AttendanceHandler) MarkTeachers(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload"))
		return
	}
	inserted, err := h.attendance.MarkTeachers(c.Request.Context(), schoolID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"inserted": inserted})
}

// StudentSessions lists dates with recorded student attendance.
func (h *AttendanceHandler) StudentSessions(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	sessions, err := h.attendance.StudentSessions(c.Request.Context(), schoolID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// TeacherSessions lists dates with recorded teacher attendance.
func (h *AttendanceHandler) TeacherSessions(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	sessions, err := h.attendance.TeacherSessions(c.Request.Context(), schoolID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// StudentDetails returns one day's student attendance joined with the roster.
func (h *AttendanceHandler) StudentDetails(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	details, err := h.attendance.StudentDetails(c.Request.Context(), schoolID, c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// TeacherDetails returns one day's teacher attendance joined with the roster.
func (h *AttendanceHandler) TeacherDetails(c *gin.Context) {
	schoolID, err := resolveSchoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	details, err := h.attendance.TeacherDetails(c.Request.Context(), schoolID, c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// ImportStudents loads a student attendance CSV upload.
func (h *AttendanceHandler) ImportStudents(c *gin.Context) {
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

	result, err := h.imports.ImportStudentAttendance(c.Request.Context(), schoolID, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ImportTeachers loads a teacher attendance CSV upload keyed by teacher code.
func (h *AttendanceHandler) ImportTeachers(c *gin.Context) {
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

	result, err := h.imports.ImportTeacherAttendance(c.Request.Context(), schoolID, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
