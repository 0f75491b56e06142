package dto

// StudentRequest creates or updates one student roster row.
type StudentRequest struct {
	Name        string `json:"name" binding:"required"`
	Grade       string `json:"grade" binding:"required"`
	Class       string `json:"student_class"`
	Gender      string `json:"gender"`
	StudentCode string `json:"student_code"`
}

// TeacherRequest creates or updates one teacher roster row.
type TeacherRequest struct {
	Name        string `json:"name" binding:"required"`
	Subject     string `json:"subject"`
	Gender      string `json:"gender"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	TeacherCode string `json:"teacher_code"`
}
