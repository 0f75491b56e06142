package models

// Teacher represents a teachers table row owned by one school.
type Teacher struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Subject     string `db:"subject" json:"subject"`
	Gender      string `db:"gender" json:"gender"`
	Email       string `db:"email" json:"email"`
	Phone       string `db:"phone" json:"phone"`
	TeacherCode string `db:"teacher_code" json:"teacher_code"`
	SchoolID    int64  `db:"school_id" json:"school_id"`
}

// TeacherFilter captures filtering criteria for listing teachers.
type TeacherFilter struct {
	SchoolID int64
	Subject  string
	Search   string
}
