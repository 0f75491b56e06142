package models

// Student represents a students table row owned by one school.
type Student struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Grade       string `db:"grade" json:"grade"`
	Class       string `db:"student_class" json:"student_class"`
	Gender      string `db:"gender" json:"gender"`
	StudentCode string `db:"student_code" json:"student_code"`
	SchoolID    int64  `db:"school_id" json:"school_id"`
}

// StudentFilter captures filtering criteria for listing students.
type StudentFilter struct {
	SchoolID int64
	Grade    string
	Class    string
	Search   string
}
