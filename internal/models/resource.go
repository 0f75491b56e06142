package models

// Resource represents one resource inventory row. Multiple rows per
// (school, subject, grade) are legitimate and are summed, never merged.
type Resource struct {
	ID           int64   `db:"id" json:"id"`
	SubjectName  *string `db:"subject_name" json:"subject_name"`
	Grade        string  `db:"grade" json:"grade"`
	NumStudents  int     `db:"num_students" json:"num_students"`
	NumBooks     int     `db:"num_books" json:"num_books"`
	NumComputers int     `db:"num_computers" json:"num_computers"`
	SchoolID     int64   `db:"school_id" json:"school_id"`
}

// ResourceSubjectSummary aggregates resource rows grouped by subject across
// all schools. A NULL subject forms its own group.
type ResourceSubjectSummary struct {
	SubjectName    *string `db:"subject_name" json:"subject_name"`
	TotalStudents  int     `db:"total_students" json:"total_students"`
	TotalBooks     int     `db:"total_books" json:"total_books"`
	TotalComputers int     `db:"total_computers" json:"total_computers"`
	RecordCount    int     `db:"record_count" json:"record_count"`
	SchoolCount    int     `db:"school_count" json:"school_count"`
}

// ResourceGrandTotals aggregates the whole resources table.
type ResourceGrandTotals struct {
	Subjects       int `db:"subjects" json:"subjects"`
	TotalStudents  int `db:"total_students" json:"total_students"`
	TotalBooks     int `db:"total_books" json:"total_books"`
	TotalComputers int `db:"total_computers" json:"total_computers"`
	TotalRows      int `db:"total_rows" json:"total_rows"`
	TotalSchools   int `db:"total_schools" json:"total_schools"`
}
