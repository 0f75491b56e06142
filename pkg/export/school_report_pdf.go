package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// SchoolReportResourceLine is one subject/grade row in the ratios section.
type SchoolReportResourceLine struct {
	Subject         string
	Grade           string
	TotalStudents   int
	TotalBooks      int
	StudentsPerBook *float64
}

// SchoolReportDocument is the renderable view of a per-school report.
type SchoolReportDocument struct {
	SchoolName               string
	GeneratedAt              time.Time
	TotalStudents            int
	TotalTeachers            int
	TeacherStudentRatio      *float64
	AvgWeeklyStudentAbsences float64
	AvgWeeklyTeacherAbsences float64
	Resources                []SchoolReportResourceLine
	Suggestions              []string
}

// SchoolReportPDF renders the sectioned performance report for one school.
type SchoolReportPDF struct{}

// NewSchoolReportPDF constructs the report renderer.
func NewSchoolReportPDF() *SchoolReportPDF {
	return &SchoolReportPDF{}
}

// Render produces the PDF bytes for the report document.
func (e *SchoolReportPDF) Render(doc SchoolReportDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 15, 14)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, "School Performance Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("School: %s", doc.SchoolName), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Generated: %s", doc.GeneratedAt.Format("2006-01-02 15:04:05")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	sectionTitle(pdf, "Summary")
	line(pdf, fmt.Sprintf("Total students: %d", doc.TotalStudents))
	line(pdf, fmt.Sprintf("Total teachers: %d", doc.TotalTeachers))
	line(pdf, fmt.Sprintf("Teacher-student ratio: %s", formatRatio(doc.TeacherStudentRatio)))
	line(pdf, fmt.Sprintf("Average absent students per week: %.2f", doc.AvgWeeklyStudentAbsences))
	line(pdf, fmt.Sprintf("Average absent teachers per week: %.2f", doc.AvgWeeklyTeacherAbsences))
	pdf.Ln(4)

	sectionTitle(pdf, "Student-Resource Ratios")
	if len(doc.Resources) == 0 {
		line(pdf, "No resource data available for this school.")
	} else {
		for _, r := range doc.Resources {
			subject := r.Subject
			if subject == "" {
				subject = "Unknown subject"
			}
			grade := r.Grade
			if grade == "" {
				grade = "-"
			}
			line(pdf, fmt.Sprintf("%s | Grade: %s | Students: %d | Books: %d | Students per book: %s",
				subject, grade, r.TotalStudents, r.TotalBooks, formatRatio(r.StudentsPerBook)))
		}
	}
	pdf.Ln(4)

	sectionTitle(pdf, "Suggested Improvements")
	if len(doc.Suggestions) == 0 {
		line(pdf, "No critical suggestions at this time.")
	} else {
		for _, s := range doc.Suggestions {
			line(pdf, "- "+s)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render school report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "BU", 14)
	pdf.CellFormat(0, 9, title, "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 12)
}

func line(pdf *gofpdf.Fpdf, text string) {
	pdf.MultiCell(0, 6, text, "", "", false)
}

func formatRatio(ratio *float64) string {
	if ratio == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *ratio)
}
