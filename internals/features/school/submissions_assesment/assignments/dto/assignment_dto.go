package dto

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	assignmentModel "classroom_backend/internals/features/school/submissions_assesment/assignments/model"
	"classroom_backend/internals/helpers/dbtime"
)

var ErrInvalidDueDate = fiber.NewError(fiber.StatusBadRequest, "due_date must be RFC3339 or YYYY-MM-DDTHH:MM")

// format tanpa zona → dianggap waktu sekolah
var localDueLayouts = []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}

func ParseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range localDueLayouts {
		if t, err := time.ParseInLocation(layout, raw, dbtime.SchoolLocation()); err == nil {
			if layout == "2006-01-02" {
				// tanpa jam = akhir hari itu
				t = t.Add(24*time.Hour - time.Second)
			}
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDueDate
}

type AssignmentRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"    validate:"required"`
}

func (r *AssignmentRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

func (r *AssignmentRequest) Apply(m *assignmentModel.AssignmentModel) error {
	due, err := ParseDueDate(r.DueDate)
	if err != nil {
		return err
	}
	m.AssignmentTitle = r.Title
	m.AssignmentDescription = r.Description
	m.AssignmentDueDate = due
	return nil
}

type GradeRequest struct {
	Grade    *float64 `json:"grade"    validate:"required,gte=0,lte=100"`
	Feedback *string  `json:"feedback" validate:"omitempty,max=2000"`
}

type AssignmentResponse struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	ClassID      uuid.UUID `json:"class_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DueDate      time.Time `json:"due_date"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromModel(m *assignmentModel.AssignmentModel) AssignmentResponse {
	return AssignmentResponse{
		AssignmentID: m.AssignmentID,
		ClassID:      m.AssignmentClassID,
		Title:        m.AssignmentTitle,
		Description:  m.AssignmentDescription,
		DueDate:      dbtime.ToSchoolTime(m.AssignmentDueDate),
		CreatedAt:    dbtime.ToSchoolTime(m.AssignmentCreatedAt),
	}
}

func FromModels(rows []assignmentModel.AssignmentModel) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type SubmissionResponse struct {
	SubmissionID    uuid.UUID  `json:"submission_id"`
	AssignmentID    uuid.UUID  `json:"assignment_id"`
	StudentID       uuid.UUID  `json:"student_id"`
	StudentFullName string     `json:"student_full_name,omitempty"`
	FileURL         string     `json:"file_url"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	IsLate          bool       `json:"is_late"`
	Grade           *float64   `json:"grade"`
	Feedback        *string    `json:"feedback,omitempty"`
	GradedAt        *time.Time `json:"graded_at,omitempty"`
}

func NewSubmissionResponse(m *assignmentModel.AssignmentSubmissionModel) SubmissionResponse {
	return SubmissionResponse{
		SubmissionID: m.SubmissionID,
		AssignmentID: m.SubmissionAssignmentID,
		StudentID:    m.SubmissionStudentID,
		FileURL:      m.SubmissionFileURL,
		SubmittedAt:  dbtime.ToSchoolTime(m.SubmissionSubmittedAt),
		IsLate:       m.SubmissionIsLate,
		Grade:        m.SubmissionGrade,
		Feedback:     m.SubmissionFeedback,
		GradedAt:     dbtime.ToSchoolTimePtr(m.SubmissionGradedAt),
	}
}

// SubmissionRow: submission + nama siswa (list untuk guru)
type SubmissionRow struct {
	assignmentModel.AssignmentSubmissionModel
	StudentFullName string `gorm:"column:student_full_name"`
}

func NewSubmissionRowResponses(rows []SubmissionRow) []SubmissionResponse {
	out := make([]SubmissionResponse, 0, len(rows))
	for i := range rows {
		r := NewSubmissionResponse(&rows[i].AssignmentSubmissionModel)
		r.StudentFullName = rows[i].StudentFullName
		out = append(out, r)
	}
	return out
}

// StudentAssignmentResponse: tugas + submission milik siswa (kalau ada)
type StudentAssignmentResponse struct {
	AssignmentResponse
	IsPastDue  bool                `json:"is_past_due"`
	Submission *SubmissionResponse `json:"submission"`
}

func NewStudentAssignmentResponse(m *assignmentModel.AssignmentModel, sub *assignmentModel.AssignmentSubmissionModel, now time.Time) StudentAssignmentResponse {
	out := StudentAssignmentResponse{
		AssignmentResponse: FromModel(m),
		IsPastDue:          m.IsPastDue(now),
	}
	if sub != nil {
		s := NewSubmissionResponse(sub)
		out.Submission = &s
	}
	return out
}
