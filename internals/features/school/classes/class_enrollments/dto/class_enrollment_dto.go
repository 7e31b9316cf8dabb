package dto

import (
	"time"

	"github.com/google/uuid"

	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	"classroom_backend/internals/helpers/dbtime"
)

/* =========================================================
   Requests
========================================================= */

type AdminAddEnrollmentRequest struct {
	StudentID uuid.UUID `json:"student_id" form:"student_id" validate:"required"`
	ClassID   uuid.UUID `json:"class_id"   form:"class_id"   validate:"required"`
}

// RecordScoresRequest: semua opsional; hanya field yang dikirim yang diubah
type RecordScoresRequest struct {
	Minitest1 *float64 `json:"minitest1"`
	Minitest2 *float64 `json:"minitest2"`
	Minitest3 *float64 `json:"minitest3"`
	Minitest4 *float64 `json:"minitest4"`
	Midterm   *float64 `json:"midterm"`
	FinalTest *float64 `json:"final_test"`
}

type ListEnrollmentQuery struct {
	Q      string `query:"q"`
	Status string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
	Paid   *bool  `query:"paid"`
}

/* =========================================================
   Responses
========================================================= */

type EnrollmentResponse struct {
	ClassEnrollmentID uuid.UUID                        `json:"class_enrollment_id"`
	StudentID         uuid.UUID                        `json:"student_id"`
	ClassID           uuid.UUID                        `json:"class_id"`
	StudentName       string                           `json:"student_name,omitempty"`
	ClassName         string                           `json:"class_name,omitempty"`
	Status            enrollmentModel.EnrollmentStatus `json:"status"`
	IsPaid            bool                             `json:"is_paid"`
	EnrollmentDate    dbtime.Date                      `json:"enrollment_date"`

	Minitest1 *float64 `json:"minitest1"`
	Minitest2 *float64 `json:"minitest2"`
	Minitest3 *float64 `json:"minitest3"`
	Minitest4 *float64 `json:"minitest4"`
	Midterm   *float64 `json:"midterm"`
	FinalTest *float64 `json:"final_test"`

	MiniTestAverage float64 `json:"mini_test_average"`
	OverallScore    float64 `json:"overall_score"`
	IsPassed        bool    `json:"is_passed"`

	CreatedAt time.Time `json:"created_at"`
}

func NewEnrollmentResponse(m *enrollmentModel.ClassEnrollmentModel) EnrollmentResponse {
	return EnrollmentResponse{
		ClassEnrollmentID: m.ClassEnrollmentID,
		StudentID:         m.ClassEnrollmentStudentID,
		ClassID:           m.ClassEnrollmentClassID,
		Status:            m.ClassEnrollmentStatus,
		IsPaid:            m.ClassEnrollmentIsPaid,
		EnrollmentDate:    m.ClassEnrollmentDate,
		Minitest1:         m.ClassEnrollmentMinitest1,
		Minitest2:         m.ClassEnrollmentMinitest2,
		Minitest3:         m.ClassEnrollmentMinitest3,
		Minitest4:         m.ClassEnrollmentMinitest4,
		Midterm:           m.ClassEnrollmentMidterm,
		FinalTest:         m.ClassEnrollmentFinalTest,
		MiniTestAverage:   m.MiniTestAverage(),
		OverallScore:      m.OverallScore(),
		IsPassed:          m.IsPassed(),
		CreatedAt:         m.ClassEnrollmentCreatedAt,
	}
}

// EnrollmentRow: hasil join enrollment + nama siswa + nama kelas
type EnrollmentRow struct {
	enrollmentModel.ClassEnrollmentModel
	StudentFullName string `gorm:"column:student_full_name"`
	ClassName       string `gorm:"column:class_name"`
}

func NewEnrollmentRowResponse(r *EnrollmentRow) EnrollmentResponse {
	out := NewEnrollmentResponse(&r.ClassEnrollmentModel)
	out.StudentName = r.StudentFullName
	out.ClassName = r.ClassName
	return out
}

func NewEnrollmentRowResponses(rows []EnrollmentRow) []EnrollmentResponse {
	out := make([]EnrollmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewEnrollmentRowResponse(&rows[i]))
	}
	return out
}
