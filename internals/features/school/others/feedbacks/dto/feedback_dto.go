package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	feedbackModel "classroom_backend/internals/features/school/others/feedbacks/model"
	"classroom_backend/internals/helpers/dbtime"
)

type FeedbackRequest struct {
	TeacherRate float64 `json:"teacher_rate" validate:"required,gte=1,lte=10"`
	ClassRate   float64 `json:"class_rate"   validate:"required,gte=1,lte=10"`
	Comment     string  `json:"comment"      validate:"max=2000"`
}

func (r *FeedbackRequest) Normalize() {
	r.Comment = strings.TrimSpace(r.Comment)
}

type ListFeedbackQuery struct {
	ClassID   string `query:"class_id"   validate:"omitempty,uuid"`
	TeacherID string `query:"teacher_id" validate:"omitempty,uuid"`
	Q         string `query:"q"`
}

type FeedbackResponse struct {
	FeedbackID      uuid.UUID  `json:"feedback_id"`
	StudentID       uuid.UUID  `json:"student_id"`
	StudentFullName string     `json:"student_full_name,omitempty"`
	ClassID         uuid.UUID  `json:"class_id"`
	ClassName       string     `json:"class_name,omitempty"`
	TeacherID       *uuid.UUID `json:"teacher_id,omitempty"`
	TeacherFullName string     `json:"teacher_full_name,omitempty"`
	TeacherRate     float64    `json:"teacher_rate"`
	ClassRate       float64    `json:"class_rate"`
	Comment         string     `json:"comment"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func FromModel(m *feedbackModel.FeedbackModel) FeedbackResponse {
	return FeedbackResponse{
		FeedbackID:  m.FeedbackID,
		StudentID:   m.FeedbackStudentID,
		ClassID:     m.FeedbackClassID,
		TeacherID:   m.FeedbackTeacherID,
		TeacherRate: m.FeedbackTeacherRate,
		ClassRate:   m.FeedbackClassRate,
		Comment:     m.FeedbackComment,
		UpdatedAt:   dbtime.ToSchoolTime(m.FeedbackUpdatedAt),
	}
}

// FeedbackRow: feedback + nama siswa/kelas/guru
type FeedbackRow struct {
	feedbackModel.FeedbackModel
	StudentFullName string  `gorm:"column:student_full_name"`
	ClassName       string  `gorm:"column:class_name"`
	TeacherFullName *string `gorm:"column:teacher_full_name"`
}

func FromRows(rows []FeedbackRow) []FeedbackResponse {
	out := make([]FeedbackResponse, 0, len(rows))
	for i := range rows {
		r := FromModel(&rows[i].FeedbackModel)
		r.StudentFullName = rows[i].StudentFullName
		r.ClassName = rows[i].ClassName
		if rows[i].TeacherFullName != nil {
			r.TeacherFullName = *rows[i].TeacherFullName
		}
		out = append(out, r)
	}
	return out
}

// RatingSummary: rata-rata nilai (dashboard guru)
type RatingSummary struct {
	Count          int64   `json:"count"`
	AvgTeacherRate float64 `json:"avg_teacher_rate"`
	AvgClassRate   float64 `json:"avg_class_rate"`
}
