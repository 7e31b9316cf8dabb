package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackModel: satu per (student, class); kirim ulang = update
type FeedbackModel struct {
	FeedbackID          uuid.UUID  `gorm:"column:feedback_id;type:uuid;primaryKey" json:"feedback_id"`
	FeedbackStudentID   uuid.UUID  `gorm:"column:feedback_student_id;type:uuid;not null;uniqueIndex:uq_feedback_student_class,priority:1" json:"feedback_student_id"`
	FeedbackClassID     uuid.UUID  `gorm:"column:feedback_class_id;type:uuid;not null;uniqueIndex:uq_feedback_student_class,priority:2;index" json:"feedback_class_id"`
	FeedbackTeacherID   *uuid.UUID `gorm:"column:feedback_teacher_id;type:uuid;index" json:"feedback_teacher_id,omitempty"`
	FeedbackTeacherRate float64    `gorm:"column:feedback_teacher_rate;type:numeric(4,2);not null" json:"feedback_teacher_rate"`
	FeedbackClassRate   float64    `gorm:"column:feedback_class_rate;type:numeric(4,2);not null" json:"feedback_class_rate"`
	FeedbackComment     string     `gorm:"column:feedback_comment;type:text" json:"feedback_comment"`

	FeedbackCreatedAt time.Time `gorm:"column:feedback_created_at;autoCreateTime" json:"feedback_created_at"`
	FeedbackUpdatedAt time.Time `gorm:"column:feedback_updated_at;autoUpdateTime" json:"feedback_updated_at"`
}

func (FeedbackModel) TableName() string { return "feedbacks" }

func (m *FeedbackModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeedbackID == uuid.Nil {
		m.FeedbackID = uuid.New()
	}
	return nil
}
