package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentSubmissionModel: unik per (assignment, student)
type AssignmentSubmissionModel struct {
	SubmissionID           uuid.UUID  `gorm:"column:submission_id;type:uuid;primaryKey" json:"submission_id"`
	SubmissionAssignmentID uuid.UUID  `gorm:"column:submission_assignment_id;type:uuid;not null;uniqueIndex:uq_submission_assignment_student,priority:1" json:"submission_assignment_id"`
	SubmissionStudentID    uuid.UUID  `gorm:"column:submission_student_id;type:uuid;not null;uniqueIndex:uq_submission_assignment_student,priority:2;index" json:"submission_student_id"`
	SubmissionFileURL      string     `gorm:"column:submission_file_url;type:text;not null" json:"submission_file_url"`
	SubmissionSubmittedAt  time.Time  `gorm:"column:submission_submitted_at;not null" json:"submission_submitted_at"`
	SubmissionIsLate       bool       `gorm:"column:submission_is_late;not null" json:"submission_is_late"`
	SubmissionGrade        *float64   `gorm:"column:submission_grade" json:"submission_grade"`
	SubmissionFeedback     *string    `gorm:"column:submission_feedback;type:text" json:"submission_feedback,omitempty"`
	SubmissionGradedAt     *time.Time `gorm:"column:submission_graded_at" json:"submission_graded_at,omitempty"`

	SubmissionCreatedAt time.Time `gorm:"column:submission_created_at;autoCreateTime" json:"submission_created_at"`
	SubmissionUpdatedAt time.Time `gorm:"column:submission_updated_at;autoUpdateTime" json:"submission_updated_at"`
}

func (AssignmentSubmissionModel) TableName() string { return "assignment_submissions" }

func (m *AssignmentSubmissionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubmissionID == uuid.Nil {
		m.SubmissionID = uuid.New()
	}
	return nil
}

func (m *AssignmentSubmissionModel) IsGraded() bool {
	return m.SubmissionGrade != nil
}
