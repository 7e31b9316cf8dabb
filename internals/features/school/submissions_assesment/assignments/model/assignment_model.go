package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentModel struct {
	AssignmentID          uuid.UUID `gorm:"column:assignment_id;type:uuid;primaryKey" json:"assignment_id"`
	AssignmentClassID     uuid.UUID `gorm:"column:assignment_class_id;type:uuid;not null;index" json:"assignment_class_id"`
	AssignmentTitle       string    `gorm:"column:assignment_title;size:200;not null" json:"assignment_title"`
	AssignmentDescription string    `gorm:"column:assignment_description;type:text" json:"assignment_description"`
	AssignmentDueDate     time.Time `gorm:"column:assignment_due_date;not null" json:"assignment_due_date"`

	AssignmentCreatedAt time.Time `gorm:"column:assignment_created_at;autoCreateTime;index" json:"assignment_created_at"`
	AssignmentUpdatedAt time.Time `gorm:"column:assignment_updated_at;autoUpdateTime" json:"assignment_updated_at"`
}

func (AssignmentModel) TableName() string { return "assignments" }

func (m *AssignmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssignmentID == uuid.Nil {
		m.AssignmentID = uuid.New()
	}
	return nil
}

func (m *AssignmentModel) IsPastDue(now time.Time) bool {
	return now.After(m.AssignmentDueDate)
}
