package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeacherModel struct {
	TeacherID     uuid.UUID  `gorm:"column:teacher_id;type:uuid;primaryKey" json:"teacher_id"`
	TeacherUserID *uuid.UUID `gorm:"column:teacher_user_id;type:uuid;uniqueIndex" json:"teacher_user_id,omitempty"`

	PersonFields `gorm:"embedded;embeddedPrefix:teacher_"`

	TeacherQualification string `gorm:"column:teacher_qualification;size:255" json:"teacher_qualification"`

	TeacherCreatedAt time.Time `gorm:"column:teacher_created_at;autoCreateTime" json:"teacher_created_at"`
	TeacherUpdatedAt time.Time `gorm:"column:teacher_updated_at;autoUpdateTime" json:"teacher_updated_at"`
}

func (TeacherModel) TableName() string { return "teachers" }

func (m *TeacherModel) BeforeCreate(tx *gorm.DB) error {
	if m.TeacherID == uuid.Nil {
		m.TeacherID = uuid.New()
	}
	return nil
}
