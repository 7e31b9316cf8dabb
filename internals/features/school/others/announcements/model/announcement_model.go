package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementModel struct {
	AnnouncementID        uuid.UUID  `gorm:"column:announcement_id;type:uuid;primaryKey" json:"announcement_id"`
	AnnouncementClassID   uuid.UUID  `gorm:"column:announcement_class_id;type:uuid;not null;index" json:"announcement_class_id"`
	AnnouncementTeacherID *uuid.UUID `gorm:"column:announcement_teacher_id;type:uuid" json:"announcement_teacher_id,omitempty"`
	AnnouncementTitle     string     `gorm:"column:announcement_title;size:200;not null" json:"announcement_title"`
	AnnouncementContent   string     `gorm:"column:announcement_content;type:text;not null" json:"announcement_content"`

	AnnouncementCreatedAt time.Time `gorm:"column:announcement_created_at;autoCreateTime;index" json:"announcement_created_at"`
	AnnouncementUpdatedAt time.Time `gorm:"column:announcement_updated_at;autoUpdateTime" json:"announcement_updated_at"`
}

func (AnnouncementModel) TableName() string { return "announcements" }

func (m *AnnouncementModel) BeforeCreate(tx *gorm.DB) error {
	if m.AnnouncementID == uuid.Nil {
		m.AnnouncementID = uuid.New()
	}
	return nil
}
