package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContentType string

const (
	ContentAnnouncement ContentType = "announcement"
	ContentAssignment   ContentType = "assignment"
)

// ContentReadStatusModel: status baca per (student, content_type, content_id)
type ContentReadStatusModel struct {
	ReadStatusID          uuid.UUID   `gorm:"column:read_status_id;type:uuid;primaryKey" json:"read_status_id"`
	ReadStatusStudentID   uuid.UUID   `gorm:"column:read_status_student_id;type:uuid;not null;uniqueIndex:uq_read_status_item,priority:1" json:"read_status_student_id"`
	ReadStatusContentType ContentType `gorm:"column:read_status_content_type;size:20;not null;uniqueIndex:uq_read_status_item,priority:2" json:"read_status_content_type"`
	ReadStatusContentID   uuid.UUID   `gorm:"column:read_status_content_id;type:uuid;not null;uniqueIndex:uq_read_status_item,priority:3;index" json:"read_status_content_id"`
	ReadStatusIsRead      bool        `gorm:"column:read_status_is_read;not null" json:"read_status_is_read"`
	ReadStatusReadAt      *time.Time  `gorm:"column:read_status_read_at" json:"read_status_read_at,omitempty"`

	ReadStatusCreatedAt time.Time `gorm:"column:read_status_created_at;autoCreateTime" json:"read_status_created_at"`
	ReadStatusUpdatedAt time.Time `gorm:"column:read_status_updated_at;autoUpdateTime" json:"read_status_updated_at"`
}

func (ContentReadStatusModel) TableName() string { return "content_read_statuses" }

func (m *ContentReadStatusModel) BeforeCreate(tx *gorm.DB) error {
	if m.ReadStatusID == uuid.Nil {
		m.ReadStatusID = uuid.New()
	}
	return nil
}
