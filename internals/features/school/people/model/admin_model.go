package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminModel struct {
	AdminID     uuid.UUID  `gorm:"column:admin_id;type:uuid;primaryKey" json:"admin_id"`
	AdminUserID *uuid.UUID `gorm:"column:admin_user_id;type:uuid;uniqueIndex" json:"admin_user_id,omitempty"`

	PersonFields `gorm:"embedded;embeddedPrefix:admin_"`

	AdminPosition string `gorm:"column:admin_position;size:100" json:"admin_position"`

	AdminCreatedAt time.Time `gorm:"column:admin_created_at;autoCreateTime" json:"admin_created_at"`
	AdminUpdatedAt time.Time `gorm:"column:admin_updated_at;autoUpdateTime" json:"admin_updated_at"`
}

func (AdminModel) TableName() string { return "admins" }

func (m *AdminModel) BeforeCreate(tx *gorm.DB) error {
	if m.AdminID == uuid.Nil {
		m.AdminID = uuid.New()
	}
	return nil
}
