package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassTypeModel struct {
	ClassTypeID          uuid.UUID `gorm:"column:class_type_id;type:uuid;primaryKey" json:"class_type_id"`
	ClassTypeCode        string    `gorm:"column:class_type_code;size:10;not null;uniqueIndex" json:"class_type_code"`
	ClassTypeDescription string    `gorm:"column:class_type_description;type:text" json:"class_type_description"`

	ClassTypeCreatedAt time.Time `gorm:"column:class_type_created_at;autoCreateTime" json:"class_type_created_at"`
	ClassTypeUpdatedAt time.Time `gorm:"column:class_type_updated_at;autoUpdateTime" json:"class_type_updated_at"`
}

func (ClassTypeModel) TableName() string { return "class_types" }

func (m *ClassTypeModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassTypeID == uuid.Nil {
		m.ClassTypeID = uuid.New()
	}
	return nil
}
