package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassMaterialModel struct {
	ClassMaterialID       uuid.UUID `gorm:"column:class_material_id;type:uuid;primaryKey" json:"class_material_id"`
	ClassMaterialClassID  uuid.UUID `gorm:"column:class_material_class_id;type:uuid;not null;index" json:"class_material_class_id"`
	ClassMaterialTitle    string    `gorm:"column:class_material_title;size:200;not null" json:"class_material_title"`
	ClassMaterialFileURL  string    `gorm:"column:class_material_file_url;type:text;not null" json:"class_material_file_url"`
	ClassMaterialFileKind string    `gorm:"column:class_material_file_kind;size:20" json:"class_material_file_kind"`

	ClassMaterialCreatedAt time.Time `gorm:"column:class_material_created_at;autoCreateTime" json:"class_material_created_at"`
	ClassMaterialUpdatedAt time.Time `gorm:"column:class_material_updated_at;autoUpdateTime" json:"class_material_updated_at"`
}

func (ClassMaterialModel) TableName() string { return "class_materials" }

func (m *ClassMaterialModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassMaterialID == uuid.Nil {
		m.ClassMaterialID = uuid.New()
	}
	return nil
}
