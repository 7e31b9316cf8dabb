package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"classroom_backend/internals/helpers/dbtime"
)

// ClassModel = satu penawaran kelas (course offering).
// teacher/admin boleh NULL: dihapusnya guru/admin → set null (di service).
type ClassModel struct {
	ClassID     uuid.UUID  `gorm:"column:class_id;type:uuid;primaryKey" json:"class_id"`
	ClassName   string     `gorm:"column:class_name;size:100;not null" json:"class_name"`
	ClassTypeID uuid.UUID  `gorm:"column:class_type_id;type:uuid;not null;index" json:"class_type_id"`
	TeacherID   *uuid.UUID `gorm:"column:class_teacher_id;type:uuid;index" json:"class_teacher_id,omitempty"`
	AdminID     *uuid.UUID `gorm:"column:class_admin_id;type:uuid;index" json:"class_admin_id,omitempty"`

	ClassStartDate dbtime.Date `gorm:"column:class_start_date;not null" json:"class_start_date"`
	ClassEndDate   dbtime.Date `gorm:"column:class_end_date;not null" json:"class_end_date"`
	ClassPrice     float64     `gorm:"column:class_price;type:numeric(10,2);not null" json:"class_price"`
	ClassRoom      string      `gorm:"column:class_room;size:50" json:"class_room"`
	ClassImageURL  *string     `gorm:"column:class_image_url;type:text" json:"class_image_url,omitempty"`

	ClassCreatedAt time.Time `gorm:"column:class_created_at;autoCreateTime" json:"class_created_at"`
	ClassUpdatedAt time.Time `gorm:"column:class_updated_at;autoUpdateTime" json:"class_updated_at"`
}

func (ClassModel) TableName() string { return "classes" }

func (m *ClassModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassID == uuid.Nil {
		m.ClassID = uuid.New()
	}
	return nil
}

// IsTaughtBy: kelas milik guru ini?
func (m *ClassModel) IsTaughtBy(teacherID uuid.UUID) bool {
	return m.TeacherID != nil && *m.TeacherID == teacherID
}
