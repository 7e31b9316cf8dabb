package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"classroom_backend/internals/helpers/dbtime"
)

// ClassScheduleModel: pola mingguan sebuah kelas (maks satu per kelas)
type ClassScheduleModel struct {
	ClassScheduleID        uuid.UUID      `gorm:"column:class_schedule_id;type:uuid;primaryKey" json:"class_schedule_id"`
	ClassScheduleClassID   uuid.UUID      `gorm:"column:class_schedule_class_id;type:uuid;not null;uniqueIndex" json:"class_schedule_class_id"`
	ClassScheduleDays      datatypes.JSON `gorm:"column:class_schedule_days;not null" json:"class_schedule_days"` // ["Monday","Wednesday"]
	ClassScheduleStartTime dbtime.Tod     `gorm:"column:class_schedule_start_time;not null" json:"class_schedule_start_time"`
	ClassScheduleEndTime   dbtime.Tod     `gorm:"column:class_schedule_end_time;not null" json:"class_schedule_end_time"`

	ClassScheduleCreatedAt time.Time `gorm:"column:class_schedule_created_at;autoCreateTime" json:"class_schedule_created_at"`
	ClassScheduleUpdatedAt time.Time `gorm:"column:class_schedule_updated_at;autoUpdateTime" json:"class_schedule_updated_at"`
}

func (ClassScheduleModel) TableName() string { return "class_schedules" }

func (m *ClassScheduleModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassScheduleID == uuid.Nil {
		m.ClassScheduleID = uuid.New()
	}
	return nil
}

func (m *ClassScheduleModel) Days() []string {
	var out []string
	if len(m.ClassScheduleDays) == 0 {
		return out
	}
	_ = json.Unmarshal(m.ClassScheduleDays, &out)
	return out
}

func (m *ClassScheduleModel) SetDays(days []string) {
	b, _ := json.Marshal(days)
	m.ClassScheduleDays = datatypes.JSON(b)
}

// Descriptor: "Monday, Wednesday 08:00-09:30"
func (m *ClassScheduleModel) Descriptor() string {
	return strings.Join(m.Days(), ", ") + " " + m.ClassScheduleStartTime.Format("15:04") + "-" + m.ClassScheduleEndTime.Format("15:04")
}
