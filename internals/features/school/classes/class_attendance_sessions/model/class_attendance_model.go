package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"classroom_backend/internals/helpers/dbtime"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceExcused AttendanceStatus = "Excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceExcused:
		return true
	}
	return false
}

// ClassAttendanceModel: satu baris per (enrollment, tanggal); semua tulis = upsert
type ClassAttendanceModel struct {
	ClassAttendanceID           uuid.UUID        `gorm:"column:class_attendance_id;type:uuid;primaryKey" json:"class_attendance_id"`
	ClassAttendanceEnrollmentID uuid.UUID        `gorm:"column:class_attendance_enrollment_id;type:uuid;not null;uniqueIndex:uq_attendance_enrollment_date,priority:1" json:"class_attendance_enrollment_id"`
	ClassAttendanceDate         dbtime.Date      `gorm:"column:class_attendance_date;not null;uniqueIndex:uq_attendance_enrollment_date,priority:2" json:"class_attendance_date"`
	ClassAttendanceStatus       AttendanceStatus `gorm:"column:class_attendance_status;size:10;not null" json:"class_attendance_status"`

	ClassAttendanceCreatedAt time.Time `gorm:"column:class_attendance_created_at;autoCreateTime" json:"class_attendance_created_at"`
	ClassAttendanceUpdatedAt time.Time `gorm:"column:class_attendance_updated_at;autoUpdateTime" json:"class_attendance_updated_at"`
}

func (ClassAttendanceModel) TableName() string { return "class_attendances" }

func (m *ClassAttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassAttendanceID == uuid.Nil {
		m.ClassAttendanceID = uuid.New()
	}
	return nil
}
