package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"classroom_backend/internals/helpers/dbtime"
)

// ClassAttendanceSessionModel: kanal check-in QR/passcode, aktif maks satu per (class, date)
type ClassAttendanceSessionModel struct {
	ClassAttendanceSessionID       uuid.UUID   `gorm:"column:class_attendance_session_id;type:uuid;primaryKey" json:"class_attendance_session_id"`
	ClassAttendanceSessionClassID  uuid.UUID   `gorm:"column:class_attendance_session_class_id;type:uuid;not null;index:idx_session_class_date,priority:1" json:"class_attendance_session_class_id"`
	ClassAttendanceSessionDate     dbtime.Date `gorm:"column:class_attendance_session_date;not null;index:idx_session_class_date,priority:2" json:"class_attendance_session_date"`
	ClassAttendanceSessionToken    string      `gorm:"column:class_attendance_session_token;size:64;not null;uniqueIndex" json:"class_attendance_session_token"`
	ClassAttendanceSessionPasscode string      `gorm:"column:class_attendance_session_passcode;size:6;not null" json:"class_attendance_session_passcode"`
	ClassAttendanceSessionIsActive bool        `gorm:"column:class_attendance_session_is_active;not null;index" json:"class_attendance_session_is_active"`
	ClassAttendanceSessionOpenedBy *uuid.UUID  `gorm:"column:class_attendance_session_opened_by;type:uuid" json:"class_attendance_session_opened_by,omitempty"`
	ClassAttendanceSessionClosedAt *time.Time  `gorm:"column:class_attendance_session_closed_at" json:"class_attendance_session_closed_at,omitempty"`

	ClassAttendanceSessionCreatedAt time.Time `gorm:"column:class_attendance_session_created_at;autoCreateTime" json:"class_attendance_session_created_at"`
	ClassAttendanceSessionUpdatedAt time.Time `gorm:"column:class_attendance_session_updated_at;autoUpdateTime" json:"class_attendance_session_updated_at"`
}

func (ClassAttendanceSessionModel) TableName() string { return "class_attendance_sessions" }

func (m *ClassAttendanceSessionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassAttendanceSessionID == uuid.Nil {
		m.ClassAttendanceSessionID = uuid.New()
	}
	return nil
}
