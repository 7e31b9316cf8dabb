package dto

import (
	"time"

	"github.com/google/uuid"

	attendanceModel "classroom_backend/internals/features/school/classes/class_attendance_sessions/model"
	"classroom_backend/internals/helpers/dbtime"
)

type OpenSessionRequest struct {
	ClassID uuid.UUID `json:"class_id" form:"class_id" validate:"required"`
}

type CheckInRequest struct {
	Passcode string `json:"passcode" form:"passcode" validate:"required,numeric,len=6"`
}

type MarkAttendanceItem struct {
	EnrollmentID uuid.UUID                        `json:"class_enrollment_id" validate:"required"`
	Status       attendanceModel.AttendanceStatus `json:"status"              validate:"required,oneof=Present Absent Excused"`
}

type MarkAttendanceRequest struct {
	Date  string               `json:"date"  validate:"omitempty,datetime=2006-01-02"`
	Items []MarkAttendanceItem `json:"items" validate:"required,min=1,dive"`
}

// TeacherSessionResponse: lengkap dengan passcode + link check-in (hanya untuk guru)
type TeacherSessionResponse struct {
	SessionID  uuid.UUID   `json:"class_attendance_session_id"`
	ClassID    uuid.UUID   `json:"class_id"`
	ClassName  string      `json:"class_name,omitempty"`
	Date       dbtime.Date `json:"date"`
	Token      string      `json:"token"`
	Passcode   string      `json:"passcode"`
	IsActive   bool        `json:"is_active"`
	CheckInURL string      `json:"check_in_url"`
	QRImageURL string      `json:"qr_image_url"`
	ClosedAt   *time.Time  `json:"closed_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

func NewTeacherSessionResponse(m *attendanceModel.ClassAttendanceSessionModel, className, checkInURL string) TeacherSessionResponse {
	return TeacherSessionResponse{
		SessionID:  m.ClassAttendanceSessionID,
		ClassID:    m.ClassAttendanceSessionClassID,
		ClassName:  className,
		Date:       m.ClassAttendanceSessionDate,
		Token:      m.ClassAttendanceSessionToken,
		Passcode:   m.ClassAttendanceSessionPasscode,
		IsActive:   m.ClassAttendanceSessionIsActive,
		CheckInURL: checkInURL,
		QRImageURL: "/dashboard/teacher/qr/" + m.ClassAttendanceSessionID.String() + "/image",
		ClosedAt:   dbtime.ToSchoolTimePtr(m.ClassAttendanceSessionClosedAt),
		CreatedAt:  dbtime.ToSchoolTime(m.ClassAttendanceSessionCreatedAt),
	}
}

// ScanResponse: yang boleh dilihat siswa (tanpa passcode)
type ScanResponse struct {
	ClassID   uuid.UUID   `json:"class_id"`
	ClassName string      `json:"class_name"`
	Date      dbtime.Date `json:"date"`
}

type AttendanceResponse struct {
	AttendanceID uuid.UUID                        `json:"class_attendance_id"`
	EnrollmentID uuid.UUID                        `json:"class_enrollment_id"`
	Date         dbtime.Date                      `json:"date"`
	Status       attendanceModel.AttendanceStatus `json:"status"`
}

func NewAttendanceResponse(m *attendanceModel.ClassAttendanceModel) AttendanceResponse {
	return AttendanceResponse{
		AttendanceID: m.ClassAttendanceID,
		EnrollmentID: m.ClassAttendanceEnrollmentID,
		Date:         m.ClassAttendanceDate,
		Status:       m.ClassAttendanceStatus,
	}
}
