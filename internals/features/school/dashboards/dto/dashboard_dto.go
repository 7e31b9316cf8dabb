package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	attendanceService "classroom_backend/internals/features/school/classes/class_attendance_sessions/service"
	enrollmentDto "classroom_backend/internals/features/school/classes/class_enrollments/dto"
	feedbackDto "classroom_backend/internals/features/school/others/feedbacks/dto"
)

type AdminDashboardQuery struct {
	Q string `query:"q" validate:"omitempty,max=100"`
}

func (q *AdminDashboardQuery) Normalize() { q.Q = strings.TrimSpace(q.Q) }

/* ===================== ADMIN ===================== */

type ClassEnrollmentCount struct {
	ClassID         uuid.UUID `gorm:"column:class_id" json:"class_id"`
	ClassName       string    `gorm:"column:class_name" json:"class_name"`
	ClassPrice      float64   `gorm:"column:class_price" json:"class_price"`
	TeacherFullName *string   `gorm:"column:teacher_full_name" json:"teacher_full_name,omitempty"`
	Enrolled        int64     `gorm:"column:enrolled" json:"enrolled"`
	Pending         int64     `gorm:"column:pending" json:"pending"`
}

type AdminDashboard struct {
	TotalClasses       int64                  `json:"total_classes"`
	TotalStudents      int64                  `json:"total_students"`
	TotalTeachers      int64                  `json:"total_teachers"`
	PendingEnrollments int64                  `json:"pending_enrollments"`
	UnpaidApproved     int64                  `json:"unpaid_approved_enrollments"`
	Revenue            float64                `json:"revenue"`
	GatewayCollected   int64                  `json:"gateway_collected"`
	Classes            []ClassEnrollmentCount `json:"classes"`
	Query              string                 `json:"query,omitempty"`
	UnreadMessages     int64                  `json:"unread_messages"`
}

/* ===================== TEACHER ===================== */

type TeacherClassSummary struct {
	ClassID        uuid.UUID `json:"class_id"`
	ClassName      string    `json:"class_name"`
	Approved       int64     `json:"approved"`
	Present        int64     `json:"present"`
	Absent         int64     `json:"absent"`
	Excused        int64     `json:"excused"`
	AttendanceRate float64   `json:"attendance_rate"`
}

type TeacherDashboard struct {
	Classes           []TeacherClassSummary     `json:"classes"`
	DistinctStudents  int64                     `json:"distinct_students"`
	GradedEnrollments int64                     `json:"graded_enrollments"`
	AverageOverall    *float64                  `json:"average_overall"`
	OpenSessionsToday int64                     `json:"open_sessions_today"`
	Rating            feedbackDto.RatingSummary `json:"rating"`
	UnreadMessages    int64                     `json:"unread_messages"`
}

/* ===================== STUDENT ===================== */

type UpcomingAssignment struct {
	AssignmentID uuid.UUID `gorm:"column:assignment_id" json:"assignment_id"`
	ClassID      uuid.UUID `gorm:"column:class_id" json:"class_id"`
	ClassName    string    `gorm:"column:class_name" json:"class_name"`
	Title        string    `gorm:"column:assignment_title" json:"title"`
	DueDate      time.Time `gorm:"column:assignment_due_date" json:"due_date"`
}

type StudentDashboard struct {
	Enrollments         []enrollmentDto.EnrollmentResponse `json:"enrollments"`
	AttendanceRates     []attendanceService.ClassRate      `json:"attendance_rates"`
	UnreadNotifications int64                              `json:"unread_notifications"`
	UnreadMessages      int64                              `json:"unread_messages"`
	UpcomingAssignments []UpcomingAssignment               `json:"upcoming_assignments"`
}
