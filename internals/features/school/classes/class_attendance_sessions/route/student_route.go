package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendancectrl "classroom_backend/internals/features/school/classes/class_attendance_sessions/controller"
	"classroom_backend/internals/middlewares"
)

// AttendanceStudentRoutes: group siswa (/dashboard/student)
func AttendanceStudentRoutes(student fiber.Router, db *gorm.DB) {
	h := attendancectrl.NewAttendanceSessionController(db)

	student.Get("/qr/scan/:token", h.ScanInfo)
	student.Post("/qr/scan/:token", middlewares.CheckInRateLimiter(), h.CheckIn)
	student.Get("/attendance", h.MyHistory)
}
