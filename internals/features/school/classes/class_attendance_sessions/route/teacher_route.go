package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendancectrl "classroom_backend/internals/features/school/classes/class_attendance_sessions/controller"
)

// AttendanceTeacherRoutes: group guru (/dashboard/teacher)
func AttendanceTeacherRoutes(teacher fiber.Router, db *gorm.DB) {
	h := attendancectrl.NewAttendanceSessionController(db)

	qr := teacher.Group("/qr")
	{
		qr.Get("/", h.ListActive)
		qr.Post("/", h.Open)
		qr.Get("/:id/image", h.QRImage)
		qr.Post("/:id/stop", h.Stop)
	}

	teacher.Get("/classes/:class_id/attendance", h.ClassAttendance)
	teacher.Post("/classes/:class_id/attendance", h.MarkAttendance)
}
