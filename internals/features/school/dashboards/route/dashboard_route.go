package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dashboardctrl "classroom_backend/internals/features/school/dashboards/controller"
)

// group sudah dibatasi role di route/index.go
func DashboardAdminRoutes(admin fiber.Router, db *gorm.DB) {
	admin.Get("/", dashboardctrl.NewDashboardController(db).Admin)
}

func DashboardTeacherRoutes(teacher fiber.Router, db *gorm.DB) {
	teacher.Get("/", dashboardctrl.NewDashboardController(db).Teacher)
}

func DashboardStudentRoutes(student fiber.Router, db *gorm.DB) {
	student.Get("/", dashboardctrl.NewDashboardController(db).Student)
}
