package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	peoplectrl "classroom_backend/internals/features/school/people/controller"
)

// PeopleAdminRoutes: group admin (/dashboard/admin)
func PeopleAdminRoutes(admin fiber.Router, db *gorm.DB) {
	h := peoplectrl.NewPeopleController(db)

	students := admin.Group("/students")
	students.Get("/", h.ListStudents)
	students.Post("/", h.CreateStudent)
	students.Get("/:id", h.GetStudent)
	students.Patch("/:id", h.UpdateStudent)
	students.Delete("/:id", h.DeleteStudent)

	teachers := admin.Group("/teachers")
	teachers.Get("/", h.ListTeachers)
	teachers.Post("/", h.CreateTeacher)
	teachers.Get("/:id", h.GetTeacher)
	teachers.Patch("/:id", h.UpdateTeacher)
	teachers.Delete("/:id", h.DeleteTeacher)

	admins := admin.Group("/admins")
	admins.Get("/", h.ListAdmins)
	admins.Post("/", h.CreateAdmin)
	admins.Get("/:id", h.GetAdmin)
	admins.Patch("/:id", h.UpdateAdmin)
	admins.Delete("/:id", h.DeleteAdmin)
}
