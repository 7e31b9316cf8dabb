package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	materialctrl "classroom_backend/internals/features/school/classes/class_materials/controller"
	"classroom_backend/internals/helpers/oss"
)

func ClassMaterialStudentRoutes(student fiber.Router, db *gorm.DB, blob oss.BlobService) {
	h := materialctrl.NewClassMaterialController(db, blob)

	student.Get("/classes/:class_id/materials", h.StudentList)
}
