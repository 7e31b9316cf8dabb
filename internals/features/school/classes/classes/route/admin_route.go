package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classctrl "classroom_backend/internals/features/school/classes/classes/controller"
	"classroom_backend/internals/helpers/oss"
)

// ClassAdminRoutes: group admin (/dashboard/admin)
func ClassAdminRoutes(admin fiber.Router, db *gorm.DB, blob oss.BlobService) {
	h := classctrl.NewClassController(db, blob)

	types := admin.Group("/class-types")
	types.Get("/", h.ListTypes)
	types.Post("/", h.CreateType)
	types.Put("/:id", h.UpdateType)
	types.Delete("/:id", h.DeleteType)

	classes := admin.Group("/classes")
	classes.Get("/", h.List)
	classes.Post("/", h.Create)
	classes.Get("/:id", h.Detail)
	classes.Patch("/:id", h.Patch)
	classes.Delete("/:id", h.Delete)
	classes.Put("/:id/image", h.UploadImage)
	classes.Put("/:id/schedule", h.SetSchedule)
	classes.Delete("/:id/schedule", h.DeleteSchedule)
}
