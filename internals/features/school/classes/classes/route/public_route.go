package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classctrl "classroom_backend/internals/features/school/classes/classes/controller"
	"classroom_backend/internals/helpers/oss"
)

// ClassPublicRoutes: katalog tanpa login (/api/public)
func ClassPublicRoutes(public fiber.Router, db *gorm.DB, blob oss.BlobService) {
	h := classctrl.NewClassController(db, blob)

	public.Get("/class-types", h.ListTypes)
	public.Get("/classes", h.List)
	public.Get("/classes/featured", h.Featured)
	public.Get("/classes/:id", h.Detail)
}
