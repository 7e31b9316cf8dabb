package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	peoplectrl "classroom_backend/internals/features/school/people/controller"
)

// PeopleUserRoutes: profil sendiri untuk semua role (/dashboard)
func PeopleUserRoutes(r fiber.Router, db *gorm.DB) {
	h := peoplectrl.NewPeopleController(db)

	r.Get("/profile", h.MyProfile)
	r.Patch("/profile", h.UpdateMyProfile)
}
