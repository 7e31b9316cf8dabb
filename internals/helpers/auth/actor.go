package helper

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"classroom_backend/internals/constants"
)

// Locals key, diisi middleware auth sekali per request
const LocActor = "actor"

// Actor = identitas + role yang sudah di-resolve
type Actor struct {
	UserID    uuid.UUID      `json:"user_id"`
	UserName  string         `json:"user_name"`
	Email     string         `json:"email"`
	Role      constants.Role `json:"role"`
	ProfileID uuid.UUID      `json:"profile_id,omitempty"` // admin_id / teacher_id / student_id
	FullName  string         `json:"full_name,omitempty"`
}

func (a Actor) Is(role constants.Role) bool { return a.Role == role }

func SetActor(c *fiber.Ctx, a Actor) {
	c.Locals(LocActor, a)
	c.Locals("user_id", a.UserID.String())
	c.Locals("userRole", string(a.Role))
}

func GetActor(c *fiber.Ctx) (Actor, error) {
	a, ok := c.Locals(LocActor).(Actor)
	if !ok || a.UserID == uuid.Nil {
		return Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return a, nil
}

func requireProfile(c *fiber.Ctx, role constants.Role) (Actor, error) {
	a, err := GetActor(c)
	if err != nil {
		return Actor{}, err
	}
	if a.Role != role || a.ProfileID == uuid.Nil {
		return Actor{}, fiber.NewError(fiber.StatusForbidden, constants.ErrAccessDenied)
	}
	return a, nil
}

// GetTeacherID: teacher_id milik actor (403 kalau bukan teacher)
func GetTeacherID(c *fiber.Ctx) (uuid.UUID, error) {
	a, err := requireProfile(c, constants.RoleTeacher)
	return a.ProfileID, err
}

func GetStudentID(c *fiber.Ctx) (uuid.UUID, error) {
	a, err := requireProfile(c, constants.RoleStudent)
	return a.ProfileID, err
}

func GetAdminID(c *fiber.Ctx) (uuid.UUID, error) {
	a, err := requireProfile(c, constants.RoleAdmin)
	return a.ProfileID, err
}
