package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classroom_backend/internals/features/school/dashboards/dto"
	"classroom_backend/internals/features/school/dashboards/service"
	helper "classroom_backend/internals/helpers"
	helperAuth "classroom_backend/internals/helpers/auth"
)

var validateDashboard = helper.NewValidator()

type DashboardController struct {
	DB  *gorm.DB
	Svc *service.DashboardService
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db, Svc: service.NewDashboardService(db)}
}

// GET /dashboard/admin?q=
func (ctl *DashboardController) Admin(c *fiber.Ctx) error {
	a, err := helperAuth.GetActor(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var q dto.AdminDashboardQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	q.Normalize()
	if err := validateDashboard.Struct(&q); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	out, err := ctl.Svc.Admin(c.UserContext(), a.UserID, q)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /dashboard/teacher
func (ctl *DashboardController) Teacher(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	a, _ := helperAuth.GetActor(c)
	out, err := ctl.Svc.Teacher(c.UserContext(), a.UserID, teacherID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /dashboard/student
func (ctl *DashboardController) Student(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	a, _ := helperAuth.GetActor(c)
	out, err := ctl.Svc.Student(c.UserContext(), a.UserID, studentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}
