package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"classroom_backend/internals/features/school/others/feedbacks/dto"
	"classroom_backend/internals/features/school/others/feedbacks/service"
	helper "classroom_backend/internals/helpers"
	helperAuth "classroom_backend/internals/helpers/auth"
)

var validateFeedback = helper.NewValidator()

type FeedbackController struct {
	DB  *gorm.DB
	Svc *service.FeedbackService
}

func NewFeedbackController(db *gorm.DB) *FeedbackController {
	return &FeedbackController{DB: db, Svc: service.NewFeedbackService(db)}
}

// POST /dashboard/student/classes/:class_id/feedback
func (ctl *FeedbackController) Submit(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	classID, err := helper.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := validateFeedback.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	m, res, err := ctl.Svc.Submit(c.UserContext(), studentID, classID, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonOK(c, res.Message, dto.FromModel(m))
}

// GET /dashboard/student/classes/:class_id/feedback
func (ctl *FeedbackController) Mine(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	classID, err := helper.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Svc.Mine(c.UserContext(), studentID, classID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if m == nil {
		return helper.JsonOK(c, "no feedback yet", nil)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

// GET /dashboard/teacher/feedback?class_id=
func (ctl *FeedbackController) TeacherList(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var classID *uuid.UUID
	if raw := c.Query("class_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "class_id must be a UUID")
		}
		classID = &id
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.ListForTeacher(c.UserContext(), teacherID, classID, p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	summary, err := service.TeacherRating(ctl.DB.WithContext(c.UserContext()), teacherID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "ok",
		"data":       dto.FromRows(rows),
		"summary":    summary,
		"pagination": helper.BuildPagination(total, p),
	})
}

// GET /dashboard/admin/feedback?q=&class_id=&teacher_id=
func (ctl *FeedbackController) AdminList(c *fiber.Ctx) error {
	var q dto.ListFeedbackQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	if err := validateFeedback.Struct(&q); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.ListForAdmin(c.UserContext(), q, p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromRows(rows), helper.BuildPagination(total, p))
}
