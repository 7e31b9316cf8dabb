package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classroom_backend/internals/features/school/others/announcements/dto"
	"classroom_backend/internals/features/school/others/announcements/service"
	helper "classroom_backend/internals/helpers"
	helperAuth "classroom_backend/internals/helpers/auth"
)

var validateAnnouncement = helper.NewValidator()

type AnnouncementController struct {
	DB  *gorm.DB
	Svc *service.AnnouncementService
}

func NewAnnouncementController(db *gorm.DB) *AnnouncementController {
	return &AnnouncementController{DB: db, Svc: service.NewAnnouncementService(db)}
}

func parseRequest(c *fiber.Ctx) (*dto.AnnouncementRequest, error) {
	var req dto.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := validateAnnouncement.Struct(&req); err != nil {
		return nil, helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	return &req, nil
}

// POST /dashboard/teacher/classes/:class_id/announcements
func (ctl *AnnouncementController) Create(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	classID, err := helper.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	req, err := parseRequest(c)
	if req == nil {
		return err
	}
	m, err := ctl.Svc.Create(c.UserContext(), teacherID, classID, *req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Announcement posted.", dto.FromModel(m))
}

// GET /dashboard/teacher/classes/:class_id/announcements
func (ctl *AnnouncementController) TeacherList(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	classID, err := helper.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := ctl.Svc.ListForTeacher(c.UserContext(), teacherID, classID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModels(rows))
}

// PUT /dashboard/teacher/announcements/:id
func (ctl *AnnouncementController) Update(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	req, err := parseRequest(c)
	if req == nil {
		return err
	}
	m, err := ctl.Svc.Update(c.UserContext(), teacherID, id, *req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Announcement updated.", dto.FromModel(m))
}

// DELETE /dashboard/teacher/announcements/:id
func (ctl *AnnouncementController) Delete(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Svc.Delete(c.UserContext(), teacherID, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Announcement deleted.", fiber.Map{"announcement_id": id})
}

// GET /dashboard/student/classes/:class_id/announcements
func (ctl *AnnouncementController) StudentList(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	classID, err := helper.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := ctl.Svc.ListForStudent(c.UserContext(), studentID, classID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModels(rows))
}

// GET /dashboard/student/announcements/:id
func (ctl *AnnouncementController) StudentView(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Svc.ViewForStudent(c.UserContext(), studentID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}
