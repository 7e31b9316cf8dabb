package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classroom_backend/internals/features/school/classes/classes/dto"
	"classroom_backend/internals/features/school/classes/classes/service"
	helper "classroom_backend/internals/helpers"
	"classroom_backend/internals/helpers/oss"
)

var validateClass = helper.NewValidator()

type ClassController struct {
	DB  *gorm.DB
	Svc *service.ClassService
}

func NewClassController(db *gorm.DB, blob oss.BlobService) *ClassController {
	return &ClassController{DB: db, Svc: service.NewClassService(db, blob)}
}

/* =========================== PUBLIC =========================== */

// GET /api/public/classes?q=&class_type_id=&sort=&page=&per_page=
func (ctl *ClassController) List(c *fiber.Ctx) error {
	var q dto.ListClassQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	if err := validateClass.Struct(&q); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	p := helper.ResolvePaging(c, 12, 100)

	rows, total, err := ctl.Svc.List(c.UserContext(), q, p)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load classes")
	}
	return helper.JsonList(c, "ok", dto.FromRows(rows), helper.BuildPagination(total, p))
}

// GET /api/public/classes/featured
func (ctl *ClassController) Featured(c *fiber.Ctx) error {
	rows, err := ctl.Svc.Featured(c.UserContext())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load classes")
	}
	return helper.JsonOK(c, "ok", dto.FromRows(rows))
}

// GET /api/public/classes/:id
func (ctl *ClassController) Detail(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	out, err := ctl.Svc.Detail(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /api/public/class-types
func (ctl *ClassController) ListTypes(c *fiber.Ctx) error {
	rows, err := ctl.Svc.ListTypes(c.UserContext())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load class types")
	}
	return helper.JsonOK(c, "ok", rows)
}

/* =========================== ADMIN: TYPES =========================== */

func (ctl *ClassController) parseType(c *fiber.Ctx) (*dto.ClassTypeRequest, error) {
	var req dto.ClassTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := validateClass.Struct(&req); err != nil {
		return nil, helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	return &req, nil
}

// POST /dashboard/admin/class-types
func (ctl *ClassController) CreateType(c *fiber.Ctx) error {
	req, err := ctl.parseType(c)
	if req == nil {
		return err
	}
	m, res, err := ctl.Svc.CreateType(c.UserContext(), *req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonCreated(c, res.Message, m)
}

// PUT /dashboard/admin/class-types/:id
func (ctl *ClassController) UpdateType(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	req, err := ctl.parseType(c)
	if req == nil {
		return err
	}
	m, res, err := ctl.Svc.UpdateType(c.UserContext(), id, *req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonResult(c, res, m)
}

// DELETE /dashboard/admin/class-types/:id
func (ctl *ClassController) DeleteType(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res, err := ctl.Svc.DeleteType(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonResult(c, res, fiber.Map{"class_type_id": id})
}

/* =========================== ADMIN: CLASSES =========================== */

// POST /dashboard/admin/classes  (json atau multipart + field "class_image")
func (ctl *ClassController) Create(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := validateClass.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	image, _ := oss.GetFile(c, "class_image", "image")

	m, err := ctl.Svc.CreateClass(c.UserContext(), req, image)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Class created.", dto.FromModel(m))
}

// PATCH /dashboard/admin/classes/:id
func (ctl *ClassController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.PatchClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateClass.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	m, err := ctl.Svc.PatchClass(c.UserContext(), id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Class updated.", dto.FromModel(m))
}

// PUT /dashboard/admin/classes/:id/image  (multipart "class_image")
func (ctl *ClassController) UploadImage(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	fh, err := oss.GetFile(c, "class_image", "image")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Svc.SetImage(c.UserContext(), id, fh)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Class image updated.", dto.FromModel(m))
}

// DELETE /dashboard/admin/classes/:id
func (ctl *ClassController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Svc.DeleteClass(c.UserContext(), id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Class deleted.", fiber.Map{"class_id": id})
}

// PUT /dashboard/admin/classes/:id/schedule
func (ctl *ClassController) SetSchedule(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateClass.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	m, err := ctl.Svc.SetSchedule(c.UserContext(), id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Schedule saved.", dto.NewScheduleResponse(m))
}

// DELETE /dashboard/admin/classes/:id/schedule
func (ctl *ClassController) DeleteSchedule(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Svc.DeleteSchedule(c.UserContext(), id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Schedule removed.", fiber.Map{"class_id": id})
}
