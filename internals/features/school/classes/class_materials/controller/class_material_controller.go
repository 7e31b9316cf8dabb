package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classroom_backend/internals/features/school/classes/class_materials/dto"
	"classroom_backend/internals/features/school/classes/class_materials/service"
	helper "classroom_backend/internals/helpers"
	helperAuth "classroom_backend/internals/helpers/auth"
	"classroom_backend/internals/helpers/oss"
)

var validateMaterial = helper.NewValidator()

type ClassMaterialController struct {
	DB  *gorm.DB
	Svc *service.MaterialService
}

func NewClassMaterialController(db *gorm.DB, blob oss.BlobService) *ClassMaterialController {
	return &ClassMaterialController{DB: db, Svc: service.NewMaterialService(db, blob)}
}

// POST /dashboard/teacher/classes/:class_id/materials (multipart: title, file)
func (ctl *ClassMaterialController) Upload(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	classID, err := helper.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.UploadMaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := validateMaterial.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	fh, err := oss.GetFile(c, "file")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	m, err := ctl.Svc.Upload(c.UserContext(), teacherID, classID, req.Title, fh)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Material uploaded.", dto.FromModel(m))
}

// GET /dashboard/teacher/classes/:class_id/materials
func (ctl *ClassMaterialController) TeacherList(c *fiber.Ctx) error {
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

// DELETE /dashboard/teacher/materials/:id
func (ctl *ClassMaterialController) Delete(c *fiber.Ctx) error {
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
	return helper.JsonDeleted(c, "Material deleted.", fiber.Map{"class_material_id": id})
}

// GET /dashboard/student/classes/:class_id/materials
func (ctl *ClassMaterialController) StudentList(c *fiber.Ctx) error {
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
