package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classroom_backend/internals/constants"
	"classroom_backend/internals/features/school/people/dto"
	"classroom_backend/internals/features/school/people/service"
	helper "classroom_backend/internals/helpers"
	helperAuth "classroom_backend/internals/helpers/auth"
)

var validatePeople = helper.NewValidator()

type PeopleController struct {
	DB  *gorm.DB
	Svc *service.PeopleService
}

func NewPeopleController(db *gorm.DB) *PeopleController {
	return &PeopleController{DB: db, Svc: service.NewPeopleService(db)}
}

func (ctl *PeopleController) listQuery(c *fiber.Ctx) (dto.ListPeopleQuery, helper.Paging, bool, error) {
	var q dto.ListPeopleQuery
	if err := c.QueryParser(&q); err != nil {
		return q, helper.Paging{}, false, helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	if err := validatePeople.Struct(&q); err != nil {
		return q, helper.Paging{}, false, helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	return q, helper.ResolvePaging(c, 20, 100), true, nil
}

// parseBody: BodyParser + validator; ok=false berarti response error sudah ditulis
func parseBody[T any](c *fiber.Ctx) (*T, bool, error) {
	var req T
	if err := c.BodyParser(&req); err != nil {
		return nil, false, helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validatePeople.Struct(&req); err != nil {
		return nil, false, helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	return &req, true, nil
}

/* =========================== STUDENTS =========================== */

// GET /dashboard/admin/students?q=&sort=&page=&per_page=
func (ctl *PeopleController) ListStudents(c *fiber.Ctx) error {
	q, p, ok, err := ctl.listQuery(c)
	if !ok {
		return err
	}
	rows, total, err := ctl.Svc.ListStudents(c.UserContext(), q, p)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load students")
	}
	return helper.JsonList(c, "ok", dto.FromStudents(rows), helper.BuildPagination(total, p))
}

// GET /dashboard/admin/students/:id
func (ctl *PeopleController) GetStudent(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Svc.GetStudent(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromStudent(m))
}

// POST /dashboard/admin/students
func (ctl *PeopleController) CreateStudent(c *fiber.Ctx) error {
	req, ok, err := parseBody[dto.CreateStudentRequest](c)
	if !ok {
		return err
	}
	m, res, err := ctl.Svc.CreateStudent(c.UserContext(), *req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonCreated(c, res.Message, dto.FromStudent(m))
}

// PATCH /dashboard/admin/students/:id
func (ctl *PeopleController) UpdateStudent(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	req, ok, err := parseBody[dto.PatchPersonRequest](c)
	if !ok {
		return err
	}
	m, res, err := ctl.Svc.UpdateStudent(c.UserContext(), id, *req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonUpdated(c, res.Message, dto.FromStudent(m))
}

// DELETE /dashboard/admin/students/:id
func (ctl *PeopleController) DeleteStudent(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Svc.DeleteStudent(c.UserContext(), id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Student deleted.", fiber.Map{"student_id": id})
}

/* =========================== TEACHERS =========================== */

// GET /dashboard/admin/teachers
func (ctl *PeopleController) ListTeachers(c *fiber.Ctx) error {
	q, p, ok, err := ctl.listQuery(c)
	if !ok {
		return err
	}
	rows, total, err := ctl.Svc.ListTeachers(c.UserContext(), q, p)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load teachers")
	}
	return helper.JsonList(c, "ok", dto.FromTeachers(rows), helper.BuildPagination(total, p))
}

func (ctl *PeopleController) GetTeacher(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Svc.GetTeacher(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromTeacher(m))
}

func (ctl *PeopleController) CreateTeacher(c *fiber.Ctx) error {
	req, ok, err := parseBody[dto.CreateTeacherRequest](c)
	if !ok {
		return err
	}
	m, res, err := ctl.Svc.CreateTeacher(c.UserContext(), *req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonCreated(c, res.Message, dto.FromTeacher(m))
}

func (ctl *PeopleController) UpdateTeacher(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	req, ok, err := parseBody[dto.PatchPersonRequest](c)
	if !ok {
		return err
	}
	m, res, err := ctl.Svc.UpdateTeacher(c.UserContext(), id, *req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonUpdated(c, res.Message, dto.FromTeacher(m))
}

func (ctl *PeopleController) DeleteTeacher(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Svc.DeleteTeacher(c.UserContext(), id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Teacher deleted.", fiber.Map{"teacher_id": id})
}

/* =========================== ADMINS =========================== */

func (ctl *PeopleController) ListAdmins(c *fiber.Ctx) error {
	q, p, ok, err := ctl.listQuery(c)
	if !ok {
		return err
	}
	rows, total, err := ctl.Svc.ListAdmins(c.UserContext(), q, p)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load admins")
	}
	return helper.JsonList(c, "ok", dto.FromAdmins(rows), helper.BuildPagination(total, p))
}

func (ctl *PeopleController) GetAdmin(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Svc.GetAdmin(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromAdmin(m))
}

func (ctl *PeopleController) CreateAdmin(c *fiber.Ctx) error {
	req, ok, err := parseBody[dto.CreateAdminRequest](c)
	if !ok {
		return err
	}
	m, res, err := ctl.Svc.CreateAdmin(c.UserContext(), *req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonCreated(c, res.Message, dto.FromAdmin(m))
}

func (ctl *PeopleController) UpdateAdmin(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	req, ok, err := parseBody[dto.PatchPersonRequest](c)
	if !ok {
		return err
	}
	m, res, err := ctl.Svc.UpdateAdmin(c.UserContext(), id, *req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonUpdated(c, res.Message, dto.FromAdmin(m))
}

// DELETE /dashboard/admin/admins/:id (tidak boleh menghapus diri sendiri)
func (ctl *PeopleController) DeleteAdmin(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if me, err := helperAuth.GetAdminID(c); err == nil && me == id {
		return helper.JsonError(c, fiber.StatusConflict, "You cannot delete your own admin profile.")
	}
	if err := ctl.Svc.DeleteAdmin(c.UserContext(), id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Admin deleted.", fiber.Map{"admin_id": id})
}

/* =========================== SELF PROFILE =========================== */

// GET /dashboard/profile
func (ctl *PeopleController) MyProfile(c *fiber.Ctx) error {
	a, err := helperAuth.GetActor(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()
	switch a.Role {
	case constants.RoleStudent:
		m, err := ctl.Svc.GetStudent(ctx, a.ProfileID)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		return helper.JsonOK(c, "ok", dto.FromStudent(m))
	case constants.RoleTeacher:
		m, err := ctl.Svc.GetTeacher(ctx, a.ProfileID)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		return helper.JsonOK(c, "ok", dto.FromTeacher(m))
	case constants.RoleAdmin:
		m, err := ctl.Svc.GetAdmin(ctx, a.ProfileID)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		return helper.JsonOK(c, "ok", dto.FromAdmin(m))
	}
	return helper.JsonError(c, fiber.StatusForbidden, constants.ErrAccessDenied)
}

// PATCH /dashboard/profile
func (ctl *PeopleController) UpdateMyProfile(c *fiber.Ctx) error {
	a, err := helperAuth.GetActor(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	req, ok, err := parseBody[dto.PatchPersonRequest](c)
	if !ok {
		return err
	}
	ctx := c.UserContext()

	var (
		out any
		res helper.Result
	)
	switch a.Role {
	case constants.RoleStudent:
		m, r, e := ctl.Svc.UpdateStudent(ctx, a.ProfileID, *req)
		if e == nil && r.OK() {
			out = dto.FromStudent(m)
		}
		res, err = r, e
	case constants.RoleTeacher:
		m, r, e := ctl.Svc.UpdateTeacher(ctx, a.ProfileID, *req)
		if e == nil && r.OK() {
			out = dto.FromTeacher(m)
		}
		res, err = r, e
	case constants.RoleAdmin:
		m, r, e := ctl.Svc.UpdateAdmin(ctx, a.ProfileID, *req)
		if e == nil && r.OK() {
			out = dto.FromAdmin(m)
		}
		res, err = r, e
	default:
		return helper.JsonError(c, fiber.StatusForbidden, constants.ErrAccessDenied)
	}
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonUpdated(c, res.Message, out)
}
