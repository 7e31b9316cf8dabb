package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"classroom_backend/internals/features/school/classes/class_enrollments/dto"
	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	"classroom_backend/internals/features/school/classes/class_enrollments/service"
	helper "classroom_backend/internals/helpers"
	helperAuth "classroom_backend/internals/helpers/auth"
	"classroom_backend/internals/helpers/mailer"
)

var validateEnrollment = helper.NewValidator()

type ClassEnrollmentController struct {
	DB  *gorm.DB
	Svc *service.EnrollmentService
}

func NewClassEnrollmentController(db *gorm.DB, m *mailer.Dispatcher) *ClassEnrollmentController {
	return &ClassEnrollmentController{DB: db, Svc: service.NewEnrollmentService(db, m)}
}

/* =======================================================
   Student
======================================================= */

// POST /dashboard/student/classes/:class_id/enroll
func (ctl *ClassEnrollmentController) Request(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	classID, err := helper.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	e, res, err := ctl.Svc.RequestEnrollment(c.UserContext(), studentID, classID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonCreated(c, res.Message, dto.NewEnrollmentResponse(e))
}

// GET /dashboard/student/enrollments
func (ctl *ClassEnrollmentController) ListMine(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := ctl.Svc.ListForStudent(c.UserContext(), studentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load enrollments")
	}
	return helper.JsonOK(c, "ok", dto.NewEnrollmentRowResponses(rows))
}

/* =======================================================
   Admin
======================================================= */

// GET /dashboard/admin/enrollments?q=&status=&paid=&page=&per_page=
func (ctl *ClassEnrollmentController) AdminList(c *fiber.Ctx) error {
	var q dto.ListEnrollmentQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	if err := validateEnrollment.Struct(&q); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	p := helper.ResolvePaging(c, 20, 100)

	rows, total, err := ctl.Svc.ListForAdmin(c.UserContext(), q, p)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load enrollments")
	}
	return helper.JsonList(c, "ok", dto.NewEnrollmentRowResponses(rows), helper.BuildPagination(total, p))
}

// POST /dashboard/admin/enrollments
func (ctl *ClassEnrollmentController) AdminAdd(c *fiber.Ctx) error {
	var req dto.AdminAddEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateEnrollment.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}

	e, res, err := ctl.Svc.AdminAddEnrollment(c.UserContext(), req.StudentID, req.ClassID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonCreated(c, res.Message, dto.NewEnrollmentResponse(e))
}

// POST /dashboard/admin/enrollments/:id/approve
func (ctl *ClassEnrollmentController) Approve(c *fiber.Ctx) error {
	return ctl.transition(c, ctl.Svc.Approve)
}

// POST /dashboard/admin/enrollments/:id/reject
func (ctl *ClassEnrollmentController) Reject(c *fiber.Ctx) error {
	return ctl.transition(c, ctl.Svc.Reject)
}

// POST /dashboard/admin/enrollments/:id/verify-payment
func (ctl *ClassEnrollmentController) VerifyPayment(c *fiber.Ctx) error {
	return ctl.transition(c, ctl.Svc.VerifyPayment)
}

func (ctl *ClassEnrollmentController) transition(c *fiber.Ctx, fn transitionFunc) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	e, res, err := fn(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonResult(c, res, dto.NewEnrollmentResponse(e))
}

// DELETE /dashboard/admin/enrollments/:id
func (ctl *ClassEnrollmentController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Enrollment deleted.", fiber.Map{"class_enrollment_id": id})
}

/* =======================================================
   Teacher
======================================================= */

// GET /dashboard/teacher/classes/:class_id/enrollments
func (ctl *ClassEnrollmentController) TeacherRoster(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	classID, err := helper.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := ctl.Svc.ListForClass(c.UserContext(), teacherID, classID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.NewEnrollmentRowResponses(rows))
}

// PATCH /dashboard/teacher/enrollments/:id/scores
func (ctl *ClassEnrollmentController) RecordScores(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.RecordScoresRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	e, err := ctl.Svc.RecordScores(c.UserContext(), teacherID, id, service.ScoresInput{
		Minitest1: req.Minitest1,
		Minitest2: req.Minitest2,
		Minitest3: req.Minitest3,
		Minitest4: req.Minitest4,
		Midterm:   req.Midterm,
		FinalTest: req.FinalTest,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Scores saved.", dto.NewEnrollmentResponse(e))
}

type transitionFunc = func(ctx context.Context, id uuid.UUID) (*enrollmentModel.ClassEnrollmentModel, helper.Result, error)
