package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classroom_backend/internals/features/school/submissions_assesment/assignments/dto"
	"classroom_backend/internals/features/school/submissions_assesment/assignments/service"
	helper "classroom_backend/internals/helpers"
	helperAuth "classroom_backend/internals/helpers/auth"
	"classroom_backend/internals/helpers/oss"
)

var validateAssignment = helper.NewValidator()

type AssignmentController struct {
	DB  *gorm.DB
	Svc *service.AssignmentService
}

func NewAssignmentController(db *gorm.DB, blob oss.BlobService) *AssignmentController {
	return &AssignmentController{DB: db, Svc: service.NewAssignmentService(db, blob)}
}

func parseAssignment(c *fiber.Ctx) (*dto.AssignmentRequest, error) {
	var req dto.AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := validateAssignment.Struct(&req); err != nil {
		return nil, helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	return &req, nil
}

/* =======================================================
   Teacher
======================================================= */

// POST /dashboard/teacher/classes/:class_id/assignments
func (ctl *AssignmentController) Create(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	classID, err := helper.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	req, err := parseAssignment(c)
	if req == nil {
		return err
	}
	m, err := ctl.Svc.Create(c.UserContext(), teacherID, classID, *req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Assignment created.", dto.FromModel(m))
}

// GET /dashboard/teacher/classes/:class_id/assignments
func (ctl *AssignmentController) TeacherList(c *fiber.Ctx) error {
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

// PUT /dashboard/teacher/assignments/:id
func (ctl *AssignmentController) Update(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	req, err := parseAssignment(c)
	if req == nil {
		return err
	}
	m, err := ctl.Svc.Update(c.UserContext(), teacherID, id, *req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Assignment updated.", dto.FromModel(m))
}

// DELETE /dashboard/teacher/assignments/:id
func (ctl *AssignmentController) Delete(c *fiber.Ctx) error {
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
	return helper.JsonDeleted(c, "Assignment deleted.", fiber.Map{"assignment_id": id})
}

// GET /dashboard/teacher/assignments/:id/submissions
func (ctl *AssignmentController) Submissions(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := ctl.Svc.ListSubmissions(c.UserContext(), teacherID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.NewSubmissionRowResponses(rows))
}

// PATCH /dashboard/teacher/submissions/:id/grade
func (ctl *AssignmentController) Grade(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.GradeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateAssignment.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	sub, err := ctl.Svc.Grade(c.UserContext(), teacherID, id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Submission graded.", dto.NewSubmissionResponse(sub))
}

/* =======================================================
   Student
======================================================= */

// GET /dashboard/student/classes/:class_id/assignments
func (ctl *AssignmentController) StudentList(c *fiber.Ctx) error {
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
	return helper.JsonOK(c, "ok", rows)
}

// GET /dashboard/student/assignments/:id
func (ctl *AssignmentController) StudentView(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	out, err := ctl.Svc.ViewForStudent(c.UserContext(), studentID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// POST /dashboard/student/assignments/:id/submit (multipart: file)
func (ctl *AssignmentController) Submit(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	fh, err := oss.GetFile(c, "file", "submission")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	sub, res, err := ctl.Svc.Submit(c.UserContext(), studentID, id, fh)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonCreated(c, res.Message, dto.NewSubmissionResponse(sub))
}

// GET /dashboard/student/assignments/:id/submission
func (ctl *AssignmentController) MySubmission(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	sub, err := ctl.Svc.MySubmission(c.UserContext(), studentID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.NewSubmissionResponse(sub))
}
