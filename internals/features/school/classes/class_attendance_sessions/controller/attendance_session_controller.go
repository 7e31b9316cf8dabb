package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classroom_backend/internals/features/school/classes/class_attendance_sessions/dto"
	"classroom_backend/internals/features/school/classes/class_attendance_sessions/service"
	helper "classroom_backend/internals/helpers"
	helperAuth "classroom_backend/internals/helpers/auth"
	"classroom_backend/internals/helpers/dbtime"
)

var validateAttendance = helper.NewValidator()

type AttendanceSessionController struct {
	DB  *gorm.DB
	Svc *service.AttendanceSessionService
}

func NewAttendanceSessionController(db *gorm.DB) *AttendanceSessionController {
	return &AttendanceSessionController{DB: db, Svc: service.NewAttendanceSessionService(db)}
}

/* =======================================================
   Teacher: QR session
======================================================= */

// GET /dashboard/teacher/qr/
func (ctl *AttendanceSessionController) ListActive(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	views, err := ctl.Svc.ActiveSessions(c.UserContext(), teacherID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load sessions")
	}
	out := make([]dto.TeacherSessionResponse, 0, len(views))
	for i := range views {
		v := &views[i]
		out = append(out, dto.NewTeacherSessionResponse(&v.ClassAttendanceSessionModel, v.ClassName,
			ctl.Svc.CheckInURL(v.ClassAttendanceSessionToken)))
	}
	return helper.JsonOK(c, "ok", out)
}

// POST /dashboard/teacher/qr/  {class_id}
func (ctl *AttendanceSessionController) Open(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.OpenSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateAttendance.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}

	sess, err := ctl.Svc.OpenSession(c.UserContext(), teacherID, req.ClassID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Attendance session opened.",
		dto.NewTeacherSessionResponse(sess, "", ctl.Svc.CheckInURL(sess.ClassAttendanceSessionToken)))
}

// GET /dashboard/teacher/qr/:id/image
func (ctl *AttendanceSessionController) QRImage(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	sess, err := ctl.Svc.OwnedSession(c.UserContext(), teacherID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	png, err := ctl.Svc.QRCodePNG(sess)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to generate QR code")
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(png)
}

// POST /dashboard/teacher/qr/:id/stop
func (ctl *AttendanceSessionController) Stop(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	out, res, err := ctl.Svc.CloseSession(c.UserContext(), teacherID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonResult(c, res, fiber.Map{
		"session":         dto.NewTeacherSessionResponse(out.Session, "", ctl.Svc.CheckInURL(out.Session.ClassAttendanceSessionToken)),
		"absents_created": out.AbsentsCreated,
	})
}

/* =======================================================
   Teacher: manual attendance
======================================================= */

// GET /dashboard/teacher/classes/:class_id/attendance?date=YYYY-MM-DD
func (ctl *AttendanceSessionController) ClassAttendance(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	classID, err := helper.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	date, err := dbtime.ParseDateQuery(c, "date", ctl.Svc.Clock)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := ctl.Svc.ClassAttendance(c.UserContext(), teacherID, classID, date)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{"date": date, "students": rows})
}

// POST /dashboard/teacher/classes/:class_id/attendance
func (ctl *AttendanceSessionController) MarkAttendance(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	classID, err := helper.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateAttendance.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	date := dbtime.Today(ctl.Svc.Clock)
	if req.Date != "" {
		if date, err = dbtime.ParseDate(req.Date); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
	}

	entries := make([]service.MarkEntry, 0, len(req.Items))
	for _, it := range req.Items {
		entries = append(entries, service.MarkEntry{EnrollmentID: it.EnrollmentID, Status: it.Status})
	}
	rows, err := ctl.Svc.MarkAttendance(c.UserContext(), teacherID, classID, date, entries)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	out := make([]dto.AttendanceResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewAttendanceResponse(&rows[i]))
	}
	return helper.JsonUpdated(c, "Attendance saved.", out)
}

/* =======================================================
   Student
======================================================= */

// GET /dashboard/student/qr/scan/:token/
func (ctl *AttendanceSessionController) ScanInfo(c *fiber.Ctx) error {
	if _, err := helperAuth.GetStudentID(c); err != nil {
		return helper.FromFiberError(c, err)
	}
	v, res, err := ctl.Svc.ScanInfo(c.UserContext(), c.Params("token"))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonResult(c, res, dto.ScanResponse{
		ClassID:   v.ClassAttendanceSessionClassID,
		ClassName: v.ClassName,
		Date:      v.ClassAttendanceSessionDate,
	})
}

// POST /dashboard/student/qr/scan/:token/  {passcode}
func (ctl *AttendanceSessionController) CheckIn(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateAttendance.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}

	a, res, err := ctl.Svc.CheckIn(c.UserContext(), c.Params("token"), req.Passcode, studentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonResult(c, res, dto.NewAttendanceResponse(a))
}

// GET /dashboard/student/attendance
func (ctl *AttendanceSessionController) MyHistory(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, rates, err := ctl.Svc.StudentHistory(c.UserContext(), studentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load attendance")
	}
	return helper.JsonOK(c, "ok", fiber.Map{"records": rows, "rates": rates})
}
