package controller

import (
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classroom_backend/internals/features/finance/payments/dto"
	"classroom_backend/internals/features/finance/payments/service"
	helper "classroom_backend/internals/helpers"
	helperAuth "classroom_backend/internals/helpers/auth"
)

var validatePayment = helper.NewValidator()

type PaymentController struct {
	DB  *gorm.DB
	Svc *service.PaymentService
}

func NewPaymentController(db *gorm.DB, svc *service.PaymentService) *PaymentController {
	return &PaymentController{DB: db, Svc: svc}
}

// POST /dashboard/student/enrollments/:id/checkout
func (ctl *PaymentController) Checkout(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p, res, err := ctl.Svc.Checkout(c.UserContext(), studentID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonCreated(c, res.Message, dto.FromModel(p))
}

// GET /dashboard/student/payments
func (ctl *PaymentController) Mine(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := ctl.Svc.ListMine(c.UserContext(), studentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromRows(rows))
}

// GET /dashboard/admin/payments?status=
func (ctl *PaymentController) AdminList(c *fiber.Ctx) error {
	var q dto.ListPaymentQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	if err := validatePayment.Struct(&q); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.ListForAdmin(c.UserContext(), q, p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromRows(rows), helper.BuildPagination(total, p))
}

// GET /api/payments/midtrans/webhook (ping dari dashboard Midtrans)
func (ctl *PaymentController) NotificationPing(c *fiber.Ctx) error {
	return c.SendString("OK")
}

// POST /api/payments/midtrans/webhook (JSON atau form-urlencoded)
func (ctl *PaymentController) Notification(c *fiber.Ctx) error {
	var n dto.MidtransNotification
	if err := c.BodyParser(&n); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid notification body")
	}

	raw := c.Body()
	if !strings.Contains(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON) {
		b, err := sonic.Marshal(n)
		if err != nil {
			return err
		}
		raw = b
	}

	outcome, p, err := ctl.Svc.HandleNotification(c.UserContext(), n, raw)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	data := fiber.Map{"order_id": n.OrderID, "outcome": outcome}
	if p != nil {
		data["status"] = p.PaymentStatus
	}
	return helper.JsonOK(c, "notification processed", data)
}
