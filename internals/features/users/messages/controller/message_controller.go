package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classroom_backend/internals/features/users/messages/dto"
	"classroom_backend/internals/features/users/messages/service"
	helper "classroom_backend/internals/helpers"
	helperAuth "classroom_backend/internals/helpers/auth"
)

var validateMessage = helper.NewValidator()

type MessageController struct {
	DB  *gorm.DB
	Svc *service.MessageService
}

func NewMessageController(db *gorm.DB) *MessageController {
	return &MessageController{DB: db, Svc: service.NewMessageService(db)}
}

// POST /dashboard/messages
func (ctl *MessageController) Send(c *fiber.Ctx) error {
	a, err := helperAuth.GetActor(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := validateMessage.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	m, res, err := ctl.Svc.Send(c.UserContext(), a.UserID, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !res.OK() {
		return helper.JsonResult(c, res, nil)
	}
	return helper.JsonCreated(c, res.Message, dto.FromModel(m))
}

// GET /dashboard/messages/inbox?unread=true
func (ctl *MessageController) Inbox(c *fiber.Ctx) error {
	a, err := helperAuth.GetActor(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.Inbox(c.UserContext(), a.UserID, c.QueryBool("unread", false), p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromRows(rows), helper.BuildPagination(total, p))
}

// GET /dashboard/messages/sent
func (ctl *MessageController) Sent(c *fiber.Ctx) error {
	a, err := helperAuth.GetActor(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.Sent(c.UserContext(), a.UserID, p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromRows(rows), helper.BuildPagination(total, p))
}

// GET /dashboard/messages/:id
func (ctl *MessageController) Detail(c *fiber.Ctx) error {
	a, err := helperAuth.GetActor(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := ctl.Svc.Detail(c.UserContext(), a.UserID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromRow(row))
}

// GET /dashboard/messages/unread-count
func (ctl *MessageController) UnreadCount(c *fiber.Ctx) error {
	a, err := helperAuth.GetActor(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	n, err := ctl.Svc.UnreadCount(c.UserContext(), a.UserID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{"unread_count": n})
}

// GET /dashboard/messages/contacts?q=&sort=recent|name
func (ctl *MessageController) Contacts(c *fiber.Ctx) error {
	a, err := helperAuth.GetActor(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var q dto.ContactsQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	if err := validateMessage.Struct(&q); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	rows, err := ctl.Svc.Contacts(c.UserContext(), a.UserID, q)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}
