package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	notificationModel "classroom_backend/internals/features/school/others/notifications/model"
	"classroom_backend/internals/features/school/others/notifications/service"
	helper "classroom_backend/internals/helpers"
	helperAuth "classroom_backend/internals/helpers/auth"
)

type NotificationController struct {
	DB  *gorm.DB
	Svc *service.NotificationService
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db, Svc: service.NewNotificationService(db)}
}

// GET /dashboard/student/notifications
func (ctl *NotificationController) Feed(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	items, err := ctl.Svc.Feed(c.UserContext(), studentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load notifications")
	}
	unread, err := ctl.Svc.UnreadCount(c.UserContext(), studentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count notifications")
	}
	return helper.JsonOK(c, "ok", fiber.Map{"items": items, "unread_count": unread})
}

// GET /dashboard/student/notifications/unread-count
func (ctl *NotificationController) UnreadCount(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	n, err := ctl.Svc.UnreadCount(c.UserContext(), studentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count notifications")
	}
	return helper.JsonOK(c, "ok", fiber.Map{"unread_count": n})
}

// POST /dashboard/student/notifications/:type/:id/read
func (ctl *NotificationController) MarkRead(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	t := notificationModel.ContentType(c.Params("type"))
	if err := ctl.Svc.MarkRead(c.UserContext(), studentID, t, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Marked as read.", fiber.Map{"content_type": t, "content_id": id})
}

// POST /dashboard/student/notifications/read-all
func (ctl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	n, err := ctl.Svc.MarkAllRead(c.UserContext(), studentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update notifications")
	}
	return helper.JsonUpdated(c, "All notifications marked as read.", fiber.Map{"updated": n})
}
