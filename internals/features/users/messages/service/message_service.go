package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"classroom_backend/internals/features/users/messages/dto"
	messageModel "classroom_backend/internals/features/users/messages/model"
	userModel "classroom_backend/internals/features/users/user/model"
	helper "classroom_backend/internals/helpers"
	"classroom_backend/internals/helpers/dbtime"
)

const (
	MsgSent          = "Message sent."
	MsgUserNotFound  = "User not found."
	MsgCannotMessage = "You cannot send a message to yourself."
)

var ErrMessageNotFound = fiber.NewError(fiber.StatusNotFound, "message not found")

type MessageService struct {
	DB    *gorm.DB
	Clock dbtime.Clock
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{DB: db, Clock: dbtime.SystemClock}
}

func (s *MessageService) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// Send: penerima dicari dari user_name (case-insensitive)
func (s *MessageService) Send(ctx context.Context, senderID uuid.UUID, req dto.SendMessageRequest) (*messageModel.MessageModel, helper.Result, error) {
	db := s.DB.WithContext(ctx)

	var to userModel.UserModel
	err := db.Where("LOWER(user_name) = ?", strings.ToLower(req.Recipient)).Take(&to).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.Fail(MsgUserNotFound), nil
	}
	if err != nil {
		return nil, helper.Result{}, err
	}
	if to.ID == senderID {
		return nil, helper.Fail(MsgCannotMessage), nil
	}

	m := &messageModel.MessageModel{
		MessageSenderUserID:    senderID,
		MessageRecipientUserID: to.ID,
		MessageSubject:         req.Subject,
		MessageBody:            req.Body,
	}
	if err := db.Create(m).Error; err != nil {
		return nil, helper.Result{}, err
	}
	return m, helper.Ok(MsgSent), nil
}

const rowColumns = "m.*, su.user_name AS sender_user_name, ru.user_name AS recipient_user_name"

func (s *MessageService) joined(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("messages AS m").
		Joins("JOIN users su ON su.id = m.message_sender_user_id").
		Joins("JOIN users ru ON ru.id = m.message_recipient_user_id")
}

func (s *MessageService) list(ctx context.Context, filter func(*gorm.DB) *gorm.DB, p helper.Paging) ([]dto.MessageRow, int64, error) {
	var total int64
	if err := filter(s.joined(ctx)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []dto.MessageRow{}
	err := filter(s.joined(ctx).Select(rowColumns)).
		Order("m.message_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error
	return rows, total, err
}

func (s *MessageService) Inbox(ctx context.Context, userID uuid.UUID, unreadOnly bool, p helper.Paging) ([]dto.MessageRow, int64, error) {
	return s.list(ctx, func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("m.message_recipient_user_id = ?", userID)
		if unreadOnly {
			tx = tx.Where("m.message_is_read = ?", false)
		}
		return tx
	}, p)
}

func (s *MessageService) Sent(ctx context.Context, userID uuid.UUID, p helper.Paging) ([]dto.MessageRow, int64, error) {
	return s.list(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("m.message_sender_user_id = ?", userID)
	}, p)
}

// Detail: hanya pengirim/penerima; dibuka penerima → ditandai dibaca
func (s *MessageService) Detail(ctx context.Context, userID, id uuid.UUID) (*dto.MessageRow, error) {
	var row dto.MessageRow
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Table("messages AS m").
			Select(rowColumns).
			Joins("JOIN users su ON su.id = m.message_sender_user_id").
			Joins("JOIN users ru ON ru.id = m.message_recipient_user_id").
			Where("m.message_id = ?", id).
			Where("(m.message_sender_user_id = ? OR m.message_recipient_user_id = ?)", userID, userID).
			Limit(1).
			Scan(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMessageNotFound
		}
		if row.MessageRecipientUserID != userID || row.MessageIsRead {
			return nil
		}
		now := s.now()
		if err := tx.Model(&messageModel.MessageModel{}).
			Where("message_id = ? AND message_is_read = ?", id, false).
			Updates(map[string]any{"message_is_read": true, "message_read_at": now}).Error; err != nil {
			return err
		}
		row.MessageIsRead = true
		row.MessageReadAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *MessageService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return UnreadCount(s.DB.WithContext(ctx), userID)
}

// UnreadCount: pesan masuk belum dibaca (dipakai juga oleh dashboard)
func UnreadCount(db *gorm.DB, userID uuid.UUID) (int64, error) {
	var n int64
	err := db.Model(&messageModel.MessageModel{}).
		Where("message_recipient_user_id = ? AND message_is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

type contactEdge struct {
	SenderID    uuid.UUID `gorm:"column:message_sender_user_id"`
	RecipientID uuid.UUID `gorm:"column:message_recipient_user_id"`
	IsRead      bool      `gorm:"column:message_is_read"`
	CreatedAt   time.Time `gorm:"column:message_created_at"`
}

/*
Contacts: lawan bicara dari semua pesan masuk/keluar.
Agregasi dilakukan di Go (bukan MAX() di SQL) supaya timestamp tetap bertipe
waktu di semua driver.
*/
func (s *MessageService) Contacts(ctx context.Context, userID uuid.UUID, q dto.ContactsQuery) ([]dto.Contact, error) {
	db := s.DB.WithContext(ctx)

	var edges []contactEdge
	if err := db.Model(&messageModel.MessageModel{}).
		Select("message_sender_user_id, message_recipient_user_id, message_is_read, message_created_at").
		Where("message_sender_user_id = ? OR message_recipient_user_id = ?", userID, userID).
		Order("message_created_at DESC").
		Scan(&edges).Error; err != nil {
		return nil, err
	}

	byID := map[uuid.UUID]*dto.Contact{}
	order := []uuid.UUID{}
	for _, e := range edges {
		other, incoming := e.RecipientID, false
		if e.RecipientID == userID {
			other, incoming = e.SenderID, true
		}
		c, ok := byID[other]
		if !ok {
			c = &dto.Contact{UserID: other, LastMessageAt: dbtime.ToSchoolTime(e.CreatedAt)}
			byID[other] = c
			order = append(order, other)
		}
		if incoming && !e.IsRead {
			c.UnreadCount++
		}
	}
	if len(order) == 0 {
		return []dto.Contact{}, nil
	}

	var users []userModel.UserModel
	if err := db.Select("id, user_name").Where("id IN ?", order).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		byID[u.ID].UserName = u.UserName
	}

	term := strings.ToLower(strings.TrimSpace(q.Q))
	out := make([]dto.Contact, 0, len(order))
	for _, id := range order {
		c := byID[id]
		if term != "" && !strings.Contains(strings.ToLower(c.UserName), term) {
			continue
		}
		out = append(out, *c)
	}
	if q.Sort == "name" {
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].UserName) < strings.ToLower(out[j].UserName)
		})
	}
	return out, nil
}
