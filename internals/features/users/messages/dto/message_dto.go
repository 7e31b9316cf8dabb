package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	messageModel "classroom_backend/internals/features/users/messages/model"
	"classroom_backend/internals/helpers/dbtime"
)

type SendMessageRequest struct {
	Recipient string `json:"recipient" validate:"required,max=50"` // user_name tujuan
	Subject   string `json:"subject"   validate:"required,max=200"`
	Body      string `json:"body"      validate:"required,max=10000"`
}

func (r *SendMessageRequest) Normalize() {
	r.Recipient = strings.TrimSpace(r.Recipient)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Body = strings.TrimSpace(r.Body)
}

type ContactsQuery struct {
	Q    string `query:"q"`
	Sort string `query:"sort" validate:"omitempty,oneof=recent name"`
}

// MessageRow: pesan + user_name pengirim & penerima
type MessageRow struct {
	messageModel.MessageModel
	SenderUserName    string `gorm:"column:sender_user_name"`
	RecipientUserName string `gorm:"column:recipient_user_name"`
}

type MessageResponse struct {
	MessageID         uuid.UUID  `json:"message_id"`
	SenderUserID      uuid.UUID  `json:"sender_user_id"`
	SenderUserName    string     `json:"sender_user_name,omitempty"`
	RecipientUserID   uuid.UUID  `json:"recipient_user_id"`
	RecipientUserName string     `json:"recipient_user_name,omitempty"`
	Subject           string     `json:"subject"`
	Body              string     `json:"body,omitempty"`
	IsRead            bool       `json:"is_read"`
	ReadAt            *time.Time `json:"read_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func FromModel(m *messageModel.MessageModel) MessageResponse {
	return MessageResponse{
		MessageID:       m.MessageID,
		SenderUserID:    m.MessageSenderUserID,
		RecipientUserID: m.MessageRecipientUserID,
		Subject:         m.MessageSubject,
		Body:            m.MessageBody,
		IsRead:          m.MessageIsRead,
		ReadAt:          dbtime.ToSchoolTimePtr(m.MessageReadAt),
		CreatedAt:       dbtime.ToSchoolTime(m.MessageCreatedAt),
	}
}

func FromRow(r *MessageRow) MessageResponse {
	out := FromModel(&r.MessageModel)
	out.SenderUserName = r.SenderUserName
	out.RecipientUserName = r.RecipientUserName
	return out
}

// FromRows: versi list, body dipotong jadi preview
func FromRows(rows []MessageRow) []MessageResponse {
	out := make([]MessageResponse, 0, len(rows))
	for i := range rows {
		r := FromRow(&rows[i])
		r.Body = preview(r.Body, 120)
		out = append(out, r)
	}
	return out
}

func preview(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n]) + "…"
}

type Contact struct {
	UserID        uuid.UUID `json:"user_id"`
	UserName      string    `json:"user_name"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int       `json:"unread_count"`
}
