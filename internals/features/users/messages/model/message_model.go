package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageModel struct {
	MessageID              uuid.UUID  `gorm:"column:message_id;type:uuid;primaryKey" json:"message_id"`
	MessageSenderUserID    uuid.UUID  `gorm:"column:message_sender_user_id;type:uuid;not null;index" json:"message_sender_user_id"`
	MessageRecipientUserID uuid.UUID  `gorm:"column:message_recipient_user_id;type:uuid;not null;index" json:"message_recipient_user_id"`
	MessageSubject         string     `gorm:"column:message_subject;size:200;not null" json:"message_subject"`
	MessageBody            string     `gorm:"column:message_body;type:text;not null" json:"message_body"`
	MessageIsRead          bool       `gorm:"column:message_is_read;not null" json:"message_is_read"`
	MessageReadAt          *time.Time `gorm:"column:message_read_at" json:"message_read_at,omitempty"`

	MessageCreatedAt time.Time `gorm:"column:message_created_at;autoCreateTime;index" json:"message_created_at"`
}

func (MessageModel) TableName() string { return "messages" }

func (m *MessageModel) BeforeCreate(tx *gorm.DB) error {
	if m.MessageID == uuid.Nil {
		m.MessageID = uuid.New()
	}
	return nil
}
