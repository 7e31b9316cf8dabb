package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
payment_gateway_events = log webhook/callback payment gateway
  - bisa banyak row per 1 payment (tiap notifikasi)
  - simpan raw payload + signature + status processing
*/
type PaymentGatewayEventModel struct {
	GatewayEventID        uuid.UUID              `gorm:"column:gateway_event_id;type:uuid;primaryKey" json:"gateway_event_id"`
	GatewayEventPaymentID *uuid.UUID             `gorm:"column:gateway_event_payment_id;type:uuid;index" json:"gateway_event_payment_id,omitempty"`
	GatewayEventProvider  PaymentGatewayProvider `gorm:"column:gateway_event_provider;size:20;not null" json:"gateway_event_provider"`
	GatewayEventOrderID   string                 `gorm:"column:gateway_event_order_id;size:64;index" json:"gateway_event_order_id"`
	GatewayEventType      *string                `gorm:"column:gateway_event_type" json:"gateway_event_type,omitempty"`

	GatewayEventPayload   datatypes.JSON `gorm:"column:gateway_event_payload" json:"gateway_event_payload"`
	GatewayEventSignature *string        `gorm:"column:gateway_event_signature" json:"gateway_event_signature,omitempty"`

	GatewayEventStatus GatewayEventStatus `gorm:"column:gateway_event_status;size:20;not null" json:"gateway_event_status"`
	GatewayEventError  *string            `gorm:"column:gateway_event_error;type:text" json:"gateway_event_error,omitempty"`

	GatewayEventReceivedAt  time.Time  `gorm:"column:gateway_event_received_at;not null" json:"gateway_event_received_at"`
	GatewayEventProcessedAt *time.Time `gorm:"column:gateway_event_processed_at" json:"gateway_event_processed_at,omitempty"`
}

func (PaymentGatewayEventModel) TableName() string {
	return "payment_gateway_events"
}

func (m *PaymentGatewayEventModel) BeforeCreate(tx *gorm.DB) error {
	if m.GatewayEventID == uuid.Nil {
		m.GatewayEventID = uuid.New()
	}
	return nil
}
