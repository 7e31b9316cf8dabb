package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentModel: checkout gateway untuk satu enrollment (harga kelas)
type PaymentModel struct {
	PaymentID           uuid.UUID              `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	PaymentEnrollmentID uuid.UUID              `gorm:"column:payment_enrollment_id;type:uuid;not null;index" json:"payment_enrollment_id"`
	PaymentOrderID      string                 `gorm:"column:payment_order_id;size:64;not null;uniqueIndex" json:"payment_order_id"`
	PaymentAmount       int64                  `gorm:"column:payment_amount;not null" json:"payment_amount"`
	PaymentStatus       PaymentStatus          `gorm:"column:payment_status;size:20;not null;index" json:"payment_status"`
	PaymentProvider     PaymentGatewayProvider `gorm:"column:payment_provider;size:20;not null" json:"payment_provider"`

	PaymentSnapToken   *string `gorm:"column:payment_snap_token" json:"payment_snap_token,omitempty"`
	PaymentRedirectURL *string `gorm:"column:payment_redirect_url;type:text" json:"payment_redirect_url,omitempty"`
	PaymentGatewayRef  *string `gorm:"column:payment_gateway_ref" json:"payment_gateway_ref,omitempty"` // transaction_id midtrans
	PaymentMethod      *string `gorm:"column:payment_method;size:40" json:"payment_method,omitempty"`

	PaymentPaidAt    *time.Time `gorm:"column:payment_paid_at" json:"payment_paid_at,omitempty"`
	PaymentCreatedAt time.Time  `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time  `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
}

func (PaymentModel) TableName() string { return "payments" }

func (m *PaymentModel) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	return nil
}
