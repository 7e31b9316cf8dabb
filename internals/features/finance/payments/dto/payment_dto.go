package dto

import (
	"time"

	"github.com/google/uuid"

	paymentModel "classroom_backend/internals/features/finance/payments/model"
	"classroom_backend/internals/helpers/dbtime"
)

// MidtransNotification: payload HTTP notification (JSON atau form)
type MidtransNotification struct {
	OrderID           string `json:"order_id"           form:"order_id"`
	StatusCode        string `json:"status_code"        form:"status_code"`
	GrossAmount       string `json:"gross_amount"       form:"gross_amount"`
	SignatureKey      string `json:"signature_key"      form:"signature_key"`
	TransactionStatus string `json:"transaction_status" form:"transaction_status"`
	FraudStatus       string `json:"fraud_status"       form:"fraud_status"`
	PaymentType       string `json:"payment_type"       form:"payment_type"`
	TransactionID     string `json:"transaction_id"     form:"transaction_id"`
	TransactionTime   string `json:"transaction_time"   form:"transaction_time"`
	SettlementTime    string `json:"settlement_time"    form:"settlement_time"`
}

type ListPaymentQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending paid failed canceled expired"`
}

type PaymentResponse struct {
	PaymentID    uuid.UUID                  `json:"payment_id"`
	EnrollmentID uuid.UUID                  `json:"enrollment_id"`
	OrderID      string                     `json:"order_id"`
	Amount       int64                      `json:"amount"`
	Status       paymentModel.PaymentStatus `json:"status"`
	SnapToken    *string                    `json:"snap_token,omitempty"`
	RedirectURL  *string                    `json:"redirect_url,omitempty"`
	Method       *string                    `json:"method,omitempty"`
	PaidAt       *time.Time                 `json:"paid_at,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`

	StudentFullName string `json:"student_full_name,omitempty"`
	ClassName       string `json:"class_name,omitempty"`
}

func FromModel(m *paymentModel.PaymentModel) PaymentResponse {
	return PaymentResponse{
		PaymentID:    m.PaymentID,
		EnrollmentID: m.PaymentEnrollmentID,
		OrderID:      m.PaymentOrderID,
		Amount:       m.PaymentAmount,
		Status:       m.PaymentStatus,
		SnapToken:    m.PaymentSnapToken,
		RedirectURL:  m.PaymentRedirectURL,
		Method:       m.PaymentMethod,
		PaidAt:       dbtime.ToSchoolTimePtr(m.PaymentPaidAt),
		CreatedAt:    dbtime.ToSchoolTime(m.PaymentCreatedAt),
	}
}

type PaymentRow struct {
	paymentModel.PaymentModel
	StudentFullName string `gorm:"column:student_full_name"`
	ClassName       string `gorm:"column:class_name"`
}

func FromRows(rows []PaymentRow) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(rows))
	for i := range rows {
		r := FromModel(&rows[i].PaymentModel)
		r.StudentFullName = rows[i].StudentFullName
		r.ClassName = rows[i].ClassName
		out = append(out, r)
	}
	return out
}
