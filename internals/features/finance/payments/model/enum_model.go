package model

type PaymentStatus string
type PaymentGatewayProvider string
type GatewayEventStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusCanceled PaymentStatus = "canceled"
	PaymentStatusExpired  PaymentStatus = "expired"
)

const (
	GatewayProviderMidtrans PaymentGatewayProvider = "midtrans"
)

const (
	GatewayEventStatusReceived GatewayEventStatus = "received"
	GatewayEventStatusSuccess  GatewayEventStatus = "success"
	GatewayEventStatusIgnored  GatewayEventStatus = "ignored"
	GatewayEventStatusFailed   GatewayEventStatus = "failed"
)

// IsFinal: status yang tidak boleh berubah lagi oleh webhook
func (s PaymentStatus) IsFinal() bool {
	return s == PaymentStatusPaid
}
