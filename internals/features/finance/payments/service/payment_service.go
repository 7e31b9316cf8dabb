package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classroom_backend/internals/configs"
	"classroom_backend/internals/constants"
	"classroom_backend/internals/features/finance/payments/dto"
	paymentModel "classroom_backend/internals/features/finance/payments/model"
	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	enrollmentService "classroom_backend/internals/features/school/classes/class_enrollments/service"
	classService "classroom_backend/internals/features/school/classes/classes/service"
	peopleModel "classroom_backend/internals/features/school/people/model"
	helper "classroom_backend/internals/helpers"
	"classroom_backend/internals/helpers/dbtime"
	"classroom_backend/internals/helpers/metrics"
)

const (
	MsgCheckoutCreated    = "Checkout created."
	MsgCheckoutReused     = "Checkout already in progress."
	MsgAlreadyPaid        = "This enrollment is already paid."
	MsgEnrollmentRejected = "This enrollment was rejected."
	MsgFreeClass          = "This class is free; no payment needed."
)

var (
	ErrGatewayUnavailable = fiber.NewError(fiber.StatusBadGateway, "payment gateway unavailable, please try again")
	ErrBadNotification    = fiber.NewError(fiber.StatusBadRequest, "order_id and transaction_status are required")
	ErrBadSignature       = fiber.NewError(fiber.StatusForbidden, "invalid signature")
	ErrAmountMismatch     = fiber.NewError(fiber.StatusBadRequest, "gross_amount does not match the order")
)

type Outcome string

const (
	OutcomePaid    Outcome = "paid"
	OutcomeUpdated Outcome = "updated"
	OutcomeIgnored Outcome = "ignored"
)

// jam di payload notifikasi Midtrans = WIB
var gatewayZone = time.FixedZone("WIB", 7*60*60)

type PaymentService struct {
	DB        *gorm.DB
	Gateway   SnapGateway
	ServerKey string
	Clock     dbtime.Clock
}

func NewPaymentService(db *gorm.DB, gw SnapGateway, serverKey string) *PaymentService {
	return &PaymentService{DB: db, Gateway: gw, ServerKey: serverKey, Clock: dbtime.SystemClock}
}

func (s *PaymentService) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// MapTransactionStatus: status Midtrans → status payment (ok=false kalau tak dikenal)
func MapTransactionStatus(txStatus, fraudStatus string) (paymentModel.PaymentStatus, bool) {
	switch strings.ToLower(txStatus) {
	case "capture":
		if strings.EqualFold(fraudStatus, "challenge") {
			return paymentModel.PaymentStatusPending, true
		}
		return paymentModel.PaymentStatusPaid, true
	case "settlement":
		return paymentModel.PaymentStatusPaid, true
	case "pending":
		return paymentModel.PaymentStatusPending, true
	case "expire":
		return paymentModel.PaymentStatusExpired, true
	case "cancel", "refund", "partial_refund":
		return paymentModel.PaymentStatusCanceled, true
	case "deny", "failure":
		return paymentModel.PaymentStatusFailed, true
	default:
		return "", false
	}
}

func newOrderID(now time.Time) (string, error) {
	suffix, err := helper.RandomDigits(6)
	if err != nil {
		return "", err
	}
	return "CLS-" + now.UTC().Format("20060102150405") + "-" + suffix, nil
}

/* ===================== checkout ===================== */

// Checkout: siswa membayar enrollment miliknya yang belum lunas
func (s *PaymentService) Checkout(ctx context.Context, studentID, enrollmentID uuid.UUID) (*paymentModel.PaymentModel, helper.Result, error) {
	db := s.DB.WithContext(ctx)

	var e enrollmentModel.ClassEnrollmentModel
	if err := db.Where("class_enrollment_id = ?", enrollmentID).Take(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.Result{}, enrollmentService.ErrEnrollmentNotFound
		}
		return nil, helper.Result{}, err
	}
	if e.ClassEnrollmentStudentID != studentID {
		return nil, helper.Result{}, fiber.NewError(fiber.StatusForbidden, constants.ErrAccessDenied)
	}
	if e.ClassEnrollmentIsPaid {
		return nil, helper.Fail(MsgAlreadyPaid), nil
	}
	if e.ClassEnrollmentStatus == enrollmentModel.EnrollmentRejected {
		return nil, helper.Fail(MsgEnrollmentRejected), nil
	}

	// checkout pending yang sudah punya token dipakai ulang
	var open paymentModel.PaymentModel
	err := db.Where("payment_enrollment_id = ? AND payment_status = ? AND payment_snap_token IS NOT NULL",
		enrollmentID, paymentModel.PaymentStatusPending).
		Order("payment_created_at DESC").
		Take(&open).Error
	if err == nil {
		return &open, helper.Ok(MsgCheckoutReused), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.Result{}, err
	}

	class, err := classService.LoadClass(db, e.ClassEnrollmentClassID)
	if err != nil {
		return nil, helper.Result{}, err
	}
	amount := int64(math.Round(class.ClassPrice))
	if amount <= 0 {
		return nil, helper.Fail(MsgFreeClass), nil
	}
	var st peopleModel.StudentModel
	if err := db.Where("student_id = ?", studentID).Take(&st).Error; err != nil {
		return nil, helper.Result{}, err
	}

	orderID, err := newOrderID(s.now())
	if err != nil {
		return nil, helper.Result{}, err
	}
	p := &paymentModel.PaymentModel{
		PaymentEnrollmentID: enrollmentID,
		PaymentOrderID:      orderID,
		PaymentAmount:       amount,
		PaymentStatus:       paymentModel.PaymentStatusPending,
		PaymentProvider:     paymentModel.GatewayProviderMidtrans,
	}
	if err := db.Create(p).Error; err != nil {
		return nil, helper.Result{}, err
	}

	resp, err := s.Gateway.CreateTransaction(&snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: st.FullName,
			Email: st.Email,
			Phone: st.PhoneNumber,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    class.ClassID.String(),
			Name:  truncate(class.ClassName, 50),
			Price: amount,
			Qty:   1,
		}},
	})
	if err != nil {
		configs.Log().Error("snap create transaction failed", zap.String("order_id", orderID), zap.Error(err))
		if uerr := db.Model(p).Update("payment_status", paymentModel.PaymentStatusFailed).Error; uerr != nil {
			configs.Log().Warn("mark payment failed", zap.String("order_id", orderID), zap.Error(uerr))
		}
		return nil, helper.Result{}, ErrGatewayUnavailable
	}

	p.PaymentSnapToken = &resp.Token
	p.PaymentRedirectURL = &resp.RedirectURL
	if err := db.Model(p).Updates(map[string]any{
		"payment_snap_token":   resp.Token,
		"payment_redirect_url": resp.RedirectURL,
	}).Error; err != nil {
		return nil, helper.Result{}, err
	}
	return p, helper.Ok(MsgCheckoutCreated), nil
}

// nama item Midtrans maksimal 50 karakter
func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}

/* ===================== notification ===================== */

func strPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func gatewayTime(n dto.MidtransNotification, fallback time.Time) time.Time {
	const layout = "2006-01-02 15:04:05"
	for _, raw := range []string{n.SettlementTime, n.TransactionTime} {
		if raw == "" {
			continue
		}
		if t, err := time.ParseInLocation(layout, raw, gatewayZone); err == nil {
			return t.UTC()
		}
	}
	return fallback
}

func (s *PaymentService) recordRejected(ctx context.Context, ev *paymentModel.PaymentGatewayEventModel, reason string) {
	ev.GatewayEventStatus = paymentModel.GatewayEventStatusFailed
	ev.GatewayEventError = &reason
	if err := s.DB.WithContext(ctx).Create(ev).Error; err != nil {
		configs.Log().Warn("gateway event log failed", zap.String("order_id", ev.GatewayEventOrderID), zap.Error(err))
	}
	metrics.PaymentNotifications.WithLabelValues("rejected").Inc()
}

/*
HandleNotification:
  - signature diverifikasi dulu; gagal → event failed + 403
  - setiap notifikasi dicatat di payment_gateway_events
  - status paid menandai enrollment lunas di transaksi yang sama
*/
func (s *PaymentService) HandleNotification(ctx context.Context, n dto.MidtransNotification, raw []byte) (Outcome, *paymentModel.PaymentModel, error) {
	now := s.now()
	ev := &paymentModel.PaymentGatewayEventModel{
		GatewayEventProvider:   paymentModel.GatewayProviderMidtrans,
		GatewayEventOrderID:    n.OrderID,
		GatewayEventType:       strPtr(n.TransactionStatus),
		GatewayEventPayload:    datatypes.JSON(raw),
		GatewayEventSignature:  strPtr(n.SignatureKey),
		GatewayEventStatus:     paymentModel.GatewayEventStatusReceived,
		GatewayEventReceivedAt: now,
	}

	if n.OrderID == "" || n.TransactionStatus == "" {
		s.recordRejected(ctx, ev, "missing order_id or transaction_status")
		return "", nil, ErrBadNotification
	}
	if !VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, s.ServerKey, n.SignatureKey) {
		s.recordRejected(ctx, ev, "invalid signature")
		return "", nil, ErrBadSignature
	}

	var (
		outcome  Outcome
		out      *paymentModel.PaymentModel
		mismatch bool
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p paymentModel.PaymentModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("payment_order_id = ?", n.OrderID).
			Take(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			reason := "unknown order_id"
			ev.GatewayEventStatus = paymentModel.GatewayEventStatusIgnored
			ev.GatewayEventError = &reason
			ev.GatewayEventProcessedAt = &now
			outcome = OutcomeIgnored
			return tx.Create(ev).Error
		}
		if err != nil {
			return err
		}
		ev.GatewayEventPaymentID = &p.PaymentID

		if gross, perr := strconv.ParseFloat(n.GrossAmount, 64); perr != nil || int64(math.Round(gross)) != p.PaymentAmount {
			reason := "gross_amount mismatch: " + n.GrossAmount
			ev.GatewayEventStatus = paymentModel.GatewayEventStatusFailed
			ev.GatewayEventError = &reason
			ev.GatewayEventProcessedAt = &now
			mismatch = true
			return tx.Create(ev).Error
		}

		next, known := MapTransactionStatus(n.TransactionStatus, n.FraudStatus)
		switch {
		case !known:
			reason := "unknown transaction_status"
			ev.GatewayEventStatus = paymentModel.GatewayEventStatusIgnored
			ev.GatewayEventError = &reason
			outcome = OutcomeIgnored
		case p.PaymentStatus.IsFinal():
			reason := "payment already " + string(p.PaymentStatus)
			ev.GatewayEventStatus = paymentModel.GatewayEventStatusIgnored
			ev.GatewayEventError = &reason
			outcome = OutcomeIgnored
		default:
			updates := map[string]any{"payment_status": next}
			if n.PaymentType != "" {
				updates["payment_method"] = n.PaymentType
			}
			if n.TransactionID != "" {
				updates["payment_gateway_ref"] = n.TransactionID
			}
			if next == paymentModel.PaymentStatusPaid {
				updates["payment_paid_at"] = gatewayTime(n, now)
			}
			if err := tx.Model(&p).Updates(updates).Error; err != nil {
				return err
			}
			if next == paymentModel.PaymentStatusPaid {
				if _, err := enrollmentService.MarkPaidTx(tx, p.PaymentEnrollmentID); err != nil {
					return err
				}
				outcome = OutcomePaid
			} else {
				outcome = OutcomeUpdated
			}
			ev.GatewayEventStatus = paymentModel.GatewayEventStatusSuccess
		}
		ev.GatewayEventProcessedAt = &now
		if err := tx.Create(ev).Error; err != nil {
			return err
		}
		if err := tx.Where("payment_id = ?", p.PaymentID).Take(&p).Error; err != nil {
			return err
		}
		out = &p
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	if mismatch {
		metrics.PaymentNotifications.WithLabelValues("rejected").Inc()
		return "", nil, ErrAmountMismatch
	}
	metrics.PaymentNotifications.WithLabelValues(string(outcome)).Inc()
	configs.Log().Info("payment notification",
		zap.String("order_id", n.OrderID),
		zap.String("transaction_status", n.TransactionStatus),
		zap.String("outcome", string(outcome)))
	return outcome, out, nil
}

/* ===================== listing ===================== */

const rowColumns = "p.*, st.student_full_name, c.class_name"

func (s *PaymentService) joined(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("payments AS p").
		Joins("JOIN class_enrollments e ON e.class_enrollment_id = p.payment_enrollment_id").
		Joins("JOIN students st ON st.student_id = e.class_enrollment_student_id").
		Joins("JOIN classes c ON c.class_id = e.class_enrollment_class_id")
}

func (s *PaymentService) ListMine(ctx context.Context, studentID uuid.UUID) ([]dto.PaymentRow, error) {
	rows := []dto.PaymentRow{}
	err := s.joined(ctx).Select(rowColumns).
		Where("e.class_enrollment_student_id = ?", studentID).
		Order("p.payment_created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (s *PaymentService) ListForAdmin(ctx context.Context, q dto.ListPaymentQuery, pg helper.Paging) ([]dto.PaymentRow, int64, error) {
	filter := func(tx *gorm.DB) *gorm.DB {
		if q.Status != "" {
			tx = tx.Where("p.payment_status = ?", q.Status)
		}
		return tx
	}
	var total int64
	if err := filter(s.joined(ctx)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []dto.PaymentRow{}
	err := filter(s.joined(ctx).Select(rowColumns)).
		Order("p.payment_created_at DESC").
		Offset(pg.Offset).Limit(pg.Limit).
		Scan(&rows).Error
	return rows, total, err
}
