package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"classroom_backend/internals/features/finance/payments/dto"
	paymentModel "classroom_backend/internals/features/finance/payments/model"
	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	"classroom_backend/internals/testutil"
)

const serverKey = "SB-Mid-server-test"

type fakeSnap struct {
	calls []*snap.Request
	err   error
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &snap.Response{Token: "tok-" + req.TransactionDetails.OrderID, RedirectURL: "https://pay.example/" + req.TransactionDetails.OrderID}, nil
}

func newService(t *testing.T) (*PaymentService, *fakeSnap, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	gw := &fakeSnap{}
	svc := NewPaymentService(db, gw, serverKey)
	svc.Clock = testutil.FixedClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	return svc, gw, db
}

func notification(orderID, status, gross string) dto.MidtransNotification {
	return dto.MidtransNotification{
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       gross,
		SignatureKey:      NotificationSignature(orderID, "200", gross, serverKey),
		TransactionStatus: status,
		PaymentType:       "bank_transfer",
		TransactionID:     "trx-1",
		SettlementTime:    "2024-03-01 17:30:00",
	}
}

func TestCheckoutCreatesAndReusesPendingPayment(t *testing.T) {
	svc, gw, db := newService(t)
	ctx := context.Background()

	class := testutil.CreateClass(t, db, "Algebra", nil)
	st := testutil.CreateStudent(t, db, "Sam", nil)
	e := testutil.CreateEnrollment(t, db, st.StudentID, class.ClassID, enrollmentModel.EnrollmentPending)

	p, res, err := svc.Checkout(ctx, st.StudentID, e.ClassEnrollmentID)
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.Equal(t, MsgCheckoutCreated, res.Message)
	assert.EqualValues(t, 150000, p.PaymentAmount)
	require.NotNil(t, p.PaymentSnapToken)
	require.Len(t, gw.calls, 1)
	assert.EqualValues(t, 150000, gw.calls[0].TransactionDetails.GrossAmt)
	assert.Equal(t, "Sam", gw.calls[0].CustomerDetail.FName)

	again, res, err := svc.Checkout(ctx, st.StudentID, e.ClassEnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, MsgCheckoutReused, res.Message)
	assert.Equal(t, p.PaymentID, again.PaymentID)
	assert.Len(t, gw.calls, 1)

	other := testutil.CreateStudent(t, db, "Other", nil)
	_, _, err = svc.Checkout(ctx, other.StudentID, e.ClassEnrollmentID)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusForbidden, fe.Code)
}

func TestCheckoutGatewayFailureMarksPaymentFailed(t *testing.T) {
	svc, gw, db := newService(t)
	gw.err = errors.New("boom")

	class := testutil.CreateClass(t, db, "Algebra", nil)
	st := testutil.CreateStudent(t, db, "Sam", nil)
	e := testutil.CreateEnrollment(t, db, st.StudentID, class.ClassID, enrollmentModel.EnrollmentApproved)

	_, _, err := svc.Checkout(context.Background(), st.StudentID, e.ClassEnrollmentID)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)

	var p paymentModel.PaymentModel
	require.NoError(t, db.Take(&p).Error)
	assert.Equal(t, paymentModel.PaymentStatusFailed, p.PaymentStatus)
}

func TestCheckoutRefusesPaidEnrollment(t *testing.T) {
	svc, _, db := newService(t)
	class := testutil.CreateClass(t, db, "Algebra", nil)
	st := testutil.CreateStudent(t, db, "Sam", nil)
	e := testutil.CreateEnrollment(t, db, st.StudentID, class.ClassID, enrollmentModel.EnrollmentApproved)
	require.NoError(t, db.Model(e).Update("class_enrollment_is_paid", true).Error)

	_, res, err := svc.Checkout(context.Background(), st.StudentID, e.ClassEnrollmentID)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, MsgAlreadyPaid, res.Message)
}

func TestNotificationSettlementMarksEnrollmentPaid(t *testing.T) {
	svc, _, db := newService(t)
	ctx := context.Background()

	class := testutil.CreateClass(t, db, "Algebra", nil)
	st := testutil.CreateStudent(t, db, "Sam", nil)
	e := testutil.CreateEnrollment(t, db, st.StudentID, class.ClassID, enrollmentModel.EnrollmentPending)
	p, _, err := svc.Checkout(ctx, st.StudentID, e.ClassEnrollmentID)
	require.NoError(t, err)

	outcome, got, err := svc.HandleNotification(ctx, notification(p.PaymentOrderID, "pending", "150000.00"), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, paymentModel.PaymentStatusPending, got.PaymentStatus)

	outcome, got, err = svc.HandleNotification(ctx, notification(p.PaymentOrderID, "settlement", "150000.00"), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomePaid, outcome)
	assert.Equal(t, paymentModel.PaymentStatusPaid, got.PaymentStatus)
	require.NotNil(t, got.PaymentPaidAt)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), got.PaymentPaidAt.UTC())

	var reloaded enrollmentModel.ClassEnrollmentModel
	require.NoError(t, db.Where("class_enrollment_id = ?", e.ClassEnrollmentID).Take(&reloaded).Error)
	assert.True(t, reloaded.ClassEnrollmentIsPaid)
	// status enrollment tidak disentuh
	assert.Equal(t, enrollmentModel.EnrollmentPending, reloaded.ClassEnrollmentStatus)

	// paid final: notifikasi berikutnya diabaikan
	outcome, got, err = svc.HandleNotification(ctx, notification(p.PaymentOrderID, "expire", "150000.00"), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Equal(t, paymentModel.PaymentStatusPaid, got.PaymentStatus)

	var events int64
	require.NoError(t, db.Model(&paymentModel.PaymentGatewayEventModel{}).
		Where("gateway_event_payment_id = ?", p.PaymentID).Count(&events).Error)
	assert.EqualValues(t, 3, events)
}

func TestNotificationRejectsBadSignatureAndAmount(t *testing.T) {
	svc, _, db := newService(t)
	ctx := context.Background()

	class := testutil.CreateClass(t, db, "Algebra", nil)
	st := testutil.CreateStudent(t, db, "Sam", nil)
	e := testutil.CreateEnrollment(t, db, st.StudentID, class.ClassID, enrollmentModel.EnrollmentApproved)
	p, _, err := svc.Checkout(ctx, st.StudentID, e.ClassEnrollmentID)
	require.NoError(t, err)

	n := notification(p.PaymentOrderID, "settlement", "150000.00")
	n.SignatureKey = "deadbeef"
	_, _, err = svc.HandleNotification(ctx, n, []byte(`{}`))
	assert.ErrorIs(t, err, ErrBadSignature)

	_, _, err = svc.HandleNotification(ctx, notification(p.PaymentOrderID, "settlement", "1.00"), []byte(`{}`))
	assert.ErrorIs(t, err, ErrAmountMismatch)

	var reloaded enrollmentModel.ClassEnrollmentModel
	require.NoError(t, db.Where("class_enrollment_id = ?", e.ClassEnrollmentID).Take(&reloaded).Error)
	assert.False(t, reloaded.ClassEnrollmentIsPaid)

	var failed int64
	require.NoError(t, db.Model(&paymentModel.PaymentGatewayEventModel{}).
		Where("gateway_event_status = ?", paymentModel.GatewayEventStatusFailed).Count(&failed).Error)
	assert.EqualValues(t, 2, failed)

	outcome, got, err := svc.HandleNotification(ctx, notification("CLS-unknown", "settlement", "1.00"), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Nil(t, got)
}

func TestMapTransactionStatus(t *testing.T) {
	cases := map[string]paymentModel.PaymentStatus{
		"settlement": paymentModel.PaymentStatusPaid,
		"capture":    paymentModel.PaymentStatusPaid,
		"pending":    paymentModel.PaymentStatusPending,
		"expire":     paymentModel.PaymentStatusExpired,
		"cancel":     paymentModel.PaymentStatusCanceled,
		"deny":       paymentModel.PaymentStatusFailed,
	}
	for in, want := range cases {
		got, ok := MapTransactionStatus(in, "accept")
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	got, _ := MapTransactionStatus("capture", "challenge")
	assert.Equal(t, paymentModel.PaymentStatusPending, got)
	_, ok := MapTransactionStatus("authorize", "")
	assert.False(t, ok)
}
