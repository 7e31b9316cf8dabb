package service

import (
	"context"
	"errors"
	"net/mail"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	attendanceModel "classroom_backend/internals/features/school/classes/class_attendance_sessions/model"
	"classroom_backend/internals/features/school/classes/class_enrollments/dto"
	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	classService "classroom_backend/internals/features/school/classes/classes/service"
	helper "classroom_backend/internals/helpers"
	"classroom_backend/internals/helpers/dbtime"
	"classroom_backend/internals/helpers/mailer"
	"classroom_backend/internals/testutil"
)

var now = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*EnrollmentService, *gorm.DB) {
	db := testutil.NewDB(t)
	svc := NewEnrollmentService(db, nil)
	svc.Clock = testutil.FixedClock(now)
	return svc, db
}

func countPairs(t *testing.T, db *gorm.DB, studentID, classID uuid.UUID) int64 {
	var n int64
	require.NoError(t, db.Model(&enrollmentModel.ClassEnrollmentModel{}).
		Where("class_enrollment_student_id = ? AND class_enrollment_class_id = ?", studentID, classID).
		Count(&n).Error)
	return n
}

func TestRequestEnrollmentCreatesPending(t *testing.T) {
	svc, db := newService(t)
	st := testutil.CreateStudent(t, db, "Alice", nil)
	cl := testutil.CreateClass(t, db, "Algebra", nil)

	e, res, err := svc.RequestEnrollment(context.Background(), st.StudentID, cl.ClassID)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, MsgRequestSubmitted, res.Message)
	assert.Equal(t, enrollmentModel.EnrollmentPending, e.ClassEnrollmentStatus)
	assert.False(t, e.ClassEnrollmentIsPaid)
	assert.Equal(t, "2024-03-04", e.ClassEnrollmentDate.String())
}

func TestRequestEnrollmentNeverDuplicatesPair(t *testing.T) {
	tests := []struct {
		status  enrollmentModel.EnrollmentStatus
		message string
	}{
		{enrollmentModel.EnrollmentPending, MsgAlreadyPending},
		{enrollmentModel.EnrollmentApproved, MsgAlreadyEnrolled},
		{enrollmentModel.EnrollmentRejected, MsgPreviouslyReject},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			svc, db := newService(t)
			st := testutil.CreateStudent(t, db, "Bob", nil)
			cl := testutil.CreateClass(t, db, "Physics", nil)
			existing := testutil.CreateEnrollment(t, db, st.StudentID, cl.ClassID, tt.status)

			e, res, err := svc.RequestEnrollment(context.Background(), st.StudentID, cl.ClassID)
			require.NoError(t, err)
			assert.False(t, res.OK())
			assert.Equal(t, helper.StatusError, res.Status)
			assert.Equal(t, tt.message, res.Message)
			assert.Equal(t, existing.ClassEnrollmentID, e.ClassEnrollmentID)
			assert.EqualValues(t, 1, countPairs(t, db, st.StudentID, cl.ClassID))

			var reloaded enrollmentModel.ClassEnrollmentModel
			require.NoError(t, db.First(&reloaded, "class_enrollment_id = ?", existing.ClassEnrollmentID).Error)
			assert.Equal(t, tt.status, reloaded.ClassEnrollmentStatus)
		})
	}
}

func TestRequestEnrollmentUnknownClass(t *testing.T) {
	svc, db := newService(t)
	st := testutil.CreateStudent(t, db, "Carol", nil)

	_, _, err := svc.RequestEnrollment(context.Background(), st.StudentID, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, classService.ErrClassNotFound))
}

func TestAdminAddEnrollment(t *testing.T) {
	svc, db := newService(t)
	st := testutil.CreateStudent(t, db, "Dan", nil)
	cl := testutil.CreateClass(t, db, "Chemistry", nil)

	e, res, err := svc.AdminAddEnrollment(context.Background(), st.StudentID, cl.ClassID)
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.Equal(t, enrollmentModel.EnrollmentApproved, e.ClassEnrollmentStatus)

	_, res, err = svc.AdminAddEnrollment(context.Background(), st.StudentID, cl.ClassID)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.EqualValues(t, 1, countPairs(t, db, st.StudentID, cl.ClassID))

	_, _, err = svc.AdminAddEnrollment(context.Background(), uuid.New(), cl.ClassID)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}

func TestApproveRejectAndNotify(t *testing.T) {
	db := testutil.NewDB(t)
	console := mailer.NewConsoleMailer(mail.Address{Address: "school@example.com"}, zap.NewNop())
	dispatcher := mailer.NewDispatcher(console, zap.NewNop())
	svc := NewEnrollmentService(db, dispatcher)

	st := testutil.CreateStudent(t, db, "Eve", nil)
	cl := testutil.CreateClass(t, db, "Biology", nil)
	e := testutil.CreateEnrollment(t, db, st.StudentID, cl.ClassID, enrollmentModel.EnrollmentPending)

	got, res, err := svc.Approve(context.Background(), e.ClassEnrollmentID)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, enrollmentModel.EnrollmentApproved, got.ClassEnrollmentStatus)

	// approve ulang = no-op, tanpa email kedua
	_, res, err = svc.Approve(context.Background(), e.ClassEnrollmentID)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, "Enrollment is already approved.", res.Message)

	got, _, err = svc.Reject(context.Background(), e.ClassEnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, enrollmentModel.EnrollmentRejected, got.ClassEnrollmentStatus)

	dispatcher.Wait()
	sent := console.Sent()
	require.Len(t, sent, 2)
	subjects := []string{sent[0].Subject, sent[1].Subject}
	assert.Contains(t, subjects, "Enrollment approved: Biology")
	assert.Contains(t, subjects, "Enrollment rejected: Biology")
	assert.Equal(t, st.Email, sent[0].To[0].Address)

	_, _, err = svc.Approve(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)
}

func TestVerifyPaymentIndependentOfStatus(t *testing.T) {
	svc, db := newService(t)
	st := testutil.CreateStudent(t, db, "Finn", nil)
	cl := testutil.CreateClass(t, db, "History", nil)
	e := testutil.CreateEnrollment(t, db, st.StudentID, cl.ClassID, enrollmentModel.EnrollmentPending)

	got, res, err := svc.VerifyPayment(context.Background(), e.ClassEnrollmentID)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.True(t, got.ClassEnrollmentIsPaid)
	assert.Equal(t, enrollmentModel.EnrollmentPending, got.ClassEnrollmentStatus)
}

func TestRecordScoresPartialAndOwnerOnly(t *testing.T) {
	svc, db := newService(t)
	owner := testutil.CreateTeacher(t, db, "Mr Owner", nil)
	other := testutil.CreateTeacher(t, db, "Ms Other", nil)
	st := testutil.CreateStudent(t, db, "Gina", nil)
	cl := testutil.CreateClass(t, db, "Geometry", &owner.TeacherID)
	e := testutil.CreateEnrollment(t, db, st.StudentID, cl.ClassID, enrollmentModel.EnrollmentApproved)

	eight, six := 8.0, 6.0
	_, err := svc.RecordScores(context.Background(), other.TeacherID, e.ClassEnrollmentID, ScoresInput{Minitest1: &eight})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusForbidden, fe.Code)

	got, err := svc.RecordScores(context.Background(), owner.TeacherID, e.ClassEnrollmentID, ScoresInput{Minitest1: &eight})
	require.NoError(t, err)
	require.NotNil(t, got.ClassEnrollmentMinitest1)
	assert.Equal(t, 8.0, *got.ClassEnrollmentMinitest1)

	seven, nine := 7.0, 9.0
	got, err = svc.RecordScores(context.Background(), owner.TeacherID, e.ClassEnrollmentID, ScoresInput{
		Minitest2: &six, Midterm: &seven, FinalTest: &nine,
	})
	require.NoError(t, err)
	assert.Equal(t, 8.0, *got.ClassEnrollmentMinitest1, "earlier score kept")
	assert.Nil(t, got.ClassEnrollmentMinitest3)
	assert.InDelta(t, 7.3, got.OverallScore(), 1e-9)
	assert.True(t, got.IsPassed())

	// nilai di luar rentang tetap diterima
	neg := -3.0
	got, err = svc.RecordScores(context.Background(), owner.TeacherID, e.ClassEnrollmentID, ScoresInput{Minitest4: &neg})
	require.NoError(t, err)
	assert.Equal(t, -3.0, *got.ClassEnrollmentMinitest4)
}

func TestDeleteCascadesAttendance(t *testing.T) {
	svc, db := newService(t)
	st := testutil.CreateStudent(t, db, "Hank", nil)
	cl := testutil.CreateClass(t, db, "Art", nil)
	e := testutil.CreateEnrollment(t, db, st.StudentID, cl.ClassID, enrollmentModel.EnrollmentApproved)
	testutil.CreateAttendance(t, db, e.ClassEnrollmentID, dbtime.NewDate(2024, 3, 1), attendanceModel.AttendancePresent)

	require.NoError(t, svc.Delete(context.Background(), e.ClassEnrollmentID))

	var n int64
	require.NoError(t, db.Model(&attendanceModel.ClassAttendanceModel{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Zero(t, countPairs(t, db, st.StudentID, cl.ClassID))

	assert.ErrorIs(t, svc.Delete(context.Background(), e.ClassEnrollmentID), ErrEnrollmentNotFound)
}

func TestListForAdminFilters(t *testing.T) {
	svc, db := newService(t)
	alice := testutil.CreateStudent(t, db, "Alice Smith", nil)
	bob := testutil.CreateStudent(t, db, "Bob Jones", nil)
	math := testutil.CreateClass(t, db, "Mathematics", nil)
	art := testutil.CreateClass(t, db, "Art", nil)
	testutil.CreateEnrollment(t, db, alice.StudentID, math.ClassID, enrollmentModel.EnrollmentPending)
	testutil.CreateEnrollment(t, db, bob.StudentID, math.ClassID, enrollmentModel.EnrollmentApproved)
	testutil.CreateEnrollment(t, db, bob.StudentID, art.ClassID, enrollmentModel.EnrollmentPending)

	p := helper.Paging{Page: 1, PerPage: 10, Limit: 10}

	rows, total, err := svc.ListForAdmin(context.Background(), dto.ListEnrollmentQuery{Status: "pending"}, p)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	rows, total, err = svc.ListForAdmin(context.Background(), dto.ListEnrollmentQuery{Q: "alice"}, p)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice Smith", rows[0].StudentFullName)
	assert.Equal(t, "Mathematics", rows[0].ClassName)

	rows, total, err = svc.ListForAdmin(context.Background(), dto.ListEnrollmentQuery{Q: "art"}, p)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, bob.StudentID, rows[0].ClassEnrollmentStudentID)

	rows, err = svc.ListForStudent(context.Background(), bob.StudentID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Art", rows[0].ClassName)
}
