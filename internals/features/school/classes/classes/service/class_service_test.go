package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	paymentModel "classroom_backend/internals/features/finance/payments/model"
	attendanceModel "classroom_backend/internals/features/school/classes/class_attendance_sessions/model"
	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	materialModel "classroom_backend/internals/features/school/classes/class_materials/model"
	"classroom_backend/internals/features/school/classes/classes/dto"
	classModel "classroom_backend/internals/features/school/classes/classes/model"
	announcementModel "classroom_backend/internals/features/school/others/announcements/model"
	feedbackModel "classroom_backend/internals/features/school/others/feedbacks/model"
	notificationModel "classroom_backend/internals/features/school/others/notifications/model"
	assignmentModel "classroom_backend/internals/features/school/submissions_assesment/assignments/model"
	helper "classroom_backend/internals/helpers"
	"classroom_backend/internals/helpers/dbtime"
	"classroom_backend/internals/helpers/oss"
	"classroom_backend/internals/testutil"
)

func newSvc(t *testing.T) (*ClassService, *gorm.DB) {
	db := testutil.NewDB(t)
	return NewClassService(db, oss.NewLocalBlobService(t.TempDir(), "/media")), db
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	return fe.Code
}

func TestClassTypeCodeIsUnique(t *testing.T) {
	svc, _ := newSvc(t)
	ctx := context.Background()

	_, res, err := svc.CreateType(ctx, dto.ClassTypeRequest{ClassTypeCode: "ENG"})
	require.NoError(t, err)
	assert.True(t, res.OK())

	_, res, err = svc.CreateType(ctx, dto.ClassTypeRequest{ClassTypeCode: "ENG"})
	require.NoError(t, err)
	assert.Equal(t, helper.Fail(MsgTypeCodeTaken), res)
}

func TestDeleteTypeInUseIsRefused(t *testing.T) {
	svc, db := newSvc(t)
	class := testutil.CreateClass(t, db, "Class X", nil)

	res, err := svc.DeleteType(context.Background(), class.ClassTypeID)
	require.NoError(t, err)
	assert.Equal(t, helper.Fail(MsgTypeInUse), res)

	free := testutil.CreateClassType(t, db, "FREE")
	res, err = svc.DeleteType(context.Background(), free.ClassTypeID)
	require.NoError(t, err)
	assert.True(t, res.OK())
}

func TestCreateClassValidatesDatesAndRefs(t *testing.T) {
	svc, db := newSvc(t)
	ctx := context.Background()
	ct := testutil.CreateClassType(t, db, "MATH")

	req := dto.CreateClassRequest{
		ClassName:      "Algebra",
		ClassTypeID:    ct.ClassTypeID,
		ClassStartDate: "2024-05-01",
		ClassEndDate:   "2024-04-01",
		ClassPrice:     100,
	}
	_, err := svc.CreateClass(ctx, req, nil)
	assert.Equal(t, fiber.StatusBadRequest, statusOf(t, err))

	req.ClassEndDate = "2024-05-01" // end == start boleh
	missing := uuid.New()
	req.ClassTeacherID = &missing
	_, err = svc.CreateClass(ctx, req, nil)
	assert.Equal(t, fiber.StatusBadRequest, statusOf(t, err))

	teacher := testutil.CreateTeacher(t, db, "Teacher", nil)
	req.ClassTeacherID = &teacher.TeacherID
	m, err := svc.CreateClass(ctx, req, nil)
	require.NoError(t, err)
	assert.True(t, m.IsTaughtBy(teacher.TeacherID))
	assert.Equal(t, "2024-05-01", m.ClassEndDate.String())
}

func TestPatchClassCanUnsetTeacher(t *testing.T) {
	svc, db := newSvc(t)
	teacher := testutil.CreateTeacher(t, db, "Teacher", nil)
	class := testutil.CreateClass(t, db, "Class X", &teacher.TeacherID)

	var req dto.PatchClassRequest
	require.NoError(t, req.ClassTeacherID.UnmarshalJSON([]byte("null")))
	name := "Class Y"
	req.ClassName = &name

	m, err := svc.PatchClass(context.Background(), class.ClassID, req)
	require.NoError(t, err)
	assert.Nil(t, m.TeacherID)
	assert.Equal(t, "Class Y", m.ClassName)

	bad := "2023-01-01"
	_, err = svc.PatchClass(context.Background(), class.ClassID, dto.PatchClassRequest{ClassEndDate: &bad})
	assert.Equal(t, fiber.StatusBadRequest, statusOf(t, err))
}

func TestScheduleUpsertKeepsOneRow(t *testing.T) {
	svc, db := newSvc(t)
	class := testutil.CreateClass(t, db, "Class X", nil)
	ctx := context.Background()

	_, err := svc.SetSchedule(ctx, class.ClassID, dto.ScheduleRequest{
		Days: []string{"Wednesday", "Monday"}, StartTime: "08:00", EndTime: "09:30",
	})
	require.NoError(t, err)

	m, err := svc.SetSchedule(ctx, class.ClassID, dto.ScheduleRequest{
		Days: []string{"Friday"}, StartTime: "13:00", EndTime: "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "Friday 13:00-14:00", m.Descriptor())

	stored, err := ScheduleOf(db, class.ClassID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, m.ClassScheduleID, stored.ClassScheduleID)
	assert.Equal(t, "Friday 13:00-14:00", stored.Descriptor())

	var n int64
	require.NoError(t, db.Model(&classModel.ClassScheduleModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	_, err = svc.SetSchedule(ctx, class.ClassID, dto.ScheduleRequest{
		Days: []string{"Friday"}, StartTime: "14:00", EndTime: "14:00",
	})
	assert.Equal(t, fiber.StatusBadRequest, statusOf(t, err))
}

func TestScheduleReloadKeepsTimes(t *testing.T) {
	svc, db := newSvc(t)
	class := testutil.CreateClass(t, db, "Class T", nil)

	_, err := svc.SetSchedule(context.Background(), class.ClassID, dto.ScheduleRequest{
		Days: []string{"Wednesday", "Monday"}, StartTime: "08:00", EndTime: "09:30",
	})
	require.NoError(t, err)

	stored, err := ScheduleOf(db, class.ClassID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "08:00:00", stored.ClassScheduleStartTime.String())
	assert.Equal(t, "09:30:00", stored.ClassScheduleEndTime.String())
	assert.Equal(t, "Monday, Wednesday 08:00-09:30", stored.Descriptor())
}

func TestScheduleDescriptorOrdersWeekdays(t *testing.T) {
	req := dto.ScheduleRequest{Days: []string{"Wednesday", "Monday"}, StartTime: "08:00", EndTime: "09:30"}
	m, err := req.ToModel(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "Monday, Wednesday 08:00-09:30", m.Descriptor())
}

func TestListAndDetailCountApprovedOnly(t *testing.T) {
	svc, db := newSvc(t)
	teacher := testutil.CreateTeacher(t, db, "Grace Hopper", nil)
	x := testutil.CreateClass(t, db, "Compilers", &teacher.TeacherID)
	testutil.CreateClass(t, db, "Pottery", nil)

	a := testutil.CreateStudent(t, db, "A", nil)
	b := testutil.CreateStudent(t, db, "B", nil)
	testutil.CreateEnrollment(t, db, a.StudentID, x.ClassID, enrollmentModel.EnrollmentApproved)
	testutil.CreateEnrollment(t, db, b.StudentID, x.ClassID, enrollmentModel.EnrollmentPending)

	ctx := context.Background()
	rows, total, err := svc.List(ctx, dto.ListClassQuery{Q: "hopper"}, helper.Paging{Page: 1, PerPage: 10, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Compilers", rows[0].ClassName)
	assert.EqualValues(t, 1, rows[0].ApprovedCount)
	assert.Equal(t, "Grace Hopper", rows[0].TeacherFullName)

	_, total, err = svc.List(ctx, dto.ListClassQuery{}, helper.Paging{Page: 1, PerPage: 10, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	featured, err := svc.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, 2)

	d, err := svc.Detail(ctx, x.ClassID)
	require.NoError(t, err)
	require.NotNil(t, d.ApprovedCount)
	assert.EqualValues(t, 1, *d.ApprovedCount)
	assert.Nil(t, d.Schedule)

	_, err = svc.Detail(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestDeleteClassCascadesEverything(t *testing.T) {
	svc, db := newSvc(t)
	teacher := testutil.CreateTeacher(t, db, "Teacher", nil)
	class := testutil.CreateClass(t, db, "Class X", &teacher.TeacherID)
	other := testutil.CreateClass(t, db, "Class Y", &teacher.TeacherID)
	s := testutil.CreateStudent(t, db, "S", nil)
	e := testutil.CreateEnrollment(t, db, s.StudentID, class.ClassID, enrollmentModel.EnrollmentApproved)
	keep := testutil.CreateEnrollment(t, db, s.StudentID, other.ClassID, enrollmentModel.EnrollmentApproved)
	testutil.CreateAttendance(t, db, e.ClassEnrollmentID, dbtime.NewDate(2024, 3, 1), attendanceModel.AttendancePresent)

	ann := &announcementModel.AnnouncementModel{AnnouncementClassID: class.ClassID, AnnouncementTitle: "Hi", AnnouncementContent: "x"}
	asg := &assignmentModel.AssignmentModel{AssignmentClassID: class.ClassID, AssignmentTitle: "HW", AssignmentDueDate: time.Now()}
	require.NoError(t, db.Create(ann).Error)
	require.NoError(t, db.Create(asg).Error)
	pay := &paymentModel.PaymentModel{
		PaymentEnrollmentID: e.ClassEnrollmentID, PaymentOrderID: "ORD-1", PaymentAmount: 1000,
		PaymentStatus: paymentModel.PaymentStatusPending, PaymentProvider: paymentModel.GatewayProviderMidtrans,
	}
	require.NoError(t, db.Create(pay).Error)
	for _, m := range []any{
		&attendanceModel.ClassAttendanceSessionModel{ClassAttendanceSessionClassID: class.ClassID, ClassAttendanceSessionDate: dbtime.NewDate(2024, 3, 1), ClassAttendanceSessionToken: "tok", ClassAttendanceSessionPasscode: "123456"},
		&materialModel.ClassMaterialModel{ClassMaterialClassID: class.ClassID, ClassMaterialTitle: "Slides", ClassMaterialFileURL: "/media/materials/x.pdf"},
		&assignmentModel.AssignmentSubmissionModel{SubmissionAssignmentID: asg.AssignmentID, SubmissionStudentID: s.StudentID, SubmissionFileURL: "/media/submissions/y.pdf", SubmissionSubmittedAt: time.Now()},
		&notificationModel.ContentReadStatusModel{ReadStatusStudentID: s.StudentID, ReadStatusContentType: notificationModel.ContentAnnouncement, ReadStatusContentID: ann.AnnouncementID},
		&notificationModel.ContentReadStatusModel{ReadStatusStudentID: s.StudentID, ReadStatusContentType: notificationModel.ContentAssignment, ReadStatusContentID: asg.AssignmentID},
		&feedbackModel.FeedbackModel{FeedbackStudentID: s.StudentID, FeedbackClassID: class.ClassID, FeedbackTeacherRate: 8, FeedbackClassRate: 9},
		&paymentModel.PaymentGatewayEventModel{GatewayEventPaymentID: &pay.PaymentID, GatewayEventProvider: paymentModel.GatewayProviderMidtrans, GatewayEventStatus: paymentModel.GatewayEventStatusReceived, GatewayEventReceivedAt: time.Now()},
	} {
		require.NoError(t, db.Create(m).Error)
	}
	_, err := svc.SetSchedule(context.Background(), class.ClassID, dto.ScheduleRequest{Days: []string{"Monday"}, StartTime: "08:00", EndTime: "09:00"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteClass(context.Background(), class.ClassID))

	for _, m := range []any{
		&classModel.ClassModel{}, &classModel.ClassScheduleModel{},
		&enrollmentModel.ClassEnrollmentModel{}, &attendanceModel.ClassAttendanceModel{},
		&attendanceModel.ClassAttendanceSessionModel{}, &materialModel.ClassMaterialModel{},
		&announcementModel.AnnouncementModel{}, &assignmentModel.AssignmentModel{},
		&assignmentModel.AssignmentSubmissionModel{}, &notificationModel.ContentReadStatusModel{},
		&feedbackModel.FeedbackModel{}, &paymentModel.PaymentModel{}, &paymentModel.PaymentGatewayEventModel{},
	} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		switch m.(type) {
		case *classModel.ClassModel, *enrollmentModel.ClassEnrollmentModel:
			assert.EqualValues(t, 1, n, "%T", m) // Class Y + enrollment-nya tetap
		default:
			assert.EqualValues(t, 0, n, "%T", m)
		}
	}
	var still enrollmentModel.ClassEnrollmentModel
	require.NoError(t, db.Where("class_enrollment_id = ?", keep.ClassEnrollmentID).Take(&still).Error)

	assert.ErrorIs(t, svc.DeleteClass(context.Background(), class.ClassID), ErrClassNotFound)
}
