package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	notificationModel "classroom_backend/internals/features/school/others/notifications/model"
	"classroom_backend/internals/features/school/submissions_assesment/assignments/dto"
	assignmentModel "classroom_backend/internals/features/school/submissions_assesment/assignments/model"
	"classroom_backend/internals/helpers/oss"
	"classroom_backend/internals/testutil"
)

func localPath(root, url string) string {
	return filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(url, "/media/")))
}

func setup(t *testing.T, now time.Time) (*AssignmentService, *gorm.DB, string) {
	t.Helper()
	db := testutil.NewDB(t)
	root := t.TempDir()
	svc := NewAssignmentService(db, oss.NewLocalBlobService(root, "/media"))
	svc.Clock = testutil.FixedClock(now)
	return svc, db, root
}

func TestSubmitReplaceGradeAndLock(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, db, root := setup(t, now)
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, db, "T", nil)
	class := testutil.CreateClass(t, db, "Class X", &teacher.TeacherID)
	st := testutil.CreateStudent(t, db, "S", nil)
	testutil.CreateEnrollment(t, db, st.StudentID, class.ClassID, enrollmentModel.EnrollmentApproved)

	a, err := svc.Create(ctx, teacher.TeacherID, class.ClassID, dto.AssignmentRequest{
		Title: "Essay", DueDate: "2024-03-02T00:00:00Z",
	})
	require.NoError(t, err)

	first, res, err := svc.Submit(ctx, st.StudentID, a.AssignmentID, testutil.FileHeader(t, "file", "v1.pdf", []byte("one")))
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.Equal(t, MsgSubmitted, res.Message)
	assert.False(t, first.SubmissionIsLate)
	firstPath := localPath(root, first.SubmissionFileURL)
	_, err = os.Stat(firstPath)
	require.NoError(t, err)

	// lewat tenggat → diganti + terlambat
	svc.Clock = testutil.FixedClock(now.Add(48 * time.Hour))
	second, res, err := svc.Submit(ctx, st.StudentID, a.AssignmentID, testutil.FileHeader(t, "file", "v2.pdf", []byte("two")))
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.Equal(t, MsgResubmitted, res.Message)
	assert.Equal(t, first.SubmissionID, second.SubmissionID)
	assert.True(t, second.SubmissionIsLate)
	_, err = os.Stat(firstPath)
	assert.True(t, os.IsNotExist(err))

	var n int64
	require.NoError(t, db.Model(&assignmentModel.AssignmentSubmissionModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	grade := 87.5
	note := "good"
	graded, err := svc.Grade(ctx, teacher.TeacherID, second.SubmissionID, dto.GradeRequest{Grade: &grade, Feedback: &note})
	require.NoError(t, err)
	require.NotNil(t, graded.SubmissionGradedAt)
	assert.InDelta(t, 87.5, *graded.SubmissionGrade, 0.001)

	_, res, err = svc.Submit(ctx, st.StudentID, a.AssignmentID, testutil.FileHeader(t, "file", "v3.pdf", []byte("three")))
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, MsgAlreadyGraded, res.Message)

	mine, err := svc.MySubmission(ctx, st.StudentID, a.AssignmentID)
	require.NoError(t, err)
	assert.Equal(t, second.SubmissionFileURL, mine.SubmissionFileURL)

	rows, err := svc.ListSubmissions(ctx, teacher.TeacherID, a.AssignmentID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "S", rows[0].StudentFullName)
}

func TestSubmitRequiresApprovedEnrollment(t *testing.T) {
	svc, db, _ := setup(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, db, "T", nil)
	class := testutil.CreateClass(t, db, "Class X", &teacher.TeacherID)
	st := testutil.CreateStudent(t, db, "S", nil)
	testutil.CreateEnrollment(t, db, st.StudentID, class.ClassID, enrollmentModel.EnrollmentPending)

	a, err := svc.Create(ctx, teacher.TeacherID, class.ClassID, dto.AssignmentRequest{Title: "x", DueDate: "2024-03-10"})
	require.NoError(t, err)

	_, _, err = svc.Submit(ctx, st.StudentID, a.AssignmentID, testutil.FileHeader(t, "file", "a.pdf", []byte("a")))
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusForbidden, fe.Code)

	other := testutil.CreateTeacher(t, db, "O", nil)
	grade := 1.0
	_, err = svc.Grade(ctx, other.TeacherID, a.AssignmentID, dto.GradeRequest{Grade: &grade})
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestViewMarksReadAndDeleteCleansFiles(t *testing.T) {
	svc, db, root := setup(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, db, "T", nil)
	class := testutil.CreateClass(t, db, "Class X", &teacher.TeacherID)
	st := testutil.CreateStudent(t, db, "S", nil)
	testutil.CreateEnrollment(t, db, st.StudentID, class.ClassID, enrollmentModel.EnrollmentApproved)

	a, err := svc.Create(ctx, teacher.TeacherID, class.ClassID, dto.AssignmentRequest{Title: "x", DueDate: "2024-03-10T10:00"})
	require.NoError(t, err)

	view, err := svc.ViewForStudent(ctx, st.StudentID, a.AssignmentID)
	require.NoError(t, err)
	assert.Nil(t, view.Submission)
	assert.False(t, view.IsPastDue)

	var rs notificationModel.ContentReadStatusModel
	require.NoError(t, db.Where("read_status_content_id = ?", a.AssignmentID).Take(&rs).Error)
	assert.True(t, rs.ReadStatusIsRead)

	sub, _, err := svc.Submit(ctx, st.StudentID, a.AssignmentID, testutil.FileHeader(t, "file", "a.pdf", []byte("a")))
	require.NoError(t, err)

	list, err := svc.ListForStudent(ctx, st.StudentID, class.ClassID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Submission)

	var fe *fiber.Error
	other := testutil.CreateTeacher(t, db, "O", nil)
	require.ErrorAs(t, svc.Delete(ctx, other.TeacherID, a.AssignmentID), &fe)
	assert.Equal(t, fiber.StatusForbidden, fe.Code)

	require.NoError(t, svc.Delete(ctx, teacher.TeacherID, a.AssignmentID))
	_, err = os.Stat(localPath(root, sub.SubmissionFileURL))
	assert.True(t, os.IsNotExist(err))

	var n int64
	require.NoError(t, db.Model(&notificationModel.ContentReadStatusModel{}).Count(&n).Error)
	assert.Zero(t, n)
}
