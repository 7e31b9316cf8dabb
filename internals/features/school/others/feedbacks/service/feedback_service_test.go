package service

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	"classroom_backend/internals/features/school/others/feedbacks/dto"
	feedbackModel "classroom_backend/internals/features/school/others/feedbacks/model"
	helper "classroom_backend/internals/helpers"
	"classroom_backend/internals/testutil"
)

var firstPage = helper.Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20}

func TestSubmitFeedbackUpsertsPerClass(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFeedbackService(db)
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, db, "T", nil)
	class := testutil.CreateClass(t, db, "Algebra", &teacher.TeacherID)
	st := testutil.CreateStudent(t, db, "Sam", nil)
	testutil.CreateEnrollment(t, db, st.StudentID, class.ClassID, enrollmentModel.EnrollmentApproved)

	m, res, err := svc.Submit(ctx, st.StudentID, class.ClassID, dto.FeedbackRequest{TeacherRate: 9, ClassRate: 7, Comment: "nice"})
	require.NoError(t, err)
	assert.Equal(t, MsgFeedbackSaved, res.Message)
	require.NotNil(t, m.FeedbackTeacherID)
	assert.Equal(t, teacher.TeacherID, *m.FeedbackTeacherID)

	m2, res, err := svc.Submit(ctx, st.StudentID, class.ClassID, dto.FeedbackRequest{TeacherRate: 5, ClassRate: 5})
	require.NoError(t, err)
	assert.Equal(t, MsgFeedbackUpdated, res.Message)
	assert.Equal(t, m.FeedbackID, m2.FeedbackID)

	var n int64
	require.NoError(t, db.Model(&feedbackModel.FeedbackModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	sum, err := TeacherRating(db, teacher.TeacherID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, sum.Count)
	assert.InDelta(t, 5.0, sum.AvgTeacherRate, 0.001)

	rows, total, err := svc.ListForTeacher(ctx, teacher.TeacherID, nil, firstPage)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sam", rows[0].StudentFullName)
	assert.Equal(t, "Algebra", rows[0].ClassName)

	rows, total, err = svc.ListForAdmin(ctx, dto.ListFeedbackQuery{Q: "alg"}, firstPage)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, rows, 1)

	_, total, err = svc.ListForAdmin(ctx, dto.ListFeedbackQuery{Q: "physics"}, firstPage)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSubmitFeedbackNeedsApprovedEnrollment(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFeedbackService(db)

	class := testutil.CreateClass(t, db, "Algebra", nil)
	st := testutil.CreateStudent(t, db, "Sam", nil)
	testutil.CreateEnrollment(t, db, st.StudentID, class.ClassID, enrollmentModel.EnrollmentRejected)

	_, _, err := svc.Submit(context.Background(), st.StudentID, class.ClassID, dto.FeedbackRequest{TeacherRate: 1, ClassRate: 1})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusForbidden, fe.Code)
}
