package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	"classroom_backend/internals/features/school/dashboards/dto"
	assignmentModel "classroom_backend/internals/features/school/submissions_assesment/assignments/model"
	"classroom_backend/internals/testutil"
)

func ptr(v float64) *float64 { return &v }

func TestAdminDashboardCountsAndRevenue(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateTeacher(t, db, "Tea Cher", nil)
	math := testutil.CreateClass(t, db, "Math", &teacher.TeacherID)
	testutil.CreateClass(t, db, "Biology", nil)
	s1 := testutil.CreateStudent(t, db, "One", nil)
	s2 := testutil.CreateStudent(t, db, "Two", nil)

	paid := testutil.CreateEnrollment(t, db, s1.StudentID, math.ClassID, enrollmentModel.EnrollmentApproved)
	require.NoError(t, db.Model(paid).Update("class_enrollment_is_paid", true).Error)
	testutil.CreateEnrollment(t, db, s2.StudentID, math.ClassID, enrollmentModel.EnrollmentPending)

	svc := NewDashboardService(db)
	admin := testutil.CreateUser(t, db, "boss")
	out, err := svc.Admin(context.Background(), admin.ID, dto.AdminDashboardQuery{})
	require.NoError(t, err)

	assert.EqualValues(t, 2, out.TotalClasses)
	assert.EqualValues(t, 2, out.TotalStudents)
	assert.EqualValues(t, 1, out.TotalTeachers)
	assert.EqualValues(t, 1, out.PendingEnrollments)
	assert.EqualValues(t, 0, out.UnpaidApproved)
	assert.InDelta(t, 150000, out.Revenue, 0.001)
	require.Len(t, out.Classes, 2)
	// urut nama
	assert.Equal(t, "Biology", out.Classes[0].ClassName)
	assert.Nil(t, out.Classes[0].TeacherFullName)
	assert.EqualValues(t, 1, out.Classes[1].Enrolled)
	assert.EqualValues(t, 1, out.Classes[1].Pending)
	require.NotNil(t, out.Classes[1].TeacherFullName)
	assert.Equal(t, "Tea Cher", *out.Classes[1].TeacherFullName)

	out, err = svc.Admin(context.Background(), admin.ID, dto.AdminDashboardQuery{Q: "MAT"})
	require.NoError(t, err)
	require.Len(t, out.Classes, 1)
	assert.Equal(t, math.ClassID, out.Classes[0].ClassID)
	assert.Equal(t, "MAT", out.Query)

	// nama guru juga dicari
	out, err = svc.Admin(context.Background(), admin.ID, dto.AdminDashboardQuery{Q: "cher"})
	require.NoError(t, err)
	require.Len(t, out.Classes, 1)
	assert.Equal(t, math.ClassID, out.Classes[0].ClassID)
}

func TestTeacherDashboardAverageIgnoresUngraded(t *testing.T) {
	db := testutil.NewDB(t)
	tu := testutil.CreateUser(t, db, "teach")
	teacher := testutil.CreateTeacher(t, db, "Tea Cher", &tu.ID)
	c := testutil.CreateClass(t, db, "Math", &teacher.TeacherID)
	other := testutil.CreateClass(t, db, "Other", nil)

	s1 := testutil.CreateStudent(t, db, "One", nil)
	s2 := testutil.CreateStudent(t, db, "Two", nil)
	graded := testutil.CreateEnrollment(t, db, s1.StudentID, c.ClassID, enrollmentModel.EnrollmentApproved)
	testutil.CreateEnrollment(t, db, s2.StudentID, c.ClassID, enrollmentModel.EnrollmentApproved)
	testutil.CreateEnrollment(t, db, s2.StudentID, other.ClassID, enrollmentModel.EnrollmentApproved)
	require.NoError(t, db.Model(graded).Updates(map[string]any{
		"class_enrollment_midterm":    8.0,
		"class_enrollment_final_test": 6.0,
	}).Error)

	svc := NewDashboardService(db)
	svc.Clock = testutil.FixedClock(time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC))
	out, err := svc.Teacher(context.Background(), tu.ID, teacher.TeacherID)
	require.NoError(t, err)

	require.Len(t, out.Classes, 1)
	assert.EqualValues(t, 2, out.Classes[0].Approved)
	assert.EqualValues(t, 2, out.DistinctStudents)
	assert.EqualValues(t, 1, out.GradedEnrollments)
	require.NotNil(t, out.AverageOverall)
	assert.InDelta(t, 0.3*8+0.5*6, *out.AverageOverall, 1e-9)
	assert.EqualValues(t, 0, out.OpenSessionsToday)
}

func TestAverageOverallEmpty(t *testing.T) {
	n, avg := averageOverall([]enrollmentModel.ClassEnrollmentModel{{}, {}})
	assert.EqualValues(t, 0, n)
	assert.Nil(t, avg)

	n, avg = averageOverall([]enrollmentModel.ClassEnrollmentModel{
		{ClassEnrollmentMinitest1: ptr(4)},
		{ClassEnrollmentFinalTest: ptr(10)},
	})
	assert.EqualValues(t, 2, n)
	require.NotNil(t, avg)
	assert.InDelta(t, (0.2*1+0.5*10)/2, *avg, 1e-9)
}

func TestStudentDashboardUpcomingAssignments(t *testing.T) {
	db := testutil.NewDB(t)
	su := testutil.CreateUser(t, db, "stud")
	s := testutil.CreateStudent(t, db, "Stu Dent", &su.ID)
	c := testutil.CreateClass(t, db, "Math", nil)
	pendingClass := testutil.CreateClass(t, db, "Pending", nil)
	testutil.CreateEnrollment(t, db, s.StudentID, c.ClassID, enrollmentModel.EnrollmentApproved)
	testutil.CreateEnrollment(t, db, s.StudentID, pendingClass.ClassID, enrollmentModel.EnrollmentPending)

	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	mk := func(classID uuid.UUID, title string, due time.Time) *assignmentModel.AssignmentModel {
		return &assignmentModel.AssignmentModel{AssignmentClassID: classID, AssignmentTitle: title, AssignmentDueDate: due}
	}
	later := mk(c.ClassID, "Later", now.Add(72*time.Hour))
	soon := mk(c.ClassID, "Soon", now.Add(24*time.Hour))
	past := mk(c.ClassID, "Past", now.Add(-time.Hour))
	done := mk(c.ClassID, "Done", now.Add(48*time.Hour))
	hidden := mk(pendingClass.ClassID, "Hidden", now.Add(24*time.Hour))
	for _, a := range []*assignmentModel.AssignmentModel{later, soon, past, done, hidden} {
		require.NoError(t, db.Create(a).Error)
	}
	require.NoError(t, db.Create(&assignmentModel.AssignmentSubmissionModel{
		SubmissionAssignmentID: done.AssignmentID,
		SubmissionStudentID:    s.StudentID,
		SubmissionFileURL:      "/media/x.pdf",
		SubmissionSubmittedAt:  now,
	}).Error)

	svc := NewDashboardService(db)
	svc.Clock = testutil.FixedClock(now)
	out, err := svc.Student(context.Background(), su.ID, s.StudentID)
	require.NoError(t, err)

	require.Len(t, out.Enrollments, 2)
	require.Len(t, out.UpcomingAssignments, 2)
	assert.Equal(t, "Soon", out.UpcomingAssignments[0].Title)
	assert.Equal(t, "Later", out.UpcomingAssignments[1].Title)
	assert.Equal(t, "Math", out.UpcomingAssignments[0].ClassName)
	// empat tugas di kelas approved belum pernah dibaca; "Hidden" di luar cakupan
	assert.EqualValues(t, 4, out.UnreadNotifications)
	assert.EqualValues(t, 0, out.UnreadMessages)
}
