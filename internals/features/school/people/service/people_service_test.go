package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	attendanceModel "classroom_backend/internals/features/school/classes/class_attendance_sessions/model"
	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	classModel "classroom_backend/internals/features/school/classes/classes/model"
	feedbackModel "classroom_backend/internals/features/school/others/feedbacks/model"
	"classroom_backend/internals/features/school/people/dto"
	peopleModel "classroom_backend/internals/features/school/people/model"
	helper "classroom_backend/internals/helpers"
	"classroom_backend/internals/helpers/dbtime"
	"classroom_backend/internals/testutil"
)

func personReq(name, email string) dto.PersonRequest {
	return dto.PersonRequest{
		FullName:    name,
		DOB:         "2001-02-03",
		PhoneNumber: "0812345678",
		Email:       email,
		Address:     "Main Street 1",
	}
}

func TestCreateStudentRejectsDuplicateEmail(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewPeopleService(db)
	ctx := context.Background()

	m, res, err := svc.CreateStudent(ctx, dto.CreateStudentRequest{PersonRequest: personReq("Ann", "Ann@Example.com")})
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.Equal(t, "ann@example.com", m.Email)
	assert.Equal(t, "2001-02-03", m.DOB.String())

	_, res, err = svc.CreateStudent(ctx, dto.CreateStudentRequest{PersonRequest: personReq("Ann 2", "ann@example.com")})
	require.NoError(t, err)
	assert.Equal(t, helper.Fail(MsgEmailTaken), res)
}

func TestUserCanHoldOnlyOneRoleProfile(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewPeopleService(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "linked")

	_, res, err := svc.CreateTeacher(ctx, dto.CreateTeacherRequest{PersonRequest: personReq("T", "t@example.com"), UserID: &u.ID})
	require.NoError(t, err)
	require.True(t, res.OK())

	_, res, err = svc.CreateStudent(ctx, dto.CreateStudentRequest{PersonRequest: personReq("S", "s@example.com"), UserID: &u.ID})
	require.NoError(t, err)
	assert.Equal(t, helper.Fail(MsgUserHasProfile), res)

	ghost := uuid.New()
	_, res, err = svc.CreateAdmin(ctx, dto.CreateAdminRequest{PersonRequest: personReq("A", "a@example.com"), UserID: &ghost})
	require.NoError(t, err)
	assert.Equal(t, helper.Fail(MsgUserNotFound), res)
}

func TestListPeopleSearchesNameAndEmail(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewPeopleService(db)
	testutil.CreateTeacher(t, db, "Ada Lovelace", nil)
	testutil.CreateTeacher(t, db, "Alan Turing", nil)

	p := helper.Paging{Page: 1, PerPage: 10, Limit: 10}
	rows, total, err := svc.ListTeachers(context.Background(), dto.ListPeopleQuery{Q: "LOVE"}, p)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, "Ada Lovelace", rows[0].FullName)

	rows, total, err = svc.ListTeachers(context.Background(), dto.ListPeopleQuery{Sort: "name"}, p)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	assert.Equal(t, "Ada Lovelace", rows[0].FullName)
	assert.Equal(t, "Alan Turing", rows[1].FullName)
}

func TestPatchPersonUpdatesOnlyGivenFields(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewPeopleService(db)
	a := testutil.CreateAdmin(t, db, "Old", nil)

	pos := "Principal"
	name := "New"
	m, res, err := svc.UpdateAdmin(context.Background(), a.AdminID, dto.PatchPersonRequest{FullName: &name, Position: &pos})
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.Equal(t, "New", m.FullName)
	assert.Equal(t, "Principal", m.AdminPosition)
	assert.Equal(t, a.Email, m.Email)
}

func TestDeleteTeacherKeepsClassesWithoutTeacher(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewPeopleService(db)
	teacher := testutil.CreateTeacher(t, db, "T", nil)
	class := testutil.CreateClass(t, db, "Class X", &teacher.TeacherID)

	require.NoError(t, svc.DeleteTeacher(context.Background(), teacher.TeacherID))

	var c classModel.ClassModel
	require.NoError(t, db.Where("class_id = ?", class.ClassID).Take(&c).Error)
	assert.Nil(t, c.TeacherID)

	assert.ErrorIs(t, svc.DeleteTeacher(context.Background(), teacher.TeacherID), ErrTeacherNotFound)
}

func TestDeleteAdminUnsetsClassAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewPeopleService(db)
	admin := testutil.CreateAdmin(t, db, "A", nil)
	class := testutil.CreateClass(t, db, "Class X", nil)
	require.NoError(t, db.Model(class).Update("class_admin_id", admin.AdminID).Error)

	require.NoError(t, svc.DeleteAdmin(context.Background(), admin.AdminID))

	var c classModel.ClassModel
	require.NoError(t, db.Where("class_id = ?", class.ClassID).Take(&c).Error)
	assert.Nil(t, c.AdminID)
}

func TestDeleteStudentCascades(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewPeopleService(db)
	s := testutil.CreateStudent(t, db, "S", nil)
	other := testutil.CreateStudent(t, db, "O", nil)
	class := testutil.CreateClass(t, db, "Class X", nil)
	e := testutil.CreateEnrollment(t, db, s.StudentID, class.ClassID, enrollmentModel.EnrollmentApproved)
	testutil.CreateEnrollment(t, db, other.StudentID, class.ClassID, enrollmentModel.EnrollmentApproved)
	testutil.CreateAttendance(t, db, e.ClassEnrollmentID, dbtime.NewDate(2024, time.March, 1), attendanceModel.AttendancePresent)
	require.NoError(t, db.Create(&feedbackModel.FeedbackModel{
		FeedbackStudentID: s.StudentID, FeedbackClassID: class.ClassID, FeedbackTeacherRate: 7, FeedbackClassRate: 7,
	}).Error)

	require.NoError(t, svc.DeleteStudent(context.Background(), s.StudentID))

	var n int64
	require.NoError(t, db.Model(&peopleModel.StudentModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	require.NoError(t, db.Model(&enrollmentModel.ClassEnrollmentModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	require.NoError(t, db.Model(&attendanceModel.ClassAttendanceModel{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
	require.NoError(t, db.Model(&feedbackModel.FeedbackModel{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}
