// Package testutil menyiapkan database sqlite in-memory + factory data untuk test.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "classroom_backend/internals/databases"
	attendanceModel "classroom_backend/internals/features/school/classes/class_attendance_sessions/model"
	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	classModel "classroom_backend/internals/features/school/classes/classes/model"
	peopleModel "classroom_backend/internals/features/school/people/model"
	userModel "classroom_backend/internals/features/users/user/model"
	"classroom_backend/internals/helpers/dbtime"
)

// NewDB: database baru per test, skema lengkap
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_busy_timeout=5000"
	cfg := database.GormConfig()
	cfg.Logger = logger.Discard
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// satu koneksi: transaksi & query berikutnya selalu melihat data yang sama
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// FixedClock: jam beku untuk service yang butuh "sekarang"
func FixedClock(t time.Time) dbtime.Clock {
	return func() time.Time { return t }
}

/* ===================== factories ===================== */

func person(name string) peopleModel.PersonFields {
	return peopleModel.PersonFields{
		FullName:    name,
		DOB:         dbtime.NewDate(2000, time.January, 1),
		PhoneNumber: "0123456789",
		Email:       uuid.NewString()[:8] + "@example.com",
		Address:     "1 Test Street",
	}
}

func CreateUser(t testing.TB, db *gorm.DB, userName string) *userModel.UserModel {
	t.Helper()
	u := &userModel.UserModel{
		UserName: userName,
		Email:    userName + "@example.com",
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateStudent(t testing.TB, db *gorm.DB, name string, userID *uuid.UUID) *peopleModel.StudentModel {
	t.Helper()
	s := &peopleModel.StudentModel{StudentUserID: userID, PersonFields: person(name)}
	require.NoError(t, db.Create(s).Error)
	return s
}

func CreateTeacher(t testing.TB, db *gorm.DB, name string, userID *uuid.UUID) *peopleModel.TeacherModel {
	t.Helper()
	m := &peopleModel.TeacherModel{TeacherUserID: userID, PersonFields: person(name), TeacherQualification: "M.Ed"}
	require.NoError(t, db.Create(m).Error)
	return m
}

func CreateAdmin(t testing.TB, db *gorm.DB, name string, userID *uuid.UUID) *peopleModel.AdminModel {
	t.Helper()
	m := &peopleModel.AdminModel{AdminUserID: userID, PersonFields: person(name), AdminPosition: "Staff"}
	require.NoError(t, db.Create(m).Error)
	return m
}

func CreateClassType(t testing.TB, db *gorm.DB, code string) *classModel.ClassTypeModel {
	t.Helper()
	ct := &classModel.ClassTypeModel{ClassTypeCode: code, ClassTypeDescription: code + " classes"}
	require.NoError(t, db.Create(ct).Error)
	return ct
}

// CreateClass: kelas aktif Jan–Dec 2024 milik teacherID (boleh nil)
func CreateClass(t testing.TB, db *gorm.DB, name string, teacherID *uuid.UUID) *classModel.ClassModel {
	t.Helper()
	ct := CreateClassType(t, db, uuid.NewString()[:8])
	c := &classModel.ClassModel{
		ClassName:      name,
		ClassTypeID:    ct.ClassTypeID,
		TeacherID:      teacherID,
		ClassStartDate: dbtime.NewDate(2024, time.January, 1),
		ClassEndDate:   dbtime.NewDate(2024, time.December, 31),
		ClassPrice:     150000,
		ClassRoom:      "R1",
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateEnrollment(t testing.TB, db *gorm.DB, studentID, classID uuid.UUID, status enrollmentModel.EnrollmentStatus) *enrollmentModel.ClassEnrollmentModel {
	t.Helper()
	e := &enrollmentModel.ClassEnrollmentModel{
		ClassEnrollmentStudentID: studentID,
		ClassEnrollmentClassID:   classID,
		ClassEnrollmentStatus:    status,
		ClassEnrollmentDate:      dbtime.NewDate(2024, time.January, 2),
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

func CreateAttendance(t testing.TB, db *gorm.DB, enrollmentID uuid.UUID, date dbtime.Date, status attendanceModel.AttendanceStatus) *attendanceModel.ClassAttendanceModel {
	t.Helper()
	a := &attendanceModel.ClassAttendanceModel{
		ClassAttendanceEnrollmentID: enrollmentID,
		ClassAttendanceDate:         date,
		ClassAttendanceStatus:       status,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}
