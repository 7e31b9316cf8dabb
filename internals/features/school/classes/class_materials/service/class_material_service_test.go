package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	"classroom_backend/internals/helpers/oss"
	"classroom_backend/internals/testutil"
)

func TestMaterialUploadListDelete(t *testing.T) {
	db := testutil.NewDB(t)
	root := t.TempDir()
	svc := NewMaterialService(db, oss.NewLocalBlobService(root, "/media"))
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, db, "T", nil)
	class := testutil.CreateClass(t, db, "Class X", &teacher.TeacherID)
	approved := testutil.CreateStudent(t, db, "A", nil)
	pending := testutil.CreateStudent(t, db, "P", nil)
	testutil.CreateEnrollment(t, db, approved.StudentID, class.ClassID, enrollmentModel.EnrollmentApproved)
	testutil.CreateEnrollment(t, db, pending.StudentID, class.ClassID, enrollmentModel.EnrollmentPending)

	fh := testutil.FileHeader(t, "file", "week1.pdf", []byte("%PDF-1.4 test"))
	m, err := svc.Upload(ctx, teacher.TeacherID, class.ClassID, "Week 1", fh)
	require.NoError(t, err)
	assert.Equal(t, "pdf", m.ClassMaterialFileKind)
	require.True(t, strings.HasPrefix(m.ClassMaterialFileURL, "/media/materials/"))

	path := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(m.ClassMaterialFileURL, "/media/")))
	_, err = os.Stat(path)
	require.NoError(t, err)

	rows, err := svc.ListForStudent(ctx, approved.StudentID, class.ClassID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = svc.ListForStudent(ctx, pending.StudentID, class.ClassID)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusForbidden, fe.Code)

	other := testutil.CreateTeacher(t, db, "Other", nil)
	err = svc.Delete(ctx, other.TeacherID, m.ClassMaterialID)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusForbidden, fe.Code)

	require.NoError(t, svc.Delete(ctx, teacher.TeacherID, m.ClassMaterialID))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.ErrorIs(t, svc.Delete(ctx, teacher.TeacherID, m.ClassMaterialID), ErrMaterialNotFound)
}

func TestMaterialUploadRejectsUnknownFileType(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMaterialService(db, oss.NewLocalBlobService(t.TempDir(), "/media"))
	teacher := testutil.CreateTeacher(t, db, "T", nil)
	class := testutil.CreateClass(t, db, "Class X", &teacher.TeacherID)

	_, err := svc.Upload(context.Background(), teacher.TeacherID, class.ClassID, "Bad", testutil.FileHeader(t, "file", "run.exe", []byte("MZ")))
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, fe.Code)
}
