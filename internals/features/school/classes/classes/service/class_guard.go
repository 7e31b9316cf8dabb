package service

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"classroom_backend/internals/constants"
	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	classModel "classroom_backend/internals/features/school/classes/classes/model"
)

var ErrClassNotFound = fiber.NewError(fiber.StatusNotFound, "class not found")

// LoadClass: 404 kalau kelas tidak ada
func LoadClass(tx *gorm.DB, classID uuid.UUID) (*classModel.ClassModel, error) {
	var c classModel.ClassModel
	if err := tx.Where("class_id = ?", classID).Take(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return &c, nil
}

// LoadOwnedClass: kelas harus diajar oleh teacherID (403 kalau bukan)
func LoadOwnedClass(tx *gorm.DB, teacherID, classID uuid.UUID) (*classModel.ClassModel, error) {
	c, err := LoadClass(tx, classID)
	if err != nil {
		return nil, err
	}
	if !c.IsTaughtBy(teacherID) {
		return nil, fiber.NewError(fiber.StatusForbidden, constants.ErrAccessDenied)
	}
	return c, nil
}

// TeacherClassIDs: semua class_id yang diajar guru
func TeacherClassIDs(tx *gorm.DB, teacherID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := tx.Model(&classModel.ClassModel{}).
		Where("class_teacher_id = ?", teacherID).
		Pluck("class_id", &ids).Error
	return ids, err
}

// RequireApprovedEnrollment: siswa harus punya enrollment approved di kelas (403 kalau tidak)
func RequireApprovedEnrollment(tx *gorm.DB, studentID, classID uuid.UUID) (*enrollmentModel.ClassEnrollmentModel, error) {
	var e enrollmentModel.ClassEnrollmentModel
	err := tx.Where("class_enrollment_student_id = ? AND class_enrollment_class_id = ? AND class_enrollment_status = ?",
		studentID, classID, enrollmentModel.EnrollmentApproved).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusForbidden, constants.ErrAccessDenied)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// StudentClassIDs: kelas tempat siswa berstatus approved
func StudentClassIDs(tx *gorm.DB, studentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := tx.Model(&enrollmentModel.ClassEnrollmentModel{}).
		Where("class_enrollment_student_id = ? AND class_enrollment_status = ?", studentID, enrollmentModel.EnrollmentApproved).
		Pluck("class_enrollment_class_id", &ids).Error
	return ids, err
}
