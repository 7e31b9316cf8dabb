package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"classroom_backend/internals/features/school/classes/class_enrollments/dto"
	classService "classroom_backend/internals/features/school/classes/classes/service"
	helper "classroom_backend/internals/helpers"
)

const rowColumns = "class_enrollments.*, students.student_full_name, classes.class_name"

func (s *EnrollmentService) joined(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("class_enrollments").
		Joins("JOIN students ON students.student_id = class_enrollments.class_enrollment_student_id").
		Joins("JOIN classes ON classes.class_id = class_enrollments.class_enrollment_class_id")
}

func (s *EnrollmentService) baseRows(ctx context.Context) *gorm.DB {
	return s.joined(ctx).Select(rowColumns)
}

// ListForAdmin: filter q (nama siswa / kelas), status, paid + paging
func (s *EnrollmentService) ListForAdmin(ctx context.Context, q dto.ListEnrollmentQuery, p helper.Paging) ([]dto.EnrollmentRow, int64, error) {
	filter := func(tx *gorm.DB) *gorm.DB {
		if term := strings.ToLower(strings.TrimSpace(q.Q)); term != "" {
			like := "%" + term + "%"
			tx = tx.Where("(LOWER(students.student_full_name) LIKE ? OR LOWER(classes.class_name) LIKE ?)", like, like)
		}
		if q.Status != "" {
			tx = tx.Where("class_enrollments.class_enrollment_status = ?", q.Status)
		}
		if q.Paid != nil {
			tx = tx.Where("class_enrollments.class_enrollment_is_paid = ?", *q.Paid)
		}
		return tx
	}

	var total int64
	if err := filter(s.joined(ctx)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []dto.EnrollmentRow
	err := filter(s.baseRows(ctx)).Order("class_enrollments.class_enrollment_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error
	return rows, total, err
}

// ListForStudent: semua enrollment milik siswa
func (s *EnrollmentService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]dto.EnrollmentRow, error) {
	var rows []dto.EnrollmentRow
	err := s.baseRows(ctx).
		Where("class_enrollments.class_enrollment_student_id = ?", studentID).
		Order("classes.class_name ASC").
		Scan(&rows).Error
	return rows, err
}

// ListForClass: roster kelas untuk guru pemilik
func (s *EnrollmentService) ListForClass(ctx context.Context, teacherID, classID uuid.UUID) ([]dto.EnrollmentRow, error) {
	if _, err := classService.LoadOwnedClass(s.DB.WithContext(ctx), teacherID, classID); err != nil {
		return nil, err
	}
	var rows []dto.EnrollmentRow
	err := s.baseRows(ctx).
		Where("class_enrollments.class_enrollment_class_id = ?", classID).
		Order("students.student_full_name ASC").
		Scan(&rows).Error
	return rows, err
}
