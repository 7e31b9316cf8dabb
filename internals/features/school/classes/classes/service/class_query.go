package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"classroom_backend/internals/features/school/classes/classes/dto"
	helper "classroom_backend/internals/helpers"
)

const classRowColumns = `c.*,
	ct.class_type_code AS class_type_code,
	COALESCE(t.teacher_full_name, '') AS teacher_full_name,
	(SELECT COUNT(*) FROM class_enrollments e
	  WHERE e.class_enrollment_class_id = c.class_id
	    AND e.class_enrollment_status = 'approved') AS approved_count`

var classSorts = map[string]string{
	"newest":     "c.class_created_at DESC",
	"oldest":     "c.class_created_at ASC",
	"name":       "c.class_name ASC",
	"start_date": "c.class_start_date ASC",
	"price":      "c.class_price ASC",
}

func (s *ClassService) joined(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("classes AS c").
		Joins("JOIN class_types ct ON ct.class_type_id = c.class_type_id").
		Joins("LEFT JOIN teachers t ON t.teacher_id = c.class_teacher_id")
}

func classFilter(q dto.ListClassQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if kw := strings.TrimSpace(q.Q); kw != "" {
			like := "%" + strings.ToLower(kw) + "%"
			db = db.Where("LOWER(c.class_name) LIKE ? OR LOWER(ct.class_type_code) LIKE ? OR LOWER(t.teacher_full_name) LIKE ?", like, like, like)
		}
		if q.ClassTypeID != nil {
			db = db.Where("c.class_type_id = ?", *q.ClassTypeID)
		}
		if q.TeacherID != nil {
			db = db.Where("c.class_teacher_id = ?", *q.TeacherID)
		}
		return db
	}
}

// List: dipakai katalog publik & admin (q cocok ke nama kelas, kode tipe, nama guru)
func (s *ClassService) List(ctx context.Context, q dto.ListClassQuery, p helper.Paging) ([]dto.ClassRow, int64, error) {
	var total int64
	if err := s.joined(ctx).Scopes(classFilter(q)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []dto.ClassRow{}
	err := s.joined(ctx).Scopes(classFilter(q)).
		Select(classRowColumns).
		Order(helper.SafeOrder(q.Sort, classSorts, "newest")).
		Order("c.class_id ASC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error
	return rows, total, err
}

// Featured: kelas terbaru untuk halaman depan
func (s *ClassService) Featured(ctx context.Context) ([]dto.ClassRow, error) {
	rows := []dto.ClassRow{}
	err := s.joined(ctx).
		Select(classRowColumns).
		Order("c.class_created_at DESC").
		Order("c.class_id ASC").
		Limit(featuredCount).
		Scan(&rows).Error
	return rows, err
}

// Detail: satu kelas + jadwal
func (s *ClassService) Detail(ctx context.Context, id uuid.UUID) (*dto.ClassResponse, error) {
	var rows []dto.ClassRow
	if err := s.joined(ctx).
		Select(classRowColumns).
		Where("c.class_id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrClassNotFound
	}
	out := dto.FromRow(&rows[0])
	sch, err := ScheduleOf(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	out.Schedule = dto.NewScheduleResponse(sch)
	return &out, nil
}
