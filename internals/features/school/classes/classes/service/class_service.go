package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classroom_backend/internals/configs"
	"classroom_backend/internals/features/school/classes/classes/dto"
	classModel "classroom_backend/internals/features/school/classes/classes/model"
	peopleModel "classroom_backend/internals/features/school/people/model"
	helper "classroom_backend/internals/helpers"
	"classroom_backend/internals/helpers/oss"
)

const (
	MsgTypeCodeTaken = "Class type code already exists."
	MsgTypeInUse     = "Class type is still used by one or more classes."
	featuredCount    = 3
)

var (
	ErrClassTypeNotFound = fiber.NewError(fiber.StatusNotFound, "class type not found")
	ErrScheduleNotFound  = fiber.NewError(fiber.StatusNotFound, "class has no schedule")
)

type ClassService struct {
	DB   *gorm.DB
	Blob oss.BlobService
}

func NewClassService(db *gorm.DB, blob oss.BlobService) *ClassService {
	return &ClassService{DB: db, Blob: blob}
}

/* =======================================================================
   Class types
======================================================================= */

func (s *ClassService) ListTypes(ctx context.Context) ([]classModel.ClassTypeModel, error) {
	var rows []classModel.ClassTypeModel
	err := s.DB.WithContext(ctx).Order("class_type_code ASC").Find(&rows).Error
	return rows, err
}

func (s *ClassService) CreateType(ctx context.Context, req dto.ClassTypeRequest) (*classModel.ClassTypeModel, helper.Result, error) {
	m := &classModel.ClassTypeModel{
		ClassTypeCode:        req.ClassTypeCode,
		ClassTypeDescription: req.ClassTypeDescription,
	}
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, helper.Fail(MsgTypeCodeTaken), nil
		}
		return nil, helper.Result{}, err
	}
	return m, helper.Ok("Class type created."), nil
}

func (s *ClassService) UpdateType(ctx context.Context, id uuid.UUID, req dto.ClassTypeRequest) (*classModel.ClassTypeModel, helper.Result, error) {
	m, err := loadType(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, helper.Result{}, err
	}
	m.ClassTypeCode = req.ClassTypeCode
	m.ClassTypeDescription = req.ClassTypeDescription
	if err := s.DB.WithContext(ctx).Save(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, helper.Fail(MsgTypeCodeTaken), nil
		}
		return nil, helper.Result{}, err
	}
	return m, helper.Ok("Class type updated."), nil
}

// DeleteType: tipe yang masih dipakai kelas tidak boleh dihapus
func (s *ClassService) DeleteType(ctx context.Context, id uuid.UUID) (helper.Result, error) {
	var res helper.Result
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := loadType(tx, id)
		if err != nil {
			return err
		}
		var used int64
		if err := tx.Model(&classModel.ClassModel{}).Where("class_type_id = ?", id).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			res = helper.Fail(MsgTypeInUse)
			return nil
		}
		if err := tx.Delete(m).Error; err != nil {
			return err
		}
		res = helper.Ok("Class type deleted.")
		return nil
	})
	return res, err
}

func loadType(tx *gorm.DB, id uuid.UUID) (*classModel.ClassTypeModel, error) {
	var m classModel.ClassTypeModel
	if err := tx.Where("class_type_id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassTypeNotFound
		}
		return nil, err
	}
	return &m, nil
}

/* =======================================================================
   Classes (admin)
======================================================================= */

// checkRefs: tipe wajib ada; guru & admin (kalau diisi) harus ada
func checkRefs(tx *gorm.DB, m *classModel.ClassModel) error {
	if _, err := loadType(tx, m.ClassTypeID); err != nil {
		return err
	}
	if m.TeacherID != nil {
		var n int64
		if err := tx.Model(&peopleModel.TeacherModel{}).Where("teacher_id = ?", *m.TeacherID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "teacher not found")
		}
	}
	if m.AdminID != nil {
		var n int64
		if err := tx.Model(&peopleModel.AdminModel{}).Where("admin_id = ?", *m.AdminID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "admin not found")
		}
	}
	return nil
}

func (s *ClassService) CreateClass(ctx context.Context, req dto.CreateClassRequest, image *multipart.FileHeader) (*classModel.ClassModel, error) {
	m, err := req.ToModel()
	if err != nil {
		return nil, err
	}
	if err := checkRefs(s.DB.WithContext(ctx), m); err != nil {
		return nil, err
	}
	if image != nil {
		url, err := s.Blob.UploadImage(ctx, "classes", image)
		if err != nil {
			return nil, err
		}
		m.ClassImageURL = &url
	}
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		if m.ClassImageURL != nil {
			s.removeFiles(ctx, *m.ClassImageURL)
		}
		return nil, err
	}
	return m, nil
}

func (s *ClassService) PatchClass(ctx context.Context, id uuid.UUID, req dto.PatchClassRequest) (*classModel.ClassModel, error) {
	var out *classModel.ClassModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := LoadClass(tx, id)
		if err != nil {
			return err
		}
		if err := req.Apply(m); err != nil {
			return err
		}
		if err := checkRefs(tx, m); err != nil {
			return err
		}
		if err := tx.Save(m).Error; err != nil {
			return err
		}
		out = m
		return nil
	})
	return out, err
}

// SetImage: upload (→ WebP) lalu ganti URL; file lama dibuang setelah commit
func (s *ClassService) SetImage(ctx context.Context, id uuid.UUID, image *multipart.FileHeader) (*classModel.ClassModel, error) {
	m, err := LoadClass(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	url, err := s.Blob.UploadImage(ctx, "classes", image)
	if err != nil {
		return nil, err
	}
	old := m.ClassImageURL
	if err := s.DB.WithContext(ctx).Model(m).Update("class_image_url", url).Error; err != nil {
		s.removeFiles(ctx, url)
		return nil, err
	}
	m.ClassImageURL = &url
	if old != nil {
		s.removeFiles(ctx, *old)
	}
	return m, nil
}

// DeleteClass: satu transaksi untuk seluruh turunan; file storage dibersihkan sesudahnya
func (s *ClassService) DeleteClass(ctx context.Context, id uuid.UUID) error {
	var files []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := LoadClass(tx, id); err != nil {
			return err
		}
		var err error
		files, err = DeleteClassTx(tx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.removeFiles(ctx, files...)
	return nil
}

// removeFiles: best effort, kegagalan storage hanya di-log
func (s *ClassService) removeFiles(ctx context.Context, urls ...string) {
	if s.Blob == nil {
		return
	}
	for _, u := range urls {
		if strings.TrimSpace(u) == "" {
			continue
		}
		if err := s.Blob.DeleteByPublicURL(ctx, u); err != nil {
			configs.Log().Warn("blob delete failed", zap.String("url", u), zap.Error(err))
		}
	}
}

/* =======================================================================
   Schedule
======================================================================= */

// SetSchedule: upsert pola mingguan (satu per kelas)
func (s *ClassService) SetSchedule(ctx context.Context, classID uuid.UUID, req dto.ScheduleRequest) (*classModel.ClassScheduleModel, error) {
	m, err := req.ToModel(classID)
	if err != nil {
		return nil, err
	}
	var saved classModel.ClassScheduleModel
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := LoadClass(tx, classID); err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "class_schedule_class_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"class_schedule_days",
				"class_schedule_start_time",
				"class_schedule_end_time",
				"class_schedule_updated_at",
			}),
		}).Create(m).Error; err != nil {
			return err
		}
		// saat konflik id baris lama yang dipakai, m.ClassScheduleID sudah basi
		return tx.Where("class_schedule_class_id = ?", classID).Take(&saved).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *ClassService) DeleteSchedule(ctx context.Context, classID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("class_schedule_class_id = ?", classID).
		Delete(&classModel.ClassScheduleModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// ScheduleOf: nil kalau kelas belum punya jadwal
func ScheduleOf(tx *gorm.DB, classID uuid.UUID) (*classModel.ClassScheduleModel, error) {
	var m classModel.ClassScheduleModel
	err := tx.Where("class_schedule_class_id = ?", classID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
