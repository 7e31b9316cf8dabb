package service

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"classroom_backend/internals/configs"
	"classroom_backend/internals/constants"
	materialModel "classroom_backend/internals/features/school/classes/class_materials/model"
	classService "classroom_backend/internals/features/school/classes/classes/service"
	"classroom_backend/internals/helpers/oss"
)

var ErrMaterialNotFound = fiber.NewError(fiber.StatusNotFound, "material not found")

type MaterialService struct {
	DB   *gorm.DB
	Blob oss.BlobService
}

func NewMaterialService(db *gorm.DB, blob oss.BlobService) *MaterialService {
	return &MaterialService{DB: db, Blob: blob}
}

// Upload: guru kelas mengunggah materi (file disimpan apa adanya)
func (s *MaterialService) Upload(ctx context.Context, teacherID, classID uuid.UUID, title string, fh *multipart.FileHeader) (*materialModel.ClassMaterialModel, error) {
	if _, err := classService.LoadOwnedClass(s.DB.WithContext(ctx), teacherID, classID); err != nil {
		return nil, err
	}
	url, err := s.Blob.UploadAny(ctx, "materials/"+classID.String(), fh)
	if err != nil {
		return nil, err
	}
	m := &materialModel.ClassMaterialModel{
		ClassMaterialClassID:  classID,
		ClassMaterialTitle:    title,
		ClassMaterialFileURL:  url,
		ClassMaterialFileKind: constants.DetectFileKindFromExt(fh.Filename),
	}
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		s.removeFile(ctx, url)
		return nil, err
	}
	return m, nil
}

func list(tx *gorm.DB, classID uuid.UUID) ([]materialModel.ClassMaterialModel, error) {
	rows := []materialModel.ClassMaterialModel{}
	err := tx.Where("class_material_class_id = ?", classID).
		Order("class_material_created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (s *MaterialService) ListForTeacher(ctx context.Context, teacherID, classID uuid.UUID) ([]materialModel.ClassMaterialModel, error) {
	db := s.DB.WithContext(ctx)
	if _, err := classService.LoadOwnedClass(db, teacherID, classID); err != nil {
		return nil, err
	}
	return list(db, classID)
}

// ListForStudent: hanya untuk siswa approved di kelas tsb
func (s *MaterialService) ListForStudent(ctx context.Context, studentID, classID uuid.UUID) ([]materialModel.ClassMaterialModel, error) {
	db := s.DB.WithContext(ctx)
	if _, err := classService.RequireApprovedEnrollment(db, studentID, classID); err != nil {
		return nil, err
	}
	return list(db, classID)
}

func (s *MaterialService) Delete(ctx context.Context, teacherID, materialID uuid.UUID) error {
	var url string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m materialModel.ClassMaterialModel
		if err := tx.Where("class_material_id = ?", materialID).Take(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMaterialNotFound
			}
			return err
		}
		if _, err := classService.LoadOwnedClass(tx, teacherID, m.ClassMaterialClassID); err != nil {
			return err
		}
		url = m.ClassMaterialFileURL
		return tx.Delete(&m).Error
	})
	if err != nil {
		return err
	}
	s.removeFile(ctx, url)
	return nil
}

func (s *MaterialService) removeFile(ctx context.Context, url string) {
	if err := s.Blob.DeleteByPublicURL(ctx, url); err != nil {
		configs.Log().Warn("material file delete failed", zap.String("url", url), zap.Error(err))
	}
}
