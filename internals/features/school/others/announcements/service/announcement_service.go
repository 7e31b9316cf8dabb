package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	classService "classroom_backend/internals/features/school/classes/classes/service"
	"classroom_backend/internals/features/school/others/announcements/dto"
	announcementModel "classroom_backend/internals/features/school/others/announcements/model"
	notificationModel "classroom_backend/internals/features/school/others/notifications/model"
	notificationService "classroom_backend/internals/features/school/others/notifications/service"
	"classroom_backend/internals/helpers/dbtime"
)

var ErrAnnouncementNotFound = fiber.NewError(fiber.StatusNotFound, "announcement not found")

type AnnouncementService struct {
	DB    *gorm.DB
	Clock dbtime.Clock
}

func NewAnnouncementService(db *gorm.DB) *AnnouncementService {
	return &AnnouncementService{DB: db, Clock: dbtime.SystemClock}
}

func (s *AnnouncementService) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

func (s *AnnouncementService) Create(ctx context.Context, teacherID, classID uuid.UUID, req dto.AnnouncementRequest) (*announcementModel.AnnouncementModel, error) {
	db := s.DB.WithContext(ctx)
	if _, err := classService.LoadOwnedClass(db, teacherID, classID); err != nil {
		return nil, err
	}
	m := &announcementModel.AnnouncementModel{
		AnnouncementClassID:   classID,
		AnnouncementTeacherID: &teacherID,
		AnnouncementTitle:     req.Title,
		AnnouncementContent:   req.Content,
	}
	if err := db.Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// loadOwned: pengumuman + cek kelasnya diajar guru ini
func loadOwned(tx *gorm.DB, teacherID, id uuid.UUID) (*announcementModel.AnnouncementModel, error) {
	m, err := load(tx, id)
	if err != nil {
		return nil, err
	}
	if _, err := classService.LoadOwnedClass(tx, teacherID, m.AnnouncementClassID); err != nil {
		return nil, err
	}
	return m, nil
}

func load(tx *gorm.DB, id uuid.UUID) (*announcementModel.AnnouncementModel, error) {
	var m announcementModel.AnnouncementModel
	if err := tx.Where("announcement_id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *AnnouncementService) Update(ctx context.Context, teacherID, id uuid.UUID, req dto.AnnouncementRequest) (*announcementModel.AnnouncementModel, error) {
	var out *announcementModel.AnnouncementModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := loadOwned(tx, teacherID, id)
		if err != nil {
			return err
		}
		m.AnnouncementTitle = req.Title
		m.AnnouncementContent = req.Content
		if err := tx.Save(m).Error; err != nil {
			return err
		}
		out = m
		return nil
	})
	return out, err
}

func (s *AnnouncementService) Delete(ctx context.Context, teacherID, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwned(tx, teacherID, id); err != nil {
			return err
		}
		return classService.DeleteAnnouncementsTx(tx, []uuid.UUID{id})
	})
}

func list(tx *gorm.DB, classID uuid.UUID) ([]announcementModel.AnnouncementModel, error) {
	rows := []announcementModel.AnnouncementModel{}
	err := tx.Where("announcement_class_id = ?", classID).
		Order("announcement_created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (s *AnnouncementService) ListForTeacher(ctx context.Context, teacherID, classID uuid.UUID) ([]announcementModel.AnnouncementModel, error) {
	db := s.DB.WithContext(ctx)
	if _, err := classService.LoadOwnedClass(db, teacherID, classID); err != nil {
		return nil, err
	}
	return list(db, classID)
}

func (s *AnnouncementService) ListForStudent(ctx context.Context, studentID, classID uuid.UUID) ([]announcementModel.AnnouncementModel, error) {
	db := s.DB.WithContext(ctx)
	if _, err := classService.RequireApprovedEnrollment(db, studentID, classID); err != nil {
		return nil, err
	}
	return list(db, classID)
}

// ViewForStudent: detail + tandai dibaca
func (s *AnnouncementService) ViewForStudent(ctx context.Context, studentID, id uuid.UUID) (*announcementModel.AnnouncementModel, error) {
	var out *announcementModel.AnnouncementModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := load(tx, id)
		if err != nil {
			return err
		}
		if _, err := classService.RequireApprovedEnrollment(tx, studentID, m.AnnouncementClassID); err != nil {
			return err
		}
		if err := notificationService.MarkReadTx(tx, studentID, notificationModel.ContentAnnouncement, id, s.now()); err != nil {
			return err
		}
		out = m
		return nil
	})
	return out, err
}
