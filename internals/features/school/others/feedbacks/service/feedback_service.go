package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	classService "classroom_backend/internals/features/school/classes/classes/service"
	"classroom_backend/internals/features/school/others/feedbacks/dto"
	feedbackModel "classroom_backend/internals/features/school/others/feedbacks/model"
	helper "classroom_backend/internals/helpers"
)

const (
	MsgFeedbackSaved   = "Thank you for your feedback."
	MsgFeedbackUpdated = "Your feedback has been updated."
)

type FeedbackService struct {
	DB *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{DB: db}
}

// Submit: satu feedback per (siswa, kelas); kirim ulang menimpa
func (s *FeedbackService) Submit(ctx context.Context, studentID, classID uuid.UUID, req dto.FeedbackRequest) (*feedbackModel.FeedbackModel, helper.Result, error) {
	var (
		out *feedbackModel.FeedbackModel
		res helper.Result
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := classService.RequireApprovedEnrollment(tx, studentID, classID); err != nil {
			return err
		}
		class, err := classService.LoadClass(tx, classID)
		if err != nil {
			return err
		}

		var m feedbackModel.FeedbackModel
		err = tx.Where("feedback_student_id = ? AND feedback_class_id = ?", studentID, classID).Take(&m).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			m = feedbackModel.FeedbackModel{
				FeedbackStudentID: studentID,
				FeedbackClassID:   classID,
			}
			res = helper.Ok(MsgFeedbackSaved)
		case err != nil:
			return err
		default:
			res = helper.Ok(MsgFeedbackUpdated)
		}

		// guru diambil dari kelas saat feedback dikirim
		m.FeedbackTeacherID = class.TeacherID
		m.FeedbackTeacherRate = req.TeacherRate
		m.FeedbackClassRate = req.ClassRate
		m.FeedbackComment = req.Comment
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		out = &m
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, helper.Fail("Feedback is already being saved, please try again."), nil
	}
	if err != nil {
		return nil, helper.Result{}, err
	}
	return out, res, nil
}

// Mine: feedback siswa untuk satu kelas (nil kalau belum ada)
func (s *FeedbackService) Mine(ctx context.Context, studentID, classID uuid.UUID) (*feedbackModel.FeedbackModel, error) {
	var m feedbackModel.FeedbackModel
	err := s.DB.WithContext(ctx).
		Where("feedback_student_id = ? AND feedback_class_id = ?", studentID, classID).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const rowColumns = "f.*, st.student_full_name, c.class_name, t.teacher_full_name"

func (s *FeedbackService) joined(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("feedbacks AS f").
		Joins("JOIN students st ON st.student_id = f.feedback_student_id").
		Joins("JOIN classes c ON c.class_id = f.feedback_class_id").
		Joins("LEFT JOIN teachers t ON t.teacher_id = f.feedback_teacher_id")
}

func (s *FeedbackService) list(ctx context.Context, filter func(*gorm.DB) *gorm.DB, p helper.Paging) ([]dto.FeedbackRow, int64, error) {
	var total int64
	if err := filter(s.joined(ctx)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []dto.FeedbackRow{}
	err := filter(s.joined(ctx).Select(rowColumns)).
		Order("f.feedback_updated_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error
	return rows, total, err
}

// ListForTeacher: feedback yang diterima guru (opsional per kelas)
func (s *FeedbackService) ListForTeacher(ctx context.Context, teacherID uuid.UUID, classID *uuid.UUID, p helper.Paging) ([]dto.FeedbackRow, int64, error) {
	return s.list(ctx, func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("f.feedback_teacher_id = ?", teacherID)
		if classID != nil {
			tx = tx.Where("f.feedback_class_id = ?", *classID)
		}
		return tx
	}, p)
}

// ListForAdmin: semua feedback; filter kelas, guru, q (nama siswa/kelas)
func (s *FeedbackService) ListForAdmin(ctx context.Context, q dto.ListFeedbackQuery, p helper.Paging) ([]dto.FeedbackRow, int64, error) {
	return s.list(ctx, func(tx *gorm.DB) *gorm.DB {
		if q.ClassID != "" {
			tx = tx.Where("f.feedback_class_id = ?", q.ClassID)
		}
		if q.TeacherID != "" {
			tx = tx.Where("f.feedback_teacher_id = ?", q.TeacherID)
		}
		if term := strings.ToLower(strings.TrimSpace(q.Q)); term != "" {
			like := "%" + term + "%"
			tx = tx.Where("(LOWER(st.student_full_name) LIKE ? OR LOWER(c.class_name) LIKE ?)", like, like)
		}
		return tx
	}, p)
}

// TeacherRating: rata-rata nilai untuk guru (dipakai dashboard)
func TeacherRating(db *gorm.DB, teacherID uuid.UUID) (dto.RatingSummary, error) {
	var out dto.RatingSummary
	err := db.Model(&feedbackModel.FeedbackModel{}).
		Select(`COUNT(*) AS count,
			COALESCE(AVG(feedback_teacher_rate), 0) AS avg_teacher_rate,
			COALESCE(AVG(feedback_class_rate), 0) AS avg_class_rate`).
		Where("feedback_teacher_id = ?", teacherID).
		Scan(&out).Error
	return out, err
}
