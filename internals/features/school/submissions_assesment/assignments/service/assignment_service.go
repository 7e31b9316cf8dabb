package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"classroom_backend/internals/configs"
	classService "classroom_backend/internals/features/school/classes/classes/service"
	notificationModel "classroom_backend/internals/features/school/others/notifications/model"
	notificationService "classroom_backend/internals/features/school/others/notifications/service"
	"classroom_backend/internals/features/school/submissions_assesment/assignments/dto"
	assignmentModel "classroom_backend/internals/features/school/submissions_assesment/assignments/model"
	"classroom_backend/internals/helpers/dbtime"
	"classroom_backend/internals/helpers/oss"
)

var (
	ErrAssignmentNotFound = fiber.NewError(fiber.StatusNotFound, "assignment not found")
	ErrSubmissionNotFound = fiber.NewError(fiber.StatusNotFound, "submission not found")
)

type AssignmentService struct {
	DB    *gorm.DB
	Blob  oss.BlobService
	Clock dbtime.Clock
}

func NewAssignmentService(db *gorm.DB, blob oss.BlobService) *AssignmentService {
	return &AssignmentService{DB: db, Blob: blob, Clock: dbtime.SystemClock}
}

func (s *AssignmentService) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

func loadAssignment(tx *gorm.DB, id uuid.UUID) (*assignmentModel.AssignmentModel, error) {
	var m assignmentModel.AssignmentModel
	if err := tx.Where("assignment_id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return &m, nil
}

func loadOwnedAssignment(tx *gorm.DB, teacherID, id uuid.UUID) (*assignmentModel.AssignmentModel, error) {
	m, err := loadAssignment(tx, id)
	if err != nil {
		return nil, err
	}
	if _, err := classService.LoadOwnedClass(tx, teacherID, m.AssignmentClassID); err != nil {
		return nil, err
	}
	return m, nil
}

/* ===================== teacher ===================== */

func (s *AssignmentService) Create(ctx context.Context, teacherID, classID uuid.UUID, req dto.AssignmentRequest) (*assignmentModel.AssignmentModel, error) {
	db := s.DB.WithContext(ctx)
	if _, err := classService.LoadOwnedClass(db, teacherID, classID); err != nil {
		return nil, err
	}
	m := &assignmentModel.AssignmentModel{AssignmentClassID: classID}
	if err := req.Apply(m); err != nil {
		return nil, err
	}
	if err := db.Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (s *AssignmentService) Update(ctx context.Context, teacherID, id uuid.UUID, req dto.AssignmentRequest) (*assignmentModel.AssignmentModel, error) {
	var out *assignmentModel.AssignmentModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := loadOwnedAssignment(tx, teacherID, id)
		if err != nil {
			return err
		}
		if err := req.Apply(m); err != nil {
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

// Delete: tugas + submissions (file dibersihkan setelah commit)
func (s *AssignmentService) Delete(ctx context.Context, teacherID, id uuid.UUID) error {
	var files []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwnedAssignment(tx, teacherID, id); err != nil {
			return err
		}
		if err := tx.Model(&assignmentModel.AssignmentSubmissionModel{}).
			Where("submission_assignment_id = ?", id).
			Pluck("submission_file_url", &files).Error; err != nil {
			return err
		}
		return classService.DeleteAssignmentsTx(tx, []uuid.UUID{id})
	})
	if err != nil {
		return err
	}
	for _, u := range files {
		s.removeFile(ctx, u)
	}
	return nil
}

func list(tx *gorm.DB, classID uuid.UUID) ([]assignmentModel.AssignmentModel, error) {
	rows := []assignmentModel.AssignmentModel{}
	err := tx.Where("assignment_class_id = ?", classID).
		Order("assignment_due_date ASC").
		Order("assignment_created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (s *AssignmentService) ListForTeacher(ctx context.Context, teacherID, classID uuid.UUID) ([]assignmentModel.AssignmentModel, error) {
	db := s.DB.WithContext(ctx)
	if _, err := classService.LoadOwnedClass(db, teacherID, classID); err != nil {
		return nil, err
	}
	return list(db, classID)
}

func (s *AssignmentService) ListSubmissions(ctx context.Context, teacherID, assignmentID uuid.UUID) ([]dto.SubmissionRow, error) {
	db := s.DB.WithContext(ctx)
	if _, err := loadOwnedAssignment(db, teacherID, assignmentID); err != nil {
		return nil, err
	}
	rows := []dto.SubmissionRow{}
	err := db.Table("assignment_submissions AS sub").
		Select("sub.*, st.student_full_name").
		Joins("JOIN students st ON st.student_id = sub.submission_student_id").
		Where("sub.submission_assignment_id = ?", assignmentID).
		Order("st.student_full_name ASC").
		Scan(&rows).Error
	return rows, err
}

// Grade: guru kelas memberi nilai + catatan; boleh dinilai ulang
func (s *AssignmentService) Grade(ctx context.Context, teacherID, submissionID uuid.UUID, req dto.GradeRequest) (*assignmentModel.AssignmentSubmissionModel, error) {
	var out *assignmentModel.AssignmentSubmissionModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub assignmentModel.AssignmentSubmissionModel
		if err := tx.Where("submission_id = ?", submissionID).Take(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return err
		}
		if _, err := loadOwnedAssignment(tx, teacherID, sub.SubmissionAssignmentID); err != nil {
			return err
		}
		now := s.now()
		sub.SubmissionGrade = req.Grade
		sub.SubmissionFeedback = req.Feedback
		sub.SubmissionGradedAt = &now
		if err := tx.Save(&sub).Error; err != nil {
			return err
		}
		out = &sub
		return nil
	})
	return out, err
}

/* ===================== student ===================== */

func (s *AssignmentService) ListForStudent(ctx context.Context, studentID, classID uuid.UUID) ([]dto.StudentAssignmentResponse, error) {
	db := s.DB.WithContext(ctx)
	if _, err := classService.RequireApprovedEnrollment(db, studentID, classID); err != nil {
		return nil, err
	}
	rows, err := list(db, classID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.AssignmentID)
	}
	subs := map[uuid.UUID]*assignmentModel.AssignmentSubmissionModel{}
	if len(ids) > 0 {
		var mine []assignmentModel.AssignmentSubmissionModel
		if err := db.Where("submission_student_id = ? AND submission_assignment_id IN ?", studentID, ids).
			Find(&mine).Error; err != nil {
			return nil, err
		}
		for i := range mine {
			subs[mine[i].SubmissionAssignmentID] = &mine[i]
		}
	}

	now := s.now()
	out := make([]dto.StudentAssignmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewStudentAssignmentResponse(&rows[i], subs[rows[i].AssignmentID], now))
	}
	return out, nil
}

// ViewForStudent: detail tugas; sekaligus menandai dibaca
func (s *AssignmentService) ViewForStudent(ctx context.Context, studentID, id uuid.UUID) (*dto.StudentAssignmentResponse, error) {
	var out *dto.StudentAssignmentResponse
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := loadAssignment(tx, id)
		if err != nil {
			return err
		}
		if _, err := classService.RequireApprovedEnrollment(tx, studentID, m.AssignmentClassID); err != nil {
			return err
		}
		now := s.now()
		if err := notificationService.MarkReadTx(tx, studentID, notificationModel.ContentAssignment, id, now); err != nil {
			return err
		}
		sub, err := findSubmission(tx, id, studentID)
		if err != nil {
			return err
		}
		r := dto.NewStudentAssignmentResponse(m, sub, now)
		out = &r
		return nil
	})
	return out, err
}

func findSubmission(tx *gorm.DB, assignmentID, studentID uuid.UUID) (*assignmentModel.AssignmentSubmissionModel, error) {
	var sub assignmentModel.AssignmentSubmissionModel
	err := tx.Where("submission_assignment_id = ? AND submission_student_id = ?", assignmentID, studentID).
		Take(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *AssignmentService) removeFile(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.Blob.DeleteByPublicURL(ctx, url); err != nil {
		configs.Log().Warn("submission file delete failed", zap.String("url", url), zap.Error(err))
	}
}
