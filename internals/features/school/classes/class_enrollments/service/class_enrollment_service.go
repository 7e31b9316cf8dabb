package service

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"classroom_backend/internals/configs"
	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	classService "classroom_backend/internals/features/school/classes/classes/service"
	peopleModel "classroom_backend/internals/features/school/people/model"
	helper "classroom_backend/internals/helpers"
	"classroom_backend/internals/helpers/dbtime"
	"classroom_backend/internals/helpers/mailer"
	"classroom_backend/internals/helpers/metrics"
)

const (
	MsgAlreadyEnrolled  = "You are already enrolled in this class."
	MsgAlreadyPending   = "Your enrollment request is already pending."
	MsgPreviouslyReject = "Your previous enrollment request was rejected."
	MsgRequestSubmitted = "Enrollment request submitted."
)

var ErrEnrollmentNotFound = fiber.NewError(fiber.StatusNotFound, "enrollment not found")

type EnrollmentService struct {
	DB     *gorm.DB
	Clock  dbtime.Clock
	Mailer *mailer.Dispatcher // boleh nil (tanpa notifikasi)
}

func NewEnrollmentService(db *gorm.DB, m *mailer.Dispatcher) *EnrollmentService {
	return &EnrollmentService{DB: db, Clock: dbtime.SystemClock, Mailer: m}
}

func (s *EnrollmentService) today() dbtime.Date {
	return dbtime.Today(s.Clock)
}

/* =======================================================================
   Student: request
======================================================================= */

// RequestEnrollment: siswa mengajukan diri ke kelas (status pending).
// Baris yang sudah ada untuk pasangan (student, class) tidak pernah diduplikasi.
func (s *EnrollmentService) RequestEnrollment(ctx context.Context, studentID, classID uuid.UUID) (*enrollmentModel.ClassEnrollmentModel, helper.Result, error) {
	var (
		out *enrollmentModel.ClassEnrollmentModel
		res helper.Result
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := classService.LoadClass(tx, classID); err != nil {
			return err
		}
		existing, err := findPair(tx, studentID, classID)
		if err != nil {
			return err
		}
		if existing != nil {
			out = existing
			res = helper.Fail(existingMessage(existing.ClassEnrollmentStatus))
			return nil
		}

		e := &enrollmentModel.ClassEnrollmentModel{
			ClassEnrollmentStudentID: studentID,
			ClassEnrollmentClassID:   classID,
			ClassEnrollmentStatus:    enrollmentModel.EnrollmentPending,
			ClassEnrollmentDate:      s.today(),
		}
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		out = e
		res = helper.Ok(MsgRequestSubmitted)
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// request paralel untuk pasangan yang sama
		return nil, helper.Fail(MsgAlreadyPending), nil
	}
	if err != nil {
		return nil, helper.Result{}, err
	}
	if res.OK() {
		metrics.EnrollmentTransitions.WithLabelValues(string(enrollmentModel.EnrollmentPending)).Inc()
	}
	return out, res, nil
}

func existingMessage(st enrollmentModel.EnrollmentStatus) string {
	switch st {
	case enrollmentModel.EnrollmentApproved:
		return MsgAlreadyEnrolled
	case enrollmentModel.EnrollmentRejected:
		return MsgPreviouslyReject
	default:
		return MsgAlreadyPending
	}
}

func findPair(tx *gorm.DB, studentID, classID uuid.UUID) (*enrollmentModel.ClassEnrollmentModel, error) {
	var e enrollmentModel.ClassEnrollmentModel
	err := tx.Where("class_enrollment_student_id = ? AND class_enrollment_class_id = ?", studentID, classID).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

/* =======================================================================
   Admin: direct add, approve, reject, verify payment, delete
======================================================================= */

// AdminAddEnrollment: admin langsung memasukkan siswa (status approved)
func (s *EnrollmentService) AdminAddEnrollment(ctx context.Context, studentID, classID uuid.UUID) (*enrollmentModel.ClassEnrollmentModel, helper.Result, error) {
	var (
		out *enrollmentModel.ClassEnrollmentModel
		res helper.Result
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := classService.LoadClass(tx, classID); err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", studentID).Take(&peopleModel.StudentModel{}).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "student not found")
			}
			return err
		}
		existing, err := findPair(tx, studentID, classID)
		if err != nil {
			return err
		}
		if existing != nil {
			out = existing
			res = helper.Fail("Student already has an enrollment for this class.")
			return nil
		}
		e := &enrollmentModel.ClassEnrollmentModel{
			ClassEnrollmentStudentID: studentID,
			ClassEnrollmentClassID:   classID,
			ClassEnrollmentStatus:    enrollmentModel.EnrollmentApproved,
			ClassEnrollmentDate:      s.today(),
		}
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		out = e
		res = helper.Ok("Student added to class.")
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, helper.Fail("Student already has an enrollment for this class."), nil
	}
	if err != nil {
		return nil, helper.Result{}, err
	}
	if res.OK() {
		metrics.EnrollmentTransitions.WithLabelValues(string(enrollmentModel.EnrollmentApproved)).Inc()
	}
	return out, res, nil
}

func (s *EnrollmentService) Approve(ctx context.Context, enrollmentID uuid.UUID) (*enrollmentModel.ClassEnrollmentModel, helper.Result, error) {
	return s.transition(ctx, enrollmentID, enrollmentModel.EnrollmentApproved)
}

func (s *EnrollmentService) Reject(ctx context.Context, enrollmentID uuid.UUID) (*enrollmentModel.ClassEnrollmentModel, helper.Result, error) {
	return s.transition(ctx, enrollmentID, enrollmentModel.EnrollmentRejected)
}

// transition: perpindahan status tanpa syarat; status sama = no-op
func (s *EnrollmentService) transition(ctx context.Context, enrollmentID uuid.UUID, to enrollmentModel.EnrollmentStatus) (*enrollmentModel.ClassEnrollmentModel, helper.Result, error) {
	var (
		e       *enrollmentModel.ClassEnrollmentModel
		changed bool
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if e, err = loadEnrollment(tx, enrollmentID); err != nil {
			return err
		}
		if e.ClassEnrollmentStatus == to {
			return nil
		}
		if err := tx.Model(e).Update("class_enrollment_status", to).Error; err != nil {
			return err
		}
		e.ClassEnrollmentStatus = to
		changed = true
		return nil
	})
	if err != nil {
		return nil, helper.Result{}, err
	}
	if !changed {
		return e, helper.Ok("Enrollment is already " + string(to) + "."), nil
	}

	metrics.EnrollmentTransitions.WithLabelValues(string(to)).Inc()
	s.notifyDecision(ctx, e)
	return e, helper.Ok("Enrollment " + string(to) + "."), nil
}

// VerifyPayment: tandai lunas, tidak tergantung status
func (s *EnrollmentService) VerifyPayment(ctx context.Context, enrollmentID uuid.UUID) (*enrollmentModel.ClassEnrollmentModel, helper.Result, error) {
	var e *enrollmentModel.ClassEnrollmentModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		e, err = MarkPaidTx(tx, enrollmentID)
		return err
	})
	if err != nil {
		return nil, helper.Result{}, err
	}
	return e, helper.Ok("Payment verified."), nil
}

// MarkPaidTx dipakai juga oleh webhook pembayaran di dalam transaksinya sendiri.
func MarkPaidTx(tx *gorm.DB, enrollmentID uuid.UUID) (*enrollmentModel.ClassEnrollmentModel, error) {
	e, err := loadEnrollment(tx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if e.ClassEnrollmentIsPaid {
		return e, nil
	}
	if err := tx.Model(e).Update("class_enrollment_is_paid", true).Error; err != nil {
		return nil, err
	}
	e.ClassEnrollmentIsPaid = true
	metrics.EnrollmentTransitions.WithLabelValues("paid").Inc()
	return e, nil
}

// Delete: hapus enrollment + attendance + payment-nya (satu transaksi)
func (s *EnrollmentService) Delete(ctx context.Context, enrollmentID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadEnrollment(tx, enrollmentID); err != nil {
			return err
		}
		return classService.DeleteEnrollmentsTx(tx, []uuid.UUID{enrollmentID})
	})
}

func loadEnrollment(tx *gorm.DB, id uuid.UUID) (*enrollmentModel.ClassEnrollmentModel, error) {
	var e enrollmentModel.ClassEnrollmentModel
	if err := tx.Where("class_enrollment_id = ?", id).Take(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &e, nil
}

/* =======================================================================
   Teacher: scores
======================================================================= */

// ScoresInput: partial update; field nil = tidak diubah
type ScoresInput struct {
	Minitest1 *float64
	Minitest2 *float64
	Minitest3 *float64
	Minitest4 *float64
	Midterm   *float64
	FinalTest *float64
}

func (in ScoresInput) updates() map[string]any {
	m := map[string]any{}
	put := func(col string, v *float64) {
		if v != nil {
			m[col] = *v
		}
	}
	put("class_enrollment_minitest1", in.Minitest1)
	put("class_enrollment_minitest2", in.Minitest2)
	put("class_enrollment_minitest3", in.Minitest3)
	put("class_enrollment_minitest4", in.Minitest4)
	put("class_enrollment_midterm", in.Midterm)
	put("class_enrollment_final_test", in.FinalTest)
	return m
}

// RecordScores: hanya guru kelas tsb; tidak ada validasi rentang nilai
func (s *EnrollmentService) RecordScores(ctx context.Context, teacherID, enrollmentID uuid.UUID, in ScoresInput) (*enrollmentModel.ClassEnrollmentModel, error) {
	var e *enrollmentModel.ClassEnrollmentModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if e, err = loadEnrollment(tx, enrollmentID); err != nil {
			return err
		}
		if _, err := classService.LoadOwnedClass(tx, teacherID, e.ClassEnrollmentClassID); err != nil {
			return err
		}
		upd := in.updates()
		if len(upd) == 0 {
			return nil
		}
		if err := tx.Model(e).Updates(upd).Error; err != nil {
			return err
		}
		e, err = loadEnrollment(tx, enrollmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

/* =======================================================================
   Notifikasi email (best effort)
======================================================================= */

func (s *EnrollmentService) notifyDecision(ctx context.Context, e *enrollmentModel.ClassEnrollmentModel) {
	if s.Mailer == nil {
		return
	}
	var row struct {
		FullName  string `gorm:"column:student_full_name"`
		Email     string `gorm:"column:student_email"`
		ClassName string `gorm:"column:class_name"`
	}
	err := s.DB.WithContext(ctx).
		Table("class_enrollments AS e").
		Select("s.student_full_name, s.student_email, c.class_name").
		Joins("JOIN students s ON s.student_id = e.class_enrollment_student_id").
		Joins("JOIN classes c ON c.class_id = e.class_enrollment_class_id").
		Where("e.class_enrollment_id = ?", e.ClassEnrollmentID).
		Take(&row).Error
	if err != nil {
		configs.Log().Warn("enrollment notify: lookup failed", zap.Error(err))
		return
	}
	s.Mailer.SendAsync(DecisionMessage(row.FullName, row.Email, row.ClassName, e.ClassEnrollmentStatus))
}

func DecisionMessage(fullName, email, className string, st enrollmentModel.EnrollmentStatus) mailer.Message {
	var subject, body string
	switch st {
	case enrollmentModel.EnrollmentApproved:
		subject = "Enrollment approved: " + className
		body = "Hi " + fullName + ",\n\nYour enrollment in " + className + " has been approved. See you in class!"
	default:
		subject = "Enrollment rejected: " + className
		body = "Hi " + fullName + ",\n\nUnfortunately your enrollment request for " + className + " was not approved."
	}
	return mailer.Message{
		To:          mailer.Addresses(fullName, strings.TrimSpace(email)),
		Subject:     subject,
		TextContent: body,
	}
}
