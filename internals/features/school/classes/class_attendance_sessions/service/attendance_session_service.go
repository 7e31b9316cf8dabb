package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classroom_backend/internals/configs"
	attendanceModel "classroom_backend/internals/features/school/classes/class_attendance_sessions/model"
	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	classService "classroom_backend/internals/features/school/classes/classes/service"
	helper "classroom_backend/internals/helpers"
	"classroom_backend/internals/helpers/dbtime"
	"classroom_backend/internals/helpers/metrics"
)

const (
	tokenBytes     = 32
	passcodeDigits = 6
	qrSize         = 300
)

const (
	MsgSessionInvalid  = "This attendance session is invalid or has been closed."
	MsgSessionNotToday = "This attendance session is not for today."
	MsgNotEnrolled     = "You are not an approved student of this class."
	MsgWrongPasscode   = "Incorrect passcode, please try again."
	MsgCheckedIn       = "Attendance recorded. You are marked present."
)

var ErrSessionNotFound = fiber.NewError(fiber.StatusNotFound, "attendance session not found")

type AttendanceSessionService struct {
	DB    *gorm.DB
	Clock dbtime.Clock
	// BaseURL untuk link check-in di QR, mis. https://school.example.com
	BaseURL string
}

func NewAttendanceSessionService(db *gorm.DB) *AttendanceSessionService {
	return &AttendanceSessionService{DB: db, Clock: dbtime.SystemClock, BaseURL: configs.PublicBaseURL}
}

func (s *AttendanceSessionService) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

func (s *AttendanceSessionService) today() dbtime.Date {
	return dbtime.Today(s.Clock)
}

/* =======================================================================
   Teacher: open / close / list
======================================================================= */

// OpenSession: nonaktifkan sesi aktif (class, hari ini) lalu buat sesi baru
// dengan token & passcode segar. Dua request paralel → last writer wins.
func (s *AttendanceSessionService) OpenSession(ctx context.Context, teacherID, classID uuid.UUID) (*attendanceModel.ClassAttendanceSessionModel, error) {
	token, err := helper.RandomURLToken(tokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	passcode, err := helper.RandomDigits(passcodeDigits)
	if err != nil {
		return nil, fmt.Errorf("generate passcode: %w", err)
	}
	today := s.today()

	var out *attendanceModel.ClassAttendanceSessionModel
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := classService.LoadOwnedClass(tx, teacherID, classID); err != nil {
			return err
		}
		if err := tx.Model(&attendanceModel.ClassAttendanceSessionModel{}).
			Where("class_attendance_session_class_id = ? AND class_attendance_session_date = ? AND class_attendance_session_is_active = ?",
				classID, today, true).
			Updates(map[string]any{
				"class_attendance_session_is_active": false,
				"class_attendance_session_closed_at": s.now().UTC(),
			}).Error; err != nil {
			return err
		}

		sess := &attendanceModel.ClassAttendanceSessionModel{
			ClassAttendanceSessionClassID:  classID,
			ClassAttendanceSessionDate:     today,
			ClassAttendanceSessionToken:    token,
			ClassAttendanceSessionPasscode: passcode,
			ClassAttendanceSessionIsActive: true,
			ClassAttendanceSessionOpenedBy: &teacherID,
		}
		if err := tx.Create(sess).Error; err != nil {
			return err
		}
		out = sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.AttendanceSessionsOpened.Inc()
	return out, nil
}

// CloseResult: ringkasan penutupan sesi
type CloseResult struct {
	Session        *attendanceModel.ClassAttendanceSessionModel `json:"session"`
	AbsentsCreated int64                                        `json:"absents_created"`
}

// CloseSession: set inactive + backfill Absent untuk setiap enrollment approved
// yang belum punya baris attendance di tanggal sesi. Satu transaksi; insert
// pakai ON CONFLICT DO NOTHING supaya Present dari check-in paralel tidak tertimpa.
func (s *AttendanceSessionService) CloseSession(ctx context.Context, teacherID, sessionID uuid.UUID) (*CloseResult, helper.Result, error) {
	var (
		out CloseResult
		res helper.Result
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sess, err := loadSession(tx, sessionID)
		if err != nil {
			return err
		}
		if _, err := classService.LoadOwnedClass(tx, teacherID, sess.ClassAttendanceSessionClassID); err != nil {
			return err
		}

		wasActive := sess.ClassAttendanceSessionIsActive
		if wasActive {
			closedAt := s.now().UTC()
			if err := tx.Model(sess).Updates(map[string]any{
				"class_attendance_session_is_active": false,
				"class_attendance_session_closed_at": closedAt,
			}).Error; err != nil {
				return err
			}
			sess.ClassAttendanceSessionIsActive = false
			sess.ClassAttendanceSessionClosedAt = &closedAt
		}

		n, err := BackfillAbsencesTx(tx, sess.ClassAttendanceSessionClassID, sess.ClassAttendanceSessionDate)
		if err != nil {
			return err
		}
		out = CloseResult{Session: sess, AbsentsCreated: n}
		if wasActive {
			res = helper.Ok(fmt.Sprintf("Session closed. %d student(s) marked absent.", n))
		} else {
			res = helper.Ok(fmt.Sprintf("Session was already closed. %d student(s) marked absent.", n))
		}
		return nil
	})
	if err != nil {
		return nil, helper.Result{}, err
	}
	metrics.AttendanceSessionsClosed.Inc()
	metrics.AbsencesBackfilled.Add(float64(out.AbsentsCreated))
	configs.Log().Info("attendance session closed",
		zap.String("session_id", sessionID.String()),
		zap.Int64("absents", out.AbsentsCreated),
	)
	return &out, res, nil
}

// BackfillAbsencesTx: Absent untuk enrollment approved tanpa baris attendance di date
func BackfillAbsencesTx(tx *gorm.DB, classID uuid.UUID, date dbtime.Date) (int64, error) {
	var missing []uuid.UUID
	err := tx.Model(&enrollmentModel.ClassEnrollmentModel{}).
		Where("class_enrollment_class_id = ? AND class_enrollment_status = ?", classID, enrollmentModel.EnrollmentApproved).
		Where("NOT EXISTS (SELECT 1 FROM class_attendances a WHERE a.class_attendance_enrollment_id = class_enrollments.class_enrollment_id AND a.class_attendance_date = ?)", date).
		Pluck("class_enrollment_id", &missing).Error
	if err != nil {
		return 0, err
	}
	if len(missing) == 0 {
		return 0, nil
	}

	rows := make([]attendanceModel.ClassAttendanceModel, 0, len(missing))
	for _, id := range missing {
		rows = append(rows, attendanceModel.ClassAttendanceModel{
			ClassAttendanceEnrollmentID: id,
			ClassAttendanceDate:         date,
			ClassAttendanceStatus:       attendanceModel.AttendanceAbsent,
		})
	}
	q := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "class_attendance_enrollment_id"}, {Name: "class_attendance_date"}},
		DoNothing: true,
	}).Create(&rows)
	return q.RowsAffected, q.Error
}

// ActiveSessions: sesi aktif hari ini untuk kelas-kelas milik guru
func (s *AttendanceSessionService) ActiveSessions(ctx context.Context, teacherID uuid.UUID) ([]SessionView, error) {
	var out []SessionView
	err := s.DB.WithContext(ctx).
		Table("class_attendance_sessions AS s").
		Select("s.*, c.class_name").
		Joins("JOIN classes c ON c.class_id = s.class_attendance_session_class_id").
		Where("c.class_teacher_id = ? AND s.class_attendance_session_is_active = ? AND s.class_attendance_session_date = ?",
			teacherID, true, s.today()).
		Order("s.class_attendance_session_created_at DESC").
		Scan(&out).Error
	return out, err
}

// OwnedSession: sesi milik guru (untuk QR image)
func (s *AttendanceSessionService) OwnedSession(ctx context.Context, teacherID, sessionID uuid.UUID) (*attendanceModel.ClassAttendanceSessionModel, error) {
	db := s.DB.WithContext(ctx)
	sess, err := loadSession(db, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := classService.LoadOwnedClass(db, teacherID, sess.ClassAttendanceSessionClassID); err != nil {
		return nil, err
	}
	return sess, nil
}

// CheckInURL: link yang di-encode ke QR
func (s *AttendanceSessionService) CheckInURL(token string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/dashboard/student/qr/scan/" + token + "/"
}

// QRCodePNG: PNG berisi link check-in
func (s *AttendanceSessionService) QRCodePNG(sess *attendanceModel.ClassAttendanceSessionModel) ([]byte, error) {
	return qrcode.Encode(s.CheckInURL(sess.ClassAttendanceSessionToken), qrcode.Medium, qrSize)
}

/* =======================================================================
   Student: scan & check-in
======================================================================= */

// SessionView: sesi + nama kelas (tanpa passcode ke siswa)
type SessionView struct {
	attendanceModel.ClassAttendanceSessionModel
	ClassName string `gorm:"column:class_name" json:"class_name"`
}

// ScanInfo: info sesi untuk halaman input passcode
func (s *AttendanceSessionService) ScanInfo(ctx context.Context, token string) (*SessionView, helper.Result, error) {
	var v SessionView
	err := s.DB.WithContext(ctx).
		Table("class_attendance_sessions AS s").
		Select("s.*, c.class_name").
		Joins("JOIN classes c ON c.class_id = s.class_attendance_session_class_id").
		Where("s.class_attendance_session_token = ? AND s.class_attendance_session_is_active = ?", token, true).
		Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.Fail(MsgSessionInvalid), nil
	}
	if err != nil {
		return nil, helper.Result{}, err
	}
	if !v.ClassAttendanceSessionDate.Equal(s.today()) {
		return nil, helper.Fail(MsgSessionNotToday), nil
	}
	return &v, helper.Ok("Enter the passcode shown by your teacher."), nil
}

// CheckIn: validasi sesi aktif + tanggal hari ini + enrollment approved + passcode,
// lalu upsert Present (idempotent; juga menimpa Absent dari backfill yang balapan).
func (s *AttendanceSessionService) CheckIn(ctx context.Context, token, passcode string, studentID uuid.UUID) (*attendanceModel.ClassAttendanceModel, helper.Result, error) {
	var (
		out *attendanceModel.ClassAttendanceModel
		res helper.Result
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sess attendanceModel.ClassAttendanceSessionModel
		err := tx.Where("class_attendance_session_token = ? AND class_attendance_session_is_active = ?", token, true).
			Take(&sess).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			res = helper.Fail(MsgSessionInvalid)
			return nil
		}
		if err != nil {
			return err
		}
		if !sess.ClassAttendanceSessionDate.Equal(s.today()) {
			res = helper.Fail(MsgSessionNotToday)
			return nil
		}

		var e enrollmentModel.ClassEnrollmentModel
		err = tx.Where("class_enrollment_student_id = ? AND class_enrollment_class_id = ? AND class_enrollment_status = ?",
			studentID, sess.ClassAttendanceSessionClassID, enrollmentModel.EnrollmentApproved).
			Take(&e).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			res = helper.Fail(MsgNotEnrolled)
			return nil
		}
		if err != nil {
			return err
		}

		if !passcodeMatches(sess.ClassAttendanceSessionPasscode, passcode) {
			res = helper.Fail(MsgWrongPasscode)
			return nil
		}

		a, err := UpsertAttendanceTx(tx, e.ClassEnrollmentID, sess.ClassAttendanceSessionDate, attendanceModel.AttendancePresent)
		if err != nil {
			return err
		}
		out = a
		res = helper.Ok(MsgCheckedIn)
		return nil
	})
	if err != nil {
		return nil, helper.Result{}, err
	}
	metrics.CheckIns.WithLabelValues(checkInOutcome(res)).Inc()
	return out, res, nil
}

func checkInOutcome(res helper.Result) string {
	switch {
	case res.OK():
		return "present"
	case res.Message == MsgWrongPasscode:
		return "wrong_passcode"
	default:
		return "rejected"
	}
}

func passcodeMatches(expected, given string) bool {
	given = strings.TrimSpace(given)
	return len(given) == len(expected) &&
		subtle.ConstantTimeCompare([]byte(expected), []byte(given)) == 1
}

// UpsertAttendanceTx: satu baris per (enrollment, date); status terakhir menang
func UpsertAttendanceTx(tx *gorm.DB, enrollmentID uuid.UUID, date dbtime.Date, st attendanceModel.AttendanceStatus) (*attendanceModel.ClassAttendanceModel, error) {
	row := &attendanceModel.ClassAttendanceModel{
		ClassAttendanceEnrollmentID: enrollmentID,
		ClassAttendanceDate:         date,
		ClassAttendanceStatus:       st,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "class_attendance_enrollment_id"}, {Name: "class_attendance_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"class_attendance_status", "class_attendance_updated_at"}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}
	// id di row bisa id baru (bukan id yang tersimpan) saat konflik → baca ulang
	var saved attendanceModel.ClassAttendanceModel
	if err := tx.Where("class_attendance_enrollment_id = ? AND class_attendance_date = ?", enrollmentID, date).
		Take(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func loadSession(tx *gorm.DB, id uuid.UUID) (*attendanceModel.ClassAttendanceSessionModel, error) {
	var sess attendanceModel.ClassAttendanceSessionModel
	if err := tx.Where("class_attendance_session_id = ?", id).Take(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &sess, nil
}
