package service

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	attendanceModel "classroom_backend/internals/features/school/classes/class_attendance_sessions/model"
	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	classService "classroom_backend/internals/features/school/classes/classes/service"
	"classroom_backend/internals/helpers/dbtime"
)

// MarkEntry: satu status manual dari guru
type MarkEntry struct {
	EnrollmentID uuid.UUID
	Status       attendanceModel.AttendanceStatus
}

// MarkAttendance: guru mengisi status banyak siswa sekaligus (upsert, satu transaksi).
// Enrollment harus milik kelas tsb dan berstatus approved.
func (s *AttendanceSessionService) MarkAttendance(ctx context.Context, teacherID, classID uuid.UUID, date dbtime.Date, entries []MarkEntry) ([]attendanceModel.ClassAttendanceModel, error) {
	out := make([]attendanceModel.ClassAttendanceModel, 0, len(entries))
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := classService.LoadOwnedClass(tx, teacherID, classID); err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(entries))
		for _, e := range entries {
			if !e.Status.Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "invalid attendance status: "+string(e.Status))
			}
			ids = append(ids, e.EnrollmentID)
		}
		var valid []uuid.UUID
		if err := tx.Model(&enrollmentModel.ClassEnrollmentModel{}).
			Where("class_enrollment_id IN ? AND class_enrollment_class_id = ? AND class_enrollment_status = ?",
				ids, classID, enrollmentModel.EnrollmentApproved).
			Pluck("class_enrollment_id", &valid).Error; err != nil {
			return err
		}
		ok := make(map[uuid.UUID]bool, len(valid))
		for _, id := range valid {
			ok[id] = true
		}

		for _, e := range entries {
			if !ok[e.EnrollmentID] {
				return fiber.NewError(fiber.StatusBadRequest, "enrollment "+e.EnrollmentID.String()+" is not an approved enrollment of this class")
			}
			row, err := UpsertAttendanceTx(tx, e.EnrollmentID, date, e.Status)
			if err != nil {
				return err
			}
			out = append(out, *row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RosterRow: siswa approved + status di tanggal tertentu (nil = belum diisi)
type RosterRow struct {
	EnrollmentID uuid.UUID                         `gorm:"column:class_enrollment_id" json:"class_enrollment_id"`
	StudentID    uuid.UUID                         `gorm:"column:student_id" json:"student_id"`
	StudentName  string                            `gorm:"column:student_full_name" json:"student_name"`
	Status       *attendanceModel.AttendanceStatus `gorm:"column:class_attendance_status" json:"status"`
}

// ClassAttendance: daftar hadir satu kelas di satu tanggal
func (s *AttendanceSessionService) ClassAttendance(ctx context.Context, teacherID, classID uuid.UUID, date dbtime.Date) ([]RosterRow, error) {
	db := s.DB.WithContext(ctx)
	if _, err := classService.LoadOwnedClass(db, teacherID, classID); err != nil {
		return nil, err
	}
	var rows []RosterRow
	err := db.Table("class_enrollments AS e").
		Select("e.class_enrollment_id, st.student_id, st.student_full_name, a.class_attendance_status").
		Joins("JOIN students st ON st.student_id = e.class_enrollment_student_id").
		Joins("LEFT JOIN class_attendances a ON a.class_attendance_enrollment_id = e.class_enrollment_id AND a.class_attendance_date = ?", date).
		Where("e.class_enrollment_class_id = ? AND e.class_enrollment_status = ?", classID, enrollmentModel.EnrollmentApproved).
		Order("st.student_full_name ASC").
		Scan(&rows).Error
	return rows, err
}

/* =======================================================================
   Rate kehadiran
======================================================================= */

// AttendanceRate: Present / (Present + Absent). Excused tidak dihitung.
// Tanpa data → 0.
func AttendanceRate(present, absent int64) float64 {
	total := present + absent
	if total == 0 {
		return 0
	}
	return float64(present) / float64(total)
}

// ClassRate: ringkasan kehadiran per kelas
type ClassRate struct {
	ClassID   uuid.UUID `gorm:"column:class_id" json:"class_id"`
	ClassName string    `gorm:"column:class_name" json:"class_name"`
	Present   int64     `gorm:"column:present" json:"present"`
	Absent    int64     `gorm:"column:absent" json:"absent"`
	Excused   int64     `gorm:"column:excused" json:"excused"`
	Rate      float64   `gorm:"-" json:"rate"`
}

const rateSelect = `c.class_id, c.class_name,
	COALESCE(SUM(CASE WHEN a.class_attendance_status = 'Present' THEN 1 ELSE 0 END), 0) AS present,
	COALESCE(SUM(CASE WHEN a.class_attendance_status = 'Absent' THEN 1 ELSE 0 END), 0) AS absent,
	COALESCE(SUM(CASE WHEN a.class_attendance_status = 'Excused' THEN 1 ELSE 0 END), 0) AS excused`

func fillRates(rows []ClassRate) {
	for i := range rows {
		rows[i].Rate = AttendanceRate(rows[i].Present, rows[i].Absent)
	}
}

// StudentRates: rate kehadiran siswa per kelas yang di-approve
func StudentRates(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]ClassRate, error) {
	var rows []ClassRate
	err := db.WithContext(ctx).Table("class_enrollments AS e").
		Select(rateSelect).
		Joins("JOIN classes c ON c.class_id = e.class_enrollment_class_id").
		Joins("LEFT JOIN class_attendances a ON a.class_attendance_enrollment_id = e.class_enrollment_id").
		Where("e.class_enrollment_student_id = ? AND e.class_enrollment_status = ?", studentID, enrollmentModel.EnrollmentApproved).
		Group("c.class_id, c.class_name").
		Order("c.class_name ASC").
		Scan(&rows).Error
	fillRates(rows)
	return rows, err
}

// TeacherClassRates: rate kehadiran semua siswa per kelas guru
func TeacherClassRates(ctx context.Context, db *gorm.DB, teacherID uuid.UUID) ([]ClassRate, error) {
	var rows []ClassRate
	err := db.WithContext(ctx).Table("classes AS c").
		Select(rateSelect).
		Joins("LEFT JOIN class_enrollments e ON e.class_enrollment_class_id = c.class_id AND e.class_enrollment_status = ?", enrollmentModel.EnrollmentApproved).
		Joins("LEFT JOIN class_attendances a ON a.class_attendance_enrollment_id = e.class_enrollment_id").
		Where("c.class_teacher_id = ?", teacherID).
		Group("c.class_id, c.class_name").
		Order("c.class_name ASC").
		Scan(&rows).Error
	fillRates(rows)
	return rows, err
}

// HistoryRow: riwayat absensi siswa
type HistoryRow struct {
	ClassID   uuid.UUID                        `gorm:"column:class_id" json:"class_id"`
	ClassName string                           `gorm:"column:class_name" json:"class_name"`
	Date      dbtime.Date                      `gorm:"column:class_attendance_date" json:"date"`
	Status    attendanceModel.AttendanceStatus `gorm:"column:class_attendance_status" json:"status"`
}

func (s *AttendanceSessionService) StudentHistory(ctx context.Context, studentID uuid.UUID) ([]HistoryRow, []ClassRate, error) {
	var rows []HistoryRow
	err := s.DB.WithContext(ctx).Table("class_attendances AS a").
		Select("c.class_id, c.class_name, a.class_attendance_date, a.class_attendance_status").
		Joins("JOIN class_enrollments e ON e.class_enrollment_id = a.class_attendance_enrollment_id").
		Joins("JOIN classes c ON c.class_id = e.class_enrollment_class_id").
		Where("e.class_enrollment_student_id = ?", studentID).
		Order("a.class_attendance_date DESC, c.class_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	rates, err := StudentRates(ctx, s.DB, studentID)
	if err != nil {
		return nil, nil, err
	}
	return rows, rates, nil
}
