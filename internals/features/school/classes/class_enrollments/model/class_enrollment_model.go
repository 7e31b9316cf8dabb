package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"classroom_backend/internals/helpers/dbtime"
)

type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentApproved EnrollmentStatus = "approved"
	EnrollmentRejected EnrollmentStatus = "rejected"
)

// Bobot nilai akhir & ambang lulus
const (
	MiniTestWeight = 0.2
	MidtermWeight  = 0.3
	FinalWeight    = 0.5
	PassThreshold  = 4.0
)

// ClassEnrollmentModel: pasangan (student, class) unik
type ClassEnrollmentModel struct {
	ClassEnrollmentID        uuid.UUID        `gorm:"column:class_enrollment_id;type:uuid;primaryKey" json:"class_enrollment_id"`
	ClassEnrollmentStudentID uuid.UUID        `gorm:"column:class_enrollment_student_id;type:uuid;not null;uniqueIndex:uq_enrollment_student_class,priority:1" json:"class_enrollment_student_id"`
	ClassEnrollmentClassID   uuid.UUID        `gorm:"column:class_enrollment_class_id;type:uuid;not null;uniqueIndex:uq_enrollment_student_class,priority:2;index" json:"class_enrollment_class_id"`
	ClassEnrollmentStatus    EnrollmentStatus `gorm:"column:class_enrollment_status;size:10;not null" json:"class_enrollment_status"`
	ClassEnrollmentIsPaid    bool             `gorm:"column:class_enrollment_is_paid;not null" json:"class_enrollment_is_paid"`
	ClassEnrollmentDate      dbtime.Date      `gorm:"column:class_enrollment_date;not null" json:"class_enrollment_date"`

	ClassEnrollmentMinitest1 *float64 `gorm:"column:class_enrollment_minitest1" json:"class_enrollment_minitest1"`
	ClassEnrollmentMinitest2 *float64 `gorm:"column:class_enrollment_minitest2" json:"class_enrollment_minitest2"`
	ClassEnrollmentMinitest3 *float64 `gorm:"column:class_enrollment_minitest3" json:"class_enrollment_minitest3"`
	ClassEnrollmentMinitest4 *float64 `gorm:"column:class_enrollment_minitest4" json:"class_enrollment_minitest4"`
	ClassEnrollmentMidterm   *float64 `gorm:"column:class_enrollment_midterm" json:"class_enrollment_midterm"`
	ClassEnrollmentFinalTest *float64 `gorm:"column:class_enrollment_final_test" json:"class_enrollment_final_test"`

	ClassEnrollmentCreatedAt time.Time `gorm:"column:class_enrollment_created_at;autoCreateTime" json:"class_enrollment_created_at"`
	ClassEnrollmentUpdatedAt time.Time `gorm:"column:class_enrollment_updated_at;autoUpdateTime" json:"class_enrollment_updated_at"`
}

func (ClassEnrollmentModel) TableName() string { return "class_enrollments" }

func (m *ClassEnrollmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassEnrollmentID == uuid.Nil {
		m.ClassEnrollmentID = uuid.New()
	}
	return nil
}

func (m *ClassEnrollmentModel) IsApproved() bool {
	return m.ClassEnrollmentStatus == EnrollmentApproved
}

func val(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// MiniTestAverage: rata-rata 4 mini test, yang kosong dihitung 0
func (m *ClassEnrollmentModel) MiniTestAverage() float64 {
	sum := val(m.ClassEnrollmentMinitest1) + val(m.ClassEnrollmentMinitest2) +
		val(m.ClassEnrollmentMinitest3) + val(m.ClassEnrollmentMinitest4)
	return sum / 4
}

func (m *ClassEnrollmentModel) OverallScore() float64 {
	return MiniTestWeight*m.MiniTestAverage() +
		MidtermWeight*val(m.ClassEnrollmentMidterm) +
		FinalWeight*val(m.ClassEnrollmentFinalTest)
}

func (m *ClassEnrollmentModel) IsPassed() bool {
	return m.OverallScore() >= PassThreshold
}

// HasAnyScore: sudah ada minimal satu nilai yang diinput guru
func (m *ClassEnrollmentModel) HasAnyScore() bool {
	for _, p := range []*float64{
		m.ClassEnrollmentMinitest1, m.ClassEnrollmentMinitest2, m.ClassEnrollmentMinitest3,
		m.ClassEnrollmentMinitest4, m.ClassEnrollmentMidterm, m.ClassEnrollmentFinalTest,
	} {
		if p != nil {
			return true
		}
	}
	return false
}
