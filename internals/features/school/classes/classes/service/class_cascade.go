package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	paymentModel "classroom_backend/internals/features/finance/payments/model"
	attendanceModel "classroom_backend/internals/features/school/classes/class_attendance_sessions/model"
	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	materialModel "classroom_backend/internals/features/school/classes/class_materials/model"
	classModel "classroom_backend/internals/features/school/classes/classes/model"
	announcementModel "classroom_backend/internals/features/school/others/announcements/model"
	feedbackModel "classroom_backend/internals/features/school/others/feedbacks/model"
	notificationModel "classroom_backend/internals/features/school/others/notifications/model"
	assignmentModel "classroom_backend/internals/features/school/submissions_assesment/assignments/model"
)

/*
Tidak ada FK ON DELETE CASCADE di skema (supaya sama di postgres & sqlite),
jadi semua turunan dihapus manual di sini, selalu di dalam transaksi pemanggil.
*/

// DeleteEnrollmentsTx: attendance → gateway events → payments → enrollment
func DeleteEnrollmentsTx(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("class_attendance_enrollment_id IN ?", ids).
		Delete(&attendanceModel.ClassAttendanceModel{}).Error; err != nil {
		return err
	}
	var paymentIDs []uuid.UUID
	if err := tx.Model(&paymentModel.PaymentModel{}).
		Where("payment_enrollment_id IN ?", ids).
		Pluck("payment_id", &paymentIDs).Error; err != nil {
		return err
	}
	if len(paymentIDs) > 0 {
		if err := tx.Where("gateway_event_payment_id IN ?", paymentIDs).
			Delete(&paymentModel.PaymentGatewayEventModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("payment_id IN ?", paymentIDs).
			Delete(&paymentModel.PaymentModel{}).Error; err != nil {
			return err
		}
	}
	return tx.Where("class_enrollment_id IN ?", ids).
		Delete(&enrollmentModel.ClassEnrollmentModel{}).Error
}

// DeleteReadStatusesTx: status baca untuk konten yang dihapus
func DeleteReadStatusesTx(tx *gorm.DB, contentType notificationModel.ContentType, contentIDs []uuid.UUID) error {
	if len(contentIDs) == 0 {
		return nil
	}
	return tx.Where("read_status_content_type = ? AND read_status_content_id IN ?", contentType, contentIDs).
		Delete(&notificationModel.ContentReadStatusModel{}).Error
}

// DeleteAssignmentsTx: submissions + read status ikut terhapus
func DeleteAssignmentsTx(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("submission_assignment_id IN ?", ids).
		Delete(&assignmentModel.AssignmentSubmissionModel{}).Error; err != nil {
		return err
	}
	if err := DeleteReadStatusesTx(tx, notificationModel.ContentAssignment, ids); err != nil {
		return err
	}
	return tx.Where("assignment_id IN ?", ids).Delete(&assignmentModel.AssignmentModel{}).Error
}

// DeleteAnnouncementsTx: read status ikut terhapus
func DeleteAnnouncementsTx(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := DeleteReadStatusesTx(tx, notificationModel.ContentAnnouncement, ids); err != nil {
		return err
	}
	return tx.Where("announcement_id IN ?", ids).Delete(&announcementModel.AnnouncementModel{}).Error
}

// DeleteClassTx: hapus kelas beserta seluruh turunannya.
// Mengembalikan URL file (materi, gambar kelas) yang perlu dibersihkan dari storage setelah commit.
func DeleteClassTx(tx *gorm.DB, classID uuid.UUID) ([]string, error) {
	var files []string

	var enrollmentIDs []uuid.UUID
	if err := tx.Model(&enrollmentModel.ClassEnrollmentModel{}).
		Where("class_enrollment_class_id = ?", classID).
		Pluck("class_enrollment_id", &enrollmentIDs).Error; err != nil {
		return nil, err
	}
	if err := DeleteEnrollmentsTx(tx, enrollmentIDs); err != nil {
		return nil, err
	}

	if err := tx.Where("class_attendance_session_class_id = ?", classID).
		Delete(&attendanceModel.ClassAttendanceSessionModel{}).Error; err != nil {
		return nil, err
	}

	var materialURLs []string
	if err := tx.Model(&materialModel.ClassMaterialModel{}).
		Where("class_material_class_id = ?", classID).
		Pluck("class_material_file_url", &materialURLs).Error; err != nil {
		return nil, err
	}
	files = append(files, materialURLs...)
	if err := tx.Where("class_material_class_id = ?", classID).
		Delete(&materialModel.ClassMaterialModel{}).Error; err != nil {
		return nil, err
	}

	var announcementIDs []uuid.UUID
	if err := tx.Model(&announcementModel.AnnouncementModel{}).
		Where("announcement_class_id = ?", classID).
		Pluck("announcement_id", &announcementIDs).Error; err != nil {
		return nil, err
	}
	if err := DeleteAnnouncementsTx(tx, announcementIDs); err != nil {
		return nil, err
	}

	var assignmentIDs []uuid.UUID
	if err := tx.Model(&assignmentModel.AssignmentModel{}).
		Where("assignment_class_id = ?", classID).
		Pluck("assignment_id", &assignmentIDs).Error; err != nil {
		return nil, err
	}
	if len(assignmentIDs) > 0 {
		var subURLs []string
		if err := tx.Model(&assignmentModel.AssignmentSubmissionModel{}).
			Where("submission_assignment_id IN ?", assignmentIDs).
			Pluck("submission_file_url", &subURLs).Error; err != nil {
			return nil, err
		}
		files = append(files, subURLs...)
	}
	if err := DeleteAssignmentsTx(tx, assignmentIDs); err != nil {
		return nil, err
	}

	if err := tx.Where("feedback_class_id = ?", classID).
		Delete(&feedbackModel.FeedbackModel{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("class_schedule_class_id = ?", classID).
		Delete(&classModel.ClassScheduleModel{}).Error; err != nil {
		return nil, err
	}

	var c classModel.ClassModel
	if err := tx.Where("class_id = ?", classID).Take(&c).Error; err != nil {
		return nil, err
	}
	if c.ClassImageURL != nil && *c.ClassImageURL != "" {
		files = append(files, *c.ClassImageURL)
	}
	if err := tx.Delete(&c).Error; err != nil {
		return nil, err
	}
	return files, nil
}
