package database

import (
	"fmt"

	"gorm.io/gorm"

	paymentModel "classroom_backend/internals/features/finance/payments/model"
	attendanceModel "classroom_backend/internals/features/school/classes/class_attendance_sessions/model"
	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	materialModel "classroom_backend/internals/features/school/classes/class_materials/model"
	classModel "classroom_backend/internals/features/school/classes/classes/model"
	announcementModel "classroom_backend/internals/features/school/others/announcements/model"
	feedbackModel "classroom_backend/internals/features/school/others/feedbacks/model"
	notificationModel "classroom_backend/internals/features/school/others/notifications/model"
	peopleModel "classroom_backend/internals/features/school/people/model"
	assignmentModel "classroom_backend/internals/features/school/submissions_assesment/assignments/model"
	authModel "classroom_backend/internals/features/users/auth/model"
	messageModel "classroom_backend/internals/features/users/messages/model"
	userModel "classroom_backend/internals/features/users/user/model"
)

// Models: urutan leaf dulu (users → profil → katalog → enrollment → turunannya)
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&authModel.RefreshToken{},
		&authModel.TokenBlacklist{},

		&peopleModel.AdminModel{},
		&peopleModel.TeacherModel{},
		&peopleModel.StudentModel{},

		&classModel.ClassTypeModel{},
		&classModel.ClassModel{},
		&classModel.ClassScheduleModel{},

		&enrollmentModel.ClassEnrollmentModel{},
		&attendanceModel.ClassAttendanceModel{},
		&attendanceModel.ClassAttendanceSessionModel{},

		&materialModel.ClassMaterialModel{},
		&announcementModel.AnnouncementModel{},
		&assignmentModel.AssignmentModel{},
		&assignmentModel.AssignmentSubmissionModel{},
		&notificationModel.ContentReadStatusModel{},
		&feedbackModel.FeedbackModel{},
		&messageModel.MessageModel{},

		&paymentModel.PaymentModel{},
		&paymentModel.PaymentGatewayEventModel{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
