package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classroom_backend/internals/configs"
	"classroom_backend/internals/constants"
	paymentRoute "classroom_backend/internals/features/finance/payments/route"
	paymentService "classroom_backend/internals/features/finance/payments/service"
	attendanceRoute "classroom_backend/internals/features/school/classes/class_attendance_sessions/route"
	enrollmentRoute "classroom_backend/internals/features/school/classes/class_enrollments/route"
	materialRoute "classroom_backend/internals/features/school/classes/class_materials/route"
	classRoute "classroom_backend/internals/features/school/classes/classes/route"
	dashboardRoute "classroom_backend/internals/features/school/dashboards/route"
	announcementRoute "classroom_backend/internals/features/school/others/announcements/route"
	feedbackRoute "classroom_backend/internals/features/school/others/feedbacks/route"
	notificationRoute "classroom_backend/internals/features/school/others/notifications/route"
	peopleRoute "classroom_backend/internals/features/school/people/route"
	assignmentRoute "classroom_backend/internals/features/school/submissions_assesment/assignments/route"
	authRoute "classroom_backend/internals/features/users/auth/route"
	authService "classroom_backend/internals/features/users/auth/service"
	messageRoute "classroom_backend/internals/features/users/messages/route"
	"classroom_backend/internals/helpers/mailer"
	"classroom_backend/internals/helpers/oss"
	authMiddleware "classroom_backend/internals/middlewares/auth"
)

// Deps: service yang dibangun sekali di main dan dibagi ke semua route
type Deps struct {
	DB       *gorm.DB
	Auth     *authService.AuthService
	Payments *paymentService.PaymentService
	Mail     *mailer.Dispatcher
	Blob     oss.BlobService
}

func SetupRoutes(app *fiber.App, d Deps) {
	log := configs.Log()
	db := d.DB

	BaseRoutes(app, db)

	// ===================== AUTH / PUBLIC =====================
	log.Info("setting up auth routes")
	authRoute.AuthRoutes(app, db, d.Auth)

	api := app.Group("/api")
	public := api.Group("/public")
	classRoute.ClassPublicRoutes(public, db, d.Blob)
	paymentRoute.PaymentWebhookRoutes(api, db, d.Payments)

	// ===================== DASHBOARD GROUPS =====================
	authMW := authMiddleware.AuthMiddleware(d.Auth)

	// semua role yang sudah login (termasuk unassigned)
	account := app.Group("/dashboard/account", authMW)
	messages := app.Group("/dashboard/messages", authMW)

	admin := app.Group("/dashboard/admin", authMW, authMiddleware.RequireRole(constants.RoleAdmin))
	teacher := app.Group("/dashboard/teacher", authMW, authMiddleware.RequireRole(constants.RoleTeacher))
	student := app.Group("/dashboard/student", authMW, authMiddleware.RequireRole(constants.RoleStudent))

	// ===================== MOUNT =====================
	log.Info("mounting account & message routes")
	peopleRoute.PeopleUserRoutes(account, db)
	messageRoute.MessageRoutes(messages, db)

	log.Info("mounting admin routes")
	dashboardRoute.DashboardAdminRoutes(admin, db)
	peopleRoute.PeopleAdminRoutes(admin, db)
	classRoute.ClassAdminRoutes(admin, db, d.Blob)
	enrollmentRoute.ClassEnrollmentAdminRoutes(admin, db, d.Mail)
	feedbackRoute.FeedbackAdminRoutes(admin, db)
	paymentRoute.PaymentAdminRoutes(admin, db, d.Payments)

	log.Info("mounting teacher routes")
	dashboardRoute.DashboardTeacherRoutes(teacher, db)
	attendanceRoute.AttendanceTeacherRoutes(teacher, db)
	enrollmentRoute.ClassEnrollmentTeacherRoutes(teacher, db)
	materialRoute.ClassMaterialTeacherRoutes(teacher, db, d.Blob)
	announcementRoute.AnnouncementTeacherRoutes(teacher, db)
	assignmentRoute.AssignmentTeacherRoutes(teacher, db, d.Blob)
	feedbackRoute.FeedbackTeacherRoutes(teacher, db)

	log.Info("mounting student routes")
	dashboardRoute.DashboardStudentRoutes(student, db)
	attendanceRoute.AttendanceStudentRoutes(student, db)
	enrollmentRoute.ClassEnrollmentStudentRoutes(student, db)
	materialRoute.ClassMaterialStudentRoutes(student, db, d.Blob)
	announcementRoute.AnnouncementStudentRoutes(student, db)
	assignmentRoute.AssignmentStudentRoutes(student, db, d.Blob)
	feedbackRoute.FeedbackStudentRoutes(student, db)
	notificationRoute.NotificationStudentRoutes(student, db)
	paymentRoute.PaymentStudentRoutes(student, db, d.Payments)
}
