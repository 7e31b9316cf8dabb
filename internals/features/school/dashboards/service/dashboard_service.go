package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	paymentModel "classroom_backend/internals/features/finance/payments/model"
	attendanceService "classroom_backend/internals/features/school/classes/class_attendance_sessions/service"
	enrollmentDto "classroom_backend/internals/features/school/classes/class_enrollments/dto"
	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	enrollmentService "classroom_backend/internals/features/school/classes/class_enrollments/service"
	classModel "classroom_backend/internals/features/school/classes/classes/model"
	classService "classroom_backend/internals/features/school/classes/classes/service"
	"classroom_backend/internals/features/school/dashboards/dto"
	feedbackService "classroom_backend/internals/features/school/others/feedbacks/service"
	notificationService "classroom_backend/internals/features/school/others/notifications/service"
	peopleModel "classroom_backend/internals/features/school/people/model"
	messageService "classroom_backend/internals/features/users/messages/service"
	"classroom_backend/internals/helpers/dbtime"
)

const upcomingLimit = 10

// DashboardService: agregasi per request, query independen jalan paralel (errgroup)
type DashboardService struct {
	DB    *gorm.DB
	Clock dbtime.Clock
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db, Clock: dbtime.SystemClock}
}

func (s *DashboardService) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

func count(db *gorm.DB, model any, out *int64, where ...any) func() error {
	return func() error {
		q := db.Model(model)
		if len(where) > 0 {
			q = q.Where(where[0], where[1:]...)
		}
		return q.Count(out).Error
	}
}

/* =======================================================================
   Admin
======================================================================= */

func (s *DashboardService) Admin(ctx context.Context, userID uuid.UUID, q dto.AdminDashboardQuery) (*dto.AdminDashboard, error) {
	out := &dto.AdminDashboard{Query: q.Q, Classes: []dto.ClassEnrollmentCount{}}
	g, gctx := errgroup.WithContext(ctx)
	db := s.DB.WithContext(gctx)

	g.Go(count(db, &classModel.ClassModel{}, &out.TotalClasses))
	g.Go(count(db, &peopleModel.StudentModel{}, &out.TotalStudents))
	g.Go(count(db, &peopleModel.TeacherModel{}, &out.TotalTeachers))
	g.Go(count(db, &enrollmentModel.ClassEnrollmentModel{}, &out.PendingEnrollments,
		"class_enrollment_status = ?", enrollmentModel.EnrollmentPending))
	g.Go(count(db, &enrollmentModel.ClassEnrollmentModel{}, &out.UnpaidApproved,
		"class_enrollment_status = ? AND class_enrollment_is_paid = ?", enrollmentModel.EnrollmentApproved, false))

	g.Go(func() error {
		// pendapatan = harga kelas untuk enrollment yang sudah lunas
		return db.Table("class_enrollments AS e").
			Select("COALESCE(SUM(c.class_price), 0)").
			Joins("JOIN classes c ON c.class_id = e.class_enrollment_class_id").
			Where("e.class_enrollment_is_paid = ?", true).
			Scan(&out.Revenue).Error
	})
	g.Go(func() error {
		return db.Model(&paymentModel.PaymentModel{}).
			Select("COALESCE(SUM(payment_amount), 0)").
			Where("payment_status = ?", paymentModel.PaymentStatusPaid).
			Scan(&out.GatewayCollected).Error
	})
	g.Go(func() error {
		qx := db.Table("classes AS c").
			Select(`c.class_id, c.class_name, c.class_price, t.teacher_full_name,
				COALESCE(SUM(CASE WHEN e.class_enrollment_status = ? THEN 1 ELSE 0 END), 0) AS enrolled,
				COALESCE(SUM(CASE WHEN e.class_enrollment_status = ? THEN 1 ELSE 0 END), 0) AS pending`,
				enrollmentModel.EnrollmentApproved, enrollmentModel.EnrollmentPending).
			Joins("LEFT JOIN teachers t ON t.teacher_id = c.class_teacher_id").
			Joins("LEFT JOIN class_enrollments e ON e.class_enrollment_class_id = c.class_id")
		if q.Q != "" {
			like := "%" + strings.ToLower(q.Q) + "%"
			qx = qx.Where("(LOWER(c.class_name) LIKE ? OR LOWER(t.teacher_full_name) LIKE ?)", like, like)
		}
		return qx.Group("c.class_id, c.class_name, c.class_price, t.teacher_full_name").
			Order("c.class_name ASC").
			Scan(&out.Classes).Error
	})
	g.Go(func() error {
		n, err := messageService.UnreadCount(db, userID)
		out.UnreadMessages = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

/* =======================================================================
   Teacher
======================================================================= */

type approvedCount struct {
	ClassID  uuid.UUID `gorm:"column:class_id"`
	Approved int64     `gorm:"column:approved"`
}

func (s *DashboardService) Teacher(ctx context.Context, userID, teacherID uuid.UUID) (*dto.TeacherDashboard, error) {
	out := &dto.TeacherDashboard{Classes: []dto.TeacherClassSummary{}}
	today := dbtime.TodayIn(s.now(), dbtime.SchoolLocation())

	var (
		rates    []attendanceService.ClassRate
		approved []approvedCount
		graded   []enrollmentModel.ClassEnrollmentModel
	)
	g, gctx := errgroup.WithContext(ctx)
	db := s.DB.WithContext(gctx)

	g.Go(func() error {
		var err error
		rates, err = attendanceService.TeacherClassRates(gctx, s.DB, teacherID)
		return err
	})
	g.Go(func() error {
		return db.Table("class_enrollments AS e").
			Select("e.class_enrollment_class_id AS class_id, COUNT(*) AS approved").
			Joins("JOIN classes c ON c.class_id = e.class_enrollment_class_id").
			Where("c.class_teacher_id = ? AND e.class_enrollment_status = ?", teacherID, enrollmentModel.EnrollmentApproved).
			Group("e.class_enrollment_class_id").
			Scan(&approved).Error
	})
	g.Go(func() error {
		return db.Table("class_enrollments AS e").
			Joins("JOIN classes c ON c.class_id = e.class_enrollment_class_id").
			Where("c.class_teacher_id = ? AND e.class_enrollment_status = ?", teacherID, enrollmentModel.EnrollmentApproved).
			Distinct("e.class_enrollment_student_id").
			Count(&out.DistinctStudents).Error
	})
	g.Go(func() error {
		return db.Table("class_enrollments AS e").
			Select("e.*").
			Joins("JOIN classes c ON c.class_id = e.class_enrollment_class_id").
			Where("c.class_teacher_id = ? AND e.class_enrollment_status = ?", teacherID, enrollmentModel.EnrollmentApproved).
			Scan(&graded).Error
	})
	g.Go(func() error {
		return db.Table("class_attendance_sessions AS s").
			Joins("JOIN classes c ON c.class_id = s.class_attendance_session_class_id").
			Where("c.class_teacher_id = ? AND s.class_attendance_session_is_active = ? AND s.class_attendance_session_date = ?",
				teacherID, true, today).
			Count(&out.OpenSessionsToday).Error
	})
	g.Go(func() error {
		var err error
		out.Rating, err = feedbackService.TeacherRating(db, teacherID)
		return err
	})
	g.Go(func() error {
		n, err := messageService.UnreadCount(db, userID)
		out.UnreadMessages = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	byClass := make(map[uuid.UUID]int64, len(approved))
	for _, a := range approved {
		byClass[a.ClassID] = a.Approved
	}
	for _, r := range rates {
		out.Classes = append(out.Classes, dto.TeacherClassSummary{
			ClassID:        r.ClassID,
			ClassName:      r.ClassName,
			Approved:       byClass[r.ClassID],
			Present:        r.Present,
			Absent:         r.Absent,
			Excused:        r.Excused,
			AttendanceRate: r.Rate,
		})
	}
	out.GradedEnrollments, out.AverageOverall = averageOverall(graded)
	return out, nil
}

// averageOverall: hanya enrollment yang sudah punya nilai; nil kalau belum ada
func averageOverall(rows []enrollmentModel.ClassEnrollmentModel) (int64, *float64) {
	var (
		n   int64
		sum float64
	)
	for i := range rows {
		if !rows[i].HasAnyScore() {
			continue
		}
		n++
		sum += rows[i].OverallScore()
	}
	if n == 0 {
		return 0, nil
	}
	avg := sum / float64(n)
	return n, &avg
}

/* =======================================================================
   Student
======================================================================= */

func (s *DashboardService) Student(ctx context.Context, userID, studentID uuid.UUID) (*dto.StudentDashboard, error) {
	out := &dto.StudentDashboard{
		Enrollments:         []enrollmentDto.EnrollmentResponse{},
		AttendanceRates:     []attendanceService.ClassRate{},
		UpcomingAssignments: []dto.UpcomingAssignment{},
	}
	now := s.now()

	g, gctx := errgroup.WithContext(ctx)
	db := s.DB.WithContext(gctx)

	g.Go(func() error {
		rows, err := enrollmentService.NewEnrollmentService(s.DB, nil).ListForStudent(gctx, studentID)
		if err != nil {
			return err
		}
		out.Enrollments = enrollmentDto.NewEnrollmentRowResponses(rows)
		return nil
	})
	g.Go(func() error {
		rates, err := attendanceService.StudentRates(gctx, s.DB, studentID)
		if err != nil {
			return err
		}
		if rates != nil {
			out.AttendanceRates = rates
		}
		return nil
	})
	g.Go(func() error {
		n, err := notificationService.UnreadCount(db, studentID)
		out.UnreadNotifications = n
		return err
	})
	g.Go(func() error {
		n, err := messageService.UnreadCount(db, userID)
		out.UnreadMessages = n
		return err
	})
	g.Go(func() error {
		rows, err := upcomingAssignments(db, studentID, now)
		if err != nil {
			return err
		}
		out.UpcomingAssignments = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// upcomingAssignments: belum lewat due date & belum dikumpulkan, kelas approved saja
func upcomingAssignments(db *gorm.DB, studentID uuid.UUID, now time.Time) ([]dto.UpcomingAssignment, error) {
	classIDs, err := classService.StudentClassIDs(db, studentID)
	if err != nil {
		return nil, err
	}
	rows := []dto.UpcomingAssignment{}
	if len(classIDs) == 0 {
		return rows, nil
	}
	err = db.Table("assignments AS a").
		Select("a.assignment_id, c.class_id, c.class_name, a.assignment_title, a.assignment_due_date").
		Joins("JOIN classes c ON c.class_id = a.assignment_class_id").
		Where("a.assignment_class_id IN ?", classIDs).
		Where("a.assignment_due_date >= ?", now.UTC()).
		Where(`NOT EXISTS (SELECT 1 FROM assignment_submissions sub
			WHERE sub.submission_assignment_id = a.assignment_id AND sub.submission_student_id = ?)`, studentID).
		Order("a.assignment_due_date ASC").
		Limit(upcomingLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].DueDate = dbtime.ToSchoolTime(rows[i].DueDate)
	}
	return rows, nil
}
