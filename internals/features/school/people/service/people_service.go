package service

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	classModel "classroom_backend/internals/features/school/classes/classes/model"
	classService "classroom_backend/internals/features/school/classes/classes/service"
	announcementModel "classroom_backend/internals/features/school/others/announcements/model"
	feedbackModel "classroom_backend/internals/features/school/others/feedbacks/model"
	notificationModel "classroom_backend/internals/features/school/others/notifications/model"
	"classroom_backend/internals/features/school/people/dto"
	peopleModel "classroom_backend/internals/features/school/people/model"
	assignmentModel "classroom_backend/internals/features/school/submissions_assesment/assignments/model"
	userModel "classroom_backend/internals/features/users/user/model"
	helper "classroom_backend/internals/helpers"
)

const (
	MsgEmailTaken      = "Email is already used by another profile."
	MsgUserHasProfile  = "This user already has a role profile."
	MsgUserNotFound    = "User not found."
	MsgProfileCreated  = "Profile created."
	MsgProfileUpdated  = "Profile updated."
	defaultPeopleOrder = "name"
)

var (
	ErrStudentNotFound = fiber.NewError(fiber.StatusNotFound, "student not found")
	ErrTeacherNotFound = fiber.NewError(fiber.StatusNotFound, "teacher not found")
	ErrAdminNotFound   = fiber.NewError(fiber.StatusNotFound, "admin not found")
)

type PeopleService struct {
	DB *gorm.DB
}

func NewPeopleService(db *gorm.DB) *PeopleService {
	return &PeopleService{DB: db}
}

/* =======================================================================
   List (generic per tabel role)
======================================================================= */

func sorts(prefix string) map[string]string {
	return map[string]string{
		"name":   prefix + "full_name ASC",
		"newest": prefix + "created_at DESC",
		"oldest": prefix + "created_at ASC",
	}
}

// listPeople: q cocok ke nama atau email (case-insensitive)
func listPeople[T any](ctx context.Context, db *gorm.DB, prefix string, q dto.ListPeopleQuery, p helper.Paging) ([]T, int64, error) {
	base := db.WithContext(ctx).Model(new(T))
	if kw := strings.TrimSpace(q.Q); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		base = base.Where("LOWER("+prefix+"full_name) LIKE ? OR LOWER("+prefix+"email) LIKE ?", like, like)
	}
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []T{}
	err := base.Order(helper.SafeOrder(q.Sort, sorts(prefix), defaultPeopleOrder)).
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error
	return rows, total, err
}

func (s *PeopleService) ListStudents(ctx context.Context, q dto.ListPeopleQuery, p helper.Paging) ([]peopleModel.StudentModel, int64, error) {
	return listPeople[peopleModel.StudentModel](ctx, s.DB, "student_", q, p)
}

func (s *PeopleService) ListTeachers(ctx context.Context, q dto.ListPeopleQuery, p helper.Paging) ([]peopleModel.TeacherModel, int64, error) {
	return listPeople[peopleModel.TeacherModel](ctx, s.DB, "teacher_", q, p)
}

func (s *PeopleService) ListAdmins(ctx context.Context, q dto.ListPeopleQuery, p helper.Paging) ([]peopleModel.AdminModel, int64, error) {
	return listPeople[peopleModel.AdminModel](ctx, s.DB, "admin_", q, p)
}

/* =======================================================================
   Get
======================================================================= */

func take[T any](tx *gorm.DB, col string, id uuid.UUID, notFound error) (*T, error) {
	var m T
	if err := tx.Where(col+" = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *PeopleService) GetStudent(ctx context.Context, id uuid.UUID) (*peopleModel.StudentModel, error) {
	return take[peopleModel.StudentModel](s.DB.WithContext(ctx), "student_id", id, ErrStudentNotFound)
}

func (s *PeopleService) GetTeacher(ctx context.Context, id uuid.UUID) (*peopleModel.TeacherModel, error) {
	return take[peopleModel.TeacherModel](s.DB.WithContext(ctx), "teacher_id", id, ErrTeacherNotFound)
}

func (s *PeopleService) GetAdmin(ctx context.Context, id uuid.UUID) (*peopleModel.AdminModel, error) {
	return take[peopleModel.AdminModel](s.DB.WithContext(ctx), "admin_id", id, ErrAdminNotFound)
}

/* =======================================================================
   Create
======================================================================= */

// HasAnyProfile: satu user maksimal satu profil di antara admin/teacher/student
func HasAnyProfile(tx *gorm.DB, userID uuid.UUID) (bool, error) {
	checks := []struct {
		model any
		col   string
	}{
		{&peopleModel.AdminModel{}, "admin_user_id"},
		{&peopleModel.TeacherModel{}, "teacher_user_id"},
		{&peopleModel.StudentModel{}, "student_user_id"},
	}
	for _, c := range checks {
		var n int64
		if err := tx.Model(c.model).Where(c.col+" = ?", userID).Count(&n).Error; err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

// checkUserLink: nil userID = profil tanpa akun login
func checkUserLink(tx *gorm.DB, userID *uuid.UUID) (helper.Result, error) {
	if userID == nil {
		return helper.Ok(""), nil
	}
	var n int64
	if err := tx.Model(&userModel.UserModel{}).Where("id = ?", *userID).Count(&n).Error; err != nil {
		return helper.Result{}, err
	}
	if n == 0 {
		return helper.Fail(MsgUserNotFound), nil
	}
	taken, err := HasAnyProfile(tx, *userID)
	if err != nil {
		return helper.Result{}, err
	}
	if taken {
		return helper.Fail(MsgUserHasProfile), nil
	}
	return helper.Ok(""), nil
}

// createProfile: cek link user lalu insert, semua dalam satu transaksi
func (s *PeopleService) createProfile(ctx context.Context, userID *uuid.UUID, m any) (helper.Result, error) {
	var res helper.Result
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := checkUserLink(tx, userID)
		if err != nil {
			return err
		}
		if !r.OK() {
			res = r
			return nil
		}
		if err := tx.Create(m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				res = helper.Fail(MsgEmailTaken)
				return nil
			}
			return err
		}
		res = helper.Ok(MsgProfileCreated)
		return nil
	})
	return res, err
}

func (s *PeopleService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*peopleModel.StudentModel, helper.Result, error) {
	p, err := req.ToFields()
	if err != nil {
		return nil, helper.Result{}, err
	}
	m := &peopleModel.StudentModel{StudentUserID: req.UserID, PersonFields: p}
	res, err := s.createProfile(ctx, req.UserID, m)
	return m, res, err
}

func (s *PeopleService) CreateTeacher(ctx context.Context, req dto.CreateTeacherRequest) (*peopleModel.TeacherModel, helper.Result, error) {
	p, err := req.ToFields()
	if err != nil {
		return nil, helper.Result{}, err
	}
	m := &peopleModel.TeacherModel{TeacherUserID: req.UserID, PersonFields: p, TeacherQualification: strings.TrimSpace(req.Qualification)}
	res, err := s.createProfile(ctx, req.UserID, m)
	return m, res, err
}

func (s *PeopleService) CreateAdmin(ctx context.Context, req dto.CreateAdminRequest) (*peopleModel.AdminModel, helper.Result, error) {
	p, err := req.ToFields()
	if err != nil {
		return nil, helper.Result{}, err
	}
	m := &peopleModel.AdminModel{AdminUserID: req.UserID, PersonFields: p, AdminPosition: strings.TrimSpace(req.Position)}
	res, err := s.createProfile(ctx, req.UserID, m)
	return m, res, err
}

/* =======================================================================
   Update (admin & self-service memakai jalur yang sama)
======================================================================= */

func (s *PeopleService) save(ctx context.Context, m any) (helper.Result, error) {
	if err := s.DB.WithContext(ctx).Save(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return helper.Fail(MsgEmailTaken), nil
		}
		return helper.Result{}, err
	}
	return helper.Ok(MsgProfileUpdated), nil
}

func (s *PeopleService) UpdateStudent(ctx context.Context, id uuid.UUID, req dto.PatchPersonRequest) (*peopleModel.StudentModel, helper.Result, error) {
	m, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, helper.Result{}, err
	}
	if err := req.Apply(&m.PersonFields); err != nil {
		return nil, helper.Result{}, err
	}
	res, err := s.save(ctx, m)
	return m, res, err
}

func (s *PeopleService) UpdateTeacher(ctx context.Context, id uuid.UUID, req dto.PatchPersonRequest) (*peopleModel.TeacherModel, helper.Result, error) {
	m, err := s.GetTeacher(ctx, id)
	if err != nil {
		return nil, helper.Result{}, err
	}
	if err := req.Apply(&m.PersonFields); err != nil {
		return nil, helper.Result{}, err
	}
	if req.Qualification != nil {
		m.TeacherQualification = strings.TrimSpace(*req.Qualification)
	}
	res, err := s.save(ctx, m)
	return m, res, err
}

func (s *PeopleService) UpdateAdmin(ctx context.Context, id uuid.UUID, req dto.PatchPersonRequest) (*peopleModel.AdminModel, helper.Result, error) {
	m, err := s.GetAdmin(ctx, id)
	if err != nil {
		return nil, helper.Result{}, err
	}
	if err := req.Apply(&m.PersonFields); err != nil {
		return nil, helper.Result{}, err
	}
	if req.Position != nil {
		m.AdminPosition = strings.TrimSpace(*req.Position)
	}
	res, err := s.save(ctx, m)
	return m, res, err
}

/* =======================================================================
   Delete
======================================================================= */

// DeleteStudent: enrollment (+attendance, payment), submission, status baca, feedback ikut terhapus
func (s *PeopleService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := take[peopleModel.StudentModel](tx, "student_id", id, ErrStudentNotFound)
		if err != nil {
			return err
		}
		var enrollmentIDs []uuid.UUID
		if err := tx.Model(&enrollmentModel.ClassEnrollmentModel{}).
			Where("class_enrollment_student_id = ?", id).
			Pluck("class_enrollment_id", &enrollmentIDs).Error; err != nil {
			return err
		}
		if err := classService.DeleteEnrollmentsTx(tx, enrollmentIDs); err != nil {
			return err
		}
		if err := tx.Where("submission_student_id = ?", id).
			Delete(&assignmentModel.AssignmentSubmissionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("read_status_student_id = ?", id).
			Delete(&notificationModel.ContentReadStatusModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("feedback_student_id = ?", id).
			Delete(&feedbackModel.FeedbackModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(m).Error
	})
}

// DeleteTeacher: kelas tetap ada, guru di-set NULL
func (s *PeopleService) DeleteTeacher(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := take[peopleModel.TeacherModel](tx, "teacher_id", id, ErrTeacherNotFound)
		if err != nil {
			return err
		}
		if err := tx.Model(&classModel.ClassModel{}).Where("class_teacher_id = ?", id).
			Update("class_teacher_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&announcementModel.AnnouncementModel{}).Where("announcement_teacher_id = ?", id).
			Update("announcement_teacher_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&feedbackModel.FeedbackModel{}).Where("feedback_teacher_id = ?", id).
			Update("feedback_teacher_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(m).Error
	})
}

// DeleteAdmin: kelas yang dipegang admin ini di-set NULL
func (s *PeopleService) DeleteAdmin(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := take[peopleModel.AdminModel](tx, "admin_id", id, ErrAdminNotFound)
		if err != nil {
			return err
		}
		if err := tx.Model(&classModel.ClassModel{}).Where("class_admin_id = ?", id).
			Update("class_admin_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(m).Error
	})
}
