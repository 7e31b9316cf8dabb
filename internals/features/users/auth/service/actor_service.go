package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	peopleModel "classroom_backend/internals/features/school/people/model"
	userModel "classroom_backend/internals/features/users/user/model"
	"classroom_backend/internals/constants"
	helperAuth "classroom_backend/internals/helpers/auth"
)

// ResolveActor: role dari profil yang menunjuk user, urutan admin → teacher → student.
// Tanpa profil = unassigned.
func ResolveActor(ctx context.Context, db *gorm.DB, u *userModel.UserModel) (helperAuth.Actor, error) {
	a := helperAuth.Actor{
		UserID:   u.ID,
		UserName: u.UserName,
		Email:    u.Email,
		Role:     constants.RoleUnassigned,
	}
	tx := db.WithContext(ctx)

	var admin peopleModel.AdminModel
	if err := tx.Where("admin_user_id = ?", u.ID).Limit(1).Find(&admin).Error; err != nil {
		return a, err
	}
	if admin.AdminID != uuid.Nil {
		a.Role, a.ProfileID, a.FullName = constants.RoleAdmin, admin.AdminID, admin.FullName
		return a, nil
	}

	var teacher peopleModel.TeacherModel
	if err := tx.Where("teacher_user_id = ?", u.ID).Limit(1).Find(&teacher).Error; err != nil {
		return a, err
	}
	if teacher.TeacherID != uuid.Nil {
		a.Role, a.ProfileID, a.FullName = constants.RoleTeacher, teacher.TeacherID, teacher.FullName
		return a, nil
	}

	var student peopleModel.StudentModel
	if err := tx.Where("student_user_id = ?", u.ID).Limit(1).Find(&student).Error; err != nil {
		return a, err
	}
	if student.StudentID != uuid.Nil {
		a.Role, a.ProfileID, a.FullName = constants.RoleStudent, student.StudentID, student.FullName
	}
	return a, nil
}
