package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel = identitas login. Profil role (admin/teacher/student) ada di tabel
// masing-masing dan menunjuk ke user_id.
type UserModel struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserName    string     `gorm:"column:user_name;size:50;not null;uniqueIndex" json:"user_name"`
	Email       string     `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	Password    *string    `gorm:"column:password" json:"-"` // bcrypt; nil untuk akun google-only
	GoogleID    *string    `gorm:"column:google_id;size:255;uniqueIndex" json:"google_id,omitempty"`
	IsActive    bool       `gorm:"column:is_active;not null" json:"is_active"`
	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *UserModel) HasPassword() bool {
	return u.Password != nil && *u.Password != ""
}
