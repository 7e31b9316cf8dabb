package model

import (
	"classroom_backend/internals/helpers/dbtime"
)

// PersonFields = identitas yang sama untuk admin/teacher/student.
// Di-embed dengan embeddedPrefix sehingga kolom jadi <role>_full_name, dst.
type PersonFields struct {
	FullName    string      `gorm:"column:full_name;size:100;not null" json:"full_name"`
	DOB         dbtime.Date `gorm:"column:dob;not null" json:"dob"`
	PhoneNumber string      `gorm:"column:phone_number;size:15;not null" json:"phone_number"`
	Email       string      `gorm:"column:email;size:254;not null;uniqueIndex" json:"email"`
	Address     string      `gorm:"column:address;size:255;not null" json:"address"`
}
