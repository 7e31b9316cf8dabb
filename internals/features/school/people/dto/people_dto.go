package dto

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	peopleModel "classroom_backend/internals/features/school/people/model"
	"classroom_backend/internals/helpers/dbtime"
)

/* ===================== REQUEST ===================== */

// PersonRequest: field identitas yang sama untuk semua role
type PersonRequest struct {
	FullName    string `json:"full_name"    validate:"required,max=100"`
	DOB         string `json:"dob"          validate:"required,datetime=2006-01-02"`
	PhoneNumber string `json:"phone_number" validate:"required,max=15"`
	Email       string `json:"email"        validate:"required,email,max=254"`
	Address     string `json:"address"      validate:"required,max=255"`
}

func (r *PersonRequest) ToFields() (peopleModel.PersonFields, error) {
	dob, err := dbtime.ParseDate(r.DOB)
	if err != nil {
		return peopleModel.PersonFields{}, fiber.NewError(fiber.StatusBadRequest, "dob must be YYYY-MM-DD")
	}
	return peopleModel.PersonFields{
		FullName:    strings.TrimSpace(r.FullName),
		DOB:         dob,
		PhoneNumber: strings.TrimSpace(r.PhoneNumber),
		Email:       strings.ToLower(strings.TrimSpace(r.Email)),
		Address:     strings.TrimSpace(r.Address),
	}, nil
}

type CreateStudentRequest struct {
	PersonRequest
	UserID *uuid.UUID `json:"user_id"`
}

type CreateTeacherRequest struct {
	PersonRequest
	UserID        *uuid.UUID `json:"user_id"`
	Qualification string     `json:"qualification" validate:"omitempty,max=255"`
}

type CreateAdminRequest struct {
	PersonRequest
	UserID   *uuid.UUID `json:"user_id"`
	Position string     `json:"position" validate:"omitempty,max=100"`
}

// PatchPersonRequest: nil = tidak diubah
type PatchPersonRequest struct {
	FullName      *string `json:"full_name"     validate:"omitempty,min=1,max=100"`
	DOB           *string `json:"dob"           validate:"omitempty,datetime=2006-01-02"`
	PhoneNumber   *string `json:"phone_number"  validate:"omitempty,min=1,max=15"`
	Email         *string `json:"email"         validate:"omitempty,email,max=254"`
	Address       *string `json:"address"       validate:"omitempty,min=1,max=255"`
	Qualification *string `json:"qualification" validate:"omitempty,max=255"` // teacher saja
	Position      *string `json:"position"      validate:"omitempty,max=100"` // admin saja
}

func (r *PatchPersonRequest) Apply(p *peopleModel.PersonFields) error {
	if r.FullName != nil {
		p.FullName = strings.TrimSpace(*r.FullName)
	}
	if r.DOB != nil {
		d, err := dbtime.ParseDate(*r.DOB)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "dob must be YYYY-MM-DD")
		}
		p.DOB = d
	}
	if r.PhoneNumber != nil {
		p.PhoneNumber = strings.TrimSpace(*r.PhoneNumber)
	}
	if r.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.Address != nil {
		p.Address = strings.TrimSpace(*r.Address)
	}
	return nil
}

type ListPeopleQuery struct {
	Q    string `query:"q"    validate:"omitempty,max=100"`
	Sort string `query:"sort" validate:"omitempty,oneof=name newest oldest"`
}

/* ===================== RESPONSE ===================== */

type PersonResponse struct {
	ID            uuid.UUID   `json:"id"`
	Role          string      `json:"role"`
	UserID        *uuid.UUID  `json:"user_id,omitempty"`
	FullName      string      `json:"full_name"`
	DOB           dbtime.Date `json:"dob"`
	PhoneNumber   string      `json:"phone_number"`
	Email         string      `json:"email"`
	Address       string      `json:"address"`
	Qualification string      `json:"qualification,omitempty"`
	Position      string      `json:"position,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func fromPerson(id uuid.UUID, role string, userID *uuid.UUID, p peopleModel.PersonFields, created, updated time.Time) PersonResponse {
	return PersonResponse{
		ID:          id,
		Role:        role,
		UserID:      userID,
		FullName:    p.FullName,
		DOB:         p.DOB,
		PhoneNumber: p.PhoneNumber,
		Email:       p.Email,
		Address:     p.Address,
		CreatedAt:   dbtime.ToSchoolTime(created),
		UpdatedAt:   dbtime.ToSchoolTime(updated),
	}
}

func FromStudent(m *peopleModel.StudentModel) PersonResponse {
	return fromPerson(m.StudentID, "student", m.StudentUserID, m.PersonFields, m.StudentCreatedAt, m.StudentUpdatedAt)
}

func FromTeacher(m *peopleModel.TeacherModel) PersonResponse {
	out := fromPerson(m.TeacherID, "teacher", m.TeacherUserID, m.PersonFields, m.TeacherCreatedAt, m.TeacherUpdatedAt)
	out.Qualification = m.TeacherQualification
	return out
}

func FromAdmin(m *peopleModel.AdminModel) PersonResponse {
	out := fromPerson(m.AdminID, "admin", m.AdminUserID, m.PersonFields, m.AdminCreatedAt, m.AdminUpdatedAt)
	out.Position = m.AdminPosition
	return out
}

func FromStudents(rows []peopleModel.StudentModel) []PersonResponse {
	out := make([]PersonResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromStudent(&rows[i]))
	}
	return out
}

func FromTeachers(rows []peopleModel.TeacherModel) []PersonResponse {
	out := make([]PersonResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromTeacher(&rows[i]))
	}
	return out
}

func FromAdmins(rows []peopleModel.AdminModel) []PersonResponse {
	out := make([]PersonResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromAdmin(&rows[i]))
	}
	return out
}
