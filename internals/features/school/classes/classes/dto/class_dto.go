package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	classModel "classroom_backend/internals/features/school/classes/classes/model"
	"classroom_backend/internals/helpers/dbtime"
)

/*
=========================================================
PATCH FIELD: tri-state (absent | null | value)
=========================================================
*/
type PatchField[T any] struct {
	Present bool
	Value   *T
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

func (p PatchField[T]) Get() (*T, bool) { return p.Value, p.Present }

/* ===================== CLASS TYPE ===================== */

type ClassTypeRequest struct {
	ClassTypeCode        string `json:"class_type_code"        validate:"required,max=10"`
	ClassTypeDescription string `json:"class_type_description" validate:"omitempty,max=2000"`
}

func (r *ClassTypeRequest) Normalize() {
	r.ClassTypeCode = strings.ToUpper(strings.TrimSpace(r.ClassTypeCode))
	r.ClassTypeDescription = strings.TrimSpace(r.ClassTypeDescription)
}

/* ===================== CLASS ===================== */

type CreateClassRequest struct {
	ClassName      string     `json:"class_name"       form:"class_name"       validate:"required,max=100"`
	ClassTypeID    uuid.UUID  `json:"class_type_id"    form:"class_type_id"    validate:"required"`
	ClassTeacherID *uuid.UUID `json:"class_teacher_id" form:"class_teacher_id" validate:"omitempty"`
	ClassAdminID   *uuid.UUID `json:"class_admin_id"   form:"class_admin_id"   validate:"omitempty"`
	ClassStartDate string     `json:"class_start_date" form:"class_start_date" validate:"required,datetime=2006-01-02"`
	ClassEndDate   string     `json:"class_end_date"   form:"class_end_date"   validate:"required,datetime=2006-01-02"`
	ClassPrice     float64    `json:"class_price"      form:"class_price"      validate:"gte=0"`
	ClassRoom      string     `json:"class_room"       form:"class_room"       validate:"omitempty,max=50"`
}

func (r *CreateClassRequest) Normalize() {
	r.ClassName = strings.TrimSpace(r.ClassName)
	r.ClassRoom = strings.TrimSpace(r.ClassRoom)
}

// ToModel: tanggal sudah lolos validator, tinggal cek urutan
func (r *CreateClassRequest) ToModel() (*classModel.ClassModel, error) {
	start, err := dbtime.ParseDate(r.ClassStartDate)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "class_start_date must be YYYY-MM-DD")
	}
	end, err := dbtime.ParseDate(r.ClassEndDate)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "class_end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, ErrEndBeforeStart
	}
	return &classModel.ClassModel{
		ClassName:      r.ClassName,
		ClassTypeID:    r.ClassTypeID,
		TeacherID:      r.ClassTeacherID,
		AdminID:        r.ClassAdminID,
		ClassStartDate: start,
		ClassEndDate:   end,
		ClassPrice:     r.ClassPrice,
		ClassRoom:      r.ClassRoom,
	}, nil
}

var ErrEndBeforeStart = fiber.NewError(fiber.StatusBadRequest, "class_end_date must not be before class_start_date")

// PatchClassRequest: field yang tidak dikirim tidak diubah; teacher/admin bisa di-null-kan
type PatchClassRequest struct {
	ClassName      *string               `json:"class_name"       validate:"omitempty,min=1,max=100"`
	ClassTypeID    *uuid.UUID            `json:"class_type_id"`
	ClassTeacherID PatchField[uuid.UUID] `json:"class_teacher_id"`
	ClassAdminID   PatchField[uuid.UUID] `json:"class_admin_id"`
	ClassStartDate *string               `json:"class_start_date" validate:"omitempty,datetime=2006-01-02"`
	ClassEndDate   *string               `json:"class_end_date"   validate:"omitempty,datetime=2006-01-02"`
	ClassPrice     *float64              `json:"class_price"      validate:"omitempty,gte=0"`
	ClassRoom      *string               `json:"class_room"       validate:"omitempty,max=50"`
}

// Apply ke model yang sudah di-load; urutan tanggal dicek setelah merge
func (r *PatchClassRequest) Apply(m *classModel.ClassModel) error {
	if r.ClassName != nil {
		m.ClassName = strings.TrimSpace(*r.ClassName)
	}
	if r.ClassTypeID != nil {
		m.ClassTypeID = *r.ClassTypeID
	}
	if v, ok := r.ClassTeacherID.Get(); ok {
		m.TeacherID = v
	}
	if v, ok := r.ClassAdminID.Get(); ok {
		m.AdminID = v
	}
	if r.ClassStartDate != nil {
		d, err := dbtime.ParseDate(*r.ClassStartDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "class_start_date must be YYYY-MM-DD")
		}
		m.ClassStartDate = d
	}
	if r.ClassEndDate != nil {
		d, err := dbtime.ParseDate(*r.ClassEndDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "class_end_date must be YYYY-MM-DD")
		}
		m.ClassEndDate = d
	}
	if r.ClassPrice != nil {
		m.ClassPrice = *r.ClassPrice
	}
	if r.ClassRoom != nil {
		m.ClassRoom = strings.TrimSpace(*r.ClassRoom)
	}
	if m.ClassEndDate.Before(m.ClassStartDate) {
		return ErrEndBeforeStart
	}
	return nil
}

/* ===================== SCHEDULE ===================== */

type ScheduleRequest struct {
	Days      []string `json:"days"       validate:"required,min=1,max=7,unique,dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime string   `json:"start_time" validate:"required"`
	EndTime   string   `json:"end_time"   validate:"required"`
}

func (r *ScheduleRequest) ToModel(classID uuid.UUID) (*classModel.ClassScheduleModel, error) {
	start, err := dbtime.ParseTod(r.StartTime)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "start_time must be HH:MM")
	}
	end, err := dbtime.ParseTod(r.EndTime)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "end_time must be HH:MM")
	}
	if end.Minutes() <= start.Minutes() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "end_time must be after start_time")
	}
	m := &classModel.ClassScheduleModel{
		ClassScheduleClassID:   classID,
		ClassScheduleStartTime: start,
		ClassScheduleEndTime:   end,
	}
	m.SetDays(weekOrder(r.Days))
	return m, nil
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// weekOrder: urutkan Senin→Minggu supaya descriptor stabil
func weekOrder(days []string) []string {
	set := make(map[string]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	out := make([]string, 0, len(days))
	for _, d := range weekdays {
		if set[d] {
			out = append(out, d)
		}
	}
	return out
}

/* ===================== QUERY ===================== */

type ListClassQuery struct {
	Q           string     `query:"q"             validate:"omitempty,max=100"`
	ClassTypeID *uuid.UUID `query:"class_type_id"`
	TeacherID   *uuid.UUID `query:"teacher_id"`
	Sort        string     `query:"sort"          validate:"omitempty,oneof=newest oldest name start_date price"`
}

/* ===================== RESPONSE ===================== */

type ScheduleResponse struct {
	Days       []string   `json:"days"`
	StartTime  dbtime.Tod `json:"start_time"`
	EndTime    dbtime.Tod `json:"end_time"`
	Descriptor string     `json:"descriptor"`
}

func NewScheduleResponse(m *classModel.ClassScheduleModel) *ScheduleResponse {
	if m == nil {
		return nil
	}
	return &ScheduleResponse{
		Days:       m.Days(),
		StartTime:  m.ClassScheduleStartTime,
		EndTime:    m.ClassScheduleEndTime,
		Descriptor: m.Descriptor(),
	}
}

type ClassResponse struct {
	ClassID         uuid.UUID         `json:"class_id"`
	ClassName       string            `json:"class_name"`
	ClassTypeID     uuid.UUID         `json:"class_type_id"`
	ClassTypeCode   string            `json:"class_type_code,omitempty"`
	ClassTeacherID  *uuid.UUID        `json:"class_teacher_id,omitempty"`
	TeacherFullName string            `json:"teacher_full_name,omitempty"`
	ClassAdminID    *uuid.UUID        `json:"class_admin_id,omitempty"`
	ClassStartDate  dbtime.Date       `json:"class_start_date"`
	ClassEndDate    dbtime.Date       `json:"class_end_date"`
	ClassPrice      float64           `json:"class_price"`
	ClassRoom       string            `json:"class_room"`
	ClassImageURL   *string           `json:"class_image_url,omitempty"`
	ApprovedCount   *int64            `json:"approved_count,omitempty"`
	Schedule        *ScheduleResponse `json:"schedule,omitempty"`
	ClassCreatedAt  time.Time         `json:"class_created_at"`
	ClassUpdatedAt  time.Time         `json:"class_updated_at"`
}

func FromModel(m *classModel.ClassModel) ClassResponse {
	return ClassResponse{
		ClassID:        m.ClassID,
		ClassName:      m.ClassName,
		ClassTypeID:    m.ClassTypeID,
		ClassTeacherID: m.TeacherID,
		ClassAdminID:   m.AdminID,
		ClassStartDate: m.ClassStartDate,
		ClassEndDate:   m.ClassEndDate,
		ClassPrice:     m.ClassPrice,
		ClassRoom:      m.ClassRoom,
		ClassImageURL:  m.ClassImageURL,
		ClassCreatedAt: dbtime.ToSchoolTime(m.ClassCreatedAt),
		ClassUpdatedAt: dbtime.ToSchoolTime(m.ClassUpdatedAt),
	}
}

// ClassRow: hasil query list (kelas + join ringan + jumlah siswa approved)
type ClassRow struct {
	classModel.ClassModel
	ClassTypeCode   string `gorm:"column:class_type_code"`
	TeacherFullName string `gorm:"column:teacher_full_name"`
	ApprovedCount   int64  `gorm:"column:approved_count"`
}

func FromRow(r *ClassRow) ClassResponse {
	out := FromModel(&r.ClassModel)
	out.ClassTypeCode = r.ClassTypeCode
	out.TeacherFullName = r.TeacherFullName
	n := r.ApprovedCount
	out.ApprovedCount = &n
	return out
}

func FromRows(rows []ClassRow) []ClassResponse {
	out := make([]ClassResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromRow(&rows[i]))
	}
	return out
}
