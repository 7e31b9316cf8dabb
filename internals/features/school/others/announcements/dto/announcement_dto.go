package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	announcementModel "classroom_backend/internals/features/school/others/announcements/model"
	"classroom_backend/internals/helpers/dbtime"
)

type AnnouncementRequest struct {
	Title   string `json:"title"   validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

func (r *AnnouncementRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
}

type AnnouncementResponse struct {
	AnnouncementID uuid.UUID  `json:"announcement_id"`
	ClassID        uuid.UUID  `json:"class_id"`
	TeacherID      *uuid.UUID `json:"teacher_id,omitempty"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func FromModel(m *announcementModel.AnnouncementModel) AnnouncementResponse {
	return AnnouncementResponse{
		AnnouncementID: m.AnnouncementID,
		ClassID:        m.AnnouncementClassID,
		TeacherID:      m.AnnouncementTeacherID,
		Title:          m.AnnouncementTitle,
		Content:        m.AnnouncementContent,
		CreatedAt:      dbtime.ToSchoolTime(m.AnnouncementCreatedAt),
		UpdatedAt:      dbtime.ToSchoolTime(m.AnnouncementUpdatedAt),
	}
}

func FromModels(rows []announcementModel.AnnouncementModel) []AnnouncementResponse {
	out := make([]AnnouncementResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
