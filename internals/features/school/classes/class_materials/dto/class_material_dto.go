package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	materialModel "classroom_backend/internals/features/school/classes/class_materials/model"
	"classroom_backend/internals/helpers/dbtime"
)

// UploadMaterialRequest: multipart, file di field "file"
type UploadMaterialRequest struct {
	Title string `form:"title" json:"title" validate:"required,max=200"`
}

func (r *UploadMaterialRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

type MaterialResponse struct {
	ClassMaterialID uuid.UUID `json:"class_material_id"`
	ClassID         uuid.UUID `json:"class_id"`
	Title           string    `json:"title"`
	FileURL         string    `json:"file_url"`
	FileKind        string    `json:"file_kind"`
	CreatedAt       time.Time `json:"created_at"`
}

func FromModel(m *materialModel.ClassMaterialModel) MaterialResponse {
	return MaterialResponse{
		ClassMaterialID: m.ClassMaterialID,
		ClassID:         m.ClassMaterialClassID,
		Title:           m.ClassMaterialTitle,
		FileURL:         m.ClassMaterialFileURL,
		FileKind:        m.ClassMaterialFileKind,
		CreatedAt:       dbtime.ToSchoolTime(m.ClassMaterialCreatedAt),
	}
}

func FromModels(rows []materialModel.ClassMaterialModel) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
