package service

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/google/uuid"
	"gorm.io/gorm"

	classService "classroom_backend/internals/features/school/classes/classes/service"
	assignmentModel "classroom_backend/internals/features/school/submissions_assesment/assignments/model"
	helper "classroom_backend/internals/helpers"
)

const (
	MsgSubmitted       = "Submission received."
	MsgResubmitted     = "Submission replaced."
	MsgAlreadyGraded   = "This submission has already been graded and can no longer be changed."
	MsgSubmitInFlight  = "Another submission is in progress, please try again."
)

/*
Submit:
  - tugas sudah dinilai → Fail (state conflict), file tidak disimpan
  - belum dinilai → file lama diganti
  - is_late dihitung ulang setiap kali kirim
*/
func (s *AssignmentService) Submit(ctx context.Context, studentID, assignmentID uuid.UUID, fh *multipart.FileHeader) (*assignmentModel.AssignmentSubmissionModel, helper.Result, error) {
	db := s.DB.WithContext(ctx)
	a, err := loadAssignment(db, assignmentID)
	if err != nil {
		return nil, helper.Result{}, err
	}
	if _, err := classService.RequireApprovedEnrollment(db, studentID, a.AssignmentClassID); err != nil {
		return nil, helper.Result{}, err
	}
	existing, err := findSubmission(db, assignmentID, studentID)
	if err != nil {
		return nil, helper.Result{}, err
	}
	if existing != nil && existing.IsGraded() {
		return nil, helper.Fail(MsgAlreadyGraded), nil
	}

	url, err := s.Blob.UploadAny(ctx, "submissions/"+assignmentID.String(), fh)
	if err != nil {
		return nil, helper.Result{}, err
	}

	var (
		out    *assignmentModel.AssignmentSubmissionModel
		res    helper.Result
		oldURL string
	)
	err = db.Transaction(func(tx *gorm.DB) error {
		now := s.now()
		cur, err := findSubmission(tx, assignmentID, studentID)
		if err != nil {
			return err
		}
		if cur == nil {
			cur = &assignmentModel.AssignmentSubmissionModel{
				SubmissionAssignmentID: assignmentID,
				SubmissionStudentID:    studentID,
				SubmissionFileURL:      url,
				SubmissionSubmittedAt:  now,
				SubmissionIsLate:       a.IsPastDue(now),
			}
			if err := tx.Create(cur).Error; err != nil {
				return err
			}
			out, res = cur, helper.Ok(MsgSubmitted)
			return nil
		}
		// dinilai di antara cek awal dan transaksi ini
		if cur.IsGraded() {
			res = helper.Fail(MsgAlreadyGraded)
			return nil
		}
		oldURL = cur.SubmissionFileURL
		cur.SubmissionFileURL = url
		cur.SubmissionSubmittedAt = now
		cur.SubmissionIsLate = a.IsPastDue(now)
		if err := tx.Save(cur).Error; err != nil {
			return err
		}
		out, res = cur, helper.Ok(MsgResubmitted)
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		s.removeFile(ctx, url)
		return nil, helper.Fail(MsgSubmitInFlight), nil
	}
	if err != nil {
		s.removeFile(ctx, url)
		return nil, helper.Result{}, err
	}
	if !res.OK() {
		s.removeFile(ctx, url)
		return nil, res, nil
	}
	if oldURL != "" && oldURL != url {
		s.removeFile(ctx, oldURL)
	}
	return out, res, nil
}

// MySubmission: submission siswa untuk satu tugas (nil kalau belum kirim)
func (s *AssignmentService) MySubmission(ctx context.Context, studentID, assignmentID uuid.UUID) (*assignmentModel.AssignmentSubmissionModel, error) {
	db := s.DB.WithContext(ctx)
	a, err := loadAssignment(db, assignmentID)
	if err != nil {
		return nil, err
	}
	if _, err := classService.RequireApprovedEnrollment(db, studentID, a.AssignmentClassID); err != nil {
		return nil, err
	}
	sub, err := findSubmission(db, assignmentID, studentID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	return sub, nil
}
