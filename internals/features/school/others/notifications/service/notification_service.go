package service

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	classService "classroom_backend/internals/features/school/classes/classes/service"
	announcementModel "classroom_backend/internals/features/school/others/announcements/model"
	notificationModel "classroom_backend/internals/features/school/others/notifications/model"
	assignmentModel "classroom_backend/internals/features/school/submissions_assesment/assignments/model"
	"classroom_backend/internals/helpers/dbtime"
)

// FeedLimit: jumlah item terbaru yang ditampilkan di feed
const FeedLimit = 10

var ErrContentNotFound = fiber.NewError(fiber.StatusNotFound, "content not found")

type NotificationService struct {
	DB    *gorm.DB
	Clock dbtime.Clock
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db, Clock: dbtime.SystemClock}
}

func (s *NotificationService) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// FeedItem: pengumuman atau tugas dari kelas approved milik siswa
type FeedItem struct {
	ContentType notificationModel.ContentType `json:"content_type"`
	ContentID   uuid.UUID                     `json:"content_id"`
	ClassID     uuid.UUID                     `json:"class_id"`
	ClassName   string                        `json:"class_name"`
	Title       string                        `json:"title"`
	DueDate     *time.Time                    `json:"due_date,omitempty"`
	CreatedAt   time.Time                     `json:"created_at"`
	IsRead      bool                          `json:"is_read"`
}

/* =======================================================================
   Feed
======================================================================= */

// Feed: gabungan pengumuman + tugas, terbaru dulu, maks FeedLimit.
// Baris read-status dibuat (unread) saat item pertama kali muncul.
func (s *NotificationService) Feed(ctx context.Context, studentID uuid.UUID) ([]FeedItem, error) {
	items := []FeedItem{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		classIDs, err := classService.StudentClassIDs(tx, studentID)
		if err != nil || len(classIDs) == 0 {
			return err
		}

		var anns []struct {
			announcementModel.AnnouncementModel
			ClassName string `gorm:"column:class_name"`
		}
		if err := tx.Table("announcements AS a").
			Select("a.*, c.class_name AS class_name").
			Joins("JOIN classes c ON c.class_id = a.announcement_class_id").
			Where("a.announcement_class_id IN ?", classIDs).
			Order("a.announcement_created_at DESC").
			Limit(FeedLimit).
			Scan(&anns).Error; err != nil {
			return err
		}
		var asgs []struct {
			assignmentModel.AssignmentModel
			ClassName string `gorm:"column:class_name"`
		}
		if err := tx.Table("assignments AS a").
			Select("a.*, c.class_name AS class_name").
			Joins("JOIN classes c ON c.class_id = a.assignment_class_id").
			Where("a.assignment_class_id IN ?", classIDs).
			Order("a.assignment_created_at DESC").
			Limit(FeedLimit).
			Scan(&asgs).Error; err != nil {
			return err
		}

		for _, a := range anns {
			items = append(items, FeedItem{
				ContentType: notificationModel.ContentAnnouncement,
				ContentID:   a.AnnouncementID,
				ClassID:     a.AnnouncementClassID,
				ClassName:   a.ClassName,
				Title:       a.AnnouncementTitle,
				CreatedAt:   a.AnnouncementCreatedAt,
			})
		}
		for _, a := range asgs {
			due := a.AssignmentDueDate
			items = append(items, FeedItem{
				ContentType: notificationModel.ContentAssignment,
				ContentID:   a.AssignmentID,
				ClassID:     a.AssignmentClassID,
				ClassName:   a.ClassName,
				Title:       a.AssignmentTitle,
				DueDate:     &due,
				CreatedAt:   a.AssignmentCreatedAt,
			})
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
		if len(items) > FeedLimit {
			items = items[:FeedLimit]
		}
		if len(items) == 0 {
			return nil
		}

		// lazy create: unread
		rows := make([]notificationModel.ContentReadStatusModel, 0, len(items))
		for _, it := range items {
			rows = append(rows, notificationModel.ContentReadStatusModel{
				ReadStatusStudentID:   studentID,
				ReadStatusContentType: it.ContentType,
				ReadStatusContentID:   it.ContentID,
			})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ContentID)
		}
		var read []notificationModel.ContentReadStatusModel
		if err := tx.Where("read_status_student_id = ? AND read_status_content_id IN ? AND read_status_is_read = ?", studentID, ids, true).
			Find(&read).Error; err != nil {
			return err
		}
		isRead := make(map[uuid.UUID]bool, len(read))
		for _, r := range read {
			isRead[r.ReadStatusContentID] = true
		}
		for i := range items {
			items[i].IsRead = isRead[items[i].ContentID]
			items[i].CreatedAt = dbtime.ToSchoolTime(items[i].CreatedAt)
			items[i].DueDate = dbtime.ToSchoolTimePtr(items[i].DueDate)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UnreadCount: semua pengumuman + tugas di kelas approved yang belum ditandai dibaca
func (s *NotificationService) UnreadCount(ctx context.Context, studentID uuid.UUID) (int64, error) {
	return UnreadCount(s.DB.WithContext(ctx), studentID)
}

func UnreadCount(db *gorm.DB, studentID uuid.UUID) (int64, error) {
	classIDs, err := classService.StudentClassIDs(db, studentID)
	if err != nil || len(classIDs) == 0 {
		return 0, err
	}
	var total int64
	for _, src := range feedSources {
		var n int64
		if err := unreadQuery(db, studentID, classIDs, src).Count(&n).Error; err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// feedSource: tabel konten yang masuk feed
type feedSource struct {
	Type     notificationModel.ContentType
	Table    string
	IDCol    string
	ClassCol string
}

var feedSources = []feedSource{
	{notificationModel.ContentAnnouncement, "announcements", "announcement_id", "announcement_class_id"},
	{notificationModel.ContentAssignment, "assignments", "assignment_id", "assignment_class_id"},
}

// item di kelas classIDs tanpa baris status is_read=true
func unreadQuery(db *gorm.DB, studentID uuid.UUID, classIDs []uuid.UUID, src feedSource) *gorm.DB {
	return db.Table(src.Table+" AS a").
		Where("a."+src.ClassCol+" IN ?", classIDs).
		Where(`NOT EXISTS (SELECT 1 FROM content_read_statuses r
			WHERE r.read_status_student_id = ? AND r.read_status_content_type = ?
			  AND r.read_status_content_id = a.`+src.IDCol+` AND r.read_status_is_read = ?)`,
			studentID, src.Type, true)
}

/* =======================================================================
   Mark read
======================================================================= */

// contentClassID: kelas pemilik konten (404 kalau tidak ada)
func contentClassID(tx *gorm.DB, t notificationModel.ContentType, id uuid.UUID) (uuid.UUID, error) {
	var ids []uuid.UUID
	var err error
	switch t {
	case notificationModel.ContentAnnouncement:
		err = tx.Model(&announcementModel.AnnouncementModel{}).
			Where("announcement_id = ?", id).
			Limit(1).Pluck("announcement_class_id", &ids).Error
	case notificationModel.ContentAssignment:
		err = tx.Model(&assignmentModel.AssignmentModel{}).
			Where("assignment_id = ?", id).
			Limit(1).Pluck("assignment_class_id", &ids).Error
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "unknown content type")
	}
	if err != nil {
		return uuid.Nil, err
	}
	if len(ids) == 0 {
		return uuid.Nil, ErrContentNotFound
	}
	return ids[0], nil
}

// MarkRead: siswa harus approved di kelas konten tsb
func (s *NotificationService) MarkRead(ctx context.Context, studentID uuid.UUID, t notificationModel.ContentType, contentID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		classID, err := contentClassID(tx, t, contentID)
		if err != nil {
			return err
		}
		if _, err := classService.RequireApprovedEnrollment(tx, studentID, classID); err != nil {
			return err
		}
		return MarkReadTx(tx, studentID, t, contentID, s.now())
	})
}

// MarkAllRead: semua pengumuman + tugas di kelas approved, termasuk yang
// belum pernah tampil di feed. Return = jumlah item yang tadinya unread.
func (s *NotificationService) MarkAllRead(ctx context.Context, studentID uuid.UUID) (int64, error) {
	now := s.now()
	var marked int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		classIDs, err := classService.StudentClassIDs(tx, studentID)
		if err != nil || len(classIDs) == 0 {
			return err
		}
		var rows []notificationModel.ContentReadStatusModel
		for _, src := range feedSources {
			var ids []uuid.UUID
			if err := unreadQuery(tx, studentID, classIDs, src).Pluck("a."+src.IDCol, &ids).Error; err != nil {
				return err
			}
			for _, id := range ids {
				rows = append(rows, notificationModel.ContentReadStatusModel{
					ReadStatusStudentID:   studentID,
					ReadStatusContentType: src.Type,
					ReadStatusContentID:   id,
					ReadStatusIsRead:      true,
					ReadStatusReadAt:      &now,
				})
			}
		}
		if len(rows) == 0 {
			return nil
		}
		marked = int64(len(rows))
		return tx.Clauses(readStatusUpsert).CreateInBatches(&rows, 200).Error
	})
	if err != nil {
		return 0, err
	}
	return marked, nil
}

// MarkReadTx: upsert status dibaca (dipakai juga saat membuka detail tugas)
func MarkReadTx(tx *gorm.DB, studentID uuid.UUID, t notificationModel.ContentType, contentID uuid.UUID, now time.Time) error {
	row := notificationModel.ContentReadStatusModel{
		ReadStatusStudentID:   studentID,
		ReadStatusContentType: t,
		ReadStatusContentID:   contentID,
		ReadStatusIsRead:      true,
		ReadStatusReadAt:      &now,
	}
	return tx.Clauses(readStatusUpsert).Create(&row).Error
}

var readStatusUpsert = clause.OnConflict{
	Columns: []clause.Column{
		{Name: "read_status_student_id"},
		{Name: "read_status_content_type"},
		{Name: "read_status_content_id"},
	},
	DoUpdates: clause.AssignmentColumns([]string{
		"read_status_is_read",
		"read_status_read_at",
		"read_status_updated_at",
	}),
}
