package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	enrollmentModel "classroom_backend/internals/features/school/classes/class_enrollments/model"
	announcementModel "classroom_backend/internals/features/school/others/announcements/model"
	notificationModel "classroom_backend/internals/features/school/others/notifications/model"
	assignmentModel "classroom_backend/internals/features/school/submissions_assesment/assignments/model"
	"classroom_backend/internals/testutil"
)

var base = time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)

func announce(t *testing.T, db *gorm.DB, classID uuid.UUID, title string, at time.Time) *announcementModel.AnnouncementModel {
	t.Helper()
	a := &announcementModel.AnnouncementModel{
		AnnouncementClassID: classID, AnnouncementTitle: title, AnnouncementContent: "body", AnnouncementCreatedAt: at,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func assign(t *testing.T, db *gorm.DB, classID uuid.UUID, title string, at time.Time) *assignmentModel.AssignmentModel {
	t.Helper()
	a := &assignmentModel.AssignmentModel{
		AssignmentClassID: classID, AssignmentTitle: title, AssignmentDueDate: at.Add(72 * time.Hour), AssignmentCreatedAt: at,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func TestFeedMergesSortsAndCaps(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNotificationService(db)
	s := testutil.CreateStudent(t, db, "S", nil)
	mine := testutil.CreateClass(t, db, "Mine", nil)
	pending := testutil.CreateClass(t, db, "Pending", nil)
	testutil.CreateEnrollment(t, db, s.StudentID, mine.ClassID, enrollmentModel.EnrollmentApproved)
	testutil.CreateEnrollment(t, db, s.StudentID, pending.ClassID, enrollmentModel.EnrollmentPending)

	for i := 0; i < 7; i++ {
		announce(t, db, mine.ClassID, fmt.Sprintf("ann-%d", i), base.Add(time.Duration(2*i)*time.Hour))
		assign(t, db, mine.ClassID, fmt.Sprintf("asg-%d", i), base.Add(time.Duration(2*i+1)*time.Hour))
	}
	announce(t, db, pending.ClassID, "hidden", base.Add(100*time.Hour))

	items, err := svc.Feed(context.Background(), s.StudentID)
	require.NoError(t, err)
	require.Len(t, items, FeedLimit)
	assert.Equal(t, "asg-6", items[0].Title)
	assert.Equal(t, "ann-6", items[1].Title)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].CreatedAt.After(items[i-1].CreatedAt))
		assert.NotEqual(t, "hidden", items[i].Title)
		assert.False(t, items[i].IsRead)
	}

	// baris status dibuat lazily untuk item yang tampil saja
	var n int64
	require.NoError(t, db.Model(&notificationModel.ContentReadStatusModel{}).Count(&n).Error)
	assert.EqualValues(t, FeedLimit, n)

	// memanggil ulang tidak menggandakan baris
	_, err = svc.Feed(context.Background(), s.StudentID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&notificationModel.ContentReadStatusModel{}).Count(&n).Error)
	assert.EqualValues(t, FeedLimit, n)

	unread, err := svc.UnreadCount(context.Background(), s.StudentID)
	require.NoError(t, err)
	assert.EqualValues(t, 14, unread)
}

func TestMarkReadUpdatesFeedAndCount(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNotificationService(db)
	s := testutil.CreateStudent(t, db, "S", nil)
	class := testutil.CreateClass(t, db, "Mine", nil)
	testutil.CreateEnrollment(t, db, s.StudentID, class.ClassID, enrollmentModel.EnrollmentApproved)
	a := announce(t, db, class.ClassID, "one", base)
	assign(t, db, class.ClassID, "two", base.Add(time.Hour))

	ctx := context.Background()
	require.NoError(t, svc.MarkRead(ctx, s.StudentID, notificationModel.ContentAnnouncement, a.AnnouncementID))
	// idempotent
	require.NoError(t, svc.MarkRead(ctx, s.StudentID, notificationModel.ContentAnnouncement, a.AnnouncementID))

	unread, err := svc.UnreadCount(ctx, s.StudentID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	items, err := svc.Feed(ctx, s.StudentID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.False(t, items[0].IsRead)
	assert.True(t, items[1].IsRead)

	updated, err := svc.MarkAllRead(ctx, s.StudentID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)
	unread, err = svc.UnreadCount(ctx, s.StudentID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestMarkAllReadCoversItemsOutsideFeed(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNotificationService(db)
	s := testutil.CreateStudent(t, db, "S", nil)
	mine := testutil.CreateClass(t, db, "Mine", nil)
	pending := testutil.CreateClass(t, db, "Pending", nil)
	testutil.CreateEnrollment(t, db, s.StudentID, mine.ClassID, enrollmentModel.EnrollmentApproved)
	testutil.CreateEnrollment(t, db, s.StudentID, pending.ClassID, enrollmentModel.EnrollmentPending)

	total := FeedLimit + 5
	for i := 0; i < total; i++ {
		if i%2 == 0 {
			announce(t, db, mine.ClassID, fmt.Sprintf("ann-%d", i), base.Add(time.Duration(i)*time.Hour))
		} else {
			assign(t, db, mine.ClassID, fmt.Sprintf("asg-%d", i), base.Add(time.Duration(i)*time.Hour))
		}
	}
	hidden := announce(t, db, pending.ClassID, "hidden", base)

	ctx := context.Background()
	// feed hanya membuat baris status untuk FeedLimit item terbaru
	_, err := svc.Feed(ctx, s.StudentID)
	require.NoError(t, err)

	marked, err := svc.MarkAllRead(ctx, s.StudentID)
	require.NoError(t, err)
	assert.EqualValues(t, total, marked)

	unread, err := svc.UnreadCount(ctx, s.StudentID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	var n int64
	require.NoError(t, db.Model(&notificationModel.ContentReadStatusModel{}).
		Where("read_status_student_id = ? AND read_status_is_read = ?", s.StudentID, true).
		Count(&n).Error)
	assert.EqualValues(t, total, n)
	require.NoError(t, db.Model(&notificationModel.ContentReadStatusModel{}).
		Where("read_status_content_id = ?", hidden.AnnouncementID).
		Count(&n).Error)
	assert.Zero(t, n)

	// kedua kali tidak ada yang tersisa
	marked, err = svc.MarkAllRead(ctx, s.StudentID)
	require.NoError(t, err)
	assert.Zero(t, marked)
}

func TestMarkReadRequiresApprovedEnrollment(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNotificationService(db)
	s := testutil.CreateStudent(t, db, "S", nil)
	class := testutil.CreateClass(t, db, "Other", nil)
	a := announce(t, db, class.ClassID, "one", base)

	err := svc.MarkRead(context.Background(), s.StudentID, notificationModel.ContentAnnouncement, a.AnnouncementID)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusForbidden, fe.Code)

	err = svc.MarkRead(context.Background(), s.StudentID, notificationModel.ContentAssignment, uuid.New())
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestFeedWithoutClassesIsEmpty(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNotificationService(db)
	s := testutil.CreateStudent(t, db, "S", nil)

	items, err := svc.Feed(context.Background(), s.StudentID)
	require.NoError(t, err)
	assert.Empty(t, items)
	n, err := svc.UnreadCount(context.Background(), s.StudentID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
