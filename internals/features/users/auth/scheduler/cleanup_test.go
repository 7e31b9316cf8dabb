package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	authModel "classroom_backend/internals/features/users/auth/model"
	authRepo "classroom_backend/internals/features/users/auth/repository"
	"classroom_backend/internals/testutil"
)

func TestMain(m *testing.M) {
	// rollbar-go menyalakan transport async saat package di-load (lewat configs)
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/rollbar/rollbar-go.NewAsyncTransport.func1"))
}

func TestRunCleanupKeepsGracePeriod(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	u := testutil.CreateUser(t, db, "alice")

	require.NoError(t, authRepo.BlacklistToken(db, "old", now.Add(-10*24*time.Hour)))
	require.NoError(t, authRepo.BlacklistToken(db, "recent", now.Add(-2*24*time.Hour)))
	require.NoError(t, authRepo.BlacklistToken(db, "live", now.Add(time.Hour)))
	require.NoError(t, authRepo.CreateRefreshToken(db, &authModel.RefreshToken{
		UserID: u.ID, TokenHash: "a", ExpiresAt: now.Add(-30 * 24 * time.Hour),
	}))
	require.NoError(t, authRepo.CreateRefreshToken(db, &authModel.RefreshToken{
		UserID: u.ID, TokenHash: "b", ExpiresAt: now.Add(24 * time.Hour),
	}))

	bl, rt, err := RunCleanup(context.Background(), db, now, 7*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, bl)
	assert.EqualValues(t, 1, rt)

	var left []string
	require.NoError(t, db.Model(&authModel.TokenBlacklist{}).Order("token").Pluck("token", &left).Error)
	assert.Equal(t, []string{"live", "recent"}, left)

	// "recent" sudah lewat exp → tidak dianggap blacklist aktif, tapi masih disimpan
	active, err := authRepo.IsTokenBlacklisted(db, "recent", now)
	require.NoError(t, err)
	assert.False(t, active)
	active, err = authRepo.IsTokenBlacklisted(db, "live", now)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestBlacklistTokenIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, authRepo.BlacklistToken(db, "tok", now))
	require.NoError(t, authRepo.BlacklistToken(db, "tok", now.Add(time.Hour)))

	var rows []authModel.TokenBlacklist
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].ExpiredAt.Equal(now.Add(time.Hour)))
}

func TestSchedulerStopsWithContext(t *testing.T) {
	db := testutil.NewDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := StartBlacklistCleanupScheduler(ctx, db, 7, time.Hour)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
