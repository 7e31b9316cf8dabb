package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	authRepo "classroom_backend/internals/features/users/auth/repository"
	"classroom_backend/internals/configs"
)

const cleanupInterval = 24 * time.Hour

// RunCleanup: hapus blacklist & refresh token yang sudah expired lebih dari ttl
func RunCleanup(ctx context.Context, db *gorm.DB, now time.Time, ttl time.Duration) (blacklist, refresh int64, err error) {
	before := now.Add(-ttl)
	tx := db.WithContext(ctx)
	if blacklist, err = authRepo.CleanupExpiredBlacklist(tx, before); err != nil {
		return 0, 0, err
	}
	if refresh, err = authRepo.DeleteExpiredRefreshTokens(tx, before); err != nil {
		return blacklist, 0, err
	}
	return blacklist, refresh, nil
}

// StartBlacklistCleanupScheduler: jalan sekali di awal lalu tiap interval sampai ctx selesai.
// Channel yang dikembalikan ditutup saat goroutine berhenti.
func StartBlacklistCleanupScheduler(ctx context.Context, db *gorm.DB, ttlDays int, interval time.Duration) <-chan struct{} {
	if ttlDays < 0 {
		ttlDays = 0
	}
	if interval <= 0 {
		interval = cleanupInterval
	}
	ttl := time.Duration(ttlDays) * 24 * time.Hour
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			bl, rt, err := RunCleanup(ctx, db, time.Now().UTC(), ttl)
			switch {
			case err != nil && ctx.Err() == nil:
				configs.Log().Error("[CLEANUP] token cleanup failed", zap.Error(err))
			case err == nil:
				configs.Log().Info("[CLEANUP] expired tokens removed",
					zap.Int64("blacklist", bl), zap.Int64("refresh_tokens", rt))
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return done
}
