package store

import (
	"context"
	"errors"
	"time"

	"github.com/campushive/backend/internal/models"
)

// TryLock takes the named lease for ttl. It succeeds when no lease exists,
// when the previous one expired, or when owner already holds it.
func (s *Store) TryLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	now := time.Now()
	lock := models.SchedulerLock{
		LockName:  name,
		LockedBy:  owner,
		LockedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	err := Translate(s.db.WithContext(ctx).Create(&lock).Error)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, ErrConflict) {
		return false, err
	}

	res := s.db.WithContext(ctx).Model(&models.SchedulerLock{}).
		Where("lock_name = ? AND (expires_at < ? OR locked_by = ?)", name, now, owner).
		Updates(map[string]interface{}{
			"locked_by":  owner,
			"locked_at":  now,
			"expires_at": now.Add(ttl),
		})
	if res.Error != nil {
		return false, Translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Unlock releases the lease if owner still holds it.
func (s *Store) Unlock(ctx context.Context, name, owner string) error {
	res := s.db.WithContext(ctx).Model(&models.SchedulerLock{}).
		Where("lock_name = ? AND locked_by = ?", name, owner).
		Update("expires_at", time.Now())
	return Translate(res.Error)
}
