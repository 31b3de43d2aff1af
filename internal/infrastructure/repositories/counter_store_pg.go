package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

// CounterStorePGRepository implements ports.CounterStore on a Postgres
// row per counter. The increment and the lazy window reset happen in a
// single upsert statement, so two concurrent callers on the same key
// serialize on the row lock instead of losing updates to interleaved
// read-modify-write cycles.
type CounterStorePGRepository struct {
	db     *db.Database
	logger *logrus.Logger
	now    func() time.Time
}

func NewCounterStorePGRepository(database *db.Database, logger *logrus.Logger) *CounterStorePGRepository {
	return &CounterStorePGRepository{db: database, logger: logger, now: time.Now}
}

// IncrementAndGet adds delta to the counter row, creating it or
// resetting it in place when its window has expired. The reset seeds
// next-reset at now + ttl, not at the previous reset plus the window:
// missed windows are not backfilled.
func (repo *CounterStorePGRepository) IncrementAndGet(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	now := repo.now()
	query := `
		INSERT INTO quota_counters (counter_key, count, reset_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (counter_key) DO UPDATE SET
			count = CASE WHEN quota_counters.reset_at <= $4
				THEN excluded.count
				ELSE quota_counters.count + excluded.count END,
			reset_at = CASE WHEN quota_counters.reset_at <= $4
				THEN excluded.reset_at
				ELSE quota_counters.reset_at END
		RETURNING count`

	var total int64
	err := repo.db.DB.QueryRowContext(ctx, query, key, delta, now.Add(ttl), now).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}
	return total, nil
}

// Get returns the counter value, treating an expired row as absent.
func (repo *CounterStorePGRepository) Get(ctx context.Context, key string) (int64, bool, error) {
	var (
		count   int64
		resetAt time.Time
	)
	query := `SELECT count, reset_at FROM quota_counters WHERE counter_key = $1`
	err := repo.db.DB.QueryRowContext(ctx, query, key).Scan(&count, &resetAt)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read counter: %w", err)
	}
	if !resetAt.After(repo.now()) {
		return 0, false, nil
	}
	return count, true, nil
}

// TimeToReset reports the remaining time before the counter row expires.
func (repo *CounterStorePGRepository) TimeToReset(ctx context.Context, key string) (time.Duration, bool, error) {
	var resetAt time.Time
	query := `SELECT reset_at FROM quota_counters WHERE counter_key = $1`
	err := repo.db.DB.QueryRowContext(ctx, query, key).Scan(&resetAt)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read counter reset: %w", err)
	}
	remaining := resetAt.Sub(repo.now())
	if remaining <= 0 {
		return 0, false, nil
	}
	return remaining, true, nil
}
