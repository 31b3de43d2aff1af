package repositories

import (
	"context"
	"fmt"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/quota"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/ports"
	"github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LimitRepository persists per-tenant quota limit overrides.
type LimitRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewLimitRepository(database *db.Database, logger *logrus.Logger) ports.LimitRepository {
	return &LimitRepository{
		db:     database,
		logger: logger,
	}
}

// GetOverrides returns the explicit overrides stored for the tenant.
func (r *LimitRepository) GetOverrides(ctx context.Context, tenantID uuid.UUID) (quota.LimitSet, error) {
	query := `
		SELECT resource, window_kind, limit_value
		FROM tenant_quota_limits
		WHERE tenant_id = $1`

	rows, err := r.db.DB.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get limit overrides: %w", err)
	}
	defer rows.Close()

	overrides := quota.LimitSet{}
	for rows.Next() {
		var (
			resource string
			window   string
			value    int64
		)
		if err := rows.Scan(&resource, &window, &value); err != nil {
			return nil, fmt.Errorf("failed to scan limit override: %w", err)
		}
		overrides[quota.LimitKey{Resource: quota.ResourceKind(resource), Window: quota.WindowKind(window)}] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read limit overrides: %w", err)
	}
	return overrides, nil
}

// Upsert replaces the listed limit fields inside one transaction; all
// other fields are left untouched. Counter state is never modified here.
func (r *LimitRepository) Upsert(ctx context.Context, tenantID uuid.UUID, updates []quota.LimitUpdate) error {
	tx, err := r.db.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin limit update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO tenant_quota_limits (tenant_id, resource, window_kind, limit_value, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (tenant_id, resource, window_kind)
		DO UPDATE SET limit_value = excluded.limit_value, updated_at = NOW()`

	for _, u := range updates {
		if _, err := tx.ExecContext(ctx, query, tenantID, string(u.Resource), string(u.Window), u.Value); err != nil {
			return fmt.Errorf("failed to upsert limit %s/%s: %w", u.Resource, u.Window, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit limit update: %w", err)
	}
	return nil
}
