package repositories

import (
	"context"
	"fmt"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/quota"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/ports"
	"github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/db"
	"github.com/google/uuid"
)

// entityCountQueries maps each cumulative resource kind to its count
// query. Organizations are counted platform-wide; the rest per tenant.
var entityCountQueries = map[quota.ResourceKind]struct {
	query  string
	perOrg bool
}{
	quota.ResourceOrganizations: {query: `SELECT COUNT(*) FROM tenants`},
	quota.ResourceUsers:         {query: `SELECT COUNT(*) FROM users WHERE tenant_id = $1`, perOrg: true},
	quota.ResourceDevices:       {query: `SELECT COUNT(*) FROM devices WHERE tenant_id = $1`, perOrg: true},
	quota.ResourceDashboards:    {query: `SELECT COUNT(*) FROM dashboards WHERE tenant_id = $1`, perOrg: true},
	quota.ResourceRules:         {query: `SELECT COUNT(*) FROM rules WHERE tenant_id = $1`, perOrg: true},
}

// EntityCountRepository reads authoritative cumulative counts from
// Postgres. These back the fail-closed ceiling checks.
type EntityCountRepository struct {
	db *db.Database
}

func NewEntityCountRepository(database *db.Database) ports.EntityCountRepository {
	return &EntityCountRepository{db: database}
}

func (r *EntityCountRepository) Count(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind) (int64, error) {
	q, ok := entityCountQueries[resource]
	if !ok {
		return 0, fmt.Errorf("no entity count query for resource %q", resource)
	}
	var count int64
	var err error
	if q.perOrg {
		err = r.db.DB.QueryRowContext(ctx, q.query, tenantID).Scan(&count)
	} else {
		err = r.db.DB.QueryRowContext(ctx, q.query).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", resource, err)
	}
	return count, nil
}
