package httpserver_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/quota"
	"github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/httpserver/helpers"
	"github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/httpserver/middleware"
	tmocks "github.com/CodeFleck/sensorvision-sub007/test/mocks"
	"github.com/stretchr/testify/require"
)

func TestQuotaMiddleware_SkipsWithoutTenantContext(t *testing.T) {
	e := echo.New()
	called := false
	engine := &tmocks.QuotaEngineMock{
		CheckAndConsumeFn: func(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind, amount int64) (*quota.Decision, error) {
			called = true
			return &quota.Decision{Allowed: true, Resource: resource}, nil
		},
	}
	m := middleware.NewQuotaMiddleware(engine, logrus.New())
	h := m.Handler()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	require.False(t, called, "no quota check without a resolved tenant")
}

func TestQuotaMiddleware_AllowedSetsHeaders(t *testing.T) {
	e := echo.New()
	resetAt := time.Now().Add(6 * time.Hour)
	engine := &tmocks.QuotaEngineMock{
		CheckAndConsumeFn: func(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind, amount int64) (*quota.Decision, error) {
			require.Equal(t, quota.ResourceAPICalls, resource)
			require.Equal(t, int64(1), amount)
			return &quota.Decision{Allowed: true, Resource: resource, Count: 10, Limit: 100, Remaining: 90, ResetAt: resetAt}, nil
		},
	}
	m := middleware.NewQuotaMiddleware(engine, logrus.New())
	h := m.Handler()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	helpers.SetTenantID(c, uuid.New())

	require.NoError(t, h(c))
	require.Equal(t, "100", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "90", rec.Header().Get("X-RateLimit-Remaining"))
	require.Equal(t, fmt.Sprintf("%d", resetAt.Unix()), rec.Header().Get("X-RateLimit-Reset"))
	require.Empty(t, rec.Header().Get("X-Quota-Warning"))
}

func TestQuotaMiddleware_DeniedReturns429(t *testing.T) {
	e := echo.New()
	engine := &tmocks.QuotaEngineMock{
		CheckAndConsumeFn: func(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind, amount int64) (*quota.Decision, error) {
			return &quota.Decision{Allowed: false, Resource: resource, Window: quota.WindowDay, Count: 101, Limit: 100}, nil
		},
	}
	m := middleware.NewQuotaMiddleware(engine, logrus.New())
	h := m.Handler()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	helpers.SetTenantID(c, uuid.New())

	err := h(c)
	require.Error(t, err)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusTooManyRequests, htErr.Code)
}

func TestQuotaMiddleware_WarningHeader(t *testing.T) {
	e := echo.New()
	engine := &tmocks.QuotaEngineMock{
		CheckAndConsumeFn: func(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind, amount int64) (*quota.Decision, error) {
			return &quota.Decision{Allowed: true, Resource: resource, Count: 95, Limit: 100, Remaining: 5, Warning: true}, nil
		},
	}
	m := middleware.NewQuotaMiddleware(engine, logrus.New())
	h := m.Handler()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	helpers.SetTenantID(c, uuid.New())

	require.NoError(t, h(c))
	require.Equal(t, "true", rec.Header().Get("X-Quota-Warning"))
}

func TestQuotaMiddleware_StoreFailureReturns503(t *testing.T) {
	e := echo.New()
	engine := &tmocks.QuotaEngineMock{
		CheckAndConsumeFn: func(ctx context.Context, tenantID uuid.UUID, resource quota.ResourceKind, amount int64) (*quota.Decision, error) {
			return nil, fmt.Errorf("%w: redis down", quota.ErrStoreUnavailable)
		},
	}
	m := middleware.NewQuotaMiddleware(engine, logrus.New())
	h := m.Handler()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	helpers.SetTenantID(c, uuid.New())

	err := h(c)
	require.Error(t, err)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusServiceUnavailable, htErr.Code)
}
