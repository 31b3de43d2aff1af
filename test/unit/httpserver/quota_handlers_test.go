package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/quota"
	"github.com/CodeFleck/sensorvision-sub007/internal/core/domain/tenant"
	platform_http "github.com/CodeFleck/sensorvision-sub007/internal/infrastructure/httpserver"
	"github.com/CodeFleck/sensorvision-sub007/test/mocks"
	"github.com/stretchr/testify/require"
)

func newTestServer(engine *mocks.QuotaEngineMock, tenants *mocks.TenantServiceMock, devices *mocks.DeviceServiceMock) *httptest.Server {
	if engine == nil {
		engine = &mocks.QuotaEngineMock{}
	}
	if tenants == nil {
		tenants = &mocks.TenantServiceMock{}
	}
	if devices == nil {
		devices = &mocks.DeviceServiceMock{}
	}
	deps := platform_http.ServerDeps{
		TenantService: tenants,
		DeviceService: devices,
		QuotaEngine:   engine,
	}
	srv := platform_http.NewServer(&platform_http.ServerConfig{Host: "127.0.0.1", Port: "0", ReadTimeout: time.Second, WriteTimeout: time.Second, IdleTimeout: time.Second}, logrus.New(), deps)
	return httptest.NewServer(srv.Echo())
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var b []byte
	if body != nil {
		var err error
		b, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req, err := http.NewRequest(method, ts.URL+path, bytes.NewReader(b))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, respBody
}

func TestGetQuotaStatus_ReturnsSnapshot(t *testing.T) {
	tenantID := uuid.New()
	engine := &mocks.QuotaEngineMock{
		GetStatusFn: func(ctx context.Context, id uuid.UUID) (*quota.Status, error) {
			require.Equal(t, tenantID, id)
			return &quota.Status{
				TenantID: id,
				Entities: []quota.EntityUsage{{Resource: quota.ResourceDevices, Count: 40, Limit: 100, Remaining: 60}},
				Rates: []quota.RateUsage{{
					Resource: quota.ResourceAPICalls,
					Windows:  []quota.WindowUsage{{Window: quota.WindowDay, Limit: 100000, Count: 1234, Remaining: 98766}},
				}},
			}, nil
		},
	}
	ts := newTestServer(engine, nil, nil)
	defer ts.Close()

	resp, body := doJSON(t, ts, http.MethodGet, "/api/v1/tenants/"+tenantID.String()+"/quota", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status quota.Status
	require.NoError(t, json.Unmarshal(body, &status))
	require.Equal(t, tenantID, status.TenantID)
	require.Len(t, status.Entities, 1)
	require.Equal(t, int64(1234), status.Rates[0].Windows[0].Count)
}

func TestGetQuotaStatus_StoreDownReturns503(t *testing.T) {
	engine := &mocks.QuotaEngineMock{
		GetStatusFn: func(ctx context.Context, id uuid.UUID) (*quota.Status, error) {
			return nil, quota.ErrStoreUnavailable
		},
	}
	ts := newTestServer(engine, nil, nil)
	defer ts.Close()

	resp, _ := doJSON(t, ts, http.MethodGet, "/api/v1/tenants/"+uuid.NewString()+"/quota", nil, nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestUpdateQuotaLimits_Validation(t *testing.T) {
	engine := &mocks.QuotaEngineMock{
		UpdateLimitsFn: func(ctx context.Context, id uuid.UUID, updates []quota.LimitUpdate) error {
			for _, u := range updates {
				if u.Value < 1 {
					return &quota.InvalidLimitError{Resource: u.Resource, Window: u.Window, Value: u.Value, Reason: "limit must be positive"}
				}
			}
			return nil
		},
	}
	ts := newTestServer(engine, nil, nil)
	defer ts.Close()

	path := "/api/v1/tenants/" + uuid.NewString() + "/quota/limits"

	resp, _ := doJSON(t, ts, http.MethodPut, path, map[string]any{"limits": []quota.LimitUpdate{{Resource: quota.ResourceDevices, Value: 0}}}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodPut, path, map[string]any{"limits": []quota.LimitUpdate{}}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodPut, path, map[string]any{"limits": []quota.LimitUpdate{{Resource: quota.ResourceDevices, Value: 500}}}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCheckQuota_DeniedReturns429(t *testing.T) {
	engine := &mocks.QuotaEngineMock{
		CheckAndConsumeFn: func(ctx context.Context, id uuid.UUID, resource quota.ResourceKind, amount int64) (*quota.Decision, error) {
			return &quota.Decision{Allowed: false, Resource: resource, Window: quota.WindowMinute, Count: 61, Limit: 60}, nil
		},
	}
	ts := newTestServer(engine, nil, nil)
	defer ts.Close()

	path := "/api/v1/tenants/" + uuid.NewString() + "/quota/check"
	resp, body := doJSON(t, ts, http.MethodPost, path, map[string]any{"resource": "function_executions", "amount": 1}, nil)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	var decision quota.Decision
	require.NoError(t, json.Unmarshal(body, &decision))
	require.False(t, decision.Allowed)
	require.Equal(t, int64(61), decision.Count)
}

func TestCheckQuota_UnknownResourceReturns400(t *testing.T) {
	ts := newTestServer(nil, nil, nil)
	defer ts.Close()

	path := "/api/v1/tenants/" + uuid.NewString() + "/quota/check"
	resp, _ := doJSON(t, ts, http.MethodPost, path, map[string]any{"resource": "gadgets"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckQuota_CumulativeUsesCeiling(t *testing.T) {
	ceilingCalled := false
	engine := &mocks.QuotaEngineMock{
		CheckCeilingFn: func(ctx context.Context, id uuid.UUID, resource quota.ResourceKind) (*quota.Decision, error) {
			ceilingCalled = true
			require.Equal(t, quota.ResourceDevices, resource)
			return &quota.Decision{Allowed: true, Resource: resource, Count: 5, Limit: 100, Remaining: 95}, nil
		},
	}
	ts := newTestServer(engine, nil, nil)
	defer ts.Close()

	path := "/api/v1/tenants/" + uuid.NewString() + "/quota/check"
	resp, _ := doJSON(t, ts, http.MethodPost, path, map[string]any{"resource": "devices"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, ceilingCalled)
}

func TestIngestTelemetry_MetersBatch(t *testing.T) {
	tenantID := uuid.New()
	var gotAmount int64
	engine := &mocks.QuotaEngineMock{
		CheckAndConsumeFn: func(ctx context.Context, id uuid.UUID, resource quota.ResourceKind, amount int64) (*quota.Decision, error) {
			require.Equal(t, quota.ResourceTelemetryPoints, resource)
			gotAmount = amount
			return &quota.Decision{Allowed: true, Resource: resource, Count: amount, Limit: 1000000, Remaining: 1000000 - amount}, nil
		},
	}
	ts := newTestServer(engine, nil, nil)
	defer ts.Close()

	points := []map[string]any{
		{"device_id": "d1", "metric": "temp", "value": 21.5},
		{"device_id": "d1", "metric": "humidity", "value": 40.0},
		{"device_id": "d2", "metric": "temp", "value": 19.8},
	}
	resp, _ := doJSON(t, ts, http.MethodPost, "/api/v1/tenants/"+tenantID.String()+"/telemetry", map[string]any{"points": points}, nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, int64(3), gotAmount)
}

func TestIngestTelemetry_DeniedReturns429(t *testing.T) {
	engine := &mocks.QuotaEngineMock{
		CheckAndConsumeFn: func(ctx context.Context, id uuid.UUID, resource quota.ResourceKind, amount int64) (*quota.Decision, error) {
			return &quota.Decision{Allowed: false, Resource: resource, Window: quota.WindowDay, Count: 1000001, Limit: 1000000}, nil
		},
	}
	ts := newTestServer(engine, nil, nil)
	defer ts.Close()

	points := []map[string]any{{"device_id": "d1", "metric": "temp", "value": 21.5}}
	resp, _ := doJSON(t, ts, http.MethodPost, "/api/v1/tenants/"+uuid.NewString()+"/telemetry", map[string]any{"points": points}, nil)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestCreateTenant_CeilingReturns429(t *testing.T) {
	tenants := &mocks.TenantServiceMock{
		CreateTenantFn: func(ctx context.Context, req *tenant.CreateTenantRequest) (*tenant.Tenant, error) {
			return nil, &quota.QuotaExceededError{Resource: quota.ResourceOrganizations, Count: 10, Limit: 10}
		},
	}
	ts := newTestServer(nil, tenants, nil)
	defer ts.Close()

	resp, _ := doJSON(t, ts, http.MethodPost, "/api/v1/tenants", map[string]string{"name": "n", "slug": "s", "plan": "pilot"}, nil)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestAPIQuotaGate_ConsumesPerRequest(t *testing.T) {
	tenantID := uuid.New()
	var metered []quota.ResourceKind
	engine := &mocks.QuotaEngineMock{
		CheckAndConsumeFn: func(ctx context.Context, id uuid.UUID, resource quota.ResourceKind, amount int64) (*quota.Decision, error) {
			require.Equal(t, tenantID, id)
			metered = append(metered, resource)
			return &quota.Decision{Allowed: true, Resource: resource, Count: 1, Limit: 100000, Remaining: 99999}, nil
		},
	}
	tenants := &mocks.TenantServiceMock{
		GetTenantFn: func(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
			return &tenant.Tenant{ID: id, Status: tenant.TenantStatusActive}, nil
		},
		ListTenantsFn: func(ctx context.Context, limit, offset int) ([]*tenant.Tenant, int, error) {
			return nil, 0, nil
		},
	}
	ts := newTestServer(engine, tenants, nil)
	defer ts.Close()

	headers := map[string]string{"X-Tenant-ID": tenantID.String()}
	resp, _ := doJSON(t, ts, http.MethodGet, "/api/v1/tenants", nil, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []quota.ResourceKind{quota.ResourceAPICalls}, metered)
	require.Equal(t, "100000", resp.Header.Get("X-RateLimit-Limit"))
	require.Equal(t, "99999", resp.Header.Get("X-RateLimit-Remaining"))
}

func TestAPIQuotaGate_DeniedBlocksHandler(t *testing.T) {
	tenantID := uuid.New()
	engine := &mocks.QuotaEngineMock{
		CheckAndConsumeFn: func(ctx context.Context, id uuid.UUID, resource quota.ResourceKind, amount int64) (*quota.Decision, error) {
			return &quota.Decision{Allowed: false, Resource: resource, Window: quota.WindowDay, Count: 100001, Limit: 100000}, nil
		},
	}
	handlerReached := false
	tenants := &mocks.TenantServiceMock{
		GetTenantFn: func(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
			return &tenant.Tenant{ID: id, Status: tenant.TenantStatusActive}, nil
		},
		ListTenantsFn: func(ctx context.Context, limit, offset int) ([]*tenant.Tenant, int, error) {
			handlerReached = true
			return nil, 0, nil
		},
	}
	ts := newTestServer(engine, tenants, nil)
	defer ts.Close()

	headers := map[string]string{"X-Tenant-ID": tenantID.String()}
	resp, _ := doJSON(t, ts, http.MethodGet, "/api/v1/tenants", nil, headers)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.False(t, handlerReached)
}
