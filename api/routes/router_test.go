package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	subsvc "github.com/DavidJosephLai/casewhr-backend/internal/subscriptions"
	pkgAuth "github.com/DavidJosephLai/casewhr-backend/pkg/auth"
	"github.com/DavidJosephLai/casewhr-backend/pkg/config"
	"github.com/DavidJosephLai/casewhr-backend/pkg/db/models"
	"github.com/DavidJosephLai/casewhr-backend/pkg/enums"
	"github.com/DavidJosephLai/casewhr-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSubscriptionsService struct{}

func (stubSubscriptionsService) Subscribe(ctx context.Context, input subsvc.SubscribeInput) (*models.Subscription, error) {
	return &models.Subscription{ID: uuid.New(), UserID: input.UserID, Status: enums.SubscriptionStatusActive}, nil
}

func (stubSubscriptionsService) Current(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	return nil, nil
}

func (stubSubscriptionsService) Cancel(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	return nil, nil
}

func (stubSubscriptionsService) Check(ctx context.Context, userID uuid.UUID) (*subsvc.CheckResult, error) {
	return &subsvc.CheckResult{PlanType: enums.PlanTypeFree}, nil
}

func (stubSubscriptionsService) Payments(ctx context.Context, userID uuid.UUID) ([]models.SubscriptionPayment, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev, Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "casewhr-test",
			ExpirationMinutes: 15,
		},
		Internal: config.InternalConfig{ServiceToken: "internal-test-token"},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "router-test"})
	return NewRouter(cfg, logg, stubPinger{}, stubPinger{}, stubSubscriptionsService{}, nil, nil, nil)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestSubscriptionRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/subscriptions/subscribe"},
		{http.MethodGet, "/api/v1/subscriptions/current"},
		{http.MethodPost, "/api/v1/subscriptions/cancel"},
		{http.MethodGet, "/api/v1/subscriptions/payments"},
		{http.MethodGet, "/api/v1/wallet"},
	}
	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestSubscriptionCurrentWithBearerToken(t *testing.T) {
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "router-test"})
	router := NewRouter(cfg, logg, stubPinger{}, stubPinger{}, stubSubscriptionsService{}, nil, nil, nil)

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/current", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestInternalCheckRequiresServiceToken(t *testing.T) {
	router := newTestRouter(t)
	target := "/internal/v1/subscriptions/check/" + uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("X-Internal-Token", "wrong")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 with bad token, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("X-Internal-Token", "internal-test-token")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestPlansRouteIsPublic(t *testing.T) {
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "router-test"})
	router := NewRouter(cfg, logg, stubPinger{}, stubPinger{}, stubSubscriptionsService{}, nil, nil, stubPlansService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

type stubPlansService struct{}

func (stubPlansService) List(ctx context.Context) ([]models.BillingPlan, error) {
	return []models.BillingPlan{}, nil
}

func (stubPlansService) Get(ctx context.Context, id string) (*models.BillingPlan, error) {
	return nil, nil
}
