package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/siamroads/service-trip/internal/application"
	"github.com/siamroads/service-trip/internal/application/apptest"
	"github.com/siamroads/service-trip/internal/catalog"
	"github.com/siamroads/service-trip/internal/domain/estimator"
	"github.com/siamroads/service-trip/internal/platform/auth"
	"github.com/siamroads/service-trip/internal/platform/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router     *gin.Engine
	jwtManager *auth.JWTManager
	publisher  *apptest.Publisher
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *struct {
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newTestServer wires every handler over in-memory repositories seeded with the
// embedded catalogue. burst bounds the write endpoints per client IP.
func newTestServer(t *testing.T, burst int) *testServer {
	t.Helper()

	cat, err := catalog.Load()
	require.NoError(t, err)

	logger := zap.NewNop()
	trips := apptest.NewTripRepo()
	reviews := &apptest.ReviewRepo{}
	publisher := &apptest.Publisher{}

	estimateSvc := application.NewEstimateService(cat.Estimator(estimator.DefaultTariff()), trips, logger)
	tripSvc := application.NewTripService(trips, reviews, cat.Places, logger)
	reviewSvc := application.NewReviewService(reviews, trips, logger)
	leadSvc := application.NewLeadService(apptest.NewLeadRepo(), trips, publisher, logger)

	_, err = tripSvc.SeedCatalog(context.Background(), cat.Trips)
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager("test-secret", time.Minute, time.Hour)
	writeLimit := middleware.NewIPRateLimiter(0.001, burst).Middleware()

	router := gin.New()
	NewEstimateHandler(estimateSvc).RegisterRoutes(&router.RouterGroup)
	NewTripHandler(tripSvc, reviewSvc, estimateSvc).RegisterRoutes(&router.RouterGroup, writeLimit)
	NewLeadHandler(leadSvc).RegisterRoutes(&router.RouterGroup, writeLimit)
	NewAdminHandler(tripSvc, leadSvc).RegisterRoutes(&router.RouterGroup, jwtManager)

	return &testServer{router: router, jwtManager: jwtManager, publisher: publisher}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.RemoteAddr = "192.0.2.10:5555"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *testServer) token(t *testing.T, role auth.Role) string {
	t.Helper()
	token, err := s.jwtManager.GenerateAccessToken(uuid.New(), role)
	require.NoError(t, err)
	return token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}
