package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skillbridge/internal/ai"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/domain/analytics"
	"skillbridge/internal/domain/recommendation"
	"skillbridge/internal/pkg/logger"
	"skillbridge/internal/usecase"
	ucauth "skillbridge/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecommendations struct {
	got   usecase.RecommendationParams
	calls int
}

func (s *stubRecommendations) Get(_ context.Context, _ uuid.UUID, p usecase.RecommendationParams) (usecase.RecommendationResult, error) {
	s.got = p
	s.calls++
	return usecase.RecommendationResult{Timeframe: recommendation.Timeframe3Months}, nil
}

func (s *stubRecommendations) UpdatePreferencesAndRegenerate(context.Context, uuid.UUID, usecase.ProfileInput, int) (usecase.RecommendationResult, error) {
	return usecase.RecommendationResult{}, nil
}

type stubAnalytics struct {
	usecase.AnalyticsUsecase
	format usecase.ExportFormat
}

func (s *stubAnalytics) Export(_ context.Context, _ uuid.UUID, f usecase.ExportFormat) (usecase.AnalyticsExport, error) {
	s.format = f
	out := usecase.AnalyticsExport{Format: f, Filename: "skillbridge-analytics-20260520." + string(f)}
	if f == usecase.ExportCSV {
		out.Body = []byte("section,metric,value\nprogress,completion_rate,50\n")
	}
	out.Snapshot.Progress = analytics.ProgressSnapshot{CompletionRate: 50}
	return out, nil
}

type stubProgress struct {
	usecase.ProgressUsecase
	limits []int
}

func (s *stubProgress) List(_ context.Context, _ uuid.UUID, _ *uuid.UUID, limit int) (usecase.ProgressHistory, error) {
	s.limits = append(s.limits, limit)
	return usecase.ProgressHistory{}, nil
}

type stubAuth struct {
	refreshed string
	err       error
}

func (s *stubAuth) Register(context.Context, ucauth.RegisterInput) (usecase.Session, error) {
	return usecase.Session{}, s.err
}

func (s *stubAuth) Login(context.Context, ucauth.LoginInput) (usecase.Session, error) {
	return usecase.Session{}, s.err
}

func (s *stubAuth) Refresh(_ context.Context, tok string) (usecase.Session, error) {
	s.refreshed = tok
	if s.err != nil {
		return usecase.Session{}, s.err
	}
	return usecase.Session{AccessToken: "access", RefreshToken: "refresh"}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// newApp mounts routes behind a fake session for userID.
func newApp(userID uuid.UUID, register func(r fiber.Router)) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(logger.Nop()).Middleware())
	app.Use(func(c fiber.Ctx) error {
		c.Locals(middleware.CtxUserIDKey, userID)
		return c.Next()
	})
	register(app)
	return app
}

func call(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decode(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

func TestRecommendation_QueryParsing(t *testing.T) {
	uc := &stubRecommendations{}
	app := newApp(uuid.New(), NewRecommendationHandler(uc).RegisterRoutes)

	resp, body := call(t, app, httptest.NewRequest(http.MethodGet, "/?count=3&includeMarketData=true&timeframe=6months", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, usecase.RecommendationParams{Count: 3, IncludeMarketData: true, Timeframe: "6months"}, uc.got)

	cases := []struct {
		query, message string
	}{
		{"count=abc", "count must be a positive integer"},
		{"count=0", "count must be a positive integer"},
		{"includeMarketData=maybe", "includeMarketData must be true or false"},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			resp, body := call(t, app, httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil))
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			env := decode(t, body)
			assert.Equal(t, "Bad request", env.Error)
			assert.Equal(t, tc.message, env.Message)
		})
	}
	assert.Equal(t, 1, uc.calls)
}

func TestAnalytics_ExportCSVIsAttachment(t *testing.T) {
	uc := &stubAnalytics{}
	app := newApp(uuid.New(), NewAnalyticsHandler(uc).RegisterRoutes)

	req := httptest.NewRequest(http.MethodPost, "/export", strings.NewReader(`{"format":"CSV"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body := call(t, app, req)

	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, usecase.ExportCSV, uc.format)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "skillbridge-analytics-20260520.csv")
	assert.True(t, strings.HasPrefix(string(body), "section,metric,value\n"))
}

func TestAnalytics_ExportDefaultsToJSON(t *testing.T) {
	uc := &stubAnalytics{}
	app := newApp(uuid.New(), NewAnalyticsHandler(uc).RegisterRoutes)

	resp, body := call(t, app, httptest.NewRequest(http.MethodPost, "/export", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, usecase.ExportJSON, uc.format)
	env := decode(t, body)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"progress"`)

	req := httptest.NewRequest(http.MethodPost, "/export", strings.NewReader(`{"format":"xml"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body = call(t, app, req)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "format must be json or csv", decode(t, body).Message)
}

func TestLearning_ProgressLimitPassthrough(t *testing.T) {
	uc := &stubProgress{}
	app := newApp(uuid.New(), NewLearningHandler(nil, uc).RegisterRoutes)

	resp, _ := call(t, app, httptest.NewRequest(http.MethodGet, "/progress", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, app, httptest.NewRequest(http.MethodGet, "/progress?limit=7", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body := call(t, app, httptest.NewRequest(http.MethodGet, "/progress?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, decode(t, body).Success)

	assert.Equal(t, []int{0, 7}, uc.limits)
}

func TestAuth_RefreshTokenSources(t *testing.T) {
	t.Run("bearer header wins", func(t *testing.T) {
		uc := &stubAuth{}
		app := newApp(uuid.Nil, NewAuthHandler(uc).RegisterRoutes)
		req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"refreshToken":"from-body"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer from-header")

		resp, body := call(t, app, req)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
		assert.Equal(t, "from-header", uc.refreshed)
		assert.JSONEq(t, `{"accessToken":"access","refreshToken":"refresh"}`, string(decode(t, body).Data))
	})

	t.Run("body fallback", func(t *testing.T) {
		uc := &stubAuth{}
		app := newApp(uuid.Nil, NewAuthHandler(uc).RegisterRoutes)
		req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"refreshToken":" from-body "}`))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := call(t, app, req)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "from-body", uc.refreshed)
	})

	t.Run("expired", func(t *testing.T) {
		uc := &stubAuth{err: usecase.ErrRefreshTokenExpired}
		app := newApp(uuid.Nil, NewAuthHandler(uc).RegisterRoutes)
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.Header.Set("Authorization", "Bearer old")

		resp, body := call(t, app, req)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Refresh token expired", decode(t, body).Message)
	})
}

func TestAuth_RegisterErrors(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{ucauth.ErrEmailAlreadyRegistered, fiber.StatusConflict, "Email already registered"},
		{ucauth.ErrInvalidInput, fiber.StatusBadRequest, "A valid email and a password of at least 8 characters are required"},
		{ucauth.ErrInternal, fiber.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			app := newApp(uuid.Nil, NewAuthHandler(&stubAuth{err: tc.err}).RegisterRoutes)
			req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"email":"a@b.io","password":"x"}`))
			req.Header.Set("Content-Type", "application/json")

			resp, body := call(t, app, req)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.message, decode(t, body).Message)
		})
	}
}

func TestMapUsecaseError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", &usecase.ValidationError{Message: "title is required"}, fiber.StatusBadRequest, "title is required"},
		{"not found entity", &usecase.NotFoundError{Entity: "learning path"}, fiber.StatusNotFound, "Learning path not found"},
		{"forbidden", usecase.ErrForbidden, fiber.StatusForbidden, "Forbidden"},
		{"conflict", usecase.ErrConflict, fiber.StatusConflict, "Conflict"},
		{"ai quota", &ai.Error{Kind: ai.KindQuotaExceeded, Status: 429}, fiber.StatusTooManyRequests, "AI provider quota exceeded, try again later"},
		{"wrapped internal", errors.Join(usecase.ErrInternal, errors.New("boom")), fiber.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var appErr *middleware.AppError
			require.ErrorAs(t, mapUsecaseError(tc.err), &appErr)
			assert.Equal(t, tc.status, appErr.StatusCode)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
	assert.NoError(t, mapUsecaseError(nil))
}

func TestHealth_CheckAlwaysReportsTime(t *testing.T) {
	h := NewHealthHandler(nil, nil, logger.Nop())
	app := newApp(uuid.Nil, h.RegisterRoutes)

	before := time.Now().UTC().Add(-time.Second)
	resp, body := call(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var out struct {
		Data healthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "unavailable", out.Data.Status)
	assert.True(t, out.Data.Time.After(before))
}
