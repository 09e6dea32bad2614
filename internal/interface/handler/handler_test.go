package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"chalet-booking-service/internal/domain/entity"
	"chalet-booking-service/internal/domain/repository"
	"chalet-booking-service/internal/usecase"
	"chalet-booking-service/pkg/logger"
	"chalet-booking-service/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var testMetrics = metrics.NewMetrics("chalet_handler_test")

// memBookingRepo is a minimal in-memory BookingRepository for handler tests
type memBookingRepo struct {
	bookings map[string]*entity.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*entity.Booking)}
}

func (r *memBookingRepo) Insert(_ context.Context, b *entity.Booking) error {
	clone := *b
	r.bookings[b.BookingID] = &clone
	return nil
}

func (r *memBookingRepo) FindByID(_ context.Context, id string) (*entity.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *memBookingRepo) FindByDate(_ context.Context, date string, statuses []string) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.Date == date && statusIn(b.Status, statuses) {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memBookingRepo) Find(_ context.Context, f repository.BookingFilter) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.bookings {
		if !statusIn(b.Status, f.Statuses) {
			continue
		}
		if f.NationalID != "" && b.NationalID != f.NationalID {
			continue
		}
		if f.DateFrom != "" && b.Date < f.DateFrom {
			continue
		}
		if f.DateTo != "" && b.Date > f.DateTo {
			continue
		}
		if f.Search != "" {
			s := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(b.CustomerName), s) &&
				!strings.Contains(strings.ToLower(b.CustomerPhone), s) {
				continue
			}
		}
		clone := *b
		out = append(out, &clone)
	}
	if f.SortByCreatedDesc {
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

func (r *memBookingRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	b, ok := r.bookings[id]
	if !ok {
		return entity.ErrNotFound
	}
	if v, ok := fields["status"]; ok {
		b.Status = v.(string)
	}
	if v, ok := fields["totalAmount"]; ok {
		total := v.(float64)
		b.TotalAmount = &total
	}
	return nil
}

func (r *memBookingRepo) Delete(_ context.Context, id string) error {
	delete(r.bookings, id)
	return nil
}

func (r *memBookingRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if b.Status == status {
			n++
		}
	}
	return n, nil
}

func statusIn(status string, set []string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

type memNotifier struct {
	sent int
	err  error
}

func (n *memNotifier) Send(_ context.Context, _, _, _ string) error {
	if n.err != nil {
		return n.err
	}
	n.sent++
	return nil
}

type memAdminRepo struct {
	admin *entity.Admin
}

func (r *memAdminRepo) GetByEmail(_ context.Context, email string) (*entity.Admin, error) {
	if r.admin != nil && r.admin.Email == email {
		return r.admin, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type testEnv struct {
	router   *gin.Engine
	repo     *memBookingRepo
	notifier *memNotifier
	auth     *usecase.AdminAuth
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNopLogger()
	repo := newMemBookingRepo()
	notifier := &memNotifier{}

	clock := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	var tick time.Duration
	now := func() time.Time {
		tick += time.Millisecond
		return clock.Add(tick)
	}

	lifecycle := usecase.NewBookingLifecycle(repo, notifier, log, testMetrics, usecase.LifecycleConfig{
		DepositMin:   50,
		DepositMax:   5000,
		CutoffHour:   15,
		CancelPolicy: entity.CancelPolicyImmediateDelete,
		Now:          now,
	})

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	adminRepo := &memAdminRepo{admin: &entity.Admin{ID: 1, Email: "admin@example.com", PasswordHash: string(hash)}}
	auth := usecase.NewAdminAuth(adminRepo, log, "handler-test-key", time.Hour)

	bookingHandler := NewBookingHandler(lifecycle, log)
	adminHandler := NewAdminHandler(lifecycle, auth, log)
	router := NewRouter(bookingHandler, adminHandler, auth, testMetrics)

	return &testEnv{router: router, repo: repo, notifier: notifier, auth: auth}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload interface{}, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func validBookingPayload() map[string]interface{} {
	return map[string]interface{}{
		"date":          "2025-06-01",
		"customerName":  "Ahmed Ali",
		"customerPhone": "0512345678",
		"nationalId":    "1234567890",
		"depositAmount": 100,
	}
}

func loginToken(t *testing.T, env *testEnv) string {
	t.Helper()
	w, resp := doJSON(t, env.router, "POST", "/api/v1/admin/login", map[string]interface{}{
		"email":    "admin@example.com",
		"password": "s3cret",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	return data["token"].(string)
}

func TestCreateBookingEndpoint(t *testing.T) {
	env := setupTestRouter(t)

	w, resp := doJSON(t, env.router, "POST", "/api/v1/bookings", validBookingPayload(), "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, resp["status"])

	data := resp["data"].(map[string]interface{})
	assert.True(t, strings.HasPrefix(data["bookingId"].(string), "BK"))
	assert.Equal(t, "pending", data["status"])
}

func TestCreateBookingValidationEndpoint(t *testing.T) {
	env := setupTestRouter(t)

	payload := validBookingPayload()
	payload["customerPhone"] = "12345"
	w, resp := doJSON(t, env.router, "POST", "/api/v1/bookings", payload, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, false, resp["status"])
	assert.Contains(t, resp["message"], "phone")
}

func TestCreateBookingConflictEndpoint(t *testing.T) {
	env := setupTestRouter(t)

	w, _ := doJSON(t, env.router, "POST", "/api/v1/bookings", validBookingPayload(), "")
	require.Equal(t, http.StatusCreated, w.Code)

	// Same customer, same date
	w, _ = doJSON(t, env.router, "POST", "/api/v1/bookings", validBookingPayload(), "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Different customer, same date
	payload := validBookingPayload()
	payload["customerName"] = "Sara Omar"
	payload["customerPhone"] = "0587654321"
	payload["nationalId"] = "2987654321"
	w, _ = doJSON(t, env.router, "POST", "/api/v1/bookings", payload, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	env := setupTestRouter(t)

	w, resp := doJSON(t, env.router, "GET", "/api/v1/bookings/availability?date=2025-06-01", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, true, data["available"])

	doJSON(t, env.router, "POST", "/api/v1/bookings", validBookingPayload(), "")

	w, resp = doJSON(t, env.router, "GET", "/api/v1/bookings/availability?date=2025-06-01", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, false, data["available"])

	w, _ = doJSON(t, env.router, "GET", "/api/v1/bookings/availability", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLookupEndpoint(t *testing.T) {
	env := setupTestRouter(t)

	doJSON(t, env.router, "POST", "/api/v1/bookings", validBookingPayload(), "")

	w, resp := doJSON(t, env.router, "GET", "/api/v1/bookings/lookup?national_id=1234567890", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	found := resp["data"].([]interface{})
	assert.Len(t, found, 1)

	w, _ = doJSON(t, env.router, "GET", "/api/v1/bookings/lookup", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarHidesIdentity(t *testing.T) {
	env := setupTestRouter(t)

	doJSON(t, env.router, "POST", "/api/v1/bookings", validBookingPayload(), "")

	w, _ := doJSON(t, env.router, "GET", "/api/v1/calendar", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Ahmed")
	assert.NotContains(t, w.Body.String(), "1234567890")
	assert.Contains(t, w.Body.String(), "2025-06-01")
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := setupTestRouter(t)

	w, _ := doJSON(t, env.router, "GET", "/api/v1/admin/bookings", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req, _ := http.NewRequest("GET", "/api/v1/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w2 := httptest.NewRecorder()
	env.router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}

func TestAdminLoginRejectsBadPassword(t *testing.T) {
	env := setupTestRouter(t)

	w, _ := doJSON(t, env.router, "POST", "/api/v1/admin/login", map[string]interface{}{
		"email":    "admin@example.com",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminConfirmFlow(t *testing.T) {
	env := setupTestRouter(t)
	token := loginToken(t, env)

	w, resp := doJSON(t, env.router, "POST", "/api/v1/bookings", validBookingPayload(), "")
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := resp["data"].(map[string]interface{})["bookingId"].(string)

	// Total below the deposit is rejected
	w, _ = doJSON(t, env.router, "PATCH", "/api/v1/admin/bookings/"+bookingID+"/status", map[string]interface{}{
		"status":      "confirmed",
		"totalAmount": 10,
	}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, resp = doJSON(t, env.router, "PATCH", "/api/v1/admin/bookings/"+bookingID+"/status", map[string]interface{}{
		"status":      "confirmed",
		"totalAmount": 150,
	}, token)
	assert.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "confirmed", data["status"])

	// Listing reflects the new status
	w, resp = doJSON(t, env.router, "GET", "/api/v1/admin/bookings", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	listed := resp["data"].([]interface{})
	require.Len(t, listed, 1)
	assert.Equal(t, "confirmed", listed[0].(map[string]interface{})["status"])
}

func TestAdminCancelFlow(t *testing.T) {
	env := setupTestRouter(t)
	token := loginToken(t, env)

	w, resp := doJSON(t, env.router, "POST", "/api/v1/bookings", validBookingPayload(), "")
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := resp["data"].(map[string]interface{})["bookingId"].(string)

	w, _ = doJSON(t, env.router, "PATCH", "/api/v1/admin/bookings/"+bookingID+"/status", map[string]interface{}{
		"status": "cancelled",
	}, token)
	assert.Equal(t, http.StatusOK, w.Code)

	// Cancelling a purged booking is a 404
	w, _ = doJSON(t, env.router, "PATCH", "/api/v1/admin/bookings/"+bookingID+"/status", map[string]interface{}{
		"status": "cancelled",
	}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Unknown target status is a 400
	w, _ = doJSON(t, env.router, "PATCH", "/api/v1/admin/bookings/"+bookingID+"/status", map[string]interface{}{
		"status": "archived",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminSweepAndStats(t *testing.T) {
	env := setupTestRouter(t)
	token := loginToken(t, env)

	w, resp := doJSON(t, env.router, "POST", "/api/v1/bookings", validBookingPayload(), "")
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := resp["data"].(map[string]interface{})["bookingId"].(string)

	w, _ = doJSON(t, env.router, "PATCH", "/api/v1/admin/bookings/"+bookingID+"/status", map[string]interface{}{
		"status":      "confirmed",
		"totalAmount": 120,
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, env.router, "GET", "/api/v1/admin/stats", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	stats := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["total"])
	assert.Equal(t, float64(1), stats["confirmed"])

	// Nothing has elapsed yet, so the sweep removes nothing
	w, resp = doJSON(t, env.router, "POST", "/api/v1/admin/sweep", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), resp["data"].(map[string]interface{})["removed"])
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestRouter(t)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Healthy", w.Body.String())
}
