package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"MediCareHMS/cache"
	"MediCareHMS/config"
	"MediCareHMS/events"
	"MediCareHMS/routes"
	"MediCareHMS/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func testConfig(t *testing.T) *config.Config {
	t.Setenv("APP_ENV", "test")
	t.Setenv("JWT_SECRET", "server-test-secret")
	cfg, err := config.Parse()
	require.NoError(t, err)
	return cfg
}

// The driver connects lazily, so wiring needs no running server.
func lazyDatabase(t *testing.T) *mongo.Database {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client.Database("hospital_management_test")
}

func testEngine(t *testing.T) (*App, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	app := Build(testConfig(t), lazyDatabase(t), cache.NewMemory(128, time.Minute))
	t.Cleanup(app.Close)
	r := NewEngine(app, Options{WebServerPreHandler: func(r *gin.Engine, app *App) {
		routes.Routes(r, app.Services)
	}})
	return app, r
}

func do(r http.Handler, method, path, body string, header http.Header) (*httptest.ResponseRecorder, util.Envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env util.Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestBuild_WiresEveryService(t *testing.T) {
	app, _ := testEngine(t)
	s := app.Services
	assert.NotNil(t, s.Tokens)
	assert.NotNil(t, s.Auth)
	assert.NotNil(t, s.Patients)
	assert.NotNil(t, s.Doctors)
	assert.NotNil(t, s.Appointments)
	assert.NotNil(t, s.Billing)
	assert.NotNil(t, s.Notifications)
	assert.Equal(t, "specializations", s.Specializations.Name)
	assert.Equal(t, "departments", s.Departments.Name)
	assert.Same(t, s.Auth, app.Seeder.Auth)
	assert.Nil(t, s.Notifications.Mailer)
}

func TestBuild_MailerWhenSMTPConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.SMTP.Host = "smtp.example.com"
	cfg.SMTP.Username = "noreply@example.com"
	app := Build(cfg, lazyDatabase(t), cache.NewMemory(128, time.Minute))
	defer app.Close()

	assert.NotNil(t, app.Services.Notifications.Mailer)
	assert.NotNil(t, app.Services.Billing.Mailer)
}

func TestBuild_CancelEventDropsSlotCache(t *testing.T) {
	c := cache.NewMemory(128, time.Minute)
	app := Build(testConfig(t), lazyDatabase(t), c)
	defer app.Close()

	ctx := context.Background()
	key := cache.SlotCacheKey("64b7f0c2a1b2c3d4e5f60718", "2025-06-04")
	require.NoError(t, c.SetCache(ctx, key, []string{"09:00"}, time.Minute))

	app.Bus.Publish(ctx, events.Event{
		Type:     events.AppointmentCancelled,
		DoctorID: "64b7f0c2a1b2c3d4e5f60718",
		Date:     "2025-06-04",
		Time:     "09:00",
	})

	var out []string
	assert.Eventually(t, func() bool {
		found, _ := c.GetCache(ctx, key, &out)
		return !found
	}, time.Second, 10*time.Millisecond)
}

func TestEngine_Health(t *testing.T) {
	_, r := testEngine(t)
	w, env := do(r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", env.Status)
	assert.Contains(t, w.Body.String(), "Hospital Management API is running")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestEngine_UnknownRoute(t *testing.T) {
	_, r := testEngine(t)
	w, env := do(r, http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Route /api/unknown not found", env.Message)
}

func TestEngine_ProtectedRoutesNeedToken(t *testing.T) {
	_, r := testEngine(t)
	for _, path := range []string{"/api/patients", "/api/appointments", "/api/billing", "/api/notifications", "/api/auth/me"} {
		w, env := do(r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, util.TOKEN_MISSING, env.Message, path)
	}

	w, env := do(r, http.MethodGet, "/api/patients", "", http.Header{"Authorization": {"Bearer nope"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, util.TOKEN_INVALID, env.Message)
}

func TestEngine_RoleGate(t *testing.T) {
	app, r := testEngine(t)
	tok, err := app.Services.Tokens.Generate("64b7f0c2a1b2c3d4e5f60718", "jane", "patient")
	require.NoError(t, err)

	w, env := do(r, http.MethodGet, "/api/patients", "", http.Header{"Authorization": {"Bearer " + tok}})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, util.ACCESS_DENIED, env.Message)
}

func TestEngine_MalformedBody(t *testing.T) {
	_, r := testEngine(t)
	w, env := do(r, http.MethodPost, "/api/auth/login", "{", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", env.Status)
}

func TestOptions_Port(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTTP.Port = "6000"
	assert.Equal(t, "6000", Options{Config: cfg}.port())
	assert.Equal(t, "7000", Options{Config: cfg, WebServerPort: "7000"}.port())
	assert.Equal(t, "5000", Options{}.port())
}

func TestApp_CloseRunsInReverse(t *testing.T) {
	var order []int
	app := &App{}
	app.OnShutdown(func() { order = append(order, 1) })
	app.OnShutdown(func() { order = append(order, 2) })
	app.Close()
	app.Close()
	assert.Equal(t, []int{2, 1}, order)
}

func TestRunTask_RequiresMongo(t *testing.T) {
	var ran bool
	err := RunTask(Options{Config: testConfig(t)}, func(ctx context.Context, app *App) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, ErrMongoDisabled)
	assert.False(t, ran)
}
