package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"MediCareHMS/server"
	"MediCareHMS/slots"
	"MediCareHMS/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intercept(t *testing.T) (*server.Options, *[]server.Options) {
	isTest = true
	var served server.Options
	var tasks []server.Options
	startServer = func(opts server.Options) { served = opts }
	runTask = func(opts server.Options, _ func(context.Context, *server.App) error) error {
		tasks = append(tasks, opts)
		return nil
	}
	t.Cleanup(func() {
		isTest = false
		startServer = server.Start
		runTask = server.RunTask
	})
	return &served, &tasks
}

func TestRun_ServeIsDefault(t *testing.T) {
	served, _ := intercept(t)
	t.Setenv("PORT", "5055")

	require.NoError(t, run(nil))
	assert.True(t, served.MongoEnabled)
	assert.True(t, served.WebServerEnabled)
	assert.False(t, served.MigrationEnabled)
	assert.False(t, served.JobsEnabled)
	assert.Equal(t, "5055", served.WebServerPort)

	// handlers are no-ops under test
	served.JobsHandler(context.Background(), nil)
	assert.NoError(t, served.MigrationHandler(context.Background(), nil))
	served.WebServerPreHandler(gin.New(), nil)
}

func TestRun_ServeCommand(t *testing.T) {
	served, _ := intercept(t)
	require.NoError(t, run([]string{"serve"}))
	assert.NotNil(t, served.Config)
}

func TestRun_Tasks(t *testing.T) {
	_, tasks := intercept(t)

	require.NoError(t, run([]string{"seed"}))
	require.NoError(t, run([]string{"migrate"}))
	require.NoError(t, run([]string{"bootstrap-admin", "--email", "root@medicare.com", "--password", "secret1"}))
	assert.Len(t, *tasks, 3)
	for _, opts := range *tasks {
		assert.True(t, opts.MongoEnabled)
		assert.False(t, opts.WebServerEnabled)
	}
}

func TestRun_BootstrapAdminNeedsFlags(t *testing.T) {
	_, tasks := intercept(t)
	assert.Error(t, run([]string{"bootstrap-admin", "--email", "root@medicare.com"}))
	assert.Empty(t, *tasks)
}

func TestRun_UnknownCommand(t *testing.T) {
	intercept(t)
	assert.Error(t, run([]string{"nope"}))
}

func TestRun_SlotsCommand(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := gin.New()
	api.GET("/api/appointments/available-slots/:doctorId/:date", func(c *gin.Context) {
		assert.Equal(t, "Bearer tok-1", c.GetHeader("Authorization"))
		c.JSON(http.StatusOK, util.SuccessResponse(gin.H{
			"date":           c.Param("date"),
			"availableSlots": []slots.Slot{{Time: "09:00", Available: true}},
		}))
	})
	srv := httptest.NewServer(api)
	defer srv.Close()
	t.Setenv("API_BASE_URL", srv.URL)

	assert.NoError(t, run([]string{"slots", "--doctor", "64b7f0c2a1b2c3d4e5f60718", "--date", "June 4, 2025", "--token", "tok-1"}))
	assert.Error(t, run([]string{"slots", "--doctor", "64b7f0c2a1b2c3d4e5f60718", "--date", "whenever"}))
}
