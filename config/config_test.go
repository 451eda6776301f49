package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.HTTP.Port)
	assert.Equal(t, EnvDevelopment, cfg.App.Env)
	assert.Equal(t, "hospital_management", cfg.Mongo.Database)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.False(t, cfg.CacheEnabled())
	assert.Equal(t, 1024, cfg.Cache.Size)
	assert.False(t, cfg.MailEnabled())
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("PORT", "8080")
	t.Setenv("MONGODB_URI", "mongodb://db:27017/clinic?retryWrites=true")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CACHE_SIZE", "64")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "clinic", cfg.Mongo.Database)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.CORSOrigins)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, 64, cfg.Cache.Size)
}

func TestDatabaseFromURI(t *testing.T) {
	assert.Equal(t, "hospital_management", DatabaseFromURI("mongodb://localhost:27017"))
	assert.Equal(t, "hospital_management", DatabaseFromURI("mongodb://localhost:27017/"))
	assert.Equal(t, "records", DatabaseFromURI("mongodb+srv://u:p@cluster.example.net/records"))
}

func TestLocation(t *testing.T) {
	cfg := &Config{}
	cfg.App.Timezone = "Local"
	assert.Equal(t, time.Local, cfg.Location())

	cfg.App.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())

	cfg.App.Timezone = "Not/AZone"
	assert.Equal(t, time.Local, cfg.Location())
}
