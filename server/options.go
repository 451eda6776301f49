package server

import (
	"context"

	"MediCareHMS/config"

	"github.com/gin-gonic/gin"
)

type Options struct {
	Config *config.Config

	MongoEnabled bool
	CacheEnabled bool

	MigrationEnabled bool
	MigrationHandler func(ctx context.Context, app *App) error

	JobsEnabled bool
	JobsHandler func(ctx context.Context, app *App)

	WebServerEnabled    bool
	WebServerPort       string
	WebServerPreHandler func(r *gin.Engine, app *App)
}

func GetDefaultOptions() Options {
	return Options{
		MongoEnabled:     true,
		CacheEnabled:     true,
		MigrationEnabled: true,
		JobsEnabled:      true,
		WebServerEnabled: true,
	}
}

func (o Options) port() string {
	if o.WebServerPort != "" {
		return o.WebServerPort
	}
	if o.Config != nil && o.Config.HTTP.Port != "" {
		return o.Config.HTTP.Port
	}
	return "5000"
}
