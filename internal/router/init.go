package router

import (
	userapp "github.com/oksasatya/user-records-api/internal/application"
	"github.com/oksasatya/user-records-api/internal/container"
	pginfra "github.com/oksasatya/user-records-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/user-records-api/internal/interface/http"
	"github.com/oksasatya/user-records-api/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	pool := container.GetPGPool()
	cfg := container.GetConfig()
	logger := container.GetLogger()

	repo := pginfra.NewUserRepository(pool)
	service := userapp.NewUserService(repo, logger)
	userHandler := handlers.NewUserHandler(service, logger, cfg.Env)
	healthHandler := handlers.NewHealthHandler(pool, cfg.AppName)

	r.Add(modules.NewUserModule(userHandler))
	r.Add(modules.NewHealthModule(healthHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
