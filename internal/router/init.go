package router

import (
	app "github.com/portfoliopro/portfoliopro/internal/application"
	"github.com/portfoliopro/portfoliopro/internal/container"
	pginfra "github.com/portfoliopro/portfoliopro/internal/infrastructure/postgres"
	handlers "github.com/portfoliopro/portfoliopro/internal/interface/http"
	"github.com/portfoliopro/portfoliopro/internal/interface/middleware"
	"github.com/portfoliopro/portfoliopro/internal/router/modules"
	"github.com/portfoliopro/portfoliopro/internal/tenancy"
)

// InitModules builds the repositories, services and handlers from the
// container singletons and registers every feature module. Called once
// during startup, before Registry.RegisterAll.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	portfolioRepo := pginfra.NewPortfolioRepository(container.GetPGPool())
	themeRepo := pginfra.NewThemeRepository(container.GetPGPool())

	resolver := tenancy.NewResolver(tenancy.Config{
		BaseDomain:         cfg.BaseDomain,
		ReservedLabels:     cfg.ReservedLabels(),
		AllowQueryOverride: cfg.TenantDevOverride && cfg.Env != "production",
		CacheTTL:           cfg.TenantCacheTTL,
	}, userRepo, container.GetRedis(), logger)
	container.SetResolver(resolver)

	// Email publishing is optional; the app runs without the broker.
	var emails app.EmailQueue
	if pub := container.GetRabbitPub(); pub != nil {
		emails = pub
	}

	accounts := app.NewAccountService(
		userRepo,
		container.GetJWT(),
		container.GetRedis(),
		logger,
		emails,
		resolver,
		cfg.BaseDomain,
		cfg.RefreshTTL,
	)
	portfolios := app.NewPortfolioService(
		portfolioRepo,
		themeRepo,
		container.GetRedis(),
		logger,
		container.GetGCS(),
		cfg.GCSBucket,
		cfg.PortfolioCacheTTL,
	)
	themes := app.NewThemeService(themeRepo, container.GetRedis(), logger, cfg.PortfolioCacheTTL)
	admin := app.NewAdminService(
		userRepo,
		portfolioRepo,
		accounts,
		resolver,
		emails,
		logger,
		container.GetES(),
		cfg.ESUsersIndex,
		cfg.ImpersonationTTL,
	)

	authHandler := handlers.NewAuthHandler(accounts, logger, cfg.CookieDomain, cfg.CookieSecure)
	portfolioHandler := handlers.NewPortfolioHandler(portfolios, logger)
	themeHandler := handlers.NewThemeHandler(themes, logger)
	adminHandler := handlers.NewAdminHandler(admin, themes, logger, cfg.CookieDomain, cfg.CookieSecure)
	siteHandler := handlers.NewSiteHandler(portfolios, logger, container.GetPGPool(), container.GetRedis(), cfg.AppName, cfg.BaseDomain)

	// Tenant resolution runs on every API request, ahead of the modules.
	r.Use(middleware.Tenant(resolver))

	r.Add(modules.NewSiteModule(siteHandler))
	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewPortfolioModule(portfolioHandler, container.GetJWT()))
	r.Add(modules.NewThemeModule(themeHandler, container.GetJWT()))
	r.Add(modules.NewAdminModule(adminHandler, container.GetJWT()))
}
