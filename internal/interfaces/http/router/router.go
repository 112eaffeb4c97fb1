package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/infrastructure/auth"
	"github.com/canteen/backend/internal/infrastructure/config"
	"github.com/canteen/backend/internal/infrastructure/logger"
	"github.com/canteen/backend/internal/interfaces/http/handler"
	"github.com/canteen/backend/internal/interfaces/http/middleware"
)

// maxBodyBytes bounds request bodies; the largest legitimate payload is
// a checkout cart.
const maxBodyBytes = 1 << 20

// Dependencies carries everything the HTTP surface needs
type Dependencies struct {
	Config        *config.Config
	Logger        *zap.Logger
	JWTService    *auth.JWTService
	ScopeResolver middleware.ScopeResolver

	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Stores     *handler.StoreHandler
	Products   *handler.ProductHandler
	Categories *handler.CategoryHandler
	Students   *handler.StudentHandler
	Orders     *handler.OrderHandler
	Dashboard  *handler.DashboardHandler
}

// New builds the gin engine with all middleware and routes wired.
//
// Route tiers, innermost first:
//   - public: health, login
//   - authenticated: session, store selection
//   - head office: store and staff management
//   - store scoped: catalog, students, checkout, dashboard
func New(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(deps.Config.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies)
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(deps.Logger),
		logger.Recovery(deps.Logger),
		middleware.CORSWithConfig(corsConfig(deps.Config)),
		middleware.BodyLimit(maxBodyBytes),
	)

	api := engine.Group("/api/v1")

	deps.Health.RegisterRoutes(api)
	deps.Auth.RegisterPublicRoutes(api)

	authed := api.Group("", middleware.Auth(deps.JWTService))
	deps.Auth.RegisterRoutes(authed)
	deps.Stores.RegisterRoutes(authed)

	admin := authed.Group("", middleware.RequireRole(identity.RoleHeadOffice))
	deps.Stores.RegisterAdminRoutes(admin)
	deps.Users.RegisterRoutes(admin)

	scoped := authed.Group("", middleware.StoreContext(deps.ScopeResolver))
	deps.Products.RegisterRoutes(scoped)
	deps.Categories.RegisterRoutes(scoped)
	deps.Students.RegisterRoutes(scoped)
	deps.Orders.RegisterRoutes(scoped)
	deps.Dashboard.RegisterRoutes(scoped)

	return engine
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return corsCfg
}
