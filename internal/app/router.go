package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/noah-wardlow/tt/internal/app/middleware"
	"github.com/noah-wardlow/tt/internal/config"
	"github.com/noah-wardlow/tt/internal/domain/user"
	"github.com/noah-wardlow/tt/internal/infrastructure/ratelimit"
	"github.com/noah-wardlow/tt/internal/payments"
)

// RouterDeps aggregates HTTP dependencies.
type RouterDeps struct {
	Config      *config.Config
	Sessions    middleware.SessionResolver
	AuthHandler http.Handler
	UserHandler *user.Handler
	Webhooks    *payments.WebhookHandler
	AuthLimiter ratelimit.Limiter
	Logger      *zap.Logger
}

// NewRouter builds the gin engine with the full route table.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(deps.Config.Cors))
	r.Use(middleware.IdentityContext(deps.Sessions, deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))

	// Liveness probe, never guarded.
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Auth routes pass through to the auth service's own handler.
	authProxy := authPassthrough(deps.AuthHandler, deps.Logger)
	authRoutes := r.Group("/auth")
	if deps.Config.RateLimit.Enabled {
		authRoutes.Use(middleware.RateLimit(deps.AuthLimiter))
	}
	authRoutes.GET("/*action", authProxy)
	authRoutes.POST("/*action", authProxy)

	// Session echo. The check is inlined rather than using RequireUser;
	// behavior is identical.
	r.GET("/session", func(c *gin.Context) {
		identity := middleware.Current(c)
		if identity.User == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": identity.Session, "user": identity.User})
	})

	guard := middleware.RequireUser()
	deps.Webhooks.RegisterRoutes(r, guard)
	deps.UserHandler.RegisterRoutes(r, guard)

	if deps.Config.Monitoring.PrometheusEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return r
}

// authPassthrough forwards the request to the auth service handler. A
// fault inside that handler must surface as a structured 500, never as a
// crashed dispatch layer.
func authPassthrough(handler http.Handler, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("auth handler fault", zap.Any("panic", rec))
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Authentication error",
					"details": fmt.Sprint(rec),
				})
			}
		}()
		handler.ServeHTTP(c.Writer, c.Request)
	}
}
