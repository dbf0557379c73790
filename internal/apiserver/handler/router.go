package handler

import (
	"net/http"
	"time"

	"github.com/amoylab/sdctrack/internal/apiserver/middleware"
	"github.com/amoylab/sdctrack/internal/common/config"
	"github.com/amoylab/sdctrack/internal/common/errorx"
	"github.com/amoylab/sdctrack/internal/entity"
	"github.com/amoylab/sdctrack/internal/i18n"
	"github.com/amoylab/sdctrack/internal/store"
	"github.com/amoylab/sdctrack/pkg/metrics"
	"github.com/amoylab/sdctrack/pkg/trace"
	"github.com/amoylab/sdctrack/pkg/version"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterOptions carries everything NewRouter wires together
type RouterOptions struct {
	Config      *config.APIServerConfig
	Collections *store.Collections
	Translator  *i18n.Translator
	Metrics     *metrics.Metrics // nil disables /metrics
	Logger      *zap.Logger
}

// NewRouter builds the gin engine with middleware and all API routes
func NewRouter(opts RouterOptions) *gin.Engine {
	cfg := opts.Config
	logger := opts.Logger
	entity.RegisterValidators()

	resp := i18n.NewResponder(opts.Translator, cfg.I18n.DefaultLanguage, logger)
	h := NewHandler(opts.Collections, resp, logger, cfg.Authz.EnforceAuthz())
	admin := entity.SuperAdmin(cfg.SuperAdmin.Username, cfg.SuperAdmin.Password)

	r := gin.New()
	// spans wrap the request logger so log lines carry the trace id
	if cfg.Tracing.Enabled {
		r.Use(trace.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.Logger(logger), middleware.Recovery(logger, resp))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	r.Use(i18n.LanguageMiddleware(cfg.I18n.DefaultLanguage))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Get()})
	})
	r.NoRoute(func(c *gin.Context) {
		resp.Error(c, errorx.ErrRouteNotFound)
	})

	users := opts.Collections.Users
	api := r.Group("/api",
		middleware.SuperAdminGuard(users, admin, logger, resp),
		middleware.Identity(users, resp),
	)

	api.POST("/auth/login", h.Login)

	u := api.Group("/users", h.seed(users))
	u.GET("", h.ListUsers)
	u.POST("", h.CreateUser)
	u.GET("/:id", h.GetUser)
	u.PUT("/:id", h.UpdateUser)
	u.DELETE("/:id", h.DeleteUser)

	registerCRUD(h, api, opts.Collections.Sponsors)
	registerCRUD(h, api, opts.Collections.Centers)
	registerCRUD(h, api, opts.Collections.Researchers)
	registerCRUD(h, api, opts.Collections.ProjectCodes)
	registerCRUD(h, api, opts.Collections.WorkPerformed)

	sdc := api.Group("/sdc-tracking", h.seed(opts.Collections.SdcEntries, opts.Collections.SdcWorkItems))
	sdc.GET("", h.ListSdcEntries)
	sdc.POST("", h.CreateSdcEntry)
	sdc.GET("/:id", h.GetSdcEntry)
	sdc.PUT("/:id", h.UpdateSdcEntry)
	sdc.DELETE("/:id", h.DeleteSdcEntry)
	sdc.GET("/:id/work-items", h.ListWorkItems)
	sdc.POST("/:id/work-items", h.CreateWorkItem)
	sdc.DELETE("/:id/work-items/:itemId", h.DeleteWorkItem)

	stats := api.Group("/stats")
	for path, col := range h.statRoutes() {
		stats.GET("/"+path, h.countHandler(col))
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cc := cors.DefaultConfig()
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	cc.AllowHeaders = append(cc.AllowHeaders, middleware.HeaderUserID, i18n.HeaderLang, "Accept-Language")
	cc.MaxAge = 12 * time.Hour
	return cc
}
