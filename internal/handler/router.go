package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mindcare/backend/internal/config"
	resourceHandler "github.com/mindcare/backend/internal/handler/resource"
	"github.com/mindcare/backend/internal/handler/stream"
	supportHandler "github.com/mindcare/backend/internal/handler/support"
	wellnessHandler "github.com/mindcare/backend/internal/handler/wellness"
	middlewarePkg "github.com/mindcare/backend/internal/middleware"
	"github.com/mindcare/backend/internal/model/resource"
	supportService "github.com/mindcare/backend/internal/service/support"
	wellnessService "github.com/mindcare/backend/internal/service/wellness"
	"github.com/mindcare/backend/pkg/utils"
)

// Services HTTP层依赖的业务服务
type Services struct {
	Support   *supportService.Service
	Wellness  *wellnessService.Service
	Resources resource.Store
}

// NewRouter 将HTTP路由绑定到核心服务
func NewRouter(cfg config.ServerConfig, logger *zap.Logger, svcs Services) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	startedAt := time.Now()

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"uptime": time.Since(startedAt).Round(time.Second).String(),
		})
	})

	r.Route("/api", func(api chi.Router) {
		// SSE与WebSocket长连接不进入超时分组
		supportHandler.New(svcs.Support, logger).RegisterRoutes(api)
		stream.New(svcs.Support, logger).RegisterRoutes(api)

		api.Group(func(rest chi.Router) {
			if cfg.RequestTimeout > 0 {
				rest.Use(middleware.Timeout(cfg.RequestTimeout))
			}
			wellnessHandler.New(svcs.Wellness, logger).RegisterRoutes(rest)
			resourceHandler.New(svcs.Resources).RegisterRoutes(rest)
		})
	})

	return r
}
