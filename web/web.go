// Package web provides the logbook server: routing, middleware and the
// background jobs that maintain the store.
package web

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Sreehari-M-dev/LOGI-tests/config"
	"github.com/Sreehari-M-dev/LOGI-tests/logger"
	"github.com/Sreehari-M-dev/LOGI-tests/util/common"
	"github.com/Sreehari-M-dev/LOGI-tests/util/token"
	"github.com/Sreehari-M-dev/LOGI-tests/web/controller"
	"github.com/Sreehari-M-dev/LOGI-tests/web/job"
	"github.com/Sreehari-M-dev/LOGI-tests/web/middleware"
	"github.com/Sreehari-M-dev/LOGI-tests/web/network"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

const shutdownTimeout = 5 * time.Second

// Server is the logbook HTTP service.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	settings config.ServerSettings
	issuer   *token.Issuer
	limiter  middleware.RateStore

	health  *controller.HealthController
	logbook *controller.LogBookController

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a logbook server that verifies tokens with issuer and
// counts requests in limiter.
func NewServer(issuer *token.Issuer, limiter middleware.RateStore) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		settings: config.GetLogbookServer(),
		issuer:   issuer,
		limiter:  limiter,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// initRouter initializes Gin, registers middleware and controllers and
// returns the configured engine.
func (s *Server) initRouter() *gin.Engine {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	if err := engine.SetTrustedProxies(config.GetTrustedProxies()); err != nil {
		logger.Warning("invalid trusted proxies, trusting none:", err)
		_ = engine.SetTrustedProxies(nil)
	}

	limit := middleware.DefaultRateLimitConfig(s.limiter)
	limit.Max = config.GetRateLimitMax()
	limit.Window = config.GetRateLimitWindow()
	limit.KeyFunc = func(c *gin.Context) string { return "logbook:" + c.ClientIP() }

	engine.Use(
		middleware.CORS(config.GetCORSOrigins()),
		middleware.SecurityHeaders(),
		middleware.RateLimitMiddleware(limit),
		middleware.BodyLimit(middleware.MaxBodyBytes),
		gzip.Gzip(gzip.DefaultCompression),
	)
	s.health = controller.NewHealthController(engine, "Log Book Server", s.settings.Port)

	api := engine.Group("/api/logbook", middleware.BearerAuth(s.issuer))
	s.logbook = controller.NewLogBookController(api, config.IsStrictRows())

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "error": "Not found"})
	})

	return engine
}

// startTask schedules the store maintenance jobs.
func (s *Server) startTask() {
	if _, err := s.cron.AddJob("@every 10m", job.NewCheckpointJob()); err != nil {
		logger.Warning("Add CheckpointJob error", err)
	}
	if _, err := s.cron.AddJob("@daily", job.NewAuditCleanupJob(config.GetAuditRetentionDays())); err != nil {
		logger.Warning("Add AuditCleanupJob error", err)
	}
}

// Start opens the listener and serves in the background.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	engine := s.initRouter()

	listener, err := network.Listen("Log Book Server", s.settings)
	if err != nil {
		return err
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:     engine,
		BaseContext: func(net.Listener) context.Context { return s.ctx },
	}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()
	return nil
}

// Stop shuts down the server and its jobs.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err1 = s.httpServer.Shutdown(ctx)
	}
	if s.listener != nil {
		// Shutdown closes it when Serve is already running.
		if err := s.listener.Close(); !errors.Is(err, net.ErrClosed) {
			err2 = err
		}
	}
	return common.Combine(err1, err2)
}

// Handler returns the configured engine without listening, for tests.
func (s *Server) Handler() http.Handler { return s.initRouter() }
