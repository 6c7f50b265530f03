// Package auth provides the authentication server: account registration,
// login and token verification for the logbook portal.
package auth

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
	"github.com/Sreehari-M-dev/LOGI-tests/web/middleware"
	"github.com/Sreehari-M-dev/LOGI-tests/web/network"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	listener   net.Listener

	settings config.ServerSettings
	issuer   *token.Issuer
	limiter  middleware.RateStore

	auth   *AuthController
	health *controller.HealthController

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer(issuer *token.Issuer, limiter middleware.RateStore) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		settings: config.GetAuthServer(),
		issuer:   issuer,
		limiter:  limiter,
		ctx:      ctx,
		cancel:   cancel,
	}
}

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
	limit.KeyFunc = func(c *gin.Context) string { return "auth:" + c.ClientIP() }

	engine.Use(
		middleware.CORS(config.GetCORSOrigins()),
		middleware.SecurityHeaders(),
		middleware.RateLimitMiddleware(limit),
		middleware.BodyLimit(middleware.MaxBodyBytes),
		gzip.Gzip(gzip.DefaultCompression),
	)
	s.health = controller.NewHealthController(engine, "Auth Server", s.settings.Port)

	g := engine.Group("/api/auth")
	s.auth = NewAuthController(g, s.issuer)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "error": "Not found"})
	})
	return engine
}

func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	engine := s.initRouter()

	listener, err := network.Listen("Auth Server", s.settings)
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

	return nil
}

func (s *Server) Stop() error {
	s.cancel()

	var err1, err2 error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err1 = s.httpServer.Shutdown(ctx)
	}
	if s.listener != nil {
		if err := s.listener.Close(); !errors.Is(err, net.ErrClosed) {
			err2 = err
		}
	}
	return common.Combine(err1, err2)
}

// Handler returns the configured engine without listening, for tests.
func (s *Server) Handler() http.Handler {
	return s.initRouter()
}
