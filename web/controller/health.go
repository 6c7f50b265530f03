package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Sreehari-M-dev/LOGI-tests/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/atomic"
)

// HealthController serves /health and counts the requests of its engine.
type HealthController struct {
	status   string
	started  time.Time
	requests atomic.Int64
	inFlight atomic.Int32
}

// NewHealthController installs the request counter on engine and registers
// /health. Call it before registering other routes.
func NewHealthController(engine *gin.Engine, name string, port int) *HealthController {
	a := &HealthController{
		status:  fmt.Sprintf("%s running on port %d", name, port),
		started: time.Now(),
	}
	engine.Use(a.count)
	engine.GET("/health", a.health)
	return a
}

func (a *HealthController) count(c *gin.Context) {
	a.requests.Inc()
	a.inFlight.Inc()
	defer a.inFlight.Dec()
	c.Next()
}

func (a *HealthController) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   a.status,
		"version":  config.GetVersion(),
		"uptime":   int64(time.Since(a.started).Seconds()),
		"requests": a.requests.Load(),
		"inFlight": a.inFlight.Load(),
	})
}
