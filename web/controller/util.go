package controller

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/Sreehari-M-dev/LOGI-tests/logger"
	"github.com/Sreehari-M-dev/LOGI-tests/web/entity"
	"github.com/Sreehari-M-dev/LOGI-tests/web/service"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return strings.TrimSpace(ips[0])
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// jsonMsg sends a success envelope with a message.
func jsonMsg(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, entity.Msg{Success: true, Message: msg})
}

// jsonList sends a list envelope.
func jsonList[T any](c *gin.Context, data []T) {
	c.JSON(http.StatusOK, entity.ListResponse{
		Msg:   entity.Msg{Success: true},
		Count: len(data),
		Data:  data,
	})
}

// pureJsonMsg sends a failure envelope with a custom status code.
func pureJsonMsg(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, entity.Msg{Error: msg})
}

// jsonError maps a service error to a status. Unexpected errors are logged
// and answered with a generic message.
func jsonError(c *gin.Context, action string, err error) {
	var ie *service.InputError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &ie):
		pureJsonMsg(c, http.StatusBadRequest, ie.Msg)
	case errors.As(err, &tooLarge):
		pureJsonMsg(c, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.Is(err, service.ErrNotFound):
		pureJsonMsg(c, http.StatusNotFound, "Not found")
	default:
		logger.Warningf("%s failed for %s: %v", action, getRemoteIp(c), err)
		pureJsonMsg(c, http.StatusInternalServerError, "Internal server error")
	}
}
