package service

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/logging"
)

const (
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
)

// requestID tags every request with an id. A valid UUID sent by the client is kept, anything
// else is replaced. The id is echoed in the response and carried by the request logger.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set(loggerKey, logger.With("requestId", id))
		c.Next()
	}
}

// requestLogger returns the logger of the current request.
func requestLogger(c *gin.Context) logging.Logger {
	if l, ok := c.Get(loggerKey); ok {
		if log, ok := l.(logging.Logger); ok {
			return log
		}
	}
	return logger
}
