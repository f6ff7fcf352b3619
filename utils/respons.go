package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message    string       `json:"message"`
	Data       []FieldError `json:"data,omitempty"`
	StatusCode int          `json:"statusCode"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError writes err as an ErrorResponse and aborts the chain.
func RespondError(c *gin.Context, err error) {
	appErr := AsAppError(err)
	if appErr.Kind == KindInternal {
		LoggerFrom(c).WithError(appErr.Err).Error("request failed")
	}
	c.AbortWithStatusJSON(appErr.Status, ErrorResponse{
		Message:    appErr.Message,
		Data:       appErr.Data,
		StatusCode: appErr.Status,
	})
}

const loggerKey = "logger"

// SetLogger stores the request-scoped log entry on the context.
func SetLogger(c *gin.Context, entry *logrus.Entry) {
	c.Set(loggerKey, entry)
}

// LoggerFrom returns the request-scoped log entry, or the standard logger when none was set.
func LoggerFrom(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(loggerKey); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
