package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-api/utils"
)

// RequireWebSocket rejects plain HTTP requests on websocket-only routes.
func RequireWebSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !websocket.IsWebSocketUpgrade(c.Request) {
			c.AbortWithStatusJSON(http.StatusBadRequest, utils.ErrorResponse{
				Message:    "Websocket upgrade required.",
				StatusCode: http.StatusBadRequest,
			})
			return
		}
		c.Next()
	}
}
