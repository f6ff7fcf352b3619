package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-api/kds"
	"github.com/yeremiapane/restaurant-api/middlewares"
	"github.com/yeremiapane/restaurant-api/utils"
)

type KDSController struct {
	Hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewKDSController accepts upgrades from allowedOrigin, or from any origin when it is "*".
func NewKDSController(hub *kds.Hub, allowedOrigin string) *KDSController {
	return &KDSController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "*" || origin == "" || strings.EqualFold(origin, allowedOrigin)
			},
		},
	}
}

// KDSHandler -> websocket endpoint streaming order and table events to staff
func (kc *KDSController) KDSHandler(c *gin.Context) {
	identity, ok := middlewares.CurrentIdentity(c)
	if !ok {
		utils.RespondError(c, utils.Unauthenticated())
		return
	}

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.LoggerFrom(c).WithError(err).Warn("websocket upgrade failed")
		return
	}

	kc.Hub.Register(ws, string(identity.Role))
	defer kc.Hub.Unregister(ws)

	// Clients only listen; reading detects disconnects.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}
