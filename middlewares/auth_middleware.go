package middlewares

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/utils"
)

const identityKey = "identity"

// Identity is the authenticated user attached to the request context.
type Identity struct {
	UserID uint
	Email  string
	Role   models.Role
}

// UserFinder looks up the account a token was issued for.
type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenVerifier checks a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*utils.CustomClaims, error)
}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header belonging to an existing user.
func AuthMiddleware(tokens TokenVerifier, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			utils.RespondError(c, utils.Unauthenticated())
			return
		}
		authenticate(c, tokens, users, strings.TrimSpace(token))
	}
}

// WebSocketAuthMiddleware authenticates websocket upgrades, which carry the token in the query string.
func WebSocketAuthMiddleware(tokens TokenVerifier, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			utils.RespondError(c, utils.Unauthenticated())
			return
		}
		authenticate(c, tokens, users, token)
	}
}

func authenticate(c *gin.Context, tokens TokenVerifier, users UserFinder, token string) {
	claims, err := tokens.Verify(token)
	if err != nil {
		utils.LoggerFrom(c).WithError(err).Debug("token rejected")
		utils.RespondError(c, utils.Unauthenticated())
		return
	}

	user, err := users.FindUserByEmail(c.Request.Context(), claims.Email)
	if err != nil {
		utils.LoggerFrom(c).WithError(err).WithField("email", claims.Email).Debug("token user not found")
		utils.RespondError(c, utils.Unauthenticated())
		return
	}

	identity := &Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
	c.Set(identityKey, identity)
	utils.SetLogger(c, utils.LoggerFrom(c).WithField("user_id", user.ID))
	c.Next()
}

// CurrentIdentity returns the identity set by AuthMiddleware.
func CurrentIdentity(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*Identity)
	return identity, ok
}
