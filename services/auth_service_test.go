package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/utils"
)

func newAuthService(t *testing.T) (*AuthService, *utils.TokenService) {
	t.Helper()
	env := newTestEnv(t)
	tokens := utils.NewTokenService([]byte("test-secret"), time.Hour)
	return NewAuthService(env.repo, utils.NewPasswordHasher(bcrypt.MinCost), tokens, utils.NewTestLogger()), tokens
}

func TestSignup_RoleFromFlag(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	admin, err := svc.Signup(ctx, SignupInput{Email: "Boss@Example.com", Password: "secret!1", IsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, "boss@example.com", admin.Email)
	assert.NotEqual(t, "secret!1", admin.Password)

	waiter, err := svc.Signup(ctx, SignupInput{Email: "waiter@example.com", Password: "secret!1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleWaiter, waiter.Role)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, err := svc.Signup(ctx, SignupInput{Email: "waiter@example.com", Password: "secret!1"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupInput{Email: "WAITER@example.com", Password: "other!12"})
	appErr := utils.AsAppError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "The user entered already exist", appErr.Message)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newAuthService(t)

	user, err := svc.Signup(ctx, SignupInput{Email: "waiter@example.com", Password: "secret!1"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, "waiter@example.com", "secret!1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.UserID)

	claims, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "waiter@example.com", claims.Email)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "waiter", claims.Role)

	_, err = svc.Login(ctx, "waiter@example.com", "wrong!pass")
	assert.Equal(t, "Invalid password.", utils.AsAppError(err).Message)

	_, err = svc.Login(ctx, "nobody@example.com", "secret!1")
	appErr := utils.AsAppError(err)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "User not found.", appErr.Message)
}
