package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-api/models"
)

func TestSignup(t *testing.T) {
	app := setupApp(t)

	w := app.do(t, http.MethodPost, "/auth/signup?isAdmin=true", "", map[string]string{
		"email":    "Chef@Example.com",
		"password": "secret!1",
		"name":     "Head Chef",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[models.User](t, w)
	assert.True(t, resp.Status)
	assert.Equal(t, "User has been created!", resp.Message)
	assert.Equal(t, "chef@example.com", resp.Data.Email)
	assert.Equal(t, models.RoleAdmin, resp.Data.Role)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestSignup_Validation(t *testing.T) {
	app := setupApp(t)

	w := app.do(t, http.MethodPost, "/auth/signup", "", map[string]string{"email": "a@example.com", "password": "secret!1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "isAdmin", body.Data[0].Field)

	w = app.do(t, http.MethodPost, "/auth/signup?isAdmin=maybe", "", map[string]string{"email": "a@example.com", "password": "secret!1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/auth/signup?isAdmin=false", "", map[string]string{"email": "not-an-email", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body = decodeError(t, w)
	assert.Equal(t, "Validations failed", body.Message)
	fields := map[string]string{}
	for _, fe := range body.Data {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "Please enter a valid email", fields["email"])
	assert.Equal(t, "Password must contain at least one special character", fields["password"])
}

func TestSignup_Duplicate(t *testing.T) {
	app := setupApp(t)
	creds := map[string]string{"email": "waiter@example.com", "password": "secret!1"}

	require.Equal(t, http.StatusCreated, app.do(t, http.MethodPost, "/auth/signup?isAdmin=false", "", creds).Code)

	w := app.do(t, http.MethodPost, "/auth/signup?isAdmin=false", "", creds)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "The user entered already exist", decodeError(t, w).Message)
}

func TestLogin(t *testing.T) {
	app := setupApp(t)
	token := app.signupAndLogin(t, "waiter@example.com", false)
	assert.NotEmpty(t, token)

	w := app.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "waiter@example.com", "password": "wrong!pass"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Invalid password.", decodeError(t, w).Message)

	w = app.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "secret!1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found.", decodeError(t, w).Message)
}
