package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-api/config"
	"github.com/yeremiapane/restaurant-api/database"
	"github.com/yeremiapane/restaurant-api/kds"
	"github.com/yeremiapane/restaurant-api/router"
	"github.com/yeremiapane/restaurant-api/utils"
)

type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.FromEnv(func(key string) string {
		switch key {
		case "JWT_SECRET":
			return "controllers-test-secret"
		case "BCRYPT_COST":
			return "4"
		case "AUTH_RATE_LIMIT":
			return "1000"
		case "AUTH_RATE_BURST":
			return "1000"
		}
		return ""
	})
	require.NoError(t, err)
	cfg.UploadDir = t.TempDir()

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	log := utils.NewTestLogger()
	r := router.SetupRouter(router.Deps{
		Config:    cfg,
		DB:        db,
		Log:       log,
		Publisher: kds.Discard,
	})
	return &testApp{router: r, db: db, cfg: cfg}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// signupAndLogin registers a user through the API and returns a session token.
func (a *testApp) signupAndLogin(t *testing.T, email string, isAdmin bool) string {
	t.Helper()
	creds := map[string]string{"email": email, "password": "secret!1"}

	w := a.do(t, http.MethodPost, fmt.Sprintf("/auth/signup?isAdmin=%t", isAdmin), "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/auth/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp envelope[struct {
		Token string `json:"token"`
	}]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var resp envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}
