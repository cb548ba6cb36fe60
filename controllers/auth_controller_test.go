package controllers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aivora/aivora-backend/middleware"
	"github.com/aivora/aivora-backend/models"
	"github.com/aivora/aivora-backend/services"
)

func TestRegister(t *testing.T) {
	app := newTestApp(t)

	res := app.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "Student@Example.com",
		"password": "SecurePass123",
		"name":     "Student",
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	body := res.JSON(t)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "student@example.com", body["user"].(map[string]any)["email"])
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])
	assert.Equal(t, "Bearer", body["token_type"])

	var cookie *http.Cookie
	for _, ck := range res.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, body["access_token"], cookie.Value)

	var user models.User
	require.NoError(t, app.db.First(&user, "email = ?", "student@example.com").Error)
	assert.NotEqual(t, "SecurePass123", user.Password)
}

func TestRegisterDisplayNameAndDefault(t *testing.T) {
	app := newTestApp(t)

	res := app.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "dn@example.com", "password": "SecurePass123", "display_name": "Display",
	})
	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "Display", res.JSON(t)["user"].(map[string]any)["name"])

	res = app.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "noname@example.com", "password": "SecurePass123",
	})
	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "User", res.JSON(t)["user"].(map[string]any)["name"])
}

func TestRegisterRejections(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "taken@example.com")

	cases := []struct {
		name   string
		body   gin.H
		status int
	}{
		{"missing email", gin.H{"password": "SecurePass123"}, http.StatusBadRequest},
		{"missing password", gin.H{"email": "a@example.com"}, http.StatusBadRequest},
		{"blank fields", gin.H{"email": "  ", "password": "  "}, http.StatusBadRequest},
		{"bad email", gin.H{"email": "not-an-email", "password": "SecurePass123"}, http.StatusUnprocessableEntity},
		{"weak password", gin.H{"email": "b@example.com", "password": "weak"}, http.StatusUnprocessableEntity},
		{"duplicate", gin.H{"email": "taken@example.com", "password": "SecurePass123"}, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := app.do(t, http.MethodPost, "/api/auth/register", "", tc.body)
			assert.Equal(t, tc.status, res.Code, res.Body.String())
			assert.NotEmpty(t, res.JSON(t)["error"])
		})
	}
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "login@example.com")

	res := app.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "login@example.com", "password": "SecurePass123"})
	require.Equal(t, http.StatusOK, res.Code)
	body := res.JSON(t)
	assert.Equal(t, "login@example.com", body["user"].(map[string]any)["email"])
	assert.NotEmpty(t, body["access_token"])

	wrong := app.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "login@example.com", "password": "WrongPass123"})
	unknown := app.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ghost@example.com", "password": "SecurePass123"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.JSON(t)["error"], unknown.JSON(t)["error"])

	missing := app.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "login@example.com"})
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}

func TestMe(t *testing.T) {
	app := newTestApp(t)
	access, _ := app.register(t, "me@example.com")

	for _, path := range []string{"/api/auth/me", "/api/auth/profile"} {
		res := app.do(t, http.MethodGet, path, access, nil)
		require.Equal(t, http.StatusOK, res.Code, path)
		body := res.JSON(t)
		assert.Equal(t, "me@example.com", body["email"])
		assert.Equal(t, "Test User", body["name"])
		assert.Equal(t, body["user_id"], body["user"].(map[string]any)["id"])
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: access})
	assert.Equal(t, http.StatusOK, app.send(req).Code)

	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/api/auth/me", "", nil).Code)
}

func TestRefreshRotates(t *testing.T) {
	app := newTestApp(t)
	_, refresh := app.register(t, "rot@example.com")

	res := app.do(t, http.MethodPost, "/api/auth/refresh", "", gin.H{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	body := res.JSON(t)
	next := body["refresh_token"].(string)
	assert.NotEqual(t, refresh, next)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/auth/me", body["access_token"].(string), nil).Code)

	again := app.do(t, http.MethodPost, "/api/auth/refresh", "", gin.H{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, again.Code)

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/auth/refresh", "", gin.H{}).Code)
}

func TestLogoutIsIdempotent(t *testing.T) {
	app := newTestApp(t)
	_, refresh := app.register(t, "bye@example.com")

	res := app.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, true, res.JSON(t)["success"])

	res = app.do(t, http.MethodPost, "/api/auth/logout", "", gin.H{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, res.Code)
	for _, ck := range res.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			assert.Empty(t, ck.Value)
			assert.True(t, ck.MaxAge < 0)
		}
	}
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/api/auth/logout", "", gin.H{"refresh_token": refresh}).Code)

	// the revoked session cannot be refreshed
	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodPost, "/api/auth/refresh", "", gin.H{"refresh_token": refresh}).Code)
}

func TestGoogleLogin(t *testing.T) {
	app := newTestApp(t)

	res := app.do(t, http.MethodPost, "/api/auth/google", "", gin.H{"id_token": "tok"})
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)

	app.svc.Google = fakeGoogle{err: errors.New("bad audience")}
	res = app.do(t, http.MethodPost, "/api/auth/google", "", gin.H{"id_token": "tok"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	app.svc.Google = fakeGoogle{profile: services.GoogleProfile{Email: "g@example.com", Name: "Gee"}}
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/auth/google", "", gin.H{}).Code)

	for i := 0; i < 2; i++ {
		res = app.do(t, http.MethodPost, "/api/auth/google", "", gin.H{"id_token": "tok"})
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		assert.Equal(t, "Gee", res.JSON(t)["user"].(map[string]any)["name"])
	}
	var count int64
	app.db.Model(&models.User{}).Where("email = ?", "g@example.com").Count(&count)
	assert.Equal(t, int64(1), count)

	// google-only accounts have no local password
	login := app.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "g@example.com", "password": "anything"})
	assert.Equal(t, http.StatusUnauthorized, login.Code)
}

func TestChangePassword(t *testing.T) {
	app := newTestApp(t)
	access, refresh := app.register(t, "pw@example.com")

	res := app.do(t, http.MethodPut, "/api/auth/password", access, gin.H{"old_password": "Nope12345", "new_password": "NewSecure123"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = app.do(t, http.MethodPut, "/api/auth/password", access, gin.H{"old_password": "SecurePass123", "new_password": "weak"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)

	res = app.do(t, http.MethodPut, "/api/auth/password", access, gin.H{"old_password": "SecurePass123", "new_password": "NewSecure123"})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	login := app.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "pw@example.com", "password": "NewSecure123"})
	assert.Equal(t, http.StatusOK, login.Code)
	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodPost, "/api/auth/refresh", "", gin.H{"refresh_token": refresh}).Code)

	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodPut, "/api/auth/password", "", gin.H{}).Code)
}
