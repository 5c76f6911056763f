package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestHandleLogin_Success(t *testing.T) {
	service, _ := newTestAuthService(t)
	handler := NewHandler(service)

	r := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"mario@example.com","password":"secret123"}`))
	w := httptest.NewRecorder()
	handler.HandleLogin(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	data, ok := decodeBody(t, w)["data"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEmpty(t, data["refreshToken"])

	names := make(map[string]string)
	for _, cookie := range w.Result().Cookies() {
		names[cookie.Name] = cookie.Path
	}
	assert.Equal(t, cookiePath, names[accessCookieName])
	assert.Equal(t, cookiePath, names[refreshCookieName])
}

func TestHandleLogin_MissingParameters(t *testing.T) {
	service, _ := newTestAuthService(t)
	handler := NewHandler(service)

	r := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"mario@example.com"}`))
	w := httptest.NewRecorder()
	handler.HandleLogin(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "not enough parameters", decodeBody(t, w)["error"])
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	service, _ := newTestAuthService(t)
	handler := NewHandler(service)

	r := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"mario@example.com","password":"wrong"}`))
	w := httptest.NewRecorder()
	handler.HandleLogin(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleLogout(t *testing.T) {
	service, manager := newTestAuthService(t)
	handler := NewHandler(service)

	refresh, err := manager.Generate("mario", "mario@example.com", "Regular", defaultRefreshTokenDuration)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/logout", nil)
	r.AddCookie(&http.Cookie{Name: refreshCookieName, Value: refresh})
	w := httptest.NewRecorder()
	handler.HandleLogout(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	for _, cookie := range w.Result().Cookies() {
		assert.Equal(t, -1, cookie.MaxAge)
	}
}

func TestHandleLogout_NotLoggedIn(t *testing.T) {
	service, _ := newTestAuthService(t)
	handler := NewHandler(service)

	r := httptest.NewRequest(http.MethodGet, "/api/logout", nil)
	w := httptest.NewRecorder()
	handler.HandleLogout(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You are not logged in", decodeBody(t, w)["error"])
}
