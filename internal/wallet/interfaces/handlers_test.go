package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mzawadzki/WalletManager/internal/auth"
	"github.com/mzawadzki/WalletManager/internal/user"
)

// stubAuthService answers scope checks without real tokens so handler tests
// can focus on request parsing and response shape.
type stubAuthService struct {
	authorized bool
	cause      string
	refreshed  string
	claims     *auth.Claims
}

func (s *stubAuthService) Login(email, password string) (string, string, error) {
	return "", "", nil
}

func (s *stubAuthService) Authorize(w http.ResponseWriter, r *http.Request, scopes ...auth.Scope) (auth.AuthResult, bool) {
	if !s.authorized {
		cause := s.cause
		if cause == "" {
			cause = auth.CauseUnauthorized
		}
		testRespondError(w, http.StatusUnauthorized, cause)
		return auth.AuthResult{}, false
	}
	return auth.AuthResult{Claims: s.claims, RefreshedAccessToken: s.refreshed}, true
}

func (s *stubAuthService) SetAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {}

func (s *stubAuthService) ClearAuthCookies(w http.ResponseWriter) {}

type stubGroupSource struct {
	groups map[string]*user.Group
}

func (s *stubGroupSource) GetGroup(name string) (*user.Group, error) {
	group, ok := s.groups[name]
	if !ok {
		return nil, user.ErrGroupNotFound
	}
	return group, nil
}

func (s *stubGroupSource) IsMember(groupName, email string) (bool, error) {
	group, err := s.GetGroup(groupName)
	if err != nil {
		return false, err
	}
	for _, member := range group.Members {
		if member == email {
			return true, nil
		}
	}
	return false, nil
}

func testRespondData(w http.ResponseWriter, status int, payload interface{}, refreshedToken string) {
	body := map[string]interface{}{"data": payload}
	if refreshedToken != "" {
		body["refreshedAccessToken"] = refreshedToken
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func testRespondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}
