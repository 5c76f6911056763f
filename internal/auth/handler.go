package auth

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Handler struct {
	authService Service
}

func NewHandler(authService Service) *Handler {
	return &Handler{
		authService: authService,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeJSONError writes the single-field error envelope used by the whole API.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"error": message})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "not enough parameters")
		return
	}

	accessToken, refreshToken, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			writeJSONError(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, ErrInternalError.Error())
		return
	}

	h.authService.SetAuthCookies(w, accessToken, refreshToken)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(refreshCookieName); err != nil {
		writeJSONError(w, http.StatusBadRequest, "You are not logged in")
		return
	}

	h.authService.ClearAuthCookies(w)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]string{"message": "Logged out"},
	})
}
