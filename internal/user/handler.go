package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mzawadzki/WalletManager/internal/auth"
)

type Handler struct {
	service      Service
	authService  auth.Service
	respondData  func(w http.ResponseWriter, status int, payload interface{}, refreshedToken string)
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewHandler(
	service Service,
	authService auth.Service,
	respondData func(w http.ResponseWriter, status int, payload interface{}, refreshedToken string),
	respondError func(w http.ResponseWriter, status int, message string),
) *Handler {
	if service == nil || authService == nil || respondData == nil || respondError == nil {
		panic("service, auth service and response functions must not be nil")
	}
	return &Handler{
		service:      service,
		authService:  authService,
		respondData:  respondData,
		respondError: respondError,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, RoleRegular, "User added successfully")
}

func (h *Handler) HandleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, RoleAdmin, "Admin added successfully")
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request, role, successMessage string) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, err := h.service.Register(req.Username, req.Email, req.Password, role)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields),
			errors.Is(err, ErrInvalidEmailFormat),
			errors.Is(err, ErrUserAlreadyExists):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.respondData(w, http.StatusOK, map[string]string{"message": successMessage}, "")
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	res, ok := h.authService.Authorize(w, r, auth.ScopeAdmin())
	if !ok {
		return
	}

	users, err := h.service.GetUsers()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.respondData(w, http.StatusOK, users, res.RefreshedAccessToken)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	res, ok := h.authService.Authorize(w, r, auth.ScopeUser(username), auth.ScopeAdmin())
	if !ok {
		return
	}

	u, err := h.service.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			h.respondError(w, http.StatusBadRequest, "User not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.respondData(w, http.StatusOK, u, res.RefreshedAccessToken)
}

func (h *Handler) GetGroups(w http.ResponseWriter, r *http.Request) {
	res, ok := h.authService.Authorize(w, r, auth.ScopeAdmin())
	if !ok {
		return
	}

	groups, err := h.service.GetGroups()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.respondData(w, http.StatusOK, groups, res.RefreshedAccessToken)
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	group, err := h.service.GetGroup(name)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			h.respondError(w, http.StatusBadRequest, "Group not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	res, ok := h.authService.Authorize(w, r, auth.ScopeGroup(h.membershipCheck(name)), auth.ScopeAdmin())
	if !ok {
		return
	}
	h.respondData(w, http.StatusOK, group, res.RefreshedAccessToken)
}

// membershipCheck adapts the service's raw email membership lookup into
// the predicate shape the group scope expects.
func (h *Handler) membershipCheck(groupName string) func(email string) bool {
	return func(email string) bool {
		member, err := h.service.IsMember(groupName, email)
		return err == nil && member
	}
}
