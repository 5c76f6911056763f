package interfaces

import (
	"encoding/json"
	"net/http"

	"github.com/mzawadzki/WalletManager/internal/auth"
	"github.com/mzawadzki/WalletManager/internal/wallet/domain"
	walletErrors "github.com/mzawadzki/WalletManager/internal/wallet/errors"
)

type CategoryService interface {
	Create(categoryType, color string) (domain.Category, error)
	Update(oldType, newType, color string) (int64, error)
	DeleteMany(types []string) (int64, error)
	GetAll() ([]domain.Category, error)
}

type CategoryHandler struct {
	service      CategoryService
	authService  auth.Service
	respondData  func(w http.ResponseWriter, status int, payload interface{}, refreshedToken string)
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewCategoryHandler(
	service CategoryService,
	authService auth.Service,
	respondData func(w http.ResponseWriter, status int, payload interface{}, refreshedToken string),
	respondError func(w http.ResponseWriter, status int, message string),
) *CategoryHandler {
	if service == nil || authService == nil || respondData == nil || respondError == nil {
		panic("service, auth service and response functions must not be nil")
	}
	return &CategoryHandler{
		service:      service,
		authService:  authService,
		respondData:  respondData,
		respondError: respondError,
	}
}

type createCategoryRequest struct {
	Type  *string `json:"type"`
	Color *string `json:"color"`
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	res, ok := h.authService.Authorize(w, r, auth.ScopeAdmin())
	if !ok {
		return
	}

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Type == nil || req.Color == nil {
		h.respondError(w, http.StatusBadRequest, "not enough parameters")
		return
	}

	category, err := h.service.Create(*req.Type, *req.Color)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondData(w, http.StatusCreated, category, res.RefreshedAccessToken)
}

type updateCategoryRequest struct {
	Type  *string `json:"type"`
	Color *string `json:"color"`
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	res, ok := h.authService.Authorize(w, r, auth.ScopeAdmin())
	if !ok {
		return
	}

	oldType := r.PathValue("type")

	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Type == nil || req.Color == nil {
		h.respondError(w, http.StatusBadRequest, "not enough parameters")
		return
	}

	count, err := h.service.Update(oldType, *req.Type, *req.Color)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondData(w, http.StatusOK, map[string]interface{}{
		"message": "Category edited successfully",
		"count":   count,
	}, res.RefreshedAccessToken)
}

type deleteCategoriesRequest struct {
	Types *[]string `json:"types"`
}

func (h *CategoryHandler) DeleteCategories(w http.ResponseWriter, r *http.Request) {
	res, ok := h.authService.Authorize(w, r, auth.ScopeAdmin())
	if !ok {
		return
	}

	var req deleteCategoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Types == nil {
		h.respondError(w, http.StatusBadRequest, "Some attributes are missing")
		return
	}

	count, err := h.service.DeleteMany(*req.Types)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondData(w, http.StatusOK, map[string]interface{}{
		"message": "Categories deleted successfully",
		"count":   count,
	}, res.RefreshedAccessToken)
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	res, ok := h.authService.Authorize(w, r, auth.ScopeSimple())
	if !ok {
		return
	}

	categories, err := h.service.GetAll()
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondData(w, http.StatusOK, categories, res.RefreshedAccessToken)
}

func (h *CategoryHandler) respondServiceError(w http.ResponseWriter, err error) {
	if walletErrors.IsValidationError(err) || walletErrors.IsNotFoundError(err) {
		h.respondError(w, walletErrors.HTTPStatus(err), err.Error())
		return
	}
	h.respondError(w, http.StatusInternalServerError, "Internal server error")
}
