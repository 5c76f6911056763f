package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mzawadzki/WalletManager/internal/auth"
	"github.com/mzawadzki/WalletManager/internal/user"
	"github.com/mzawadzki/WalletManager/internal/wallet/domain"
	walletErrors "github.com/mzawadzki/WalletManager/internal/wallet/errors"
)

const dateLayout = "2006-01-02"

type TransactionService interface {
	Create(username, amount, transactionType string) (domain.Transaction, error)
	DeleteOne(owner, transactionID string) error
	DeleteMany(transactionIDs []string) error
	GetAll() ([]domain.LabeledTransaction, error)
	GetByUser(username string, filter domain.TransactionFilter) ([]domain.LabeledTransaction, error)
	GetByUserAndCategory(username, categoryType string, filter domain.TransactionFilter) ([]domain.LabeledTransaction, error)
	GetByGroup(groupName, categoryType string, filter domain.TransactionFilter) ([]domain.LabeledTransaction, error)
}

// GroupSource answers the two group questions the handlers need: whether
// the group exists at all, and whether an email belongs to it.
type GroupSource interface {
	GetGroup(name string) (*user.Group, error)
	IsMember(groupName, email string) (bool, error)
}

type TransactionHandler struct {
	service      TransactionService
	groups       GroupSource
	authService  auth.Service
	respondData  func(w http.ResponseWriter, status int, payload interface{}, refreshedToken string)
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewTransactionHandler(
	service TransactionService,
	groups GroupSource,
	authService auth.Service,
	respondData func(w http.ResponseWriter, status int, payload interface{}, refreshedToken string),
	respondError func(w http.ResponseWriter, status int, message string),
) *TransactionHandler {
	if service == nil || groups == nil || authService == nil || respondData == nil || respondError == nil {
		panic("service, group source, auth service and response functions must not be nil")
	}
	return &TransactionHandler{
		service:      service,
		groups:       groups,
		authService:  authService,
		respondData:  respondData,
		respondError: respondError,
	}
}

type createTransactionRequest struct {
	Amount *json.RawMessage `json:"amount"`
	Type   *string          `json:"type"`
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	res, ok := h.authService.Authorize(w, r, auth.ScopeUser(username))
	if !ok {
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount == nil || req.Type == nil {
		h.respondError(w, http.StatusBadRequest, "not enough parameters")
		return
	}

	transaction, err := h.service.Create(username, rawAmountString(*req.Amount), *req.Type)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondData(w, http.StatusCreated, transaction, res.RefreshedAccessToken)
}

func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	res, ok := h.authService.Authorize(w, r, auth.ScopeAdmin())
	if !ok {
		return
	}

	transactions, err := h.service.GetAll()
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondData(w, http.StatusOK, transactions, res.RefreshedAccessToken)
}

func (h *TransactionHandler) GetUserTransactions(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	res, ok := h.authService.Authorize(w, r, auth.ScopeUser(username))
	if !ok {
		return
	}

	filter, filterErr := parseTransactionFilter(r)
	if filterErr != "" {
		h.respondError(w, http.StatusBadRequest, filterErr)
		return
	}

	transactions, err := h.service.GetByUser(username, filter)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondData(w, http.StatusOK, transactions, res.RefreshedAccessToken)
}

func (h *TransactionHandler) GetUserTransactionsAsAdmin(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	res, ok := h.authService.Authorize(w, r, auth.ScopeAdmin())
	if !ok {
		return
	}

	transactions, err := h.service.GetByUser(username, domain.TransactionFilter{})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondData(w, http.StatusOK, transactions, res.RefreshedAccessToken)
}

func (h *TransactionHandler) GetUserCategoryTransactions(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	res, ok := h.authService.Authorize(w, r, auth.ScopeUser(username))
	if !ok {
		return
	}

	filter, filterErr := parseTransactionFilter(r)
	if filterErr != "" {
		h.respondError(w, http.StatusBadRequest, filterErr)
		return
	}

	transactions, err := h.service.GetByUserAndCategory(username, r.PathValue("category"), filter)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondData(w, http.StatusOK, transactions, res.RefreshedAccessToken)
}

func (h *TransactionHandler) GetUserCategoryTransactionsAsAdmin(w http.ResponseWriter, r *http.Request) {
	res, ok := h.authService.Authorize(w, r, auth.ScopeAdmin())
	if !ok {
		return
	}

	transactions, err := h.service.GetByUserAndCategory(r.PathValue("username"), r.PathValue("category"), domain.TransactionFilter{})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondData(w, http.StatusOK, transactions, res.RefreshedAccessToken)
}

func (h *TransactionHandler) GetGroupTransactions(w http.ResponseWriter, r *http.Request) {
	h.serveGroupTransactions(w, r, "")
}

func (h *TransactionHandler) GetGroupCategoryTransactions(w http.ResponseWriter, r *http.Request) {
	h.serveGroupTransactions(w, r, r.PathValue("category"))
}

// serveGroupTransactions handles the member-facing group routes. The group
// is resolved before authorization so an unknown group reports 400 rather
// than a misleading 401.
func (h *TransactionHandler) serveGroupTransactions(w http.ResponseWriter, r *http.Request, categoryType string) {
	name := r.PathValue("name")

	if _, err := h.groups.GetGroup(name); err != nil {
		if errors.Is(err, user.ErrGroupNotFound) {
			h.respondError(w, http.StatusBadRequest, "Group not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	isMember := func(email string) bool {
		member, err := h.groups.IsMember(name, email)
		return err == nil && member
	}
	res, ok := h.authService.Authorize(w, r, auth.ScopeGroup(isMember), auth.ScopeAdmin())
	if !ok {
		return
	}

	transactions, err := h.service.GetByGroup(name, categoryType, domain.TransactionFilter{})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondData(w, http.StatusOK, transactions, res.RefreshedAccessToken)
}

func (h *TransactionHandler) GetGroupTransactionsAsAdmin(w http.ResponseWriter, r *http.Request) {
	h.serveGroupTransactionsAsAdmin(w, r, "")
}

func (h *TransactionHandler) GetGroupCategoryTransactionsAsAdmin(w http.ResponseWriter, r *http.Request) {
	h.serveGroupTransactionsAsAdmin(w, r, r.PathValue("category"))
}

func (h *TransactionHandler) serveGroupTransactionsAsAdmin(w http.ResponseWriter, r *http.Request, categoryType string) {
	res, ok := h.authService.Authorize(w, r, auth.ScopeAdmin())
	if !ok {
		return
	}

	transactions, err := h.service.GetByGroup(r.PathValue("name"), categoryType, domain.TransactionFilter{})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondData(w, http.StatusOK, transactions, res.RefreshedAccessToken)
}

type deleteTransactionRequest struct {
	ID *string `json:"_id"`
}

func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	res, ok := h.authService.Authorize(w, r, auth.ScopeUser(username))
	if !ok {
		return
	}

	var req deleteTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ID == nil {
		h.respondError(w, http.StatusBadRequest, "The attribute _id is missing!")
		return
	}
	if strings.TrimSpace(*req.ID) == "" {
		h.respondError(w, http.StatusBadRequest, "Id is empty")
		return
	}

	if err := h.service.DeleteOne(username, *req.ID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondData(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"}, res.RefreshedAccessToken)
}

type deleteTransactionsRequest struct {
	IDs *[]string `json:"_ids"`
}

func (h *TransactionHandler) DeleteTransactions(w http.ResponseWriter, r *http.Request) {
	res, ok := h.authService.Authorize(w, r, auth.ScopeAdmin())
	if !ok {
		return
	}

	var req deleteTransactionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.IDs == nil {
		h.respondError(w, http.StatusBadRequest, "The attribute is missing!")
		return
	}

	if err := h.service.DeleteMany(*req.IDs); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondData(w, http.StatusOK, map[string]string{"message": "Transactions deleted successfully"}, res.RefreshedAccessToken)
}

func (h *TransactionHandler) respondServiceError(w http.ResponseWriter, err error) {
	if walletErrors.IsValidationError(err) || walletErrors.IsNotFoundError(err) {
		h.respondError(w, walletErrors.HTTPStatus(err), err.Error())
		return
	}
	h.respondError(w, http.StatusInternalServerError, "Internal server error")
}

// rawAmountString flattens a JSON amount that may arrive as a number or a
// quoted string into its textual form for numeric validation downstream.
func rawAmountString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// parseTransactionFilter reads the optional from/upTo/date/min/max query
// parameters. It returns a non-empty message on malformed input.
func parseTransactionFilter(r *http.Request) (domain.TransactionFilter, string) {
	var filter domain.TransactionFilter
	query := r.URL.Query()

	for name, target := range map[string]**time.Time{
		"from": &filter.From,
		"upTo": &filter.UpTo,
		"date": &filter.Date,
	} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return domain.TransactionFilter{}, "Invalid date format"
		}
		*target = &parsed
	}

	for name, target := range map[string]**float64{
		"min": &filter.Min,
		"max": &filter.Max,
	} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.TransactionFilter{}, "Invalid amount format"
		}
		*target = &parsed
	}

	if err := filter.Validate(); err != nil {
		return domain.TransactionFilter{}, err.Error()
	}
	return filter, ""
}
