package application

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mzawadzki/WalletManager/internal/user"
	"github.com/mzawadzki/WalletManager/internal/wallet/domain"
	walletErrors "github.com/mzawadzki/WalletManager/internal/wallet/errors"
)

// UserDirectory is the slice of the user service the transaction manager
// needs: owner existence and group-to-username resolution.
type UserDirectory interface {
	Exists(username string) (bool, error)
	ResolveMembers(groupName string) ([]string, error)
}

type TransactionService struct {
	transactions domain.TransactionRepository
	categories   domain.CategoryRepository
	users        UserDirectory
}

func NewTransactionService(transactions domain.TransactionRepository, categories domain.CategoryRepository, users UserDirectory) *TransactionService {
	return &TransactionService{transactions: transactions, categories: categories, users: users}
}

// Create validates and stores a transaction. The amount arrives as raw
// text so a non-numeric value can be reported precisely; the timestamp is
// server-assigned.
func (s *TransactionService) Create(username, amount, transactionType string) (domain.Transaction, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(amount) == "" || strings.TrimSpace(transactionType) == "" {
		return domain.Transaction{}, walletErrors.NewValidationError("username, amount or type are invalid")
	}

	parsedAmount, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return domain.Transaction{}, walletErrors.NewValidationError("amount is not a number")
	}

	userExists, err := s.users.Exists(username)
	if err != nil {
		return domain.Transaction{}, walletErrors.NewInternalError(err)
	}
	category, err := s.categories.FindByType(transactionType)
	if err != nil {
		return domain.Transaction{}, walletErrors.NewInternalError(err)
	}
	if !userExists || category == nil {
		return domain.Transaction{}, walletErrors.NewNotFoundError("Username or category type does not exist")
	}

	transaction := domain.Transaction{
		ID:       uuid.NewString(),
		Username: username,
		Amount:   parsedAmount,
		Type:     transactionType,
		Date:     time.Now().UTC(),
	}
	if err := s.transactions.Insert(transaction); err != nil {
		return domain.Transaction{}, walletErrors.NewInternalError(err)
	}
	return transaction, nil
}

// DeleteOne removes a single transaction after checking it exists and
// belongs to the requesting owner.
func (s *TransactionService) DeleteOne(owner, transactionID string) error {
	transaction, err := s.transactions.FindByID(transactionID)
	if err != nil {
		return walletErrors.NewInternalError(err)
	}
	if transaction == nil {
		return walletErrors.NewNotFoundError("Transaction does not exist")
	}
	if transaction.Username != owner {
		return walletErrors.NewValidationError("This is not your transaction!")
	}

	if err := s.transactions.DeleteByID(transactionID); err != nil {
		return walletErrors.NewInternalError(err)
	}
	return nil
}

// DeleteMany removes a batch of transactions. Every id is checked before
// the first deletion so validation failures leave the store untouched.
func (s *TransactionService) DeleteMany(transactionIDs []string) error {
	for _, id := range transactionIDs {
		if strings.TrimSpace(id) == "" {
			return walletErrors.NewValidationError("One or more IDs are empty strings!")
		}
	}

	existing, err := s.transactions.ExistingIDs(transactionIDs)
	if err != nil {
		return walletErrors.NewInternalError(err)
	}
	for _, id := range transactionIDs {
		if !existing[id] {
			return walletErrors.NewNotFoundError("One or more id not found")
		}
	}

	if _, err := s.transactions.DeleteByIDs(transactionIDs); err != nil {
		return walletErrors.NewInternalError(err)
	}
	return nil
}

func (s *TransactionService) GetAll() ([]domain.LabeledTransaction, error) {
	return s.query(nil, "", domain.TransactionFilter{})
}

func (s *TransactionService) GetByUser(username string, filter domain.TransactionFilter) ([]domain.LabeledTransaction, error) {
	return s.query([]string{username}, "", filter)
}

func (s *TransactionService) GetByUserAndCategory(username, categoryType string, filter domain.TransactionFilter) ([]domain.LabeledTransaction, error) {
	category, err := s.categories.FindByType(categoryType)
	if err != nil {
		return nil, walletErrors.NewInternalError(err)
	}
	if category == nil {
		return nil, walletErrors.NewNotFoundError("Category not found")
	}
	return s.query([]string{username}, categoryType, filter)
}

// GetByGroup returns the transactions of every resolvable group member,
// optionally restricted to one category. The group is checked before the
// category so a request naming both unknowns reports the group first.
func (s *TransactionService) GetByGroup(groupName, categoryType string, filter domain.TransactionFilter) ([]domain.LabeledTransaction, error) {
	usernames, err := s.users.ResolveMembers(groupName)
	if err != nil {
		if errors.Is(err, user.ErrGroupNotFound) {
			return nil, walletErrors.NewNotFoundError("Group not found")
		}
		return nil, walletErrors.NewInternalError(err)
	}

	if categoryType != "" {
		category, err := s.categories.FindByType(categoryType)
		if err != nil {
			return nil, walletErrors.NewInternalError(err)
		}
		if category == nil {
			return nil, walletErrors.NewNotFoundError("Category not found")
		}
	}

	if len(usernames) == 0 {
		return []domain.LabeledTransaction{}, nil
	}
	return s.query(usernames, categoryType, filter)
}

// query runs the aggregation pipeline: fetch matching transactions, then
// attach each one's category color by label. A label that no longer
// resolves to a category means the cascade rules were violated, which is an
// internal error, never a silent drop.
func (s *TransactionService) query(usernames []string, transactionType string, filter domain.TransactionFilter) ([]domain.LabeledTransaction, error) {
	transactions, err := s.transactions.Find(usernames, transactionType, filter)
	if err != nil {
		return nil, walletErrors.NewInternalError(err)
	}

	categories, err := s.categories.FindAll()
	if err != nil {
		return nil, walletErrors.NewInternalError(err)
	}
	colors := make(map[string]string, len(categories))
	for _, category := range categories {
		colors[category.Type] = category.Color
	}

	labeled := make([]domain.LabeledTransaction, 0, len(transactions))
	for _, transaction := range transactions {
		color, ok := colors[transaction.Type]
		if !ok {
			return nil, walletErrors.NewInternalError(
				fmt.Errorf("transaction %s references unknown category %q", transaction.ID, transaction.Type))
		}
		labeled = append(labeled, domain.LabeledTransaction{Transaction: transaction, Color: color})
	}
	return labeled, nil
}
