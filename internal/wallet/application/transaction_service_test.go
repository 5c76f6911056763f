package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzawadzki/WalletManager/internal/user"
	"github.com/mzawadzki/WalletManager/internal/wallet/domain"
	walletErrors "github.com/mzawadzki/WalletManager/internal/wallet/errors"
	"github.com/mzawadzki/WalletManager/internal/wallet/infrastructure"
)

type stubDirectory struct {
	usernames map[string]bool
	groups    map[string][]string
}

func (d *stubDirectory) Exists(username string) (bool, error) {
	return d.usernames[username], nil
}

func (d *stubDirectory) ResolveMembers(groupName string) ([]string, error) {
	members, ok := d.groups[groupName]
	if !ok {
		return nil, user.ErrGroupNotFound
	}
	return members, nil
}

func newTransactionFixture() (*TransactionService, *infrastructure.MockCategoryRepository, *infrastructure.MockTransactionRepository, *stubDirectory) {
	categories := &infrastructure.MockCategoryRepository{}
	transactions := &infrastructure.MockTransactionRepository{}
	directory := &stubDirectory{
		usernames: map[string]bool{"mario": true, "luigi": true},
		groups:    map[string][]string{"plumbers": {"mario", "luigi"}},
	}
	return NewTransactionService(transactions, categories, directory), categories, transactions, directory
}

func TestCreateTransaction(t *testing.T) {
	service, categories, transactions, _ := newTransactionFixture()
	seedCategories(t, categories, "food")

	created, err := service.Create("mario", "100.5", "food")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "mario", created.Username)
	assert.Equal(t, 100.5, created.Amount)
	assert.Equal(t, "food", created.Type)
	assert.False(t, created.Date.IsZero())

	require.Len(t, transactions.Transactions, 1)
}

func TestCreateTransaction_EmptyFields(t *testing.T) {
	service, categories, _, _ := newTransactionFixture()
	seedCategories(t, categories, "food")

	_, err := service.Create("", "100", "food")
	require.Error(t, err)
	assert.Equal(t, "username, amount or type are invalid", err.Error())

	_, err = service.Create("mario", " ", "food")
	require.Error(t, err)
	assert.Equal(t, "username, amount or type are invalid", err.Error())
}

func TestCreateTransaction_AmountNotANumber(t *testing.T) {
	service, categories, _, _ := newTransactionFixture()
	seedCategories(t, categories, "food")

	_, err := service.Create("mario", "a lot", "food")
	require.Error(t, err)
	assert.Equal(t, "amount is not a number", err.Error())
}

func TestCreateTransaction_UnknownOwnerOrCategory(t *testing.T) {
	service, categories, _, _ := newTransactionFixture()
	seedCategories(t, categories, "food")

	_, err := service.Create("wario", "100", "food")
	require.Error(t, err)
	assert.Equal(t, "Username or category type does not exist", err.Error())

	_, err = service.Create("mario", "100", "missing")
	require.Error(t, err)
	assert.Equal(t, "Username or category type does not exist", err.Error())
}

func TestDeleteOneTransaction(t *testing.T) {
	service, _, transactions, _ := newTransactionFixture()
	transactions.Transactions = []domain.Transaction{
		{ID: "t1", Username: "mario", Amount: 10, Type: "food"},
	}

	require.NoError(t, service.DeleteOne("mario", "t1"))
	assert.Empty(t, transactions.Transactions)

	// A second delete finds nothing left.
	err := service.DeleteOne("mario", "t1")
	require.Error(t, err)
	assert.Equal(t, "Transaction does not exist", err.Error())
}

func TestDeleteOneTransaction_WrongOwner(t *testing.T) {
	service, _, transactions, _ := newTransactionFixture()
	transactions.Transactions = []domain.Transaction{
		{ID: "t1", Username: "mario", Amount: 10, Type: "food"},
	}

	err := service.DeleteOne("luigi", "t1")
	require.Error(t, err)
	assert.Equal(t, "This is not your transaction!", err.Error())
	assert.Len(t, transactions.Transactions, 1)
}

func TestDeleteManyTransactions(t *testing.T) {
	service, _, transactions, _ := newTransactionFixture()
	transactions.Transactions = []domain.Transaction{
		{ID: "t1", Username: "mario"},
		{ID: "t2", Username: "luigi"},
		{ID: "t3", Username: "mario"},
	}

	require.NoError(t, service.DeleteMany([]string{"t1", "t3"}))
	require.Len(t, transactions.Transactions, 1)
	assert.Equal(t, "t2", transactions.Transactions[0].ID)
}

func TestDeleteManyTransactions_AllOrNothing(t *testing.T) {
	service, _, transactions, _ := newTransactionFixture()
	transactions.Transactions = []domain.Transaction{
		{ID: "t1", Username: "mario"},
	}

	err := service.DeleteMany([]string{"t1", "missing"})
	require.Error(t, err)
	assert.Equal(t, "One or more id not found", err.Error())
	// Nothing was deleted.
	assert.Len(t, transactions.Transactions, 1)
}

func TestDeleteManyTransactions_EmptyID(t *testing.T) {
	service, _, _, _ := newTransactionFixture()

	err := service.DeleteMany([]string{"t1", ""})
	require.Error(t, err)
	assert.Equal(t, "One or more IDs are empty strings!", err.Error())
}

func TestGetByUserAndCategory(t *testing.T) {
	service, categories, transactions, _ := newTransactionFixture()
	_, err := categories.Insert(domain.Category{Type: "food", Color: "red"})
	require.NoError(t, err)
	_, err = categories.Insert(domain.Category{Type: "health", Color: "green"})
	require.NoError(t, err)

	now := time.Now()
	transactions.Transactions = []domain.Transaction{
		{ID: "t1", Username: "mario", Amount: 100, Type: "food", Date: now},
		{ID: "t2", Username: "mario", Amount: 70, Type: "health", Date: now},
		{ID: "t3", Username: "mario", Amount: 20, Type: "food", Date: now},
	}

	result, err := service.GetByUserAndCategory("mario", "food", domain.TransactionFilter{})
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, 100.0, result[0].Amount)
	assert.Equal(t, "red", result[0].Color)
	assert.Equal(t, 20.0, result[1].Amount)
	assert.Equal(t, "red", result[1].Color)
}

func TestGetByUserAndCategory_UnknownCategory(t *testing.T) {
	service, categories, _, _ := newTransactionFixture()
	seedCategories(t, categories, "food")

	_, err := service.GetByUserAndCategory("mario", "missing", domain.TransactionFilter{})
	require.Error(t, err)
	assert.Equal(t, "Category not found", err.Error())
}

func TestGetByUser_AmountAndDateFilters(t *testing.T) {
	service, categories, transactions, _ := newTransactionFixture()
	seedCategories(t, categories, "food")

	january := time.Date(2026, 1, 10, 15, 0, 0, 0, time.UTC)
	february := time.Date(2026, 2, 10, 15, 0, 0, 0, time.UTC)
	transactions.Transactions = []domain.Transaction{
		{ID: "t1", Username: "mario", Amount: 100, Type: "food", Date: january},
		{ID: "t2", Username: "mario", Amount: 5, Type: "food", Date: february},
	}

	min := 50.0
	result, err := service.GetByUser("mario", domain.TransactionFilter{Min: &min})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "t1", result[0].ID)

	onDay := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	result, err = service.GetByUser("mario", domain.TransactionFilter{Date: &onDay})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "t2", result[0].ID)
}

func TestGetByGroup(t *testing.T) {
	service, categories, transactions, _ := newTransactionFixture()
	seedCategories(t, categories, "food")
	transactions.Transactions = []domain.Transaction{
		{ID: "t1", Username: "mario", Amount: 10, Type: "food"},
		{ID: "t2", Username: "wario", Amount: 20, Type: "food"},
		{ID: "t3", Username: "luigi", Amount: 30, Type: "food"},
	}

	result, err := service.GetByGroup("plumbers", "", domain.TransactionFilter{})
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, "t1", result[0].ID)
	assert.Equal(t, "t3", result[1].ID)
}

func TestGetByGroup_NotFound(t *testing.T) {
	service, _, _, _ := newTransactionFixture()

	_, err := service.GetByGroup("ghosts", "", domain.TransactionFilter{})
	require.Error(t, err)
	assert.Equal(t, "Group not found", err.Error())
}

func TestGetByGroup_GroupCheckedBeforeCategory(t *testing.T) {
	service, _, _, _ := newTransactionFixture()

	// Both unknown: the group error wins.
	_, err := service.GetByGroup("ghosts", "missing", domain.TransactionFilter{})
	require.Error(t, err)
	assert.Equal(t, "Group not found", err.Error())
}

func TestGetByGroup_UnknownCategory(t *testing.T) {
	service, categories, _, _ := newTransactionFixture()
	seedCategories(t, categories, "food")

	_, err := service.GetByGroup("plumbers", "missing", domain.TransactionFilter{})
	require.Error(t, err)
	assert.Equal(t, "Category not found", err.Error())
}

func TestGetByGroup_NoResolvableMembers(t *testing.T) {
	service, _, _, directory := newTransactionFixture()
	directory.groups["empty"] = nil

	result, err := service.GetByGroup("empty", "", domain.TransactionFilter{})
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestQuery_UnresolvableCategoryIsInternalError(t *testing.T) {
	service, categories, transactions, _ := newTransactionFixture()
	seedCategories(t, categories, "food")
	transactions.Transactions = []domain.Transaction{
		{ID: "t1", Username: "mario", Amount: 10, Type: "orphaned"},
	}

	_, err := service.GetAll()
	require.Error(t, err)
	assert.False(t, walletErrors.IsValidationError(err))
	assert.False(t, walletErrors.IsNotFoundError(err))
}
