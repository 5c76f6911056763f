package infrastructure

import (
	"github.com/mzawadzki/WalletManager/internal/wallet/domain"
)

// MockCategoryRepository keeps categories in memory, in insertion order.
type MockCategoryRepository struct {
	Categories []domain.Category
	Err        error
	nextID     int64
}

func (m *MockCategoryRepository) Insert(category domain.Category) (domain.Category, error) {
	if m.Err != nil {
		return domain.Category{}, m.Err
	}
	m.nextID++
	category.ID = m.nextID
	m.Categories = append(m.Categories, category)
	return category, nil
}

func (m *MockCategoryRepository) FindAll() ([]domain.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]domain.Category, len(m.Categories))
	copy(out, m.Categories)
	return out, nil
}

func (m *MockCategoryRepository) FindByType(categoryType string) (*domain.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Categories {
		if m.Categories[i].Type == categoryType {
			category := m.Categories[i]
			return &category, nil
		}
	}
	return nil, nil
}

func (m *MockCategoryRepository) Count() (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return int64(len(m.Categories)), nil
}

func (m *MockCategoryRepository) Rename(oldType, newType, color string) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Categories {
		if m.Categories[i].Type == oldType {
			m.Categories[i].Type = newType
			m.Categories[i].Color = color
		}
	}
	return nil
}

func (m *MockCategoryRepository) DeleteByTypes(types []string) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	doomed := make(map[string]bool, len(types))
	for _, t := range types {
		doomed[t] = true
	}
	var kept []domain.Category
	var deleted int64
	for _, category := range m.Categories {
		if doomed[category.Type] {
			deleted++
			continue
		}
		kept = append(kept, category)
	}
	m.Categories = kept
	return deleted, nil
}

// MockTransactionRepository keeps transactions in memory, in insertion order.
type MockTransactionRepository struct {
	Transactions []domain.Transaction
	Err          error
}

func (m *MockTransactionRepository) Insert(transaction domain.Transaction) error {
	if m.Err != nil {
		return m.Err
	}
	m.Transactions = append(m.Transactions, transaction)
	return nil
}

func (m *MockTransactionRepository) FindByID(transactionID string) (*domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Transactions {
		if m.Transactions[i].ID == transactionID {
			transaction := m.Transactions[i]
			return &transaction, nil
		}
	}
	return nil, nil
}

func (m *MockTransactionRepository) Find(usernames []string, transactionType string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	owners := make(map[string]bool, len(usernames))
	for _, u := range usernames {
		owners[u] = true
	}
	start, end := filter.Bounds()

	var matched []domain.Transaction
	for _, transaction := range m.Transactions {
		if len(usernames) > 0 && !owners[transaction.Username] {
			continue
		}
		if transactionType != "" && transaction.Type != transactionType {
			continue
		}
		if start != nil && transaction.Date.Before(*start) {
			continue
		}
		if end != nil && !transaction.Date.Before(*end) {
			continue
		}
		if filter.Min != nil && transaction.Amount < *filter.Min {
			continue
		}
		if filter.Max != nil && transaction.Amount > *filter.Max {
			continue
		}
		matched = append(matched, transaction)
	}
	return matched, nil
}

func (m *MockTransactionRepository) ExistingIDs(transactionIDs []string) (map[string]bool, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	stored := make(map[string]bool, len(m.Transactions))
	for _, transaction := range m.Transactions {
		stored[transaction.ID] = true
	}
	existing := make(map[string]bool)
	for _, id := range transactionIDs {
		if stored[id] {
			existing[id] = true
		}
	}
	return existing, nil
}

func (m *MockTransactionRepository) DeleteByID(transactionID string) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Transactions {
		if m.Transactions[i].ID == transactionID {
			m.Transactions = append(m.Transactions[:i], m.Transactions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockTransactionRepository) DeleteByIDs(transactionIDs []string) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	doomed := make(map[string]bool, len(transactionIDs))
	for _, id := range transactionIDs {
		doomed[id] = true
	}
	var kept []domain.Transaction
	var deleted int64
	for _, transaction := range m.Transactions {
		if doomed[transaction.ID] {
			deleted++
			continue
		}
		kept = append(kept, transaction)
	}
	m.Transactions = kept
	return deleted, nil
}

func (m *MockTransactionRepository) RelabelType(oldType, newType string) (int64, error) {
	return m.RelabelTypes([]string{oldType}, newType)
}

func (m *MockTransactionRepository) RelabelTypes(oldTypes []string, newType string) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	doomed := make(map[string]bool, len(oldTypes))
	for _, t := range oldTypes {
		doomed[t] = true
	}
	var relabeled int64
	for i := range m.Transactions {
		if doomed[m.Transactions[i].Type] {
			m.Transactions[i].Type = newType
			relabeled++
		}
	}
	return relabeled, nil
}
