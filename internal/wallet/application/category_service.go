package application

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mzawadzki/WalletManager/internal/wallet/domain"
	walletErrors "github.com/mzawadzki/WalletManager/internal/wallet/errors"
)

// CategoryService owns category records and the consistency rules binding
// them to transactions. Categories and transactions are joined only by the
// type label, so renames and bulk deletes cascade here, not in the store.
type CategoryService struct {
	categories   domain.CategoryRepository
	transactions domain.TransactionRepository
}

func NewCategoryService(categories domain.CategoryRepository, transactions domain.TransactionRepository) *CategoryService {
	return &CategoryService{categories: categories, transactions: transactions}
}

func (s *CategoryService) Create(categoryType, color string) (domain.Category, error) {
	if strings.TrimSpace(categoryType) == "" || strings.TrimSpace(color) == "" {
		return domain.Category{}, walletErrors.NewValidationError("Type or color are invalid")
	}

	existing, err := s.categories.FindByType(categoryType)
	if err != nil {
		return domain.Category{}, walletErrors.NewInternalError(err)
	}
	if existing != nil {
		return domain.Category{}, walletErrors.NewValidationError("This category already exists")
	}

	created, err := s.categories.Insert(domain.Category{Type: categoryType, Color: color})
	if err != nil {
		return domain.Category{}, walletErrors.NewInternalError(err)
	}
	return created, nil
}

// Update renames a category and rewrites the label on every transaction
// that referenced the old one. The two steps commit independently; a
// failure between them is surfaced as an internal error and logged, and
// re-running the rename completes the cascade.
func (s *CategoryService) Update(oldType, newType, color string) (int64, error) {
	if strings.TrimSpace(newType) == "" || strings.TrimSpace(color) == "" {
		return 0, walletErrors.NewValidationError("Type or color are invalid")
	}

	existing, err := s.categories.FindByType(oldType)
	if err != nil {
		return 0, walletErrors.NewInternalError(err)
	}
	if existing == nil {
		return 0, walletErrors.NewNotFoundError("Category not found")
	}

	if newType != oldType {
		clash, err := s.categories.FindByType(newType)
		if err != nil {
			return 0, walletErrors.NewInternalError(err)
		}
		if clash != nil {
			return 0, walletErrors.NewValidationError("Category already exists")
		}
	}

	if err := s.categories.Rename(oldType, newType, color); err != nil {
		return 0, walletErrors.NewInternalError(err)
	}

	count, err := s.transactions.RelabelType(oldType, newType)
	if err != nil {
		logrus.WithFields(logrus.Fields{"oldType": oldType, "newType": newType}).
			Warn("category renamed but transaction cascade failed")
		return 0, walletErrors.NewInternalError(fmt.Errorf("relabel transactions after rename: %w", err))
	}
	return count, nil
}

// DeleteMany removes the named categories and reassigns their transactions
// to the oldest surviving category. At least one category always survives:
// deleting the single last category is rejected, and a request naming every
// category keeps the oldest one out of the deleted set.
func (s *CategoryService) DeleteMany(types []string) (int64, error) {
	if len(types) == 0 {
		return 0, walletErrors.NewValidationError("Category list is empty")
	}
	for _, t := range types {
		if strings.TrimSpace(t) == "" {
			return 0, walletErrors.NewValidationError("One or more category type are not valid")
		}
	}

	all, err := s.categories.FindAll()
	if err != nil {
		return 0, walletErrors.NewInternalError(err)
	}

	known := make(map[string]bool, len(all))
	for _, category := range all {
		known[category.Type] = true
	}
	doomed := make(map[string]bool, len(types))
	for _, t := range types {
		if !known[t] {
			return 0, walletErrors.NewValidationError("One or more category type are not valid")
		}
		doomed[t] = true
	}

	total, err := s.categories.Count()
	if err != nil {
		return 0, walletErrors.NewInternalError(err)
	}
	if total == 1 {
		return 0, walletErrors.NewValidationError("Cannot delete the last category")
	}

	// all is in creation order, so the first non-doomed entry is the oldest
	// survivor. When every category was requested, spare the oldest one.
	var survivor *domain.Category
	for i := range all {
		if !doomed[all[i].Type] {
			survivor = &all[i]
			break
		}
	}
	if survivor == nil {
		survivor = &all[0]
		delete(doomed, survivor.Type)
	}

	deleted := make([]string, 0, len(doomed))
	for _, category := range all {
		if doomed[category.Type] {
			deleted = append(deleted, category.Type)
		}
	}

	// Reassign first: a crash between the two steps then leaves extra
	// categories behind rather than orphaned transactions.
	if _, err := s.transactions.RelabelTypes(deleted, survivor.Type); err != nil {
		logrus.WithField("types", deleted).Warn("transaction reassignment failed before category delete")
		return 0, walletErrors.NewInternalError(fmt.Errorf("reassign transactions before delete: %w", err))
	}

	count, err := s.categories.DeleteByTypes(deleted)
	if err != nil {
		logrus.WithField("types", deleted).Warn("transactions reassigned but category delete failed")
		return 0, walletErrors.NewInternalError(fmt.Errorf("delete categories: %w", err))
	}
	return count, nil
}

func (s *CategoryService) GetAll() ([]domain.Category, error) {
	categories, err := s.categories.FindAll()
	if err != nil {
		return nil, walletErrors.NewInternalError(err)
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}
