package infrastructure

import (
	"database/sql"
	"errors"

	"github.com/mzawadzki/WalletManager/internal/wallet/domain"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Insert(category domain.Category) (domain.Category, error) {
	err := r.db.QueryRow(
		`INSERT INTO categories (type, color) VALUES ($1, $2) RETURNING id`,
		category.Type, category.Color,
	).Scan(&category.ID)
	if err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

// FindAll returns every category in creation order.
func (r *CategoryRepository) FindAll() ([]domain.Category, error) {
	rows, err := r.db.Query(`SELECT id, type, color FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Type, &category.Color); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) FindByType(categoryType string) (*domain.Category, error) {
	var category domain.Category
	err := r.db.QueryRow(
		`SELECT id, type, color FROM categories WHERE type = $1`,
		categoryType,
	).Scan(&category.ID, &category.Type, &category.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Count() (int64, error) {
	var count int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&count)
	return count, err
}

func (r *CategoryRepository) Rename(oldType, newType, color string) error {
	_, err := r.db.Exec(
		`UPDATE categories SET type = $1, color = $2 WHERE type = $3`,
		newType, color, oldType,
	)
	return err
}

func (r *CategoryRepository) DeleteByTypes(types []string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM categories WHERE type = ANY($1)`, types)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
