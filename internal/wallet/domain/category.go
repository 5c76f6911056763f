package domain

// Category classifies spending. The label is the join key into
// Transaction.Type, there is no surrogate id on the wire.
type Category struct {
	ID    int64  `json:"-"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

type CategoryRepository interface {
	Insert(category Category) (Category, error)
	FindAll() ([]Category, error)
	FindByType(categoryType string) (*Category, error)
	Count() (int64, error)
	// Rename updates the category label and color in place.
	Rename(oldType, newType, color string) error
	DeleteByTypes(types []string) (int64, error)
}
