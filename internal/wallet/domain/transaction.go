package domain

import (
	"time"

	walletErrors "github.com/mzawadzki/WalletManager/internal/wallet/errors"
)

// Transaction is a single monetary movement. The owner is recorded by
// username value and the category by label, neither is a foreign key.
type Transaction struct {
	ID       string    `json:"_id"`
	Username string    `json:"username"`
	Amount   float64   `json:"amount"`
	Type     string    `json:"type"`
	Date     time.Time `json:"date"`
}

// LabeledTransaction is the aggregation result: a transaction joined with
// its category color.
type LabeledTransaction struct {
	Transaction
	Color string `json:"color"`
}

// TransactionFilter carries the recognized optional query options.
// Absent fields leave that bound unconstrained.
type TransactionFilter struct {
	From *time.Time
	UpTo *time.Time
	Date *time.Time
	Min  *float64
	Max  *float64
}

// Validate rejects the one documented mutual exclusion: an exact date
// cannot be combined with either range bound.
func (f TransactionFilter) Validate() error {
	if f.Date != nil && (f.From != nil || f.UpTo != nil) {
		return walletErrors.NewValidationError("Cannot combine date with from or upTo")
	}
	return nil
}

// Bounds resolves the filter to a half-open instant range [start, end).
// Date bounds are calendar-day granular: upTo (or date) on day D includes
// every instant through the end of D.
func (f TransactionFilter) Bounds() (start, end *time.Time) {
	if f.Date != nil {
		dayStart := startOfDay(*f.Date)
		dayEnd := dayStart.AddDate(0, 0, 1)
		return &dayStart, &dayEnd
	}
	if f.From != nil {
		fromStart := startOfDay(*f.From)
		start = &fromStart
	}
	if f.UpTo != nil {
		upToEnd := startOfDay(*f.UpTo).AddDate(0, 0, 1)
		end = &upToEnd
	}
	return start, end
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

type TransactionRepository interface {
	Insert(transaction Transaction) error
	FindByID(transactionID string) (*Transaction, error)
	// Find returns transactions in store order. An empty usernames slice
	// means no owner restriction; an empty transactionType means no label
	// restriction.
	Find(usernames []string, transactionType string, filter TransactionFilter) ([]Transaction, error)
	// ExistingIDs reports which of the given ids resolve to stored records.
	ExistingIDs(transactionIDs []string) (map[string]bool, error)
	DeleteByID(transactionID string) error
	DeleteByIDs(transactionIDs []string) (int64, error)
	// RelabelType rewrites the category label on every matching
	// transaction and reports how many were touched.
	RelabelType(oldType, newType string) (int64, error)
	RelabelTypes(oldTypes []string, newType string) (int64, error)
}
