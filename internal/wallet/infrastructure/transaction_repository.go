package infrastructure

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mzawadzki/WalletManager/internal/wallet/domain"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Insert(transaction domain.Transaction) error {
	_, err := r.db.Exec(
		`INSERT INTO transactions (id, username, amount, type, date) VALUES ($1, $2, $3, $4, $5)`,
		transaction.ID, transaction.Username, transaction.Amount, transaction.Type, transaction.Date,
	)
	return err
}

func (r *TransactionRepository) FindByID(transactionID string) (*domain.Transaction, error) {
	var transaction domain.Transaction
	err := r.db.QueryRow(
		`SELECT id, username, amount, type, date FROM transactions WHERE id = $1`,
		transactionID,
	).Scan(&transaction.ID, &transaction.Username, &transaction.Amount, &transaction.Type, &transaction.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *TransactionRepository) Find(usernames []string, transactionType string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	query := `SELECT id, username, amount, type, date FROM transactions`
	var conditions []string
	var args []interface{}

	if len(usernames) > 0 {
		args = append(args, usernames)
		conditions = append(conditions, fmt.Sprintf("username = ANY($%d)", len(args)))
	}
	if transactionType != "" {
		args = append(args, transactionType)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}

	start, end := filter.Bounds()
	if start != nil {
		args = append(args, *start)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if end != nil {
		args = append(args, *end)
		conditions = append(conditions, fmt.Sprintf("date < $%d", len(args)))
	}
	if filter.Min != nil {
		args = append(args, *filter.Min)
		conditions = append(conditions, fmt.Sprintf("amount >= $%d", len(args)))
	}
	if filter.Max != nil {
		args = append(args, *filter.Max)
		conditions = append(conditions, fmt.Sprintf("amount <= $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var transaction domain.Transaction
		if err := rows.Scan(&transaction.ID, &transaction.Username, &transaction.Amount, &transaction.Type, &transaction.Date); err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) ExistingIDs(transactionIDs []string) (map[string]bool, error) {
	rows, err := r.db.Query(`SELECT id FROM transactions WHERE id = ANY($1)`, transactionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

func (r *TransactionRepository) DeleteByID(transactionID string) error {
	_, err := r.db.Exec(`DELETE FROM transactions WHERE id = $1`, transactionID)
	return err
}

func (r *TransactionRepository) DeleteByIDs(transactionIDs []string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM transactions WHERE id = ANY($1)`, transactionIDs)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *TransactionRepository) RelabelType(oldType, newType string) (int64, error) {
	result, err := r.db.Exec(`UPDATE transactions SET type = $1 WHERE type = $2`, newType, oldType)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *TransactionRepository) RelabelTypes(oldTypes []string, newType string) (int64, error) {
	result, err := r.db.Exec(`UPDATE transactions SET type = $1 WHERE type = ANY($2)`, newType, oldTypes)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
