package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"finsentinel-server/src/models"
)

const expenseColumns = `id, user_id, description, amount, category, type, date, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Description, &t.Amount, &t.Category, &t.Type, &t.Date, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func CreateExpense(ctx context.Context, pool *pgxpool.Pool, txn *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO expenses (user_id, description, amount, category, type, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + expenseColumns
	return scanExpense(pool.QueryRow(ctx, query, txn.UserID, txn.Description, txn.Amount, txn.Category, txn.Type, txn.Date))
}

// GetExpensesForUser returns the user's transactions newest first. A limit of
// zero or less returns all of them.
func GetExpensesForUser(ctx context.Context, pool *pgxpool.Pool, userID int64, limit int) ([]models.Transaction, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = $1
		ORDER BY date DESC, id DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

func UpdateExpense(ctx context.Context, pool *pgxpool.Pool, txn *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE expenses
		SET description = $1, amount = $2, category = $3, type = $4, date = $5
		WHERE id = $6 AND user_id = $7
		RETURNING ` + expenseColumns
	return scanExpense(pool.QueryRow(ctx, query, txn.Description, txn.Amount, txn.Category, txn.Type, txn.Date, txn.ID, txn.UserID))
}

func DeleteExpense(ctx context.Context, pool *pgxpool.Pool, userID, expenseID int64) error {
	query := `DELETE FROM expenses WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, expenseID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
