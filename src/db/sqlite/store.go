// Package sqlite is a single-file store for local and test deployments. It
// implements the same operations as the Postgres store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"finsentinel-server/src/db"
	"finsentinel-server/src/models"
)

const dateLayout = "2006-01-02"

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens the database at path and brings its schema up to date.
func NewStore(path string) (*Store, error) {
	conn, err := db.OpenSQLite(path)
	if err != nil {
		return nil, err
	}

	if err := db.RunSQLiteMigrations(path); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: conn, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func parseTimestamp(v string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, v)
}

func parseDate(v string) (time.Time, error) {
	return time.Parse(dateLayout, v)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Users

func (s *Store) CreateUser(ctx context.Context, name, email string, passwordHash []byte) (*models.User, error) {
	createdAt := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		name, email, string(passwordHash), createdAt.Format(time.RFC3339Nano))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read user id: %w", err)
	}
	return &models.User{ID: id, Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: createdAt}, nil
}

const userColumns = `id, name, email, password_hash, created_at`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	var hash, createdAt string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &hash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	u.PasswordHash = []byte(hash)
	if u.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (s *Store) UpdateUserPassword(ctx context.Context, userID int64, passwordHash []byte) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, string(passwordHash), userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteUser relies on foreign_keys being enabled by db.OpenSQLite so the
// user's rows cascade.
func (s *Store) DeleteUser(ctx context.Context, userID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Expenses

const expenseColumns = `id, user_id, description, amount, category, type, date, created_at`

func scanExpense(row scanner) (*models.Transaction, error) {
	var t models.Transaction
	var date, createdAt string
	err := row.Scan(&t.ID, &t.UserID, &t.Description, &t.Amount, &t.Category, &t.Type, &date, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	if t.Date, err = parseDate(date); err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	if t.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &t, nil
}

func (s *Store) getExpense(ctx context.Context, userID, expenseID int64) (*models.Transaction, error) {
	return scanExpense(s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ? AND user_id = ?`, expenseID, userID))
}

func (s *Store) CreateExpense(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, description, amount, category, type, date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		txn.UserID, txn.Description, txn.Amount, txn.Category, txn.Type, txn.Date.Format(dateLayout), s.now().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read expense id: %w", err)
	}
	return s.getExpense(ctx, txn.UserID, id)
}

func (s *Store) GetExpenses(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE user_id = ? ORDER BY date DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
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

func (s *Store) UpdateExpense(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET description = ?, amount = ?, category = ?, type = ?, date = ? WHERE id = ? AND user_id = ?`,
		txn.Description, txn.Amount, txn.Category, txn.Type, txn.Date.Format(dateLayout), txn.ID, txn.UserID)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, models.ErrNotFound
	}
	return s.getExpense(ctx, txn.UserID, txn.ID)
}

func (s *Store) DeleteExpense(ctx context.Context, userID, expenseID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, expenseID, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Budgets

const budgetColumns = `id, user_id, category, amount, period, start_date, end_date, created_at`

func scanBudget(row scanner) (*models.Budget, error) {
	var b models.Budget
	var start, end, createdAt string
	err := row.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.Period, &start, &end, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	if b.StartDate, err = parseDate(start); err != nil {
		return nil, fmt.Errorf("parse start_date: %w", err)
	}
	if b.EndDate, err = parseDate(end); err != nil {
		return nil, fmt.Errorf("parse end_date: %w", err)
	}
	if b.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &b, nil
}

func (s *Store) CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, amount, period, start_date, end_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		budget.UserID, budget.Category, budget.Amount, budget.Period,
		budget.StartDate.Format(dateLayout), budget.EndDate.Format(dateLayout), s.now().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read budget id: %w", err)
	}
	return s.GetBudget(ctx, budget.UserID, id)
}

func (s *Store) GetBudget(ctx context.Context, userID, budgetID int64) (*models.Budget, error) {
	return scanBudget(s.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = ? AND user_id = ?`, budgetID, userID))
}

func (s *Store) GetBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

func (s *Store) UpdateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET category = ?, amount = ?, period = ?, start_date = ?, end_date = ? WHERE id = ? AND user_id = ?`,
		budget.Category, budget.Amount, budget.Period,
		budget.StartDate.Format(dateLayout), budget.EndDate.Format(dateLayout), budget.ID, budget.UserID)
	if err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, models.ErrNotFound
	}
	return s.GetBudget(ctx, budget.UserID, budget.ID)
}

func (s *Store) DeleteBudget(ctx context.Context, userID, budgetID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ? AND user_id = ?`, budgetID, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Insights

func (s *Store) DeleteInsights(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM ai_insights WHERE user_id = ?`, userID)
	return err
}

func (s *Store) CreateInsight(ctx context.Context, userID int64, insight models.Insight) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ai_insights (user_id, title, description, type, recommendation, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, insight.Title, insight.Description, insight.Type, insight.Recommendation, s.now().Format(time.RFC3339Nano))
	return err
}

func (s *Store) GetInsights(ctx context.Context, userID int64) ([]models.Insight, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, description, type, COALESCE(recommendation, '') FROM ai_insights WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	insights := []models.Insight{}
	for rows.Next() {
		var i models.Insight
		if err := rows.Scan(&i.Title, &i.Description, &i.Type, &i.Recommendation); err != nil {
			return nil, err
		}
		insights = append(insights, i)
	}
	return insights, rows.Err()
}
