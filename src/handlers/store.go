package handlers

import (
	"context"

	"finsentinel-server/src/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, name, email string, passwordHash []byte) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUserPassword(ctx context.Context, userID int64, passwordHash []byte) error
	DeleteUser(ctx context.Context, userID int64) error
}

type ExpenseStore interface {
	CreateExpense(ctx context.Context, txn *models.Transaction) (*models.Transaction, error)
	GetExpenses(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)
	UpdateExpense(ctx context.Context, txn *models.Transaction) (*models.Transaction, error)
	DeleteExpense(ctx context.Context, userID, expenseID int64) error
}

type BudgetStore interface {
	CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error)
	GetBudget(ctx context.Context, userID, budgetID int64) (*models.Budget, error)
	GetBudgets(ctx context.Context, userID int64) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID int64) error
}

// Store is everything the API needs from a persistence backend. Both the
// Postgres and the SQLite stores satisfy it.
type Store interface {
	UserStore
	ExpenseStore
	BudgetStore
	DeleteInsights(ctx context.Context, userID int64) error
	CreateInsight(ctx context.Context, userID int64, insight models.Insight) error
	GetInsights(ctx context.Context, userID int64) ([]models.Insight, error)
	Close() error
}
