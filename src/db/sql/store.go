package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"finsentinel-server/src/models"
)

// PostgresStore exposes the query functions of this package as a single
// store value backed by a connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) CreateUser(ctx context.Context, name, email string, passwordHash []byte) (*models.User, error) {
	return CreateUser(ctx, s.pool, name, email, passwordHash)
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return GetUserByEmail(ctx, s.pool, email)
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return GetUserByID(ctx, s.pool, id)
}

func (s *PostgresStore) UpdateUserPassword(ctx context.Context, userID int64, passwordHash []byte) error {
	return UpdateUserPassword(ctx, s.pool, userID, passwordHash)
}

func (s *PostgresStore) DeleteUser(ctx context.Context, userID int64) error {
	return DeleteUser(ctx, s.pool, userID)
}

func (s *PostgresStore) CreateExpense(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	return CreateExpense(ctx, s.pool, txn)
}

func (s *PostgresStore) GetExpenses(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	return GetExpensesForUser(ctx, s.pool, userID, limit)
}

func (s *PostgresStore) UpdateExpense(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	return UpdateExpense(ctx, s.pool, txn)
}

func (s *PostgresStore) DeleteExpense(ctx context.Context, userID, expenseID int64) error {
	return DeleteExpense(ctx, s.pool, userID, expenseID)
}

func (s *PostgresStore) CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	return CreateBudget(ctx, s.pool, budget)
}

func (s *PostgresStore) GetBudget(ctx context.Context, userID, budgetID int64) (*models.Budget, error) {
	return GetBudgetByID(ctx, s.pool, userID, budgetID)
}

func (s *PostgresStore) GetBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	return GetAllBudgetsForUser(ctx, s.pool, userID)
}

func (s *PostgresStore) UpdateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	return UpdateBudget(ctx, s.pool, budget)
}

func (s *PostgresStore) DeleteBudget(ctx context.Context, userID, budgetID int64) error {
	return DeleteBudget(ctx, s.pool, userID, budgetID)
}

func (s *PostgresStore) DeleteInsights(ctx context.Context, userID int64) error {
	return DeleteInsightsForUser(ctx, s.pool, userID)
}

func (s *PostgresStore) CreateInsight(ctx context.Context, userID int64, insight models.Insight) error {
	return CreateInsight(ctx, s.pool, userID, insight)
}

func (s *PostgresStore) GetInsights(ctx context.Context, userID int64) ([]models.Insight, error) {
	return GetInsightsForUser(ctx, s.pool, userID)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
