package client

import (
	"context"
	"fmt"
	"net/http"

	"finsentinel-server/src/models"
)

// ExpenseInput is the body for creating or replacing a transaction. Date is
// YYYY-MM-DD; an empty Type means expense.
type ExpenseInput struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Type        string  `json:"type,omitempty"`
	Date        string  `json:"date"`
}

// BudgetInput is the body for creating or replacing a budget. An empty
// Period means monthly.
type BudgetInput struct {
	Category  string  `json:"category"`
	Amount    float64 `json:"amount"`
	Period    string  `json:"period,omitempty"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}

type SimulationInput struct {
	Type                string  `json:"type,omitempty"`
	InitialAmount       float64 `json:"initialAmount"`
	MonthlyContribution float64 `json:"monthlyContribution"`
	InterestRate        float64 `json:"interestRate"`
	Years               int     `json:"years"`
}

func (c *Client) ListExpenses(ctx context.Context, token string) ([]models.Transaction, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out []models.Transaction
	if err := c.do(ctx, http.MethodGet, "/api/expenses", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateExpense(ctx context.Context, token string, in ExpenseInput) (*models.Transaction, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out models.Transaction
	if err := c.do(ctx, http.MethodPost, "/api/expenses", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateExpense(ctx context.Context, token string, id int64, in ExpenseInput) (*models.Transaction, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out models.Transaction
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/expenses/%d", id), token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteExpense(ctx context.Context, token string, id int64) error {
	if err := requireToken(token); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/expenses/%d", id), token, nil, nil)
}

func (c *Client) Summary(ctx context.Context, token string) (*models.Summary, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out models.Summary
	if err := c.do(ctx, http.MethodGet, "/api/expenses/summary", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportExpenses returns the raw XLSX workbook.
func (c *Client) ExportExpenses(ctx context.Context, token string) ([]byte, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	return c.send(ctx, http.MethodGet, "/api/expenses/export", token, nil)
}

func (c *Client) ListBudgets(ctx context.Context, token string) ([]models.Budget, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out []models.Budget
	if err := c.do(ctx, http.MethodGet, "/api/budgets", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBudget(ctx context.Context, token string, in BudgetInput) (*models.Budget, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out models.Budget
	if err := c.do(ctx, http.MethodPost, "/api/budgets", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBudget(ctx context.Context, token string, id int64, in BudgetInput) (*models.Budget, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out models.Budget
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/budgets/%d", id), token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBudget(ctx context.Context, token string, id int64) error {
	if err := requireToken(token); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/budgets/%d", id), token, nil, nil)
}

func (c *Client) Insights(ctx context.Context, token string) ([]models.Insight, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out []models.Insight
	if err := c.do(ctx, http.MethodGet, "/api/insights", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RunSimulation(ctx context.Context, token string, in SimulationInput) (*models.SimulationResponse, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out models.SimulationResponse
	if err := c.do(ctx, http.MethodPost, "/api/simulations", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
