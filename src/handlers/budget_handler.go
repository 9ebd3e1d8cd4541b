package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"finsentinel-server/src/logger"
	"finsentinel-server/src/models"
	"finsentinel-server/src/util"
)

type budgetRequest struct {
	Category  string           `json:"category"`
	Amount    *decimal.Decimal `json:"amount"`
	Period    string           `json:"period"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
}

func (req budgetRequest) toBudget(userID int64) (*models.Budget, string) {
	category := strings.TrimSpace(req.Category)
	if category == "" || req.Amount == nil || strings.TrimSpace(req.StartDate) == "" || strings.TrimSpace(req.EndDate) == "" {
		return nil, "Please provide all required fields"
	}
	if msg := amountError(*req.Amount); msg != "" {
		return nil, msg
	}

	period := strings.ToLower(strings.TrimSpace(req.Period))
	if period == "" {
		period = models.BudgetPeriodMonthly
	}
	if !models.ValidBudgetPeriod(period) {
		return nil, "Period must be weekly, monthly or yearly"
	}

	start, err := util.ParseDate(req.StartDate)
	if err != nil {
		return nil, "start_date must be formatted as YYYY-MM-DD"
	}
	end, err := util.ParseDate(req.EndDate)
	if err != nil {
		return nil, "end_date must be formatted as YYYY-MM-DD"
	}
	if end.Before(start) {
		return nil, "end_date must not be before start_date"
	}

	return &models.Budget{
		UserID:    userID,
		Category:  category,
		Amount:    req.Amount.InexactFloat64(),
		Period:    period,
		StartDate: start,
		EndDate:   end,
	}, ""
}

func GetBudgets(store BudgetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		budgets, err := store.GetBudgets(r.Context(), userID)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Msg("failed to fetch budgets")
			util.WriteError(w, http.StatusInternalServerError, "Error fetching budgets")
			return
		}
		util.WriteSuccess(w, http.StatusOK, budgets)
	}
}

func GetBudgetByID(store BudgetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		budgetID, err := pathID(r, "id")
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, "Invalid budget id")
			return
		}

		budget, err := store.GetBudget(r.Context(), userID, budgetID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Budget not found")
				return
			}
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Int64("budget_id", budgetID).Msg("failed to fetch budget")
			util.WriteError(w, http.StatusInternalServerError, "Error fetching budget")
			return
		}
		util.WriteSuccess(w, http.StatusOK, budget)
	}
}

func CreateBudget(store BudgetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		var req budgetRequest
		if err := decodeBody(r, &req); err != nil {
			log.Warn().Err(err).Msg("failed to decode create budget request")
			util.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		budget, msg := req.toBudget(userID)
		if budget == nil {
			util.WriteError(w, http.StatusBadRequest, msg)
			return
		}

		created, err := store.CreateBudget(r.Context(), budget)
		if err != nil {
			log.Error().Err(err).Msg("failed to create budget")
			util.WriteError(w, http.StatusInternalServerError, "Error creating budget")
			return
		}
		log.Info().Int64("budget_id", created.ID).Str("category", created.Category).Msg("created budget")
		util.WriteSuccess(w, http.StatusCreated, created)
	}
}

func UpdateBudget(store BudgetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		budgetID, err := pathID(r, "id")
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, "Invalid budget id")
			return
		}

		var req budgetRequest
		if err := decodeBody(r, &req); err != nil {
			log.Warn().Err(err).Msg("failed to decode update budget request")
			util.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		budget, msg := req.toBudget(userID)
		if budget == nil {
			util.WriteError(w, http.StatusBadRequest, msg)
			return
		}
		budget.ID = budgetID

		updated, err := store.UpdateBudget(r.Context(), budget)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Budget not found")
				return
			}
			log.Error().Err(err).Int64("budget_id", budgetID).Msg("failed to update budget")
			util.WriteError(w, http.StatusInternalServerError, "Error updating budget")
			return
		}
		util.WriteSuccess(w, http.StatusOK, updated)
	}
}

func DeleteBudget(store BudgetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		budgetID, err := pathID(r, "id")
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, "Invalid budget id")
			return
		}

		if err := store.DeleteBudget(r.Context(), userID, budgetID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Budget not found")
				return
			}
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Int64("budget_id", budgetID).Msg("failed to delete budget")
			util.WriteError(w, http.StatusInternalServerError, "Error deleting budget")
			return
		}
		util.WriteMessage(w, http.StatusOK, "Budget deleted successfully")
	}
}
