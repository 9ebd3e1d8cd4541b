package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"finsentinel-server/src/db"
	"finsentinel-server/src/events"
	"finsentinel-server/src/finance"
	"finsentinel-server/src/logger"
	"finsentinel-server/src/models"
	"finsentinel-server/src/util"
)

type expenseRequest struct {
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    string           `json:"category"`
	Type        string           `json:"type"`
	Date        string           `json:"date"`
}

// toTransaction validates the request and builds the row it describes.
// The returned string is a client facing message when validation fails.
func (req expenseRequest) toTransaction(userID int64) (*models.Transaction, string) {
	description := strings.TrimSpace(req.Description)
	category := strings.TrimSpace(req.Category)
	if description == "" || req.Amount == nil || category == "" || strings.TrimSpace(req.Date) == "" {
		return nil, "Please provide all required fields"
	}
	if msg := amountError(*req.Amount); msg != "" {
		return nil, msg
	}

	txnType := strings.ToLower(strings.TrimSpace(req.Type))
	if txnType == "" {
		txnType = models.TransactionTypeExpense
	}
	if !models.ValidTransactionType(txnType) {
		return nil, "Type must be expense or income"
	}

	date, err := util.ParseDate(req.Date)
	if err != nil {
		return nil, "Date must be formatted as YYYY-MM-DD"
	}

	return &models.Transaction{
		UserID:      userID,
		Description: description,
		Amount:      req.Amount.InexactFloat64(),
		Category:    category,
		Type:        txnType,
		Date:        date,
	}, ""
}

// transactionsChanged drops the cached summary and announces the change.
// A publish failure only loses the background refresh, so it is logged.
func transactionsChanged(ctx context.Context, cache *db.Cache, pub events.Publisher, userID int64, reason string) {
	cache.DelSummary(userID)
	if err := pub.PublishTransactionsChanged(ctx, userID, reason); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("reason", reason).Msg("failed to publish transactions changed event")
	}
}

func GetExpenses(store ExpenseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		expenses, err := store.GetExpenses(r.Context(), userID, 0)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Msg("failed to fetch expenses")
			util.WriteError(w, http.StatusInternalServerError, "Error fetching expenses")
			return
		}
		util.WriteSuccess(w, http.StatusOK, expenses)
	}
}

func CreateExpense(store ExpenseStore, cache *db.Cache, pub events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		var req expenseRequest
		if err := decodeBody(r, &req); err != nil {
			log.Warn().Err(err).Msg("failed to decode create expense request")
			util.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		txn, msg := req.toTransaction(userID)
		if txn == nil {
			util.WriteError(w, http.StatusBadRequest, msg)
			return
		}

		created, err := store.CreateExpense(r.Context(), txn)
		if err != nil {
			log.Error().Err(err).Msg("failed to create expense")
			util.WriteError(w, http.StatusInternalServerError, "Error adding expense")
			return
		}

		transactionsChanged(r.Context(), cache, pub, userID, events.ReasonExpenseCreated)
		log.Info().Int64("expense_id", created.ID).Msg("created expense")
		util.WriteSuccess(w, http.StatusCreated, created)
	}
}

func UpdateExpense(store ExpenseStore, cache *db.Cache, pub events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		log := logger.FromContext(r.Context())

		expenseID, err := pathID(r, "id")
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, "Invalid expense id")
			return
		}

		var req expenseRequest
		if err := decodeBody(r, &req); err != nil {
			log.Warn().Err(err).Msg("failed to decode update expense request")
			util.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		txn, msg := req.toTransaction(userID)
		if txn == nil {
			util.WriteError(w, http.StatusBadRequest, msg)
			return
		}
		txn.ID = expenseID

		updated, err := store.UpdateExpense(r.Context(), txn)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Expense not found")
				return
			}
			log.Error().Err(err).Int64("expense_id", expenseID).Msg("failed to update expense")
			util.WriteError(w, http.StatusInternalServerError, "Error updating expense")
			return
		}

		transactionsChanged(r.Context(), cache, pub, userID, events.ReasonExpenseUpdated)
		util.WriteSuccess(w, http.StatusOK, updated)
	}
}

func DeleteExpense(store ExpenseStore, cache *db.Cache, pub events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		expenseID, err := pathID(r, "id")
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, "Invalid expense id")
			return
		}

		if err := store.DeleteExpense(r.Context(), userID, expenseID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				util.WriteError(w, http.StatusNotFound, "Expense not found")
				return
			}
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Int64("expense_id", expenseID).Msg("failed to delete expense")
			util.WriteError(w, http.StatusInternalServerError, "Error deleting expense")
			return
		}

		transactionsChanged(r.Context(), cache, pub, userID, events.ReasonExpenseDeleted)
		util.WriteMessage(w, http.StatusOK, "Expense deleted successfully")
	}
}

// GetSummary serves totals from the per-user cache, computing them from the
// full transaction set on a miss.
func GetSummary(store ExpenseStore, cache *db.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		if summary, found := cache.GetSummary(userID); found {
			util.WriteSuccess(w, http.StatusOK, summary)
			return
		}

		version := cache.SummaryVersion(userID)
		txns, err := store.GetExpenses(r.Context(), userID, 0)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Msg("failed to fetch expenses for summary")
			util.WriteError(w, http.StatusInternalServerError, "Error fetching summary")
			return
		}

		summary := finance.Summarize(txns)
		cache.SetSummary(userID, version, summary)
		util.WriteSuccess(w, http.StatusOK, summary)
	}
}
