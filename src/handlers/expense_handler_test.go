package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finsentinel-server/src/db"
	"finsentinel-server/src/middleware"
	"finsentinel-server/src/models"
)

// concurrentWriteStore commits a write while the first read is in progress.
type concurrentWriteStore struct {
	txns   []models.Transaction
	onRead func()
}

func (s *concurrentWriteStore) GetExpenses(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	snapshot := append([]models.Transaction(nil), s.txns...)
	if f := s.onRead; f != nil {
		s.onRead = nil
		f()
	}
	return snapshot, nil
}

func (s *concurrentWriteStore) CreateExpense(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	s.txns = append(s.txns, *txn)
	return txn, nil
}

func (s *concurrentWriteStore) UpdateExpense(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	return txn, nil
}

func (s *concurrentWriteStore) DeleteExpense(ctx context.Context, userID, expenseID int64) error {
	return nil
}

func TestGetSummaryDropsResultOfReadOverlappingWrite(t *testing.T) {
	const userID = 7
	cache, err := db.NewCache()
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	store := &concurrentWriteStore{txns: []models.Transaction{
		{UserID: userID, Amount: 100, Category: "Salary", Type: models.TransactionTypeIncome, Date: date},
	}}
	store.onRead = func() {
		store.CreateExpense(context.Background(), &models.Transaction{
			UserID: userID, Amount: 40, Category: "Food", Type: models.TransactionTypeExpense, Date: date,
		})
		cache.DelSummary(userID)
	}

	handler := GetSummary(store, cache)
	get := func() models.Summary {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/api/expenses/summary", nil)
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
		rec := httptest.NewRecorder()
		handler(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Data models.Summary `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		return resp.Data
	}

	get()
	got := get()
	if got.TotalExpenses != 40 || got.Balance != 60 {
		t.Errorf("second summary = %+v, want expenses 40 and balance 60", got)
	}
}
