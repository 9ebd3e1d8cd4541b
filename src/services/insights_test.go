package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"finsentinel-server/src/events"
	"finsentinel-server/src/models"
)

type fakeStore struct {
	txns      []models.Transaction
	stored    map[int64][]models.Insight
	limit     int
	fetchErr  error
	deleteErr error
	createErr error
}

func newFakeStore(txns ...models.Transaction) *fakeStore {
	return &fakeStore{txns: txns, stored: map[int64][]models.Insight{}}
}

func (f *fakeStore) GetExpenses(_ context.Context, userID int64, limit int) ([]models.Transaction, error) {
	f.limit = limit
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var out []models.Transaction
	for _, t := range f.txns {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteInsights(_ context.Context, userID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.stored, userID)
	return nil
}

func (f *fakeStore) CreateInsight(_ context.Context, userID int64, insight models.Insight) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.stored[userID] = append(f.stored[userID], insight)
	return nil
}

func expense(userID int64, category string, amount float64) models.Transaction {
	return models.Transaction{
		UserID:   userID,
		Category: category,
		Amount:   amount,
		Type:     models.TransactionTypeExpense,
		Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRefreshReplacesStoredInsights(t *testing.T) {
	store := newFakeStore(expense(1, "Food", 100), expense(1, "Rent", 50))
	svc := NewInsightService(store)
	ctx := context.Background()

	first, err := svc.Refresh(ctx, 1)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, err := svc.Refresh(ctx, 1); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}

	if got := len(store.stored[1]); got != len(first) {
		t.Errorf("stored %d insights after two refreshes, want %d", got, len(first))
	}
	if store.limit != 100 {
		t.Errorf("fetch limit = %d, want 100", store.limit)
	}
}

func TestRefreshEmptyHistory(t *testing.T) {
	svc := NewInsightService(newFakeStore())

	insights, err := svc.Refresh(context.Background(), 9)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(insights) != 1 || insights[0].Title != "Start Tracking" {
		t.Errorf("got %+v", insights)
	}
}

func TestRefreshPersistenceFailuresAreNonFatal(t *testing.T) {
	store := newFakeStore(expense(1, "Food", 100))
	store.deleteErr = errors.New("delete failed")
	store.createErr = errors.New("insert failed")

	insights, err := NewInsightService(store).Refresh(context.Background(), 1)
	if err != nil {
		t.Fatalf("Refresh returned %v, want nil", err)
	}
	if len(insights) == 0 {
		t.Error("expected generated insights despite store failures")
	}
}

func TestRefreshFetchFailure(t *testing.T) {
	store := newFakeStore()
	store.fetchErr = errors.New("db down")

	if _, err := NewInsightService(store).Refresh(context.Background(), 1); !errors.Is(err, store.fetchErr) {
		t.Errorf("got %v, want wrapped fetch error", err)
	}
}

func TestHandleTransactionsChanged(t *testing.T) {
	store := newFakeStore(expense(3, "Food", 40))
	svc := NewInsightService(store)

	msg := events.NewTransactionsChangedMessage(3, events.ReasonExpenseCreated)
	if err := svc.HandleTransactionsChanged(context.Background(), msg); err != nil {
		t.Fatalf("HandleTransactionsChanged: %v", err)
	}
	if len(store.stored[3]) == 0 {
		t.Error("consumer did not store insights")
	}

	if err := svc.HandleTransactionsChanged(context.Background(), &events.TransactionsChangedMessage{}); err != nil {
		t.Errorf("zero user id should be acked, got %v", err)
	}
}
