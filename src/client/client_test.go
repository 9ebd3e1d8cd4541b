package client

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"finsentinel-server/src/api"
	"finsentinel-server/src/db"
	"finsentinel-server/src/db/sqlite"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.NewStore(filepath.Join(t.TempDir(), "client.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cache, err := db.NewCache()
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	t.Cleanup(cache.Close)

	srv := httptest.NewServer(api.NewRouter(api.Deps{
		Store:     store,
		Cache:     cache,
		Logger:    zerolog.Nop(),
		JWTSecret: "client-secret",
		JWTExpire: time.Hour,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRoundTrip(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	if err := c.Health(ctx); err != nil {
		t.Fatalf("Health: %v", err)
	}

	auth, err := c.Signup(ctx, "Casey", "casey@example.com", "secret1")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	token := auth.Token

	created, err := c.CreateExpense(ctx, token, ExpenseInput{Description: "Salary", Amount: 2000, Category: "Job", Type: "income", Date: "2024-04-01"})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	rent, err := c.CreateExpense(ctx, token, ExpenseInput{Description: "Rent", Amount: 800, Category: "Housing", Date: "2024-04-02"})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	rent, err = c.UpdateExpense(ctx, token, rent.ID, ExpenseInput{Description: "Rent", Amount: 750, Category: "Housing", Date: "2024-04-02"})
	if err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}

	summary, err := c.Summary(ctx, token)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Balance != 1250 {
		t.Errorf("balance = %v, want 1250", summary.Balance)
	}

	list, err := c.ListExpenses(ctx, token)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListExpenses = %d rows, err %v", len(list), err)
	}

	if err := c.DeleteExpense(ctx, token, created.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}

	budget, err := c.CreateBudget(ctx, token, BudgetInput{Category: "Housing", Amount: 900, StartDate: "2024-04-01", EndDate: "2024-04-30"})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	if _, err := c.UpdateBudget(ctx, token, budget.ID, BudgetInput{Category: "Housing", Amount: 950, Period: "monthly", StartDate: "2024-04-01", EndDate: "2024-04-30"}); err != nil {
		t.Fatalf("UpdateBudget: %v", err)
	}
	budgets, err := c.ListBudgets(ctx, token)
	if err != nil || len(budgets) != 1 || budgets[0].Amount != 950 {
		t.Fatalf("ListBudgets = %+v, err %v", budgets, err)
	}
	if err := c.DeleteBudget(ctx, token, budget.ID); err != nil {
		t.Fatalf("DeleteBudget: %v", err)
	}

	insights, err := c.Insights(ctx, token)
	if err != nil || len(insights) != 3 {
		t.Fatalf("Insights = %+v, err %v", insights, err)
	}

	sim, err := c.RunSimulation(ctx, token, SimulationInput{InitialAmount: 10000, MonthlyContribution: 5000, InterestRate: 12, Years: 1})
	if err != nil {
		t.Fatalf("RunSimulation: %v", err)
	}
	if sim.FinalAmount != 74681 {
		t.Errorf("final amount = %v, want 74681", sim.FinalAmount)
	}

	xlsx, err := c.ExportExpenses(ctx, token)
	if err != nil {
		t.Fatalf("ExportExpenses: %v", err)
	}
	if !bytes.HasPrefix(xlsx, []byte("PK")) {
		t.Error("export is not an xlsx archive")
	}

	login, err := c.Login(ctx, "casey@example.com", "secret1")
	if err != nil || login.User.ID != auth.User.ID {
		t.Fatalf("Login = %+v, err %v", login, err)
	}

	me, err := c.Me(ctx, token)
	if err != nil || me.Email != "casey@example.com" {
		t.Fatalf("Me = %+v, err %v", me, err)
	}
	if err := c.ChangePassword(ctx, token, "secret1", "secret2"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := c.Login(ctx, "casey@example.com", "secret2"); err != nil {
		t.Fatalf("Login with new password: %v", err)
	}
	if err := c.DeleteAccount(ctx, token); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
}

func TestClientErrors(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	if _, err := c.ListExpenses(ctx, ""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("empty token: got %v, want ErrMissingToken", err)
	}

	_, err := c.ListExpenses(ctx, "not-a-jwt")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token: got %v, want 401 APIError", err)
	}

	_, err = c.Login(ctx, "nobody@example.com", "secret1")
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid credentials" {
		t.Errorf("login error = %v", err)
	}
}

func TestClientSendsOnlyTheGivenToken(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))
	ctx := context.Background()
	if _, err := c.ListExpenses(ctx, "token-a"); err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if _, err := c.ListBudgets(ctx, "token-b"); err != nil {
		t.Fatalf("ListBudgets: %v", err)
	}
	if err := c.Health(ctx); err != nil {
		t.Fatalf("Health: %v", err)
	}

	want := []string{"Bearer token-a", "Bearer token-b", ""}
	for i, w := range want {
		if seen[i] != w {
			t.Errorf("request %d Authorization = %q, want %q", i, seen[i], w)
		}
	}
}
