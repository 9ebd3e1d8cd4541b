package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"finsentinel-server/src/middleware"
	"finsentinel-server/src/util"
)

// requireUser returns the authenticated user id or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		util.WriteError(w, http.StatusUnauthorized, "Not authorized")
		return 0, false
	}
	return userID, true
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// maxAmount is the first value that no longer fits NUMERIC(14, 2).
var maxAmount = decimal.New(1, 12)

// amountError returns a client message when the amount cannot be stored
// exactly, or "" when it is acceptable.
func amountError(amount decimal.Decimal) string {
	if !amount.IsPositive() {
		return "Amount must be greater than zero"
	}
	if !amount.Equal(amount.Truncate(2)) {
		return "Amount must have at most 2 decimal places"
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return "Amount must be less than 1000000000000"
	}
	return ""
}
