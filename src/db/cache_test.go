package db

import (
	"testing"

	"finsentinel-server/src/models"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache()
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestCacheSummaryRoundTrip(t *testing.T) {
	c := newTestCache(t)
	want := models.Summary{TotalIncome: 100, TotalExpenses: 40, Balance: 60}

	if _, ok := c.GetSummary(1); ok {
		t.Fatal("expected miss on empty cache")
	}

	if !c.SetSummary(1, c.SummaryVersion(1), want) {
		t.Fatal("SetSummary() with current version was skipped")
	}
	got, ok := c.GetSummary(1)
	if !ok {
		t.Fatal("expected hit after SetSummary")
	}
	if got != want {
		t.Errorf("GetSummary() = %+v, want %+v", got, want)
	}
	if _, ok := c.GetSummary(2); ok {
		t.Error("summary leaked to another user")
	}

	c.DelSummary(1)
	if _, ok := c.GetSummary(1); ok {
		t.Error("expected miss after DelSummary")
	}
}

func TestCacheSkipsSummaryReadBeforeInvalidation(t *testing.T) {
	c := newTestCache(t)

	v := c.SummaryVersion(1)
	other := c.SummaryVersion(2)
	c.DelSummary(1)

	if c.SetSummary(1, v, models.Summary{Balance: 100}) {
		t.Error("SetSummary() stored a summary read before DelSummary")
	}
	if _, ok := c.GetSummary(1); ok {
		t.Error("stale summary is cached")
	}
	if !c.SetSummary(2, other, models.Summary{Balance: 2}) {
		t.Error("DelSummary for user 1 invalidated user 2")
	}

	if !c.SetSummary(1, c.SummaryVersion(1), models.Summary{Balance: 60}) {
		t.Fatal("SetSummary() with fresh version was skipped")
	}
	if got, ok := c.GetSummary(1); !ok || got.Balance != 60 {
		t.Errorf("GetSummary() = %+v, %v", got, ok)
	}
}

func TestCacheClearAllSummaries(t *testing.T) {
	c := newTestCache(t)
	c.SetSummary(1, c.SummaryVersion(1), models.Summary{Balance: 1})
	c.SetSummary(2, c.SummaryVersion(2), models.Summary{Balance: 2})
	inFlight := c.SummaryVersion(3)

	c.ClearAllSummaries()

	for _, id := range []int64{1, 2} {
		if _, ok := c.GetSummary(id); ok {
			t.Errorf("user %d: expected miss after ClearAllSummaries", id)
		}
	}
	if c.SetSummary(3, inFlight, models.Summary{Balance: 3}) {
		t.Error("SetSummary() stored a summary read before ClearAllSummaries")
	}
}
