// Package services holds workflows that combine the store with the pure
// calculators in package finance.
package services

import (
	"context"
	"fmt"

	"finsentinel-server/src/events"
	"finsentinel-server/src/finance"
	"finsentinel-server/src/logger"
	"finsentinel-server/src/models"
)

type InsightStore interface {
	GetExpenses(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)
	DeleteInsights(ctx context.Context, userID int64) error
	CreateInsight(ctx context.Context, userID int64, insight models.Insight) error
}

type InsightService struct {
	store InsightStore
}

func NewInsightService(store InsightStore) *InsightService {
	return &InsightService{store: store}
}

// Refresh regenerates a user's insights from their most recent transactions
// and replaces the stored set. Persistence is best effort: the generated
// insights are returned even when deleting or inserting fails.
func (s *InsightService) Refresh(ctx context.Context, userID int64) ([]models.Insight, error) {
	log := logger.FromContext(ctx)

	txns, err := s.store.GetExpenses(ctx, userID, finance.RecentTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch recent transactions: %w", err)
	}

	insights := finance.GenerateInsights(txns)

	if err := s.store.DeleteInsights(ctx, userID); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to clear stored insights")
	}
	for _, insight := range insights {
		if err := s.store.CreateInsight(ctx, userID, insight); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Str("title", insight.Title).Msg("failed to store insight")
		}
	}

	return insights, nil
}

// HandleTransactionsChanged is the consumer side of the transactions
// changed event.
func (s *InsightService) HandleTransactionsChanged(ctx context.Context, msg *events.TransactionsChangedMessage) error {
	if msg.UserID <= 0 {
		// nothing to refresh; ack and move on
		return nil
	}
	insights, err := s.Refresh(ctx, msg.UserID)
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	log.Info().
		Int64("user_id", msg.UserID).
		Str("reason", msg.Reason).
		Int("insights", len(insights)).
		Msg("refreshed insights")
	return nil
}
