package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"finsentinel-server/src/models"
)

func DeleteInsightsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) error {
	_, err := pool.Exec(ctx, `DELETE FROM ai_insights WHERE user_id = $1`, userID)
	return err
}

func CreateInsight(ctx context.Context, pool *pgxpool.Pool, userID int64, insight models.Insight) error {
	query := `
		INSERT INTO ai_insights (user_id, title, description, type, recommendation)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := pool.Exec(ctx, query, userID, insight.Title, insight.Description, insight.Type, insight.Recommendation)
	return err
}

func GetInsightsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Insight, error) {
	query := `
		SELECT title, description, type, COALESCE(recommendation, '')
		FROM ai_insights
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	insights := []models.Insight{}
	for rows.Next() {
		var i models.Insight
		if err := rows.Scan(&i.Title, &i.Description, &i.Type, &i.Recommendation); err != nil {
			return nil, err
		}
		insights = append(insights, i)
	}
	return insights, rows.Err()
}
