package analytics

import "context"

type Repository interface {
	Summary(ctx context.Context, userID string, filter SummaryFilter) (SummaryResult, error)
	ByCategory(ctx context.Context, userID string, filter ByCategoryFilter) ([]ByCategoryRow, error)
	MonthlyByCategory(ctx context.Context, userID string, filter MonthlyFilter) ([]MonthlyCategoryRow, error)
}
