package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	analyticsdomain "fintrack-go/internal/domain/analytics"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Summary(ctx context.Context, userID string, filter analyticsdomain.SummaryFilter) (analyticsdomain.SummaryResult, error) {
	where, args := buildTransactionWhere(userID, filter.From, filter.To)
	query := "SELECT " +
		"COALESCE(SUM(t.amount) FILTER (WHERE t.kind = 'income'), 0) AS income, " +
		"COALESCE(SUM(t.amount) FILTER (WHERE t.kind = 'expense'), 0) AS expense, " +
		"COUNT(*) FILTER (WHERE t.kind = 'income') AS income_count, " +
		"COUNT(*) FILTER (WHERE t.kind = 'expense') AS expense_count " +
		"FROM transactions t WHERE " + where

	var row struct {
		Income       decimal.Decimal `gorm:"column:income"`
		Expense      decimal.Decimal `gorm:"column:expense"`
		IncomeCount  int64           `gorm:"column:income_count"`
		ExpenseCount int64           `gorm:"column:expense_count"`
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&row).Error; err != nil {
		return analyticsdomain.SummaryResult{}, err
	}

	return analyticsdomain.SummaryResult{
		Income:       row.Income,
		Expense:      row.Expense,
		IncomeCount:  row.IncomeCount,
		ExpenseCount: row.ExpenseCount,
	}, nil
}

func (r *PostgresRepository) ByCategory(ctx context.Context, userID string, filter analyticsdomain.ByCategoryFilter) ([]analyticsdomain.ByCategoryRow, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "SELECT c.id AS category_id, c.name AS category_name, COALESCE(SUM(t.amount), 0) AS total, COUNT(t.id) AS count " +
		"FROM transactions t JOIN categories c ON c.id = t.category_id AND c.user_id = t.user_id " +
		"WHERE t.user_id = ? AND t.kind = 'expense' AND t.occurred_at >= ? AND t.occurred_at < ? " +
		"GROUP BY c.id, c.name ORDER BY total DESC, c.name ASC LIMIT ?"

	var rows []analyticsdomain.ByCategoryRow
	if err := r.db.WithContext(ctx).Raw(query, userID, filter.From, filter.To, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MonthlyByCategory buckets by calendar month in the user's timezone, so a
// late-evening UTC expense can land in the next month.
func (r *PostgresRepository) MonthlyByCategory(ctx context.Context, userID string, filter analyticsdomain.MonthlyFilter) ([]analyticsdomain.MonthlyCategoryRow, error) {
	timezone := filter.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	conditions := []string{"t.user_id = ?", "t.kind = 'expense'", "t.occurred_at >= ?", "t.occurred_at < ?"}
	args := []interface{}{timezone, userID, filter.From, filter.To}
	if filter.CategoryID != "" {
		conditions = append(conditions, "t.category_id = ?")
		args = append(args, filter.CategoryID)
	}

	query := fmt.Sprintf("SELECT c.id AS category_id, c.name AS category_name, "+
		"to_char(t.occurred_at AT TIME ZONE ?, 'YYYY-MM') AS month, COALESCE(SUM(t.amount), 0) AS total "+
		"FROM transactions t JOIN categories c ON c.id = t.category_id "+
		"WHERE %s GROUP BY c.id, c.name, month ORDER BY c.id, month", strings.Join(conditions, " AND "))

	var rows []analyticsdomain.MonthlyCategoryRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func buildTransactionWhere(userID string, from, to *time.Time) (string, []interface{}) {
	conditions := []string{"t.user_id = ?"}
	args := []interface{}{userID}

	if from != nil {
		conditions = append(conditions, "t.occurred_at >= ?")
		args = append(args, *from)
	}
	if to != nil {
		conditions = append(conditions, "t.occurred_at < ?")
		args = append(args, *to)
	}
	return strings.Join(conditions, " AND "), args
}
