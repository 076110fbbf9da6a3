package budgets

import "fintrack-go/internal/domain/apperror"

var (
	ErrBudgetNotFound    = apperror.New(apperror.KindBudgetNotFound, "budget not found")
	ErrAmountNotPositive = apperror.New(apperror.KindValidation, "budget amount must be greater than zero")
	ErrInvalidPeriod     = apperror.New(apperror.KindValidation, "budget period must be weekly or monthly")
	ErrIncomeCategory    = apperror.New(apperror.KindValidation, "budgets apply to expense categories only")
	ErrNoSpendingHistory = apperror.New(apperror.KindValidation, "not enough spending history for a recommendation")
)
