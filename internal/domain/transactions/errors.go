package transactions

import "fintrack-go/internal/domain/apperror"

var (
	ErrAmountNotPositive   = apperror.New(apperror.KindValidation, "amount must be greater than zero")
	ErrInvalidKind         = apperror.New(apperror.KindValidation, "transaction kind must be income or expense")
	ErrCategoryKind        = apperror.New(apperror.KindValidation, "category kind does not match transaction kind")
	ErrCurrencyRequired    = apperror.New(apperror.KindValidation, "currency is required")
)
