package preferences

import "fintrack-go/internal/domain/apperror"

var (
	ErrPreferencesNotFound = apperror.New(apperror.KindValidation, "preferences not found")
	ErrInvalidCurrency     = apperror.New(apperror.KindValidation, "currency must be a 3-letter code")
	ErrInvalidLanguage     = apperror.New(apperror.KindValidation, "language must be id or en")
	ErrInvalidTimezone     = apperror.New(apperror.KindValidation, "unknown timezone")
)
