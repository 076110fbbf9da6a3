package identity

import "fintrack-go/internal/domain/apperror"

var (
	ErrNotLinked            = apperror.New(apperror.KindValidation, "channel identity is not linked")
	ErrCodeNotFound         = apperror.New(apperror.KindValidation, "activation code not found")
	ErrCodeExpired          = apperror.New(apperror.KindValidation, "activation code expired or already used")
	ErrCodeGenerationFailed = apperror.New(apperror.KindInternal, "activation code generation failed")
	ErrIdentityRequired     = apperror.New(apperror.KindValidation, "channel identity is required")
)
