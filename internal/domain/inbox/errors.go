package inbox

import "fintrack-go/internal/domain/apperror"

var (
	ErrInProgress      = apperror.New(apperror.KindValidation, "message is already being processed")
	ErrPayloadMismatch = apperror.New(apperror.KindValidation, "message id reused with a different payload")
)
