package categories

import "fintrack-go/internal/domain/apperror"

var (
	ErrCategoryNotFound   = apperror.New(apperror.KindCategoryNotFound, "category not found")
	ErrCategoryUnresolved = apperror.New(apperror.KindCategoryUnresolved, "no matching category and no fallback available")
	ErrNameTaken          = apperror.New(apperror.KindValidation, "category name already exists")
	ErrNameRequired       = apperror.New(apperror.KindValidation, "category name is required")
	ErrNameTooLong        = apperror.New(apperror.KindValidation, "category name is too long")
	ErrInvalidKind        = apperror.New(apperror.KindValidation, "category kind must be income or expense")
	ErrInvalidColor       = apperror.New(apperror.KindValidation, "category color must be #rrggbb")
	ErrInvalidIcon        = apperror.New(apperror.KindValidation, "category icon must be a single emoji")
	ErrDefaultProtected   = apperror.New(apperror.KindValidation, "default categories cannot be deleted")
	ErrReservedProtected  = apperror.New(apperror.KindValidation, "reserved categories cannot be renamed")
	ErrCategoryInUse      = apperror.New(apperror.KindValidation, "category has transactions")
)
