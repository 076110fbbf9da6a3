package goals

import "fintrack-go/internal/domain/apperror"

var (
	ErrGoalNotFound      = apperror.New(apperror.KindGoalNotFound, "goal not found")
	ErrInsufficientFunds = apperror.New(apperror.KindInsufficientFunds, "goal does not hold enough funds")
	ErrNameRequired      = apperror.New(apperror.KindValidation, "goal name is required")
	ErrNameTaken         = apperror.New(apperror.KindValidation, "an active goal with this name already exists")
	ErrTargetNotPositive = apperror.New(apperror.KindValidation, "goal target must be greater than zero")
	ErrAmountNotPositive = apperror.New(apperror.KindValidation, "amount must be greater than zero")
	ErrGoalArchived      = apperror.New(apperror.KindValidation, "goal is already complete")
	ErrSameGoal          = apperror.New(apperror.KindValidation, "source and destination goal are the same")
	ErrGoalHasFunds      = apperror.New(apperror.KindValidation, "goal still holds funds; transfer or return them first")
	ErrInvalidFrequency  = apperror.New(apperror.KindValidation, "plan frequency must be weekly, biweekly or monthly")
	ErrPlanNotFound      = apperror.New(apperror.KindValidation, "no active savings plan")
)
