package intent

import "fintrack-go/internal/domain/apperror"

var (
	ErrLowConfidence  = apperror.New(apperror.KindLowConfidence, "request is not clear enough")
	ErrUnavailable    = apperror.New(apperror.KindUnavailable, "understanding service unavailable")
	ErrMalformed      = apperror.New(apperror.KindUnavailable, "understanding service returned a malformed intent")
	ErrAmountRequired = apperror.New(apperror.KindValidation, "amount must be greater than zero")
)

func validConfidence(c float64) bool {
	return c >= 0 && c <= 1
}

func (t TransactionIntent) Validate() error {
	if !validConfidence(t.Confidence) {
		return ErrMalformed.Withf("transaction confidence %v outside [0,1]", t.Confidence)
	}
	if !t.Kind.Valid() {
		return ErrMalformed.Withf("unknown transaction kind %q", t.Kind)
	}
	if s := t.SuggestedNewCategory; s != nil {
		if s.Name == "" {
			return ErrMalformed.Withf("suggested category without a name")
		}
		if s.Kind == "" {
			s.Kind = t.Kind
		}
		if !s.Kind.Valid() {
			return ErrMalformed.Withf("unknown suggested category kind %q", s.Kind)
		}
	}
	return nil
}

// Accept applies the channel threshold and the positive-amount rule. It is
// called after Validate, once the intent is known to be well formed.
func (t TransactionIntent) Accept(channel Channel) error {
	if t.Confidence < TransactionThreshold(channel) {
		return ErrLowConfidence
	}
	if !t.Amount.IsPositive() {
		return ErrAmountRequired
	}
	return nil
}

func (b BudgetIntent) Validate() error {
	if !validConfidence(b.Confidence) {
		return ErrMalformed.Withf("budget confidence %v outside [0,1]", b.Confidence)
	}
	switch b.Action {
	case BudgetCreate, BudgetUpdate, BudgetDelete, BudgetCheck, BudgetList:
	default:
		return ErrMalformed.Withf("unknown budget action %q", b.Action)
	}
	switch b.Period {
	case "", "weekly", "monthly":
	default:
		return ErrMalformed.Withf("unknown budget period %q", b.Period)
	}
	return nil
}

func (c CategoryIntent) Validate() error {
	if !validConfidence(c.Confidence) {
		return ErrMalformed.Withf("category confidence %v outside [0,1]", c.Confidence)
	}
	switch c.Action {
	case CategoryCreate, CategoryUpdate, CategoryDelete, CategoryList:
	default:
		return ErrMalformed.Withf("unknown category action %q", c.Action)
	}
	if c.Kind != "" && !c.Kind.Valid() {
		return ErrMalformed.Withf("unknown category kind %q", c.Kind)
	}
	return nil
}

func (s SavingsIntent) Validate() error {
	if !validConfidence(s.Confidence) {
		return ErrMalformed.Withf("savings confidence %v outside [0,1]", s.Confidence)
	}
	switch s.Action {
	case SavingsSave, SavingsCreateGoal, SavingsListGoals, SavingsCheckBalance,
		SavingsSetPlan, SavingsTransferGoal, SavingsReturnFunds, SavingsDeleteGoal:
	default:
		return ErrMalformed.Withf("unknown savings action %q", s.Action)
	}
	switch s.Frequency {
	case "", "weekly", "biweekly", "monthly":
	default:
		return ErrMalformed.Withf("unknown savings frequency %q", s.Frequency)
	}
	return nil
}

// AcceptCommand applies the shared threshold for budget, category and
// savings commands.
func AcceptCommand(confidence float64) error {
	if confidence < ThresholdCommand {
		return ErrLowConfidence
	}
	return nil
}
