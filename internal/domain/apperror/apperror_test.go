package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errGoalMissing = New(KindGoalNotFound, "goal not found")

func TestDerivedErrorsMatchSentinel(t *testing.T) {
	derived := errGoalMissing.WithSuggestions("Laptop", "Vacation")
	wrapped := fmt.Errorf("boost: %w", derived)

	assert.True(t, errors.Is(wrapped, errGoalMissing))
	assert.Equal(t, KindGoalNotFound, KindOf(wrapped))
	assert.Equal(t, []string{"Laptop", "Vacation"}, SuggestionsOf(wrapped))
	assert.Empty(t, errGoalMissing.Suggestions)
}

func TestDerivedFromDerivedKeepsRoot(t *testing.T) {
	first := errGoalMissing.Withf("goal %q not found", "Car")
	second := first.WithSuggestions("Cart")

	assert.True(t, errors.Is(second, errGoalMissing))
	assert.Equal(t, `goal "Car" not found`, second.Error())
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.False(t, IsKind(nil, KindInternal))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("timeout")
	unavailable := New(KindUnavailable, "service unavailable")

	err := unavailable.Wrap(cause)

	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, unavailable)
	assert.Equal(t, "service unavailable: timeout", err.Error())
}
