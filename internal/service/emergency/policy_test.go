package emergency

import (
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/sinawise/sinawise-server/internal/domain/emergency"
)

// TestDecide_Trigger asserts an emergency is always announced at high urgency.
func TestDecide_Trigger(t *testing.T) {
	t.Parallel()

	level := "AWAS"
	next := &domain.Alert{Active: true, Level: &level, Message: "Evacuate now"}

	// From inactive.
	decision := Policy{}.Decide(&domain.Alert{}, next)
	require.True(t, decision.Notify)
	require.Equal(t, UrgencyHigh, decision.Urgency)

	// Re-trigger over an already-active emergency is still announced.
	decision = Policy{}.Decide(next, next)
	require.True(t, decision.Notify)
	require.Equal(t, UrgencyHigh, decision.Urgency)
}

// TestDecide_Clear asserts clears are silent unless explicitly opted in.
func TestDecide_Clear(t *testing.T) {
	t.Parallel()

	level := "AWAS"
	prev := &domain.Alert{Active: true, Level: &level}
	next := &domain.Alert{Active: false, Message: "Situasi sudah aman."}

	decision := Policy{}.Decide(prev, next)
	require.False(t, decision.Notify)
	require.NotEmpty(t, decision.Reason)

	decision = Policy{NotifyOnClear: true}.Decide(prev, next)
	require.True(t, decision.Notify)
	require.Equal(t, UrgencyNormal, decision.Urgency)
}
