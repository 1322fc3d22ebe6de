package emergency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/sinawise/sinawise-server/internal/domain/emergency"
	"github.com/sinawise/sinawise-server/internal/notify"
)

// testComposer mirrors the production defaults.
func testComposer() Composer {
	return Composer{
		Topic:            "emergency_alerts",
		TTL:              time.Hour,
		AndroidChannelID: "sinawise_alerts",
		Sound:            "default",
	}
}

// TestCompose_Active checks the payload for a triggered alert at high urgency.
func TestCompose_Active(t *testing.T) {
	t.Parallel()

	level := "AWAS"
	alert := &domain.Alert{
		Active:    true,
		Level:     &level,
		Message:   "Evacuate now",
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	msg := testComposer().Compose(alert, UrgencyHigh)

	require.Equal(t, "emergency_alerts", msg.Topic)
	require.Equal(t, "ALERT: AWAS", msg.Title)
	require.Equal(t, "Evacuate now", msg.Body)
	require.Equal(t, notify.PriorityHigh, msg.Priority)
	require.Equal(t, time.Hour, msg.TTL)
	require.Equal(t, "sinawise_alerts", msg.AndroidChannelID)
	require.Equal(t, "default", msg.Sound)
	require.True(t, msg.ContentAvailable)

	require.Equal(t, "true", msg.Data["active"])
	require.Equal(t, "AWAS", msg.Data["level"])
	require.Equal(t, "Evacuate now", msg.Data["message"])
	require.Equal(t, "emergency", msg.Data["type"])
	require.Equal(t, "/emergency", msg.Data["route"])
	require.Equal(t, "2025-06-01T12:00:00Z", msg.Data["updated_at"])
}

// TestCompose_ActiveNoLevel checks the title stem and the evacuation fallback body.
func TestCompose_ActiveNoLevel(t *testing.T) {
	t.Parallel()

	msg := testComposer().Compose(&domain.Alert{Active: true}, UrgencyHigh)

	require.Equal(t, "ALERT", msg.Title)
	require.Equal(t, "Segera evakuasi!", msg.Body)
	require.Empty(t, msg.Data["level"])
}

// TestCompose_Cleared checks the payload for a cleared alert at normal urgency.
func TestCompose_Cleared(t *testing.T) {
	t.Parallel()

	alert := &domain.Alert{
		Active:    false,
		Message:   "Situasi sudah aman.",
		UpdatedAt: time.Now().UTC(),
	}

	msg := testComposer().Compose(alert, UrgencyNormal)

	require.Equal(t, "INFO", msg.Title)
	require.Equal(t, "Situasi sudah aman.", msg.Body)
	require.Equal(t, notify.PriorityNormal, msg.Priority)
	require.Equal(t, "false", msg.Data["active"])
	// Normal urgency carries no sound or channel hints.
	require.Empty(t, msg.AndroidChannelID)
	require.Empty(t, msg.Sound)
	require.Empty(t, msg.ClickAction)
}
