package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestToFCMMessage_High checks the expedited delivery hints.
func TestToFCMMessage_High(t *testing.T) {
	t.Parallel()

	msg := &Message{
		Topic:            "emergency_alerts",
		Title:            "ALERT: AWAS",
		Body:             "Evacuate now",
		Data:             map[string]string{"active": "true"},
		Priority:         PriorityHigh,
		TTL:              time.Hour,
		AndroidChannelID: "sinawise_alerts",
		Sound:            "default",
		ClickAction:      "FLUTTER_NOTIFICATION_CLICK",
		ContentAvailable: true,
	}

	out := toFCMMessage(msg)

	require.Equal(t, "emergency_alerts", out.Topic)
	require.Equal(t, "high", out.Android.Priority)
	require.Equal(t, "10", out.APNS.Headers["apns-priority"])
	require.Equal(t, time.Hour, *out.Android.TTL)
	require.Equal(t, "sinawise_alerts", out.Android.Notification.ChannelID)
	require.Equal(t, "FLUTTER_NOTIFICATION_CLICK", out.Android.Notification.ClickAction)
	require.True(t, out.APNS.Payload.Aps.ContentAvailable)
	require.Equal(t, map[string]string{"active": "true"}, out.Data)
}

// TestToFCMMessage_Normal checks the standard delivery hints.
func TestToFCMMessage_Normal(t *testing.T) {
	t.Parallel()

	out := toFCMMessage(&Message{
		Topic:    "emergency_alerts",
		Title:    "INFO",
		Body:     "Situasi sudah aman.",
		Priority: PriorityNormal,
		TTL:      time.Hour,
	})

	require.Equal(t, "normal", out.Android.Priority)
	require.Equal(t, "5", out.APNS.Headers["apns-priority"])
	require.Nil(t, out.Android.Notification)
}

// TestNoop reports unavailability without side effects.
func TestNoop(t *testing.T) {
	t.Parallel()

	_, err := Noop{}.Send(context.Background(), &Message{Topic: "emergency_alerts"})
	require.ErrorIs(t, err, ErrUnavailable)
}

// TestFCM_Unconfigured verifies a credential-less transport fails cleanly on send.
func TestFCM_Unconfigured(t *testing.T) {
	t.Parallel()

	transport := NewFCM("", nil)
	require.False(t, transport.Configured())

	_, err := transport.Send(context.Background(), &Message{Topic: "emergency_alerts"})
	require.ErrorIs(t, err, ErrUnavailable)
}
