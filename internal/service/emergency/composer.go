package emergency

import (
	"strconv"
	"time"

	domain "github.com/sinawise/sinawise-server/internal/domain/emergency"
	"github.com/sinawise/sinawise-server/internal/notify"
)

const (
	// activeTitle and clearedTitle are the notification title stems.
	activeTitle  = "ALERT"
	clearedTitle = "INFO"

	// fallbackActiveBody is shown when a triggered alert carries no message.
	fallbackActiveBody = "Segera evakuasi!"
	// fallbackClearedBody is shown when a cleared alert carries no message.
	fallbackClearedBody = "Situasi sudah aman."

	// eventType tags the data payload for client-side handlers.
	eventType = "emergency"
	// clientRoute is the in-app route clients navigate to on tap.
	clientRoute = "/emergency"
	// clickAction routes notification taps in the mobile client.
	clickAction = "FLUTTER_NOTIFICATION_CLICK"
)

// Composer turns alert content and a policy decision into a transport-ready,
// platform-aware payload. Compose is pure: no I/O, no side effects.
type Composer struct {
	// Topic is the broadcast topic the payload is addressed to.
	Topic string
	// TTL is how long an undelivered payload stays queued.
	TTL time.Duration
	// AndroidChannelID and Sound are the device-side hints for high urgency.
	AndroidChannelID string
	Sound            string
}

// Compose builds the payload for the given alert and urgency.
func (c Composer) Compose(alert *domain.Alert, urgency Urgency) *notify.Message {
	msg := &notify.Message{
		Topic:            c.Topic,
		TTL:              c.TTL,
		Data:             composeData(alert),
		ContentAvailable: true,
		Priority:         notify.PriorityNormal,
	}

	if alert.Active {
		msg.Title = activeTitle
		if level := alert.LevelOrEmpty(); level != "" {
			msg.Title = activeTitle + ": " + level
		}

		msg.Body = alert.Message
		if msg.Body == "" {
			msg.Body = fallbackActiveBody
		}
	} else {
		msg.Title = clearedTitle

		msg.Body = alert.Message
		if msg.Body == "" {
			msg.Body = fallbackClearedBody
		}
	}

	if urgency == UrgencyHigh {
		msg.Priority = notify.PriorityHigh
		msg.AndroidChannelID = c.AndroidChannelID
		msg.Sound = c.Sound
		msg.ClickAction = clickAction
	}

	return msg
}

// composeData builds the string-keyed map clients act on while backgrounded.
// All values are strings: the transport requires homogeneous string maps.
func composeData(alert *domain.Alert) map[string]string {
	return map[string]string{
		"type":       eventType,
		"route":      clientRoute,
		"active":     strconv.FormatBool(alert.Active),
		"level":      alert.LevelOrEmpty(),
		"message":    alert.Message,
		"updated_at": alert.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
