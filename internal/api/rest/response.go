package rest

import (
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/sinawise/sinawise-server/internal/domain/emergency"
	"github.com/sinawise/sinawise-server/internal/service/emergency"
)

// alertStatus is the wire form of the emergency alert record.
type alertStatus struct {
	Active    bool    `json:"active"`
	Level     *string `json:"level"`
	Message   string  `json:"message"`
	UpdatedAt string  `json:"updated_at"`
}

// notifyOutcome is the wire form of a notification dispatch outcome.
type notifyOutcome struct {
	Outcome   string `json:"outcome"`
	MessageID string `json:"message_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// toAlertStatus converts a domain alert into its wire form.
func toAlertStatus(alert *domain.Alert) alertStatus {
	return alertStatus{
		Active:    alert.Active,
		Level:     alert.Level,
		Message:   alert.Message,
		UpdatedAt: alert.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// toNotifyOutcome converts a dispatch outcome into its wire form.
func toNotifyOutcome(outcome emergency.Outcome) notifyOutcome {
	return notifyOutcome{
		Outcome:   string(outcome.Kind),
		MessageID: outcome.MessageID,
		Reason:    outcome.Reason,
	}
}

// fail writes a uniform error response.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"ok": false, "error": message})
}

// abort writes a uniform error response and stops the handler chain.
func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": false, "error": message})
}
