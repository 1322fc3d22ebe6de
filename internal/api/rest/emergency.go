package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// triggerRequest is the admin body for trigger and its activate alias.
// Both fields are optional; empty values fall back to server-side defaults.
type triggerRequest struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// clearRequest is the admin body for clear. The body itself is optional.
type clearRequest struct {
	Message string `json:"message"`
}

// emergencyStatus serves GET /emergency/status.
func (h *handlers) emergencyStatus(c *gin.Context) {
	alert, err := h.opts.Emergency.Status(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "unable to read emergency status")

		return
	}

	c.JSON(http.StatusOK, toAlertStatus(alert))
}

// emergencyTrigger serves POST /admin/emergency/trigger and /admin/emergency/activate.
func (h *handlers) emergencyTrigger(c *gin.Context) {
	var req triggerRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")

			return
		}
	}

	alert, outcome, err := h.opts.Emergency.Trigger(c.Request.Context(), req.Level, req.Message)
	if err != nil {
		fail(c, http.StatusInternalServerError, "unable to persist emergency state")

		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"status": toAlertStatus(alert),
		"notify": toNotifyOutcome(outcome),
	})
}

// emergencyClear serves POST /admin/emergency/clear.
func (h *handlers) emergencyClear(c *gin.Context) {
	var req clearRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")

			return
		}
	}

	alert, outcome, err := h.opts.Emergency.Clear(c.Request.Context(), req.Message)
	if err != nil {
		fail(c, http.StatusInternalServerError, "unable to persist emergency state")

		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"status": toAlertStatus(alert),
		"notify": toNotifyOutcome(outcome),
	})
}
