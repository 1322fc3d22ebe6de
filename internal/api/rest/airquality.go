package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// airIngestRequest is the sensor body for POST /iot/air.
type airIngestRequest struct {
	PM25     *float64 `json:"pm25" binding:"required"`
	PM10     *float64 `json:"pm10"`
	PM1      *float64 `json:"pm1"`
	DeviceID string   `json:"device_id"`
}

// airLatest serves GET /iot/air/latest.
func (h *handlers) airLatest(c *gin.Context) {
	reading, err := h.opts.AirQuality.Latest(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "unable to read air quality")

		return
	}

	c.JSON(http.StatusOK, reading)
}

// airIngest serves POST /iot/air.
func (h *handlers) airIngest(c *gin.Context) {
	var req airIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "pm25 is required")

		return
	}

	reading, err := h.opts.AirQuality.Ingest(c.Request.Context(), *req.PM25, req.PM10, req.PM1, req.DeviceID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "unable to store air quality")

		return
	}

	c.JSON(http.StatusOK, reading)
}
