package rest

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sinawise/sinawise-server/internal/logger"
)

// adminUsernameKey stores the authenticated admin name in the gin context.
const adminUsernameKey = "admin_username"

// loginRequest is the admin login body.
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// login serves POST /admin/login and issues a session token.
func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "username and password are required")

		return
	}

	if !h.opts.Credentials.Check(req.Username, req.Password) {
		logger.WarnKV(c.Request.Context(), "Admin login rejected", "username", req.Username)
		fail(c, http.StatusUnauthorized, "invalid credentials")

		return
	}

	token, err := h.opts.Tokens.Issue(req.Username)
	if err != nil {
		fail(c, http.StatusInternalServerError, "unable to issue token")

		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// adminGuard verifies the bearer token on every /admin route except login.
func (h *handlers) adminGuard(c *gin.Context) {
	header := c.GetHeader("Authorization")

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		abort(c, http.StatusUnauthorized, "missing bearer token")

		return
	}

	username, err := h.opts.Tokens.Verify(token)
	if err != nil {
		abort(c, http.StatusUnauthorized, "invalid token")

		return
	}

	c.Set(adminUsernameKey, username)
	c.Next()
}

// iotGuard checks the shared sensor key when one is configured.
func (h *handlers) iotGuard(c *gin.Context) {
	if h.opts.IoTAPIKey == "" {
		c.Next()

		return
	}

	key := strings.TrimSpace(c.GetHeader("X-IOT-KEY"))
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.opts.IoTAPIKey)) != 1 {
		abort(c, http.StatusUnauthorized, "invalid IoT API key")

		return
	}

	c.Next()
}
