package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nurse-triage-backend/internal/model"
)

// SessionHeader carries the admin session id on registration requests.
const SessionHeader = "X-Admin-Session"

type unlockRequest struct {
	Password string `json:"password"`
}

// OpenAdminSession handles POST /api/admin/sessions.
func (h *Handler) OpenAdminSession(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"session_id": h.Sessions.Open()})
}

// UnlockAdminSession handles POST /api/admin/sessions/:id/unlock.
func (h *Handler) UnlockAdminSession(c *gin.Context) {
	var req unlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.Sessions.Unlock(c.Param("id"), strings.TrimSpace(req.Password)); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unlocked": true})
}

// CloseAdminSession handles DELETE /api/admin/sessions/:id.
func (h *Handler) CloseAdminSession(c *gin.Context) {
	h.Sessions.Close(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// RegisterPatient handles POST /api/admin/patients. The session must be
// unlocked; it is consumed only when registration succeeds.
func (h *Handler) RegisterPatient(c *gin.Context) {
	sessionID := c.GetHeader(SessionHeader)
	if err := h.Sessions.Authorize(sessionID); err != nil {
		abortWithError(c, err)
		return
	}

	var rec model.PatientRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	registered, err := h.Registry.Register(rec)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := h.Sessions.Consume(sessionID); err != nil {
		h.Logger.Warn("admin session expired during registration", zap.Error(err))
	}

	c.JSON(http.StatusCreated, registered)
}
