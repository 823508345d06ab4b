package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type escalateRequest struct {
	Reason string `json:"reason"`
}

type documentRequest struct {
	Note string `json:"note"`
}

// Confirm handles POST /api/actions/confirm.
func (h *Handler) Confirm(c *gin.Context) {
	h.Actions.Confirm()
	c.JSON(http.StatusOK, gin.H{"message": "Action confirmed. Physician alert and documentation logged."})
}

// Escalate handles POST /api/actions/escalate.
func (h *Handler) Escalate(c *gin.Context) {
	var req escalateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.Actions.Escalate(req.Reason); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Senior Nurse has been alerted", "reason": req.Reason})
}

// Document handles POST /api/actions/document.
func (h *Handler) Document(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	preview, err := h.Actions.Document(req.Note)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preview": preview})
}

// GetMonitor handles GET /api/monitor.
func (h *Handler) GetMonitor(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"running":          h.Scheduler.Running(),
		"interval_seconds": int(h.Scheduler.Interval().Seconds()),
		"patient_id":       h.patientID(),
	})
}

// StartMonitor handles POST /api/monitor/start.
func (h *Handler) StartMonitor(c *gin.Context) {
	if err := h.Scheduler.Start(h.RunCtx); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"running": true})
}

// StopMonitor handles POST /api/monitor/stop.
func (h *Handler) StopMonitor(c *gin.Context) {
	h.Scheduler.Stop()
	c.JSON(http.StatusOK, gin.H{"running": false})
}

// RefreshNow handles POST /api/monitor/refresh.
func (h *Handler) RefreshNow(c *gin.Context) {
	h.Scheduler.Refresh(c.Request.Context())
	c.Status(http.StatusNoContent)
}
