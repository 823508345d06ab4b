package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nurse-triage-backend/internal/notification"
)

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// PutSubscription handles the creation or replacement of a pager subscription.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req notification.Subscription
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	h.Subscriptions.Put(req)
	h.Logger.Info("pager subscription stored")
	c.Status(http.StatusCreated)
}

// DeleteSubscription handles the deletion of a pager subscription.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	h.Subscriptions.Delete(req.Endpoint)
	c.Status(http.StatusNoContent)
}

// GetSubscription reports whether an endpoint is subscribed.
func (h *Handler) GetSubscription(c *gin.Context) {
	endpoint := c.Query("endpoint")
	if endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint is required"})
		return
	}

	if _, ok := h.Subscriptions.Get(endpoint); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"endpoint": endpoint, "subscribed": true})
}
