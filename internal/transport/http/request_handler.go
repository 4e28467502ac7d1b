package handlers

import (
	"net/http"

	"techcatalog/internal/infrastructure/notify"
	"techcatalog/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	relay *notify.RelaySender
	log   *logger.Logger
}

func NewRequestHandler(relay *notify.RelaySender, log *logger.Logger) *RequestHandler {
	return &RequestHandler{relay: relay, log: log}
}

type sendRequestReq struct {
	TechID  string `json:"techId" binding:"required"`
	Message string `json:"message"`
}

// POST /api/send-request
// Пересылка релею строго изолирована: её сбой не задевает каталог.
func (h *RequestHandler) Send(c *gin.Context) {
	var req sendRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.relay.Send(c, notify.HelpRequest{
		RequesterID:          c.GetString("userId"),
		RequesterDisplayName: c.GetString("displayName"),
		TechID:               req.TechID,
		Message:              req.Message,
	})
	if err != nil {
		h.log.Error("help request relay failed", "techId", req.TechID, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to forward help request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
