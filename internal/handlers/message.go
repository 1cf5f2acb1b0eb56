package handlers

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"social-service/internal/metrics"
	"social-service/internal/models"
	"social-service/internal/services"
	"social-service/internal/telemetry"
)

type MessageHandler struct {
	messages *services.MessageService
	auditor
	log *zap.Logger
}

func NewMessageHandler(messages *services.MessageService, audit *telemetry.AuditEmitter, log *zap.Logger) *MessageHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MessageHandler{messages: messages, auditor: auditor{audit: audit}, log: log}
}

type sendMessageBody struct {
	ReceiverID int64  `json:"receiverId"`
	Content    string `json:"content"`
}

func (h *MessageHandler) List(c *gin.Context) {
	msgs, err := h.messages.List(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if msgs == nil {
		msgs = []models.MessageView{}
	}
	c.JSON(nethttp.StatusOK, msgs)
}

func (h *MessageHandler) Send(c *gin.Context) {
	var body sendMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		metrics.IncMessageSent(metrics.StatusFailed)
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), callerID(c), body.ReceiverID, body.Content)
	metrics.IncMessageSent(metrics.StatusOf(err))
	if err != nil {
		h.emitAudit(c, telemetry.LevelError, "message.send", "Message send failed")
		respondError(c, h.log, err)
		return
	}

	h.emitAudit(c, telemetry.LevelInfo, "message.send", "Message sent")
	c.JSON(nethttp.StatusOK, msg)
}
