package handlers

import (
	"YouthHealth/models"
	"YouthHealth/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messages services.MessageService
	contact  services.ContactService
}

func NewMessageHandler(messages services.MessageService, contact services.ContactService) *MessageHandler {
	return &MessageHandler{messages: messages, contact: contact}
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var msg models.OutgoingMessage
	if !bindJSON(c, &msg) {
		return
	}

	message, err := h.messages.Send(c.Request.Context(), userID, msg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) GetInTouch(c *gin.Context) {
	var req models.ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.contact.GetInTouch(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Thanks for reaching out, we will get back to you soon"})
}
