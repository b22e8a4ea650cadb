package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eyalfuks51/wedding-Eyal/internal/whatsapp"
)

// autoReplyText is sent to guests who answer the reminder directly instead of
// using the RSVP link.
const autoReplyText = "היי! זו הודעה אוטומטית ממערכת אישורי ההגעה. כדי שהזוג יידע שאתם מגיעים, אנא היכנסו לקישור שבהודעה המקורית ועדכנו שם. נתראה בשמחות! 🥂"

var handledWebhookTypes = map[string]bool{
	"incomingMessageReceived": true,
	"incomingCall":            true,
}

type webhookPayload struct {
	TypeWebhook string `json:"typeWebhook"`
	SenderData  struct {
		ChatID string `json:"chatId"`
	} `json:"senderData"`
}

// whatsappWebhookHandler
// @Summary      Receives Green API inbound webhooks
// @Description  Auto-replies to private-chat messages and calls. Always
// returns 200 so the gateway never retries the delivery.
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /webhooks/whatsapp [post]
func (h *Handler) whatsappWebhookHandler(c *gin.Context) {
	received := gin.H{"received": true}

	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusOK, received)
		return
	}

	if !handledWebhookTypes[payload.TypeWebhook] {
		c.JSON(http.StatusOK, received)
		return
	}

	chatID := payload.SenderData.ChatID
	if chatID == "" || !whatsapp.IsPrivateChat(chatID) {
		c.JSON(http.StatusOK, received)
		return
	}

	// A send failure must never affect the 200 we return to the gateway.
	_ = h.sender.Send(c.Request.Context(), chatID, autoReplyText)

	c.JSON(http.StatusOK, received)
}
