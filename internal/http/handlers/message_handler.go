package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "swapflow/internal/log"
	"swapflow/internal/services"
	"swapflow/internal/validate"
)

type MessageHandler struct {
	Messages *services.MessageService
}

type messageCreateReq struct {
	ReceiverID string  `json:"receiver_id"`
	ItemID     *string `json:"item_id"`
	Content    string  `json:"content"`
}

// POST /api/messages
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	u := currentUser(c)
	var req messageCreateReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	receiverID, ok := validate.ID(req.ReceiverID)
	if !ok {
		return badRequest(c, "invalid receiver_id")
	}
	content, ok := validate.Content(req.Content, 2000)
	if !ok {
		return badRequest(c, "invalid content")
	}
	m, err := h.Messages.Send(u.UserID, receiverID, req.ItemID, content)
	if err != nil {
		return fail(c, err)
	}
	applog.Info(c, "message.send", map[string]any{"receiver": receiverID})
	return c.JSON(m)
}

// GET /api/messages/:partnerId
func (h *MessageHandler) Conversation(c *fiber.Ctx) error {
	u := currentUser(c)
	partnerID, ok := validate.ID(c.Params("partnerId"))
	if !ok {
		return badRequest(c, "invalid partner id")
	}
	msgs, err := h.Messages.Conversation(u.UserID, partnerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(msgs)
}

// GET /api/conversations
func (h *MessageHandler) Conversations(c *fiber.Ctx) error {
	u := currentUser(c)
	convs, err := h.Messages.Conversations(u.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(convs)
}
