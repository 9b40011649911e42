package handlers

import (
	"github.com/gofiber/fiber/v2"

	"swapflow/internal/domain"
	applog "swapflow/internal/log"
	"swapflow/internal/repos"
	"swapflow/internal/services"
	"swapflow/internal/validate"
)

type TradeHandler struct {
	Trades *services.TradeService
	Items  *repos.ItemRepo
	Users  *repos.UserRepo
}

type tradeCreateReq struct {
	ItemID string `json:"item_id"`
}

// POST /api/trades
func (h *TradeHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	var req tradeCreateReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	id, ok := validate.ID(req.ItemID)
	if !ok {
		return badRequest(c, "invalid item id")
	}
	t, err := h.Trades.Create(u.UserID, id)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "trade.create", map[string]any{"trade_id": t.TradeID, "item_id": id})
	return c.JSON(t)
}

// tradeView enriches a trade with its item and both parties, mirroring what
// the trades screen renders.
type tradeView struct {
	Trade  *domain.Trade `json:"trade"`
	Item   *domain.Item  `json:"item,omitempty"`
	Owner  *domain.User  `json:"owner,omitempty"`
	Trader *domain.User  `json:"trader,omitempty"`
}

func (h *TradeHandler) view(t *domain.Trade) tradeView {
	v := tradeView{Trade: t}
	if it, err := h.Items.Get(t.ItemID); err == nil {
		v.Item = it
	}
	if u, err := h.Users.ByID(t.OwnerID); err == nil {
		v.Owner = u
	}
	if u, err := h.Users.ByID(t.TraderID); err == nil {
		v.Trader = u
	}
	return v
}

// GET /api/trades
func (h *TradeHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	trades, err := h.Trades.ListForUser(u.UserID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]tradeView, 0, len(trades))
	for i := range trades {
		out = append(out, h.view(&trades[i]))
	}
	return c.JSON(out)
}

// GET /api/trades/:id
func (h *TradeHandler) Get(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid trade id")
	}
	t, err := h.Trades.Get(u.UserID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(h.view(t))
}

// POST /api/trades/:id/confirm
func (h *TradeHandler) Confirm(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid trade id")
	}
	t, err := h.Trades.Confirm(u.UserID, id)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "trade.confirm", map[string]any{"trade_id": id, "completed": t.IsCompleted})
	return c.JSON(t)
}

type rateReq struct {
	Rating int `json:"rating"`
}

// POST /api/trades/:id/rate
func (h *TradeHandler) Rate(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid trade id")
	}
	var req rateReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := h.Trades.Rate(u.UserID, id, req.Rating); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "trade.rate", map[string]any{"trade_id": id, "rating": req.Rating})
	return c.JSON(fiber.Map{"message": "Rating submitted", "rating": req.Rating})
}
