package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "swapflow/internal/log"
	"swapflow/internal/repos"
	"swapflow/internal/services"
	"swapflow/internal/validate"
)

type UserHandler struct {
	Users   *repos.UserRepo
	Listing *services.ListingService
}

// GET /api/users/:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid user id")
	}
	u, err := h.Users.ByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(u)
}

type profileUpdateReq struct {
	Username *string `json:"username"`
	Picture  *string `json:"picture"`
}

// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	u := currentUser(c)
	var req profileUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Username != nil {
		w, ok := validate.Word(*req.Username)
		if !ok {
			return badRequest(c, "username must be a single word")
		}
		req.Username = &w
	}
	if err := h.Users.UpdateProfile(u.UserID, req.Username, req.Picture); err != nil {
		return fail(c, err)
	}
	updated, err := h.Users.ByID(u.UserID)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "user.profile.update", nil)
	return c.JSON(updated)
}

// GET /api/users/:id/portfolio
func (h *UserHandler) Portfolio(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid user id")
	}
	items, err := h.Listing.Portfolio(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(items)
}

type portfolioUpdateReq struct {
	ItemIDs []string `json:"item_ids"`
}

// PUT /api/users/portfolio
func (h *UserHandler) UpdatePortfolio(c *fiber.Ctx) error {
	u := currentUser(c)
	var req portfolioUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	for _, id := range req.ItemIDs {
		if _, ok := validate.ID(id); !ok {
			return badRequest(c, "invalid item id")
		}
	}
	ids, err := h.Listing.UpdatePortfolio(u.UserID, req.ItemIDs)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "user.portfolio.update", map[string]any{"count": len(ids)})
	return c.JSON(fiber.Map{"portfolio": ids})
}
