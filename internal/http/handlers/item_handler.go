package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "swapflow/internal/log"
	"swapflow/internal/repos"
	"swapflow/internal/services"
	"swapflow/internal/validate"
)

type ItemHandler struct {
	Listing *services.ListingService
	Pins    *services.PinService
	Users   *repos.UserRepo
}

// GET /api/items?category=&user_id=
func (h *ItemHandler) List(c *fiber.Ctx) error {
	category := ""
	if q := c.Query("category"); q != "" {
		w, ok := validate.Word(q)
		if !ok {
			return badRequest(c, "invalid category")
		}
		category = w
	}
	ownerID := ""
	if q := c.Query("user_id"); q != "" {
		id, ok := validate.ID(q)
		if !ok {
			return badRequest(c, "invalid user_id")
		}
		ownerID = id
	}
	items, err := h.Listing.List(category, ownerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(items)
}

// GET /api/items/:id
func (h *ItemHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid item id")
	}
	it, err := h.Listing.Get(id)
	if err != nil {
		return fail(c, err)
	}
	owner, err := h.Users.ByID(it.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"item": it, "owner": owner})
}

type itemCreateReq struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Image          string `json:"image"`
	Category       string `json:"category"`
	Subcategory    string `json:"subcategory"`
	BottomCategory string `json:"bottom_category"`
}

// POST /api/items
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	var req itemCreateReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	title, ok := validate.Name(req.Title)
	if !ok {
		return badRequest(c, "invalid title")
	}
	category, ok := validate.Word(req.Category)
	if !ok {
		return badRequest(c, "category must be a single word")
	}
	in := services.ItemCreate{
		Title:       title,
		Description: req.Description,
		Image:       req.Image,
		Category:    category,
	}
	if req.Subcategory != "" {
		w, ok := validate.Word(req.Subcategory)
		if !ok {
			return badRequest(c, "subcategory must be a single word")
		}
		in.Subcategory = w
	}
	if req.BottomCategory != "" {
		w, ok := validate.Word(req.BottomCategory)
		if !ok {
			return badRequest(c, "bottom category must be a single word")
		}
		in.BottomCategory = w
	}

	it, err := h.Listing.CreateItem(u.UserID, in)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "item.create", map[string]any{"item_id": it.ItemID})
	return c.JSON(it)
}

// DELETE /api/items/:id
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid item id")
	}
	if err := h.Listing.DeleteItem(u.UserID, id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "item.delete", map[string]any{"item_id": id})
	return c.JSON(fiber.Map{"message": "Item deleted"})
}

// GET /api/my-items
func (h *ItemHandler) Mine(c *fiber.Ctx) error {
	u := currentUser(c)
	items, err := h.Listing.MyItems(u.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(items)
}

// POST /api/items/:id/pin
func (h *ItemHandler) Pin(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid item id")
	}
	score, err := h.Pins.Pin(u.UserID, id)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "item.pin", map[string]any{"item_id": id, "boost": score})
	return c.JSON(fiber.Map{"message": "Item pinned", "new_boost_score": score})
}

// DELETE /api/items/:id/pin
func (h *ItemHandler) Unpin(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid item id")
	}
	score, err := h.Pins.Unpin(u.UserID, id)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "item.unpin", map[string]any{"item_id": id, "boost": score})
	return c.JSON(fiber.Map{"message": "Item unpinned", "new_boost_score": score})
}

// GET /api/items/:id/pin-status
func (h *ItemHandler) PinStatus(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid item id")
	}
	pinned, err := h.Pins.Status(u.UserID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"is_pinned": pinned})
}

// GET /api/categories
func (h *ItemHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Listing.Categories()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cats)
}
