package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "swapflow/internal/log"
	"swapflow/internal/services"
	"swapflow/internal/validate"
)

type AdminHandler struct {
	Admin *services.AdminService
}

// GET /api/admin/stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	st, err := h.Admin.Stats()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(st)
}

// GET /api/admin/users?search=&suspended_only=
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	search := c.Query("search")
	suspendedOnly := c.Query("suspended_only") == "true"
	users, err := h.Admin.ListUsers(search, suspendedOnly)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

type suspendReq struct {
	Days   int    `json:"days"`
	Reason string `json:"reason"`
}

// POST /api/admin/users/:id/suspend
func (h *AdminHandler) SuspendUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid user id")
	}
	var req suspendReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := h.Admin.Suspend(id, req.Days, req.Reason); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.user.suspend", map[string]any{"user_id": id, "days": req.Days})
	return c.JSON(fiber.Map{"message": "Suspension updated"})
}

// DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid user id")
	}
	if err := h.Admin.DeleteUser(id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.user.delete", map[string]any{"user_id": id})
	return c.JSON(fiber.Map{"message": "User deleted"})
}

// GET /api/admin/items?search=
func (h *AdminHandler) Items(c *fiber.Ctx) error {
	items, err := h.Admin.ListItems(c.Query("search"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(items)
}

// DELETE /api/admin/items/:id
func (h *AdminHandler) DeleteItem(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid item id")
	}
	if err := h.Admin.DeleteItem(id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.item.delete", map[string]any{"item_id": id})
	return c.JSON(fiber.Map{"message": "Item deleted"})
}

type bulkItemsReq struct {
	ItemIDs []string `json:"item_ids"`
}

// POST /api/admin/items/bulk-delete
func (h *AdminHandler) BulkDeleteItems(c *fiber.Ctx) error {
	var req bulkItemsReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	n, err := h.Admin.BulkDeleteItems(req.ItemIDs)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.item.bulk_delete", map[string]any{"count": n})
	return c.JSON(fiber.Map{"message": "Deleted " + strconv.Itoa(n) + " items"})
}

// GET /api/admin/categories
func (h *AdminHandler) Categories(c *fiber.Ctx) error {
	grouped, err := h.Admin.CategoriesGrouped()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(grouped)
}

// DELETE /api/admin/categories/:name
func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	name, ok := validate.Word(c.Params("name"))
	if !ok {
		return badRequest(c, "invalid category name")
	}
	if err := h.Admin.DeleteCategory(name); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.category.delete", map[string]any{"name": name})
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

type bulkCategoriesReq struct {
	CategoryNames []string `json:"category_names"`
}

// POST /api/admin/categories/bulk-delete
func (h *AdminHandler) BulkDeleteCategories(c *fiber.Ctx) error {
	var req bulkCategoriesReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	n, err := h.Admin.BulkDeleteCategories(req.CategoryNames)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.category.bulk_delete", map[string]any{"count": n})
	return c.JSON(fiber.Map{"message": "Deleted " + strconv.Itoa(n) + " categories"})
}

// GET /api/admin/reports
func (h *AdminHandler) Reports(c *fiber.Ctx) error {
	reports, err := h.Admin.ListReports()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(reports)
}

// PUT /api/admin/reports/:id?status=
func (h *AdminHandler) UpdateReport(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid report id")
	}
	status := c.Query("status")
	if err := h.Admin.SetReportStatus(id, status); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.report.update", map[string]any{"report_id": id, "status": status})
	return c.JSON(fiber.Map{"message": "Report updated"})
}

type announcementCreateReq struct {
	Message string `json:"message"`
}

// POST /api/admin/announcements
func (h *AdminHandler) CreateAnnouncement(c *fiber.Ctx) error {
	u := currentUser(c)
	var req announcementCreateReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	msg, ok := validate.Content(req.Message, 500)
	if !ok {
		return badRequest(c, "invalid message")
	}
	a, err := h.Admin.CreateAnnouncement(u.UserID, msg)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.announcement.create", map[string]any{"announcement_id": a.AnnouncementID})
	return c.JSON(a)
}

// PUT /api/admin/announcements/:id?is_active=
func (h *AdminHandler) ToggleAnnouncement(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid announcement id")
	}
	active := c.Query("is_active") == "true"
	if err := h.Admin.ToggleAnnouncement(id, active); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.announcement.toggle", map[string]any{"announcement_id": id, "active": active})
	return c.JSON(fiber.Map{"message": "Announcement updated"})
}

// DELETE /api/admin/announcements/:id
func (h *AdminHandler) DeleteAnnouncement(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid announcement id")
	}
	if err := h.Admin.DeleteAnnouncement(id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.announcement.delete", map[string]any{"announcement_id": id})
	return c.JSON(fiber.Map{"message": "Announcement deleted"})
}

// PUT /api/admin/settings?max_portfolio_items=
func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	n, err := strconv.Atoi(c.Query("max_portfolio_items"))
	if err != nil {
		return badRequest(c, "invalid max_portfolio_items")
	}
	if err := h.Admin.UpdateMaxPortfolioItems(n); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.settings.update", map[string]any{"max_portfolio_items": n})
	return c.JSON(fiber.Map{"message": "Settings updated"})
}
