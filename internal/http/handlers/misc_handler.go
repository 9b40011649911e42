package handlers

import (
	"encoding/base64"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"swapflow/internal/domain"
	applog "swapflow/internal/log"
	"swapflow/internal/repos"
	"swapflow/internal/validate"
)

// MiscHandler serves the small public surfaces: announcements, settings,
// report filing and image upload.
type MiscHandler struct {
	Reports       *repos.ReportRepo
	Announcements *repos.AnnouncementRepo
	Settings      *repos.SettingsRepo
}

type reportCreateReq struct {
	ReportType string `json:"report_type"`
	ReportedID string `json:"reported_id"`
	Reason     string `json:"reason"`
}

// POST /api/reports
func (h *MiscHandler) CreateReport(c *fiber.Ctx) error {
	u := currentUser(c)
	var req reportCreateReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.ReportType != "user" && req.ReportType != "item" {
		return badRequest(c, "report_type must be user or item")
	}
	reportedID, ok := validate.ID(req.ReportedID)
	if !ok {
		return badRequest(c, "invalid reported_id")
	}
	reason, ok := validate.Content(req.Reason, 1000)
	if !ok {
		return badRequest(c, "invalid reason")
	}
	rep := &domain.Report{
		ReportID:   domain.NewID("report"),
		ReporterID: u.UserID,
		ReportType: req.ReportType,
		ReportedID: reportedID,
		Reason:     reason,
		Status:     "pending",
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Reports.Create(rep); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "report.create", map[string]any{"report_id": rep.ReportID, "type": rep.ReportType})
	return c.JSON(rep)
}

// GET /api/announcements
func (h *MiscHandler) ActiveAnnouncements(c *fiber.Ctx) error {
	anns, err := h.Announcements.ListActive()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(anns)
}

// GET /api/settings
func (h *MiscHandler) GetSettings(c *fiber.Ctx) error {
	s, err := h.Settings.Get()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(s)
}

// POST /api/upload — returns the image as a base64 data URL; nothing is
// written to disk.
func (h *MiscHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file required")
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return badRequest(c, "file must be an image")
	}
	f, err := fh.Open()
	if err != nil {
		return fail(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return fail(c, err)
	}
	dataURL := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	applog.Info(c, "upload.image", map[string]any{"bytes": len(data)})
	return c.JSON(fiber.Map{"image_url": dataURL})
}
