package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"swapflow/internal/config"
	"swapflow/internal/http/handlers"
	applog "swapflow/internal/log"
	"swapflow/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN, cfg.MaxPortfolioItems)
	if err != nil {
		log.Fatal(err)
	}
	if err := repos.SeedAdmins(db, cfg.AdminEmails, os.Getenv("ADMIN_DEFAULT_PASSWORD")); err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"detail": "Something went wrong. Please try again.",
			})
		},
	})
	// Inline base64 images ride in item bodies
	app.Server().MaxRequestBodySize = 5 << 20 // 5 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: cfg.CORSOrigins != "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	deps := handlers.NewDeps(db, cfg)
	requireUser := handlers.RequireUser(deps.Auth)
	requireAdmin := handlers.RequireAdmin(deps.Auth)

	api := app.Group("/api")
	api.Get("/", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"message": "SwapFlow API"}) })

	// Auth (login/register throttled)
	authLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.auth.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"detail": "Too many attempts. Please try again later."})
		},
	})
	api.Post("/auth/register", authLimiter, deps.AuthHandler.Register)
	api.Post("/auth/login", authLimiter, deps.AuthHandler.Login)
	api.Get("/auth/me", requireUser, deps.AuthHandler.Me)
	api.Post("/auth/logout", deps.AuthHandler.Logout)

	// Users
	api.Get("/users/:id", deps.UserHandler.Get)
	api.Put("/users/profile", requireUser, deps.UserHandler.UpdateProfile)
	api.Get("/users/:id/portfolio", deps.UserHandler.Portfolio)
	api.Put("/users/portfolio", requireUser, deps.UserHandler.UpdatePortfolio)

	// Items & pins
	api.Get("/items", deps.ItemHandler.List)
	api.Get("/items/:id", deps.ItemHandler.Get)
	api.Post("/items", requireUser, deps.ItemHandler.Create)
	api.Delete("/items/:id", requireUser, deps.ItemHandler.Delete)
	api.Get("/my-items", requireUser, deps.ItemHandler.Mine)
	api.Post("/items/:id/pin", requireUser, deps.ItemHandler.Pin)
	api.Delete("/items/:id/pin", requireUser, deps.ItemHandler.Unpin)
	api.Get("/items/:id/pin-status", requireUser, deps.ItemHandler.PinStatus)
	api.Get("/categories", deps.ItemHandler.Categories)

	// Messages
	api.Get("/conversations", requireUser, deps.MessageHandler.Conversations)
	api.Get("/messages/:partnerId", requireUser, deps.MessageHandler.Conversation)
	api.Post("/messages", requireUser, deps.MessageHandler.Send)

	// Trades
	api.Post("/trades", requireUser, deps.TradeHandler.Create)
	api.Get("/trades", requireUser, deps.TradeHandler.List)
	api.Get("/trades/:id", requireUser, deps.TradeHandler.Get)
	api.Post("/trades/:id/confirm", requireUser, deps.TradeHandler.Confirm)
	api.Post("/trades/:id/rate", requireUser, deps.TradeHandler.Rate)

	// Reports, announcements, settings, upload
	api.Post("/reports", requireUser, deps.MiscHandler.CreateReport)
	api.Get("/announcements", deps.MiscHandler.ActiveAnnouncements)
	api.Get("/settings", deps.MiscHandler.GetSettings)
	api.Post("/upload", requireUser, deps.MiscHandler.Upload)

	// Admin
	admin := api.Group("/admin", requireAdmin)
	admin.Get("/stats", deps.AdminHandler.Stats)
	admin.Get("/users", deps.AdminHandler.Users)
	admin.Post("/users/:id/suspend", deps.AdminHandler.SuspendUser)
	admin.Delete("/users/:id", deps.AdminHandler.DeleteUser)
	admin.Get("/items", deps.AdminHandler.Items)
	admin.Delete("/items/:id", deps.AdminHandler.DeleteItem)
	admin.Post("/items/bulk-delete", deps.AdminHandler.BulkDeleteItems)
	admin.Get("/categories", deps.AdminHandler.Categories)
	admin.Delete("/categories/:name", deps.AdminHandler.DeleteCategory)
	admin.Post("/categories/bulk-delete", deps.AdminHandler.BulkDeleteCategories)
	admin.Get("/reports", deps.AdminHandler.Reports)
	admin.Put("/reports/:id", deps.AdminHandler.UpdateReport)
	admin.Post("/announcements", deps.AdminHandler.CreateAnnouncement)
	admin.Put("/announcements/:id", deps.AdminHandler.ToggleAnnouncement)
	admin.Delete("/announcements/:id", deps.AdminHandler.DeleteAnnouncement)
	admin.Put("/settings", deps.AdminHandler.UpdateSettings)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
