package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"school-web/internal/config"
)

func Setup(app *fiber.App, db *sqlx.DB, redis *redis.Client, cfg *config.Config) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"app":    cfg.AppName,
		})
	})

	// Web routes (HTML)
	web := app.Group("")
	setupWebRoutes(web)

	// API routes (JSON)
	api := app.Group("/api/v1")
	SetupAPIRoutes(api, db, redis, cfg)
}

func setupWebRoutes(router fiber.Router) {
	router.Get("/login", func(c *fiber.Ctx) error {
		return c.Render("auth/login", fiber.Map{
			"Title": "Login",
		})
	})

	router.Get("/", func(c *fiber.Ctx) error {
		return c.Render("dashboard/index", fiber.Map{
			"Title": "Dashboard",
		})
	})

	// Entity list pages
	router.Get("/classes", func(c *fiber.Ctx) error {
		return c.Render("entities/classes", fiber.Map{
			"Title": "Classes",
		})
	})

	router.Get("/teachers", func(c *fiber.Ctx) error {
		return c.Render("entities/teachers", fiber.Map{
			"Title": "Teachers",
		})
	})

	router.Get("/students", func(c *fiber.Ctx) error {
		return c.Render("entities/students", fiber.Map{
			"Title": "Students",
		})
	})

	// Bulk import pages: the upload step and the review step
	router.Get("/imports/:kind/new", func(c *fiber.Ctx) error {
		return c.Render("imports/upload", fiber.Map{
			"Title": "Bulk Import",
			"Kind":  c.Params("kind"),
		})
	})

	router.Get("/imports/:kind/sessions/:code", func(c *fiber.Ctx) error {
		return c.Render("imports/review", fiber.Map{
			"Title":       "Review Import",
			"Kind":        c.Params("kind"),
			"SessionCode": c.Params("code"),
		})
	})
}
