package FiberConfig

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/template/html"
	"gorm.io/gorm"

	"Workspace/Config"
	"Workspace/Controllers"
	"Workspace/Models"
	"Workspace/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg Config.Config) {
	// Initialize handlers
	authController := Controllers.NewAuthController(cfg)
	workspaceController := Controllers.NewWorkspaceController(db, cfg)
	taskController := Controllers.NewTaskController(db, cfg)
	exportController := Controllers.NewExportController(db)
	tokenController := Controllers.NewTokenController(db)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Get("/", func(c *fiber.Ctx) error {
		doc, err := Models.FetchDocument(db)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("workspace unavailable")
		}
		active := 0
		for _, task := range doc.Tasks {
			if !task.IsCompleted() {
				active++
			}
		}
		return c.Render("index", fiber.Map{
			"ActiveTasks":    active,
			"CompletedTasks": len(doc.Tasks) - active,
			"TeamMembers":    len(doc.TeamMembers),
		})
	})

	api := app.Group("/api")

	// Session routes
	api.Post("/login", authController.Login)
	api.Post("/logout", authController.Logout)

	// Single-document sync boundary. The original clients poll GET /data
	// and overwrite via POST /sync; /sync is gated by the passcode in the
	// body, not by a session.
	api.Get("/data", workspaceController.GetData)
	api.Post("/sync", workspaceController.SyncState)

	// Task routes. Reads and EOD submissions need any session; everything
	// destructive or lead-facing needs the lead role.
	tasks := api.Group("/tasks", middleware.Verify(middleware.RoleMember))
	tasks.Get("/dashboard", taskController.Dashboard)
	tasks.Get("/archive", taskController.Archive)
	tasks.Post("/", middleware.Verify(middleware.RoleLead), taskController.CreateTask)
	tasks.Post("/:id/updates", taskController.AppendUpdate)
	tasks.Post("/:id/comments", middleware.Verify(middleware.RoleLead), taskController.AppendComment)
	tasks.Put("/:id/health", middleware.Verify(middleware.RoleLead), taskController.SetHealth)
	tasks.Delete("/:id", middleware.Verify(middleware.RoleLead), taskController.DeleteTask)

	// Roster routes
	team := api.Group("/team", middleware.Verify(middleware.RoleLead))
	team.Post("/", taskController.AddMember)
	team.Delete("/:name", taskController.RemoveMember)

	// Export routes
	exports := api.Group("/export", middleware.Verify(middleware.RoleMember))
	exports.Get("/json", exportController.ExportJSON)
	exports.Get("/csv", exportController.ExportCSV)
	exports.Get("/report", exportController.ExportReport)
	api.Post("/import/json", middleware.Verify(middleware.RoleLead), exportController.ImportJSON)

	// Device token registration for assignment notifications
	api.Post("/tokens", middleware.Verify(middleware.RoleMember), tokenController.RegisterToken)
}

func FiberConfig(db *gorm.DB, cfg Config.Config) {
	fmt.Println("Server Up...")
	engine := html.New("./Templates", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, db, cfg)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
