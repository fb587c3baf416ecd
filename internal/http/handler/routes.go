package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"progressapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers stay
// thin; all business logic lives in the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, progressSvc service.ProgressService, annSvc service.AnnotationService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	clients := app.Group("/clients/:clientId")
	clients.Get("/hierarchy", GetHierarchy(progressSvc))
	clients.Get("/status", GetStatus(progressSvc))
	clients.Get("/steps", ListSteps(progressSvc))
	clients.Post("/steps", CreateStep(progressSvc))

	clients.Get("/files", ListClientFiles(annSvc))
	clients.Post("/files", AddClientFile(annSvc))
	clients.Get("/links", ListClientLinks(annSvc))
	clients.Post("/links", AddClientLink(annSvc))

	steps := app.Group("/steps/:id")
	steps.Get("/", GetStep(progressSvc))
	steps.Patch("/", UpdateStep(progressSvc))
	steps.Delete("/", DeleteStep(progressSvc))
	steps.Post("/complete", CompleteStep(progressSvc))
	steps.Post("/uncomplete", UncompleteStep(progressSvc))
	steps.Put("/milestones/:milestone/deadline", SetMilestoneDeadline(progressSvc))
	steps.Post("/milestones/:milestone/complete", CompleteMilestone(progressSvc))
	steps.Post("/milestones/:milestone/uncomplete", UncompleteMilestone(progressSvc))

	steps.Post("/comments", AddComment(annSvc))
	steps.Delete("/comments/:commentId", DeleteComment(annSvc))

	app.Delete("/files/:id", DeleteClientFile(annSvc))
	app.Delete("/links/:id", DeleteClientLink(annSvc))
	app.Post("/uploads", RequestUpload(annSvc))
}
