package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"healthe/internal/service"
	"healthe/internal/storage"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.IntakeService, files *storage.FileStore) {
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

	// Liveness probe: no dependency checks
	app.Get("/health", Health())

	// Readiness probe: DB connectivity only
	app.Get("/readyz", Readiness(db))

	// Intake submission
	app.Post("/api/intake/start", StartIntake(svc))

	// Report retrieval. The .pdf route must be registered before the JSON
	// route; otherwise :refId would swallow "XXXX.pdf" whole.
	app.Get("/api/report/:refId.pdf", GetReportPDF(files))
	app.Get("/api/report/:refId", GetReportJSON(svc))
}
