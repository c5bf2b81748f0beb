package handler

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"contractapi/internal/model"
	"contractapi/internal/service"
)

//go:embed openapi.yaml
var openAPISpec []byte

const healthTimeout = 2 * time.Second

// RegisterRoutes attaches the API, health and docs routes to app.
func RegisterRoutes(app *fiber.App, svc service.ContractService) {
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.Send(openAPISpec)
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.Type("html").SendString(swaggerPage)
	})
	app.Get("/swagger/*", swagger.New(swagger.Config{URL: "/openapi.yaml"}))

	app.Get("/health", HealthCheck(svc))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	api.Get("/contracts", ListContracts(svc))
	api.Post("/contracts", CreateContract(svc))
	api.Delete("/contracts", DeleteContracts(svc))
}

// HealthCheck pings the contract store.
func HealthCheck(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if err := svc.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "dependency unavailable")
		}
		return c.JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListContracts handles GET /api/contracts?page=&pageSize=.
func ListContracts(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := service.ParsePagination(c.Query("page"), c.Query("pageSize"))
		res, err := svc.List(c.UserContext(), p)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "failed to fetch contracts")
		}
		return c.JSON(res)
	}
}

// CreateContract handles POST /api/contracts. The body is any JSON object;
// an empty body creates a contract with only an id.
func CreateContract(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		contract := model.Contract{}
		if body := c.Body(); len(body) > 0 {
			contract = nil
			if err := model.Decode(body, &contract); err != nil || contract == nil {
				return writeError(c, fiber.StatusBadRequest, "invalid request body")
			}
		}

		created, err := svc.Create(c.UserContext(), contract)
		if err != nil {
			if errors.Is(err, service.ErrInvalidContract) {
				return writeError(c, fiber.StatusBadRequest, "invalid request body")
			}
			return writeError(c, fiber.StatusInternalServerError, "failed to create contract")
		}
		return c.JSON(fiber.Map{"message": "contract created", "data": created})
	}
}

// DeleteContracts handles DELETE /api/contracts with body {"contractNos": [...]}.
func DeleteContracts(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req map[string]any
		if err := model.Decode(c.Body(), &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid request parameters")
		}
		contractNos, ok := req["contractNos"].([]any)
		if !ok || len(contractNos) == 0 {
			return writeError(c, fiber.StatusBadRequest, "invalid request parameters")
		}

		deleted, err := svc.Delete(c.UserContext(), contractNos)
		switch {
		case errors.Is(err, service.ErrContractNosRequired):
			return writeError(c, fiber.StatusBadRequest, "invalid request parameters")
		case errors.Is(err, service.ErrNoContractsMatched):
			return writeError(c, fiber.StatusNotFound, "no contracts found to delete")
		case err != nil:
			return writeError(c, fiber.StatusInternalServerError, "failed to delete contracts")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": fmt.Sprintf("deleted %d contract(s)", deleted),
		})
	}
}

const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Contract API Docs</title>
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
