package app

import (
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	handlers "contractapi/internal/http/handler"
	"contractapi/internal/http/middleware"
	"contractapi/internal/http/site"
	"contractapi/internal/service"
)

// NewServer builds the Fiber app: global middleware, API routes, the
// metrics endpoint and the browser views.
func NewServer(svc service.ContractService, log *zap.Logger, reg *prometheus.Registry) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:      "contractapi",
		ErrorHandler: handlers.ErrorHandler(),
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, err
	}

	// RequestID must run before the logger so every entry carries the ID.
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == middleware.MetricsPath
	})))
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, svc)
	if err := site.Register(app); err != nil {
		return nil, err
	}
	return app, nil
}
