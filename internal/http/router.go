package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/seeder/legie-metadata/internal/config"
	"github.com/seeder/legie-metadata/internal/covercache"
	"github.com/seeder/legie-metadata/internal/http/handlers"
	"github.com/seeder/legie-metadata/internal/legie"
)

func NewServer(cfg config.Config, resolver *legie.Resolver, covers *covercache.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	app.Use(recover.New())

	health := handlers.NewHealthHandler(covers)
	resolve := handlers.NewResolveHandler(resolver, cfg.ResolveTimeout)
	coverHandlers := handlers.NewCoversHandler(covers)

	app.Get("/health", health.Check)
	app.Get("/v1/health", health.Check)

	v1 := app.Group("/v1")
	v1.Post("/resolve", resolve.Resolve)
	v1.Get("/covers/:id", coverHandlers.ByIdentifier)
	v1.Get("/covers/isbn/:isbn", coverHandlers.ByISBN)

	return app
}
