package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pdv-sync/internal/application/history"
	"github.com/tu-usuario/pdv-sync/internal/application/ingest"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BulkIngest *ingest.BulkIngestUseCase
	History    *history.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	restocks := api.Group("/restocks")
	restockHandler := NewRestockHandler(deps.BulkIngest, deps.History)
	restocks.Post("/bulk", restockHandler.BulkCreate)
	restocks.Get("/history", restockHandler.GetHistory)
}
