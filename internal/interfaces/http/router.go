package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC *usecase.WarehouseUseCase
	ItemUC      *usecase.ItemUseCase
	Ledger      *inventory.LedgerUseCase
	Revisions   *inventory.RevisionUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Lectura para cualquier rol autenticado;
// escritura para admin y bodeguero.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	write := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	adminOnly := RequireRole(jwt.RoleAdmin)

	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", write, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", write, warehouseHandler.Update)
	warehouses.Delete("/:id", write, warehouseHandler.Archive)

	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", write, itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", write, itemHandler.Update)
	items.Delete("/:id", write, itemHandler.Archive)

	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	invGroup.Post("/movements", write, inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/balances", inventoryHandler.Balances)
	invGroup.Post("/verify", adminOnly, inventoryHandler.Verify)

	revisions := api.Group("/revisions")
	revisionHandler := NewRevisionHandler(deps.Revisions)
	revisions.Post("/", write, revisionHandler.Create)
	revisions.Get("/", revisionHandler.List)
	revisions.Get("/:id", revisionHandler.Get)
	revisions.Get("/:id/pdf", revisionHandler.PDF)
	revisions.Post("/:id/pull", write, revisionHandler.Pull)
	revisions.Put("/:id/lines/:itemId", write, revisionHandler.SetFact)
	revisions.Post("/:id/post", write, revisionHandler.Post)
}
