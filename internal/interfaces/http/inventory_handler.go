package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de movimientos y saldos (protegido).
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  receipt: to_warehouse_id; writeoff: from_warehouse_id; transfer: ambos;
//
//	adjustment: to_warehouse_id con cantidades con signo.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "type, almacenes, items, reason, date"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.ledger.RegisterMovement(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Origen o destino"
// @Param        item_id       query  string  false  "Artículo"
// @Param        type          query  string  false  "receipt | writeoff | transfer | adjustment"
// @Param        limit         query  int     false  "Límite"  default(50)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var f dto.MovementFilter
	if ok, err := parseQuery(c, &f); !ok {
		return err
	}
	out, err := h.ledger.Movements(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Balances godoc
// @Summary      Saldos derivados del registro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Almacén"
// @Param        item_id       query  string  false  "Artículo"
// @Param        nonzero       query  bool    false  "Ocultar saldos en cero"
// @Success      200  {object}  dto.BalanceListResponse
// @Router       /api/inventory/balances [get]
func (h *InventoryHandler) Balances(c *fiber.Ctx) error {
	var f dto.BalanceFilter
	if ok, err := parseQuery(c, &f); !ok {
		return err
	}
	return c.JSON(h.ledger.Balances(f))
}

// Verify godoc
// @Summary      Verificar saldos contra el registro completo
// @Description  Recalcula todos los saldos desde cero y reconstruye la caché si hay deriva.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.VerifyResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/verify [post]
func (h *InventoryHandler) Verify(c *fiber.Ctx) error {
	out, err := h.ledger.Verify(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
