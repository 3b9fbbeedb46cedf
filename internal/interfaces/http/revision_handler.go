package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// RevisionHandler conteos físicos y su contabilización.
type RevisionHandler struct {
	uc *inventory.RevisionUseCase
}

// NewRevisionHandler construye el handler.
func NewRevisionHandler(uc *inventory.RevisionUseCase) *RevisionHandler {
	return &RevisionHandler{uc: uc}
}

// Create godoc
// @Summary      Abrir revisión
// @Description  Asigna el siguiente número РЕВ-NNN. Sin líneas hasta cargar saldos o registrar conteos.
// @Tags         revisions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRevisionRequest  true  "warehouse_id, date, reason"
// @Success      201   {object}  dto.RevisionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/revisions [post]
func (h *RevisionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRevisionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener revisión
// @Tags         revisions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la revisión"
// @Success      200  {object}  dto.RevisionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/revisions/{id} [get]
func (h *RevisionHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar revisiones
// @Tags         revisions
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Almacén"
// @Param        status        query  string  false  "draft | posted"
// @Success      200  {object}  dto.RevisionListResponse
// @Router       /api/revisions [get]
func (h *RevisionHandler) List(c *fiber.Ctx) error {
	var f dto.RevisionFilter
	if ok, err := parseQuery(c, &f); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Pull godoc
// @Summary      Cargar saldos actuales
// @Description  Reemplaza las líneas con los saldos del almacén; conteo = sistema.
// @Tags         revisions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la revisión"
// @Success      200  {object}  dto.RevisionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/revisions/{id}/pull [post]
func (h *RevisionHandler) Pull(c *fiber.Ctx) error {
	out, err := h.uc.PullCurrentBalances(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetFact godoc
// @Summary      Registrar cantidad contada
// @Tags         revisions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string              true  "ID de la revisión"
// @Param        itemId  path  string              true  "ID del artículo"
// @Param        body    body  dto.SetFactRequest  true  "quantity, version"
// @Success      200  {object}  dto.RevisionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/revisions/{id}/lines/{itemId} [put]
func (h *RevisionHandler) SetFact(c *fiber.Ctx) error {
	var in dto.SetFactRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetFactQuantity(c.UserContext(), c.Params("id"), c.Params("itemId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Post godoc
// @Summary      Contabilizar revisión
// @Description  Emite un único ajuste con las diferencias. Repetir la llamada no duplica el ajuste:
//
//	devuelve applied=false.
//
// @Tags         revisions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la revisión"
// @Success      200  {object}  dto.PostRevisionResponse
// @Router       /api/revisions/{id}/post [post]
func (h *RevisionHandler) Post(c *fiber.Ctx) error {
	out, err := h.uc.Post(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Hoja de conteo en PDF
// @Tags         revisions
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la revisión"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/revisions/{id}/pdf [get]
func (h *RevisionHandler) PDF(c *fiber.Ctx) error {
	doc, filename, err := h.uc.RevisionPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(doc)
}
