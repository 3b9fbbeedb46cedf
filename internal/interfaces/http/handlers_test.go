package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/docstore"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

type api struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := memory.NewStore()
	whRepo := docstore.NewWarehouseRepository(store)
	itemRepo := docstore.NewItemRepository(store)
	ledger := inventory.NewLedgerUseCase(docstore.NewMovementRepository(store), whRepo, itemRepo, logger.Nop(),
		inventory.LedgerOptions{AllowNegative: true})
	revisions := inventory.NewRevisionUseCase(ledger, docstore.NewTxRunner(store), docstore.NewRevisionRepository(store),
		memory.NewSequence(), pdf.NewRevisionSheetGenerator(), logger.Nop())
	require.NoError(t, ledger.Load(context.Background()))
	require.NoError(t, revisions.SeedSequence(context.Background()))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		WarehouseUC: usecase.NewWarehouseUseCase(whRepo),
		ItemUC:      usecase.NewItemUseCase(itemRepo),
		Ledger:      ledger,
		Revisions:   revisions,
		JWTSecret:   testJWTSecret,
	})
	return &api{t: t, app: app, token: tokenForRole(t, pkgjwt.RoleBodeguero)}
}

func (a *api) do(method, path string, body interface{}) (int, []byte) {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", a.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp.StatusCode, out
}

func (a *api) decode(raw []byte, v interface{}) {
	a.t.Helper()
	require.NoError(a.t, json.Unmarshal(raw, v), string(raw))
}

func (a *api) create(path string, body interface{}) string {
	a.t.Helper()
	status, raw := a.do(http.MethodPost, path, body)
	require.Equal(a.t, http.StatusCreated, status, string(raw))
	var out struct {
		ID string `json:"id"`
	}
	a.decode(raw, &out)
	return out.ID
}

func TestAPI_FlujoCompletoDeRevision(t *testing.T) {
	a := newAPI(t)
	w1 := a.create("/api/warehouses", dto.CreateWarehouseRequest{Name: "Principal"})
	w2 := a.create("/api/warehouses", dto.CreateWarehouseRequest{Name: "Taller"})
	item := a.create("/api/items", dto.CreateItemRequest{SKU: "A-1", Name: "Bolt", Unit: "pcs"})

	a.create("/api/inventory/movements", fiber.Map{
		"type": "receipt", "to_warehouse_id": w1,
		"items": []fiber.Map{{"item_id": item, "quantity": 150}},
	})
	a.create("/api/inventory/movements", fiber.Map{
		"type": "transfer", "from_warehouse_id": w1, "to_warehouse_id": w2,
		"items": []fiber.Map{{"item_id": item, "quantity": 30}},
	})
	a.create("/api/inventory/movements", fiber.Map{
		"type": "writeoff", "from_warehouse_id": w1,
		"items": []fiber.Map{{"item_id": item, "quantity": 20}},
	})

	status, raw := a.do(http.MethodGet, "/api/inventory/balances?warehouse_id="+w1, nil)
	require.Equal(t, http.StatusOK, status)
	var balances dto.BalanceListResponse
	a.decode(raw, &balances)
	require.Len(t, balances.Items, 1)
	assert.True(t, balances.Items[0].Quantity.Equal(decimal.NewFromInt(100)))

	revID := a.create("/api/revisions", dto.CreateRevisionRequest{WarehouseID: w1})
	status, raw = a.do(http.MethodPost, "/api/revisions/"+revID+"/pull", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	status, raw = a.do(http.MethodPut, "/api/revisions/"+revID+"/lines/"+item, fiber.Map{"quantity": 95})
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = a.do(http.MethodPost, "/api/revisions/"+revID+"/post", nil)
	require.Equal(t, http.StatusOK, status)
	var posted dto.PostRevisionResponse
	a.decode(raw, &posted)
	assert.True(t, posted.Applied)
	assert.NotEmpty(t, posted.AdjustmentMovementID)

	status, raw = a.do(http.MethodPost, "/api/revisions/"+revID+"/post", nil)
	require.Equal(t, http.StatusOK, status)
	a.decode(raw, &posted)
	assert.False(t, posted.Applied, "contabilizar dos veces no emite otro ajuste")

	status, raw = a.do(http.MethodGet, "/api/inventory/balances?nonzero=true", nil)
	require.Equal(t, http.StatusOK, status)
	a.decode(raw, &balances)
	require.Len(t, balances.Items, 2)
	for _, b := range balances.Items {
		if b.WarehouseID == w1 {
			assert.True(t, b.Quantity.Equal(decimal.NewFromInt(95)))
		} else {
			assert.True(t, b.Quantity.Equal(decimal.NewFromInt(30)))
		}
	}

	status, raw = a.do(http.MethodGet, "/api/inventory/movements?type=adjustment", nil)
	require.Equal(t, http.StatusOK, status)
	var movs dto.MovementListResponse
	a.decode(raw, &movs)
	require.Len(t, movs.Items, 1)
	assert.Equal(t, revID, movs.Items[0].RevisionID)

	status, _ = a.do(http.MethodPut, "/api/revisions/"+revID+"/lines/"+item, fiber.Map{"quantity": 1})
	assert.Equal(t, http.StatusConflict, status, "una revisión contabilizada es inmutable")
}

func TestAPI_ContabilizarRevisionInexistente(t *testing.T) {
	a := newAPI(t)
	status, raw := a.do(http.MethodPost, "/api/revisions/no-existe/post", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"applied":false}`, string(raw))
}

func TestAPI_ErroresDeValidacion(t *testing.T) {
	a := newAPI(t)
	w1 := a.create("/api/warehouses", dto.CreateWarehouseRequest{Name: "Principal"})

	status, raw := a.do(http.MethodPost, "/api/inventory/movements", fiber.Map{
		"type": "receipt", "to_warehouse_id": w1, "items": []fiber.Map{},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	var e dto.ErrorResponse
	a.decode(raw, &e)
	assert.Equal(t, "VALIDATION", e.Code)

	status, raw = a.do(http.MethodPost, "/api/warehouses", fiber.Map{"name": ""})
	assert.Equal(t, http.StatusBadRequest, status)
	a.decode(raw, &e)
	assert.Equal(t, "name", e.Field)

	status, _ = a.do(http.MethodGet, "/api/revisions?status=closed", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = a.do(http.MethodGet, "/api/items/no-existe", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_AlmacenArchivadoRechazaMovimientos(t *testing.T) {
	a := newAPI(t)
	w1 := a.create("/api/warehouses", dto.CreateWarehouseRequest{Name: "Principal"})
	item := a.create("/api/items", dto.CreateItemRequest{Name: "Bolt", Unit: "pcs"})

	status, _ := a.do(http.MethodDelete, "/api/warehouses/"+w1, nil)
	require.Equal(t, http.StatusOK, status)

	status, raw := a.do(http.MethodPost, "/api/inventory/movements", fiber.Map{
		"type": "receipt", "to_warehouse_id": w1,
		"items": []fiber.Map{{"item_id": item, "quantity": 1}},
	})
	assert.Equal(t, http.StatusConflict, status)
	var e dto.ErrorResponse
	a.decode(raw, &e)
	assert.Equal(t, "ARCHIVED", e.Code)
}

func TestAPI_ConsultorSoloLee(t *testing.T) {
	a := newAPI(t)
	a.token = tokenForRole(t, pkgjwt.RoleConsultor)

	status, _ := a.do(http.MethodGet, "/api/inventory/balances", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = a.do(http.MethodPost, "/api/warehouses", dto.CreateWarehouseRequest{Name: "X"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = a.do(http.MethodPost, "/api/inventory/verify", nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAPI_VerifyYPDF(t *testing.T) {
	a := newAPI(t)
	w1 := a.create("/api/warehouses", dto.CreateWarehouseRequest{Name: "Principal"})
	item := a.create("/api/items", dto.CreateItemRequest{SKU: "A-1", Name: "Bolt", Unit: "pcs"})
	a.create("/api/inventory/movements", fiber.Map{
		"type": "receipt", "to_warehouse_id": w1,
		"items": []fiber.Map{{"item_id": item, "quantity": "2.5"}},
	})
	revID := a.create("/api/revisions", dto.CreateRevisionRequest{WarehouseID: w1})
	status, _ := a.do(http.MethodPost, "/api/revisions/"+revID+"/pull", nil)
	require.Equal(t, http.StatusOK, status)

	req := httptest.NewRequest(http.MethodGet, "/api/revisions/"+revID+"/pdf", nil)
	req.Header.Set("Authorization", a.token)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "revision-")
	doc, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	a.token = tokenForRole(t, pkgjwt.RoleAdmin)
	status, raw := a.do(http.MethodPost, "/api/inventory/verify", nil)
	require.Equal(t, http.StatusOK, status)
	var v dto.VerifyResponse
	a.decode(raw, &v)
	assert.Equal(t, 1, v.Movements)
	assert.False(t, v.Rebuilt)
}

func TestAPI_CantidadContadaObligatoria(t *testing.T) {
	a := newAPI(t)
	w1 := a.create("/api/warehouses", dto.CreateWarehouseRequest{Name: "Principal"})
	item := a.create("/api/items", dto.CreateItemRequest{Name: "Bolt", Unit: "pcs"})
	a.create("/api/inventory/movements", fiber.Map{
		"type": "receipt", "to_warehouse_id": w1,
		"items": []fiber.Map{{"item_id": item, "quantity": 100}},
	})
	revID := a.create("/api/revisions", dto.CreateRevisionRequest{WarehouseID: w1})
	status, _ := a.do(http.MethodPost, "/api/revisions/"+revID+"/pull", nil)
	require.Equal(t, http.StatusOK, status)

	status, raw := a.do(http.MethodPut, "/api/revisions/"+revID+"/lines/"+item, fiber.Map{"qty": 95})
	require.Equal(t, http.StatusBadRequest, status, string(raw))
	var e dto.ErrorResponse
	a.decode(raw, &e)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "quantity", e.Field)

	status, raw = a.do(http.MethodGet, "/api/revisions/"+revID, nil)
	require.Equal(t, http.StatusOK, status)
	var rev dto.RevisionResponse
	a.decode(raw, &rev)
	require.Len(t, rev.Lines, 1)
	assert.True(t, rev.Lines[0].QuantityFact.Equal(decimal.NewFromInt(100)), "la línea conserva lo cargado")

	status, raw = a.do(http.MethodPut, "/api/revisions/"+revID+"/lines/"+item, fiber.Map{"quantity": 0})
	require.Equal(t, http.StatusOK, status, string(raw))
	a.decode(raw, &rev)
	assert.True(t, rev.Lines[0].QuantityFact.IsZero(), "un cero explícito sí se acepta")
}

func TestAPI_FechaSinHora(t *testing.T) {
	a := newAPI(t)
	w1 := a.create("/api/warehouses", dto.CreateWarehouseRequest{Name: "Principal"})
	item := a.create("/api/items", dto.CreateItemRequest{Name: "Bolt", Unit: "pcs"})

	status, raw := a.do(http.MethodPost, "/api/inventory/movements", fiber.Map{
		"type": "receipt", "to_warehouse_id": w1, "date": "2025-02-28",
		"items": []fiber.Map{{"item_id": item, "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var mov dto.MovementResponse
	a.decode(raw, &mov)
	assert.True(t, mov.Date.Equal(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)))

	status, raw = a.do(http.MethodPost, "/api/revisions", fiber.Map{"warehouse_id": w1, "date": "2025-03-01"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var rev dto.RevisionResponse
	a.decode(raw, &rev)
	assert.True(t, rev.Date.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))

	status, raw = a.do(http.MethodPost, "/api/revisions", fiber.Map{"warehouse_id": w1, "date": "2025-03-01T08:00:00Z"})
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, _ = a.do(http.MethodPost, "/api/revisions", fiber.Map{"warehouse_id": w1, "date": "01/03/2025"})
	assert.Equal(t, http.StatusBadRequest, status)
}
