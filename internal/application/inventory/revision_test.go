package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

func (f *fixture) createRevision(t *testing.T, wh string) *dto.RevisionResponse {
	t.Helper()
	date := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	rev, err := f.revisions.Create(context.Background(), "u1", dto.CreateRevisionRequest{WarehouseID: wh, Date: &date})
	require.NoError(t, err)
	return rev
}

func TestRevision_EscenarioCompleto(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	f.register(t, "receipt", "", "W1", ln("A", 150))
	f.register(t, "transfer", "W1", "W2", ln("A", 30))
	require.True(t, f.balance("W1", "A").Equal(qty(120)))
	require.True(t, f.balance("W2", "A").Equal(qty(30)))
	f.register(t, "writeoff", "W1", "", ln("A", 20))
	require.True(t, f.balance("W1", "A").Equal(qty(100)))

	rev := f.createRevision(t, "W1")
	assert.Equal(t, "РЕВ-001", rev.Number)
	assert.Equal(t, "draft", rev.Status)

	rev, err := f.revisions.PullCurrentBalances(ctx, rev.ID)
	require.NoError(t, err)
	require.Len(t, rev.Lines, 1)
	assert.True(t, rev.Lines[0].QuantitySystem.Equal(qty(100)))
	assert.True(t, rev.Lines[0].QuantityFact.Equal(qty(100)))

	rev, err = f.revisions.SetFactQuantity(ctx, rev.ID, "A", dto.SetFactRequest{Quantity: qtyPtr(95)})
	require.NoError(t, err)

	res, err := f.revisions.Post(ctx, rev.ID, "u1")
	require.NoError(t, err)
	require.True(t, res.Applied)
	require.NotEmpty(t, res.AdjustmentMovementID)
	assert.Equal(t, "posted", res.Revision.Status)
	assert.NotNil(t, res.Revision.PostedAt)

	assert.True(t, f.balance("W1", "A").Equal(qty(95)))
	assert.True(t, f.balance("W2", "A").Equal(qty(30)))

	adjs, err := f.ledger.Movements(ctx, dto.MovementFilter{Type: "adjustment"})
	require.NoError(t, err)
	require.Len(t, adjs.Items, 1)
	adj := adjs.Items[0]
	assert.Equal(t, "W1", adj.ToWarehouseID)
	assert.Equal(t, "Ревизия РЕВ-001", adj.Reason)
	assert.Equal(t, rev.ID, adj.RevisionID)
	assert.True(t, adj.Date.Equal(rev.Date))
	require.Len(t, adj.Items, 1)
	assert.True(t, adj.Items[0].Quantity.Equal(qty(-5)))
}

func TestRevision_DoblePostEsIdempotente(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.register(t, "receipt", "", "W1", ln("A", 10))
	rev := f.createRevision(t, "W1")
	_, err := f.revisions.SetFactQuantity(ctx, rev.ID, "A", dto.SetFactRequest{Quantity: qtyPtr(7)})
	require.NoError(t, err)

	first, err := f.revisions.Post(ctx, rev.ID, "u1")
	require.NoError(t, err)
	assert.True(t, first.Applied)

	second, err := f.revisions.Post(ctx, rev.ID, "u1")
	require.NoError(t, err)
	assert.False(t, second.Applied)

	missing, err := f.revisions.Post(ctx, "no-existe", "u1")
	require.NoError(t, err)
	assert.False(t, missing.Applied)

	all, err := f.movRepo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.True(t, f.balance("W1", "A").Equal(qty(7)))
}

func TestRevision_SinDiferenciasNoAjusta(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.register(t, "receipt", "", "W1", ln("A", 10), ln("B", 3))
	rev := f.createRevision(t, "W1")
	_, err := f.revisions.PullCurrentBalances(ctx, rev.ID)
	require.NoError(t, err)

	res, err := f.revisions.Post(ctx, rev.ID, "u1")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Empty(t, res.AdjustmentMovementID)

	all, err := f.movRepo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRevision_LineaManualUsaSaldoProyectado(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.register(t, "receipt", "", "W1", ln("B", 4))
	rev := f.createRevision(t, "W1")

	rev, err := f.revisions.SetFactQuantity(ctx, rev.ID, "B", dto.SetFactRequest{Quantity: qtyPtr(6)})
	require.NoError(t, err)
	require.Len(t, rev.Lines, 1)
	assert.True(t, rev.Lines[0].QuantitySystem.Equal(qty(4)))
	assert.True(t, rev.Lines[0].Diff.Equal(qty(2)))

	_, err = f.revisions.SetFactQuantity(ctx, rev.ID, "B", dto.SetFactRequest{Quantity: qtyPtr(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.revisions.SetFactQuantity(ctx, rev.ID, "NOPE", dto.SetFactRequest{Quantity: qtyPtr(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRevision_ConflictoDeVersion(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	rev := f.createRevision(t, "W1")

	stale := rev.Version
	_, err := f.revisions.SetFactQuantity(ctx, rev.ID, "A", dto.SetFactRequest{Quantity: qtyPtr(1), Version: &stale})
	require.NoError(t, err)
	_, err = f.revisions.SetFactQuantity(ctx, rev.ID, "A", dto.SetFactRequest{Quantity: qtyPtr(2), Version: &stale})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRevision_ContabilizadaEsInmutable(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	rev := f.createRevision(t, "W1")
	_, err := f.revisions.Post(ctx, rev.ID, "u1")
	require.NoError(t, err)

	_, err = f.revisions.PullCurrentBalances(ctx, rev.ID)
	assert.ErrorIs(t, err, domain.ErrRevisionPosted)
	_, err = f.revisions.SetFactQuantity(ctx, rev.ID, "A", dto.SetFactRequest{Quantity: qtyPtr(1)})
	assert.ErrorIs(t, err, domain.ErrRevisionPosted)
}

func TestRevision_CrearValidaAlmacen(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	_, err := f.revisions.Create(ctx, "u1", dto.CreateRevisionRequest{WarehouseID: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.revisions.Create(ctx, "u1", dto.CreateRevisionRequest{WarehouseID: "W9"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.revisions.Create(ctx, "u1", dto.CreateRevisionRequest{WarehouseID: "WX"})
	assert.ErrorIs(t, err, domain.ErrArchived)
}

func TestRevision_NumeracionSembradaDesdeExistentes(t *testing.T) {
	store := memory.NewStore()
	f := newFixtureOn(t, store, true, true)
	ctx := context.Background()
	require.NoError(t, f.revRepo.Save(ctx, &entity.InventoryRevision{ID: "old", Number: "РЕВ-007", WarehouseID: "W1", Status: entity.RevisionPosted}))

	restarted := newFixtureOn(t, store, true, false)
	a := restarted.createRevision(t, "W1")
	b := restarted.createRevision(t, "W2")
	assert.Equal(t, "РЕВ-008", a.Number)
	assert.Equal(t, "РЕВ-009", b.Number)

	list, err := restarted.revisions.List(ctx, dto.RevisionFilter{Status: "draft"})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, b.ID, list.Items[0].ID)
	list, err = restarted.revisions.List(ctx, dto.RevisionFilter{WarehouseID: "W1"})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}

func TestRevision_RecuperaContabilizacionInterrumpida(t *testing.T) {
	store := memory.NewStore()
	f := newFixtureOn(t, store, true, true)
	ctx := context.Background()
	f.register(t, "receipt", "", "W1", ln("A", 10))
	rev := f.createRevision(t, "W1")

	// Caída entre anexar el ajuste y marcar la revisión.
	adj, err := entity.NewStockMovement(entity.MovementParams{
		ID: "adj-crash", Type: entity.MovementAdjustment, ToWarehouseID: "W1", RevisionID: rev.ID,
		Items: []entity.MovementLine{{ItemID: "A", Quantity: qty(-2)}}, CreatedByUserID: "u1",
	})
	require.NoError(t, err)
	require.NoError(t, f.movRepo.Append(ctx, adj))

	restarted := newFixtureOn(t, store, true, false)
	n, err := restarted.revisions.RecoverPostings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := restarted.revisions.Get(ctx, rev.ID)
	require.NoError(t, err)
	assert.Equal(t, "posted", got.Status)
	assert.Equal(t, "adj-crash", got.AdjustmentMovementID)

	res, err := restarted.revisions.Post(ctx, rev.ID, "u1")
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.True(t, restarted.balance("W1", "A").Equal(qty(8)))
}

func TestRevision_PostReusaAjusteExistente(t *testing.T) {
	store := memory.NewStore()
	f := newFixtureOn(t, store, true, true)
	ctx := context.Background()
	rev := f.createRevision(t, "W1")
	adj, err := entity.NewStockMovement(entity.MovementParams{
		ID: "adj-prev", Type: entity.MovementAdjustment, ToWarehouseID: "W1", RevisionID: rev.ID,
		Items: []entity.MovementLine{{ItemID: "A", Quantity: qty(3)}}, CreatedByUserID: "u1",
	})
	require.NoError(t, err)
	require.NoError(t, f.movRepo.Append(ctx, adj))

	restarted := newFixtureOn(t, store, true, false)
	res, err := restarted.revisions.Post(ctx, rev.ID, "u1")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "adj-prev", res.AdjustmentMovementID)
	all, err := restarted.movRepo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "no se anexa un segundo ajuste")
}

func TestRevision_PDF(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.register(t, "receipt", "", "W1", ln("A", 10), ln("B", 2))
	rev := f.createRevision(t, "W1")
	_, err := f.revisions.PullCurrentBalances(ctx, rev.ID)
	require.NoError(t, err)
	_, err = f.revisions.SetFactQuantity(ctx, rev.ID, "A", dto.SetFactRequest{Quantity: qtyPtr(8)})
	require.NoError(t, err)

	pdf, name, err := f.revisions.RevisionPDF(ctx, rev.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Equal(t, "revision-2026-04-30.pdf", name)

	sheet := f.renderer.sheet
	assert.Equal(t, "РЕВ-001", sheet.Number)
	assert.Equal(t, "Principal", sheet.WarehouseName)
	require.Len(t, sheet.Lines, 2)
	assert.Equal(t, "Болт", sheet.Lines[0].Name)
	assert.True(t, sheet.TotalSystem.Equal(qty(12)))
	assert.True(t, sheet.TotalFact.Equal(qty(10)))
	assert.True(t, sheet.TotalDiff.Equal(qty(-2)))

	_, _, err = f.revisions.RevisionPDF(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRevision_SinCantidadSeRechaza(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.register(t, "receipt", "", "W1", ln("A", 100))
	rev := f.createRevision(t, "W1")
	_, err := f.revisions.PullCurrentBalances(ctx, rev.ID)
	require.NoError(t, err)

	_, err = f.revisions.SetFactQuantity(ctx, rev.ID, "A", dto.SetFactRequest{})
	var verr *entity.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)

	got, err := f.revisions.Get(ctx, rev.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Lines[0].QuantityFact.Equal(qty(100)), "el conteo no cambia")
	assert.Equal(t, rev.Version+1, got.Version, "solo la carga de saldos incrementa la versión")
}

func TestRevision_CargarSaldosDeNuevoSobrescribe(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.register(t, "receipt", "", "W1", ln("A", 10))
	f.register(t, "receipt", "", "W2", ln("B", 4))
	rev := f.createRevision(t, "W1")

	_, err := f.revisions.PullCurrentBalances(ctx, rev.ID)
	require.NoError(t, err)
	_, err = f.revisions.SetFactQuantity(ctx, rev.ID, "A", dto.SetFactRequest{Quantity: qtyPtr(7)})
	require.NoError(t, err)
	edited, err := f.revisions.SetFactQuantity(ctx, rev.ID, "B", dto.SetFactRequest{Quantity: qtyPtr(2)})
	require.NoError(t, err)
	require.Len(t, edited.Lines, 2)

	f.register(t, "receipt", "", "W1", ln("A", 5))
	pulled, err := f.revisions.PullCurrentBalances(ctx, rev.ID)
	require.NoError(t, err)
	require.Len(t, pulled.Lines, 1, "la línea manual desaparece")
	assert.Equal(t, "A", pulled.Lines[0].ItemID)
	assert.True(t, pulled.Lines[0].QuantitySystem.Equal(qty(15)))
	assert.True(t, pulled.Lines[0].QuantityFact.Equal(qty(15)), "el conteo vuelve al saldo del sistema")
	assert.True(t, pulled.Lines[0].Diff.IsZero())
}

func TestRevision_CargarSaldosIncluyeCeroYNegativos(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.register(t, "receipt", "", "W1", ln("A", 6))
	f.register(t, "writeoff", "W1", "", ln("A", 6))
	f.register(t, "writeoff", "W1", "", ln("B", 2))
	rev := f.createRevision(t, "W1")

	pulled, err := f.revisions.PullCurrentBalances(ctx, rev.ID)
	require.NoError(t, err)
	require.Len(t, pulled.Lines, 2)
	assert.Equal(t, "A", pulled.Lines[0].ItemID)
	assert.True(t, pulled.Lines[0].QuantitySystem.IsZero())
	assert.Equal(t, "B", pulled.Lines[1].ItemID)
	assert.True(t, pulled.Lines[1].QuantitySystem.Equal(qty(-2)))
	assert.True(t, pulled.Lines[1].QuantityFact.Equal(qty(-2)))
}

func TestRevision_DocumentosAntiguosConFechaSinHora(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, repository.CollectionRevisions, "old",
		[]byte(`{"id":"old","number":"РЕВ-007","warehouseId":"W1","date":"2025-03-01","status":"posted","lines":[],"createdByUserId":"u0"}`)))
	require.NoError(t, store.Save(ctx, repository.CollectionMovements, "m-old",
		[]byte(`{"id":"m-old","type":"receipt","date":"2025-02-28","toWarehouseId":"W1","items":[{"itemId":"A","quantity":4}],"createdByUserId":"u0","createdAt":"2025-02-28T09:00:00Z"}`)))

	f := newFixtureOn(t, store, true, true)

	assert.True(t, f.balance("W1", "A").Equal(qty(4)))
	old, err := f.revisions.Get(ctx, "old")
	require.NoError(t, err)
	assert.True(t, old.Date.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))

	next := f.createRevision(t, "W1")
	assert.Equal(t, "РЕВ-008", next.Number)
}
