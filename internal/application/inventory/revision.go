package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RevisionUseCase flujo de conteo físico: borrador -> contabilizada.
// Comparte el punto de escritura único del registro (LedgerUseCase.mu).
type RevisionUseCase struct {
	ledger   *LedgerUseCase
	txRunner TxRunner
	revRepo  repository.RevisionRepository
	seq      repository.RevisionSequence
	renderer RevisionSheetRenderer
	log      *logger.Logger
}

// NewRevisionUseCase construye el caso de uso. renderer puede ser nil (sin PDF).
func NewRevisionUseCase(
	ledger *LedgerUseCase,
	txRunner TxRunner,
	revRepo repository.RevisionRepository,
	seq repository.RevisionSequence,
	renderer RevisionSheetRenderer,
	log *logger.Logger,
) *RevisionUseCase {
	return &RevisionUseCase{
		ledger:   ledger,
		txRunner: txRunner,
		revRepo:  revRepo,
		seq:      seq,
		renderer: renderer,
		log:      log.Named("revisions"),
	}
}

// SeedSequence siembra el contador con el mayor número existente.
func (uc *RevisionUseCase) SeedSequence(ctx context.Context) error {
	revs, err := uc.revRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}
	numbers := make([]string, 0, len(revs))
	for _, r := range revs {
		numbers = append(numbers, r.Number)
	}
	highest := inventory.MaxRevisionNumber(numbers)
	if err := uc.seq.Seed(ctx, highest); err != nil {
		return err
	}
	uc.log.Info().Int64("max_number", highest).Msg("contador de revisiones sembrado")
	return nil
}

// RecoverPostings marca como contabilizadas las revisiones en borrador cuyo
// ajuste ya está en el registro (caída entre anexar y marcar). Llamar tras Load.
func (uc *RevisionUseCase) RecoverPostings(ctx context.Context) (int, error) {
	uc.ledger.mu.Lock()
	defer uc.ledger.mu.Unlock()

	revs, err := uc.revRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("recover postings: %w", err)
	}
	recovered := 0
	for _, rev := range revs {
		if !rev.IsDraft() {
			continue
		}
		movID, ok := uc.ledger.cache.AdjustmentFor(rev.ID)
		if !ok {
			continue
		}
		postedAt := uc.ledger.now()
		if m, err := uc.ledger.movRepo.GetByID(ctx, movID); err == nil && m != nil {
			postedAt = m.CreatedAt
		}
		if err := rev.MarkPosted(postedAt, movID); err != nil {
			return recovered, err
		}
		if err := uc.revRepo.Save(ctx, rev); err != nil {
			return recovered, err
		}
		recovered++
		uc.log.Warn().Str("revision_id", rev.ID).Str("number", rev.Number).Str("movement_id", movID).
			Msg("revisión marcada contabilizada a partir de su ajuste")
	}
	return recovered, nil
}

// Create abre una revisión en borrador para un almacén.
func (uc *RevisionUseCase) Create(ctx context.Context, userID string, in dto.CreateRevisionRequest) (*dto.RevisionResponse, error) {
	whID := strings.TrimSpace(in.WarehouseID)
	if whID == "" {
		return nil, domain.ErrInvalidInput
	}

	uc.ledger.mu.Lock()
	defer uc.ledger.mu.Unlock()

	w, err := uc.ledger.warehouseRepo.GetByID(ctx, whID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("%w: almacén %s", domain.ErrNotFound, whID)
	}
	if w.IsArchived {
		return nil, fmt.Errorf("%w: almacén %s", domain.ErrArchived, w.Name)
	}

	n, err := uc.seq.Next(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.ledger.now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	rev := &entity.InventoryRevision{
		ID:              uuid.New().String(),
		Number:          inventory.FormatRevisionNumber(n),
		WarehouseID:     whID,
		Date:            date,
		Status:          entity.RevisionDraft,
		Lines:           []entity.RevisionLine{},
		Reason:          strings.TrimSpace(in.Reason),
		CreatedByUserID: userID,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.revRepo.Save(ctx, rev); err != nil {
		return nil, err
	}
	uc.log.Info().Str("revision_id", rev.ID).Str("number", rev.Number).Str("warehouse_id", whID).Msg("revisión creada")
	return toRevisionResponse(rev), nil
}

// Get obtiene una revisión.
func (uc *RevisionUseCase) Get(ctx context.Context, id string) (*dto.RevisionResponse, error) {
	rev, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRevisionResponse(rev), nil
}

// List lista revisiones, más recientes primero.
func (uc *RevisionUseCase) List(ctx context.Context, f dto.RevisionFilter) (*dto.RevisionListResponse, error) {
	revs, err := uc.revRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RevisionResponse, 0, len(revs))
	for i := len(revs) - 1; i >= 0; i-- {
		r := revs[i]
		if f.WarehouseID != "" && r.WarehouseID != f.WarehouseID {
			continue
		}
		if f.Status != "" && string(r.Status) != f.Status {
			continue
		}
		items = append(items, *toRevisionResponse(r))
	}
	return &dto.RevisionListResponse{Items: items}, nil
}

// PullCurrentBalances reemplaza las líneas por los saldos actuales del almacén
// (cualquier cantidad, incluso cero o negativa) con fact = system.
func (uc *RevisionUseCase) PullCurrentBalances(ctx context.Context, id string) (*dto.RevisionResponse, error) {
	uc.ledger.mu.Lock()
	defer uc.ledger.mu.Unlock()

	rev, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	balances := uc.ledger.cache.ByWarehouse(rev.WarehouseID)
	lines := make([]entity.RevisionLine, 0, len(balances))
	for _, b := range balances {
		lines = append(lines, entity.RevisionLine{ItemID: b.ItemID, QuantitySystem: b.Quantity, QuantityFact: b.Quantity})
	}
	if err := rev.ReplaceLines(lines, uc.ledger.now()); err != nil {
		return nil, err
	}
	if err := uc.revRepo.Save(ctx, rev); err != nil {
		return nil, err
	}
	return toRevisionResponse(rev), nil
}

// SetFactQuantity fija lo contado de un artículo. Si el artículo no tiene línea
// se agrega con el saldo proyectado como cantidad del sistema.
func (uc *RevisionUseCase) SetFactQuantity(ctx context.Context, id, itemID string, in dto.SetFactRequest) (*dto.RevisionResponse, error) {
	if in.Quantity == nil {
		return nil, &entity.ValidationError{Field: "quantity", Message: "indique la cantidad contada"}
	}

	uc.ledger.mu.Lock()
	defer uc.ledger.mu.Unlock()

	rev, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rev.IsDraft() {
		return nil, domain.ErrRevisionPosted
	}
	if in.Version != nil && *in.Version != rev.Version {
		return nil, fmt.Errorf("%w: versión %d, actual %d", domain.ErrConflict, *in.Version, rev.Version)
	}
	it, err := uc.ledger.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, itemID)
	}
	system := uc.ledger.cache.Get(rev.WarehouseID, itemID)
	if err := rev.SetFact(itemID, *in.Quantity, system, uc.ledger.now()); err != nil {
		return nil, err
	}
	if err := uc.revRepo.Save(ctx, rev); err != nil {
		return nil, err
	}
	return toRevisionResponse(rev), nil
}

// Post contabiliza la revisión: anexa un único ajuste con las diferencias y la
// marca contabilizada, ambos en una transacción. Una revisión inexistente o ya
// contabilizada no es un error: devuelve Applied=false.
func (uc *RevisionUseCase) Post(ctx context.Context, id, userID string) (*dto.PostRevisionResponse, error) {
	uc.ledger.mu.Lock()
	defer uc.ledger.mu.Unlock()

	rev, err := uc.revRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rev == nil || !rev.IsDraft() {
		return &dto.PostRevisionResponse{Applied: false}, nil
	}

	now := uc.ledger.now()
	var adj *entity.StockMovement
	adjID, exists := uc.ledger.cache.AdjustmentFor(rev.ID)
	if !exists {
		adj, err = inventory.BuildAdjustment(rev, uuid.New().String(), userID, now)
		if err != nil {
			return nil, err
		}
		if adj != nil {
			adjID = adj.ID
		}
	}

	err = uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, revRepo repository.RevisionRepository) error {
		if adj != nil {
			if err := movRepo.Append(ctx, adj); err != nil {
				return fmt.Errorf("append adjustment: %w", err)
			}
		}
		if err := rev.MarkPosted(now, adjID); err != nil {
			return err
		}
		return revRepo.Save(ctx, rev)
	})
	if err != nil {
		return nil, err
	}
	if adj != nil {
		uc.ledger.cache.Apply(adj)
	}

	ev := uc.log.Info().Str("revision_id", rev.ID).Str("number", rev.Number).Str("user_id", userID)
	if adj != nil {
		ev = ev.Str("movement_id", adj.ID).Int("lines", len(adj.Items))
	}
	ev.Msg("revisión contabilizada")

	return &dto.PostRevisionResponse{Applied: true, AdjustmentMovementID: adjID, Revision: toRevisionResponse(rev)}, nil
}

// RevisionPDF genera la hoja de conteo. Devuelve el PDF y un nombre de archivo.
func (uc *RevisionUseCase) RevisionPDF(ctx context.Context, id string) ([]byte, string, error) {
	if uc.renderer == nil {
		return nil, "", fmt.Errorf("%w: generador PDF no configurado", domain.ErrInvalidInput)
	}
	rev, err := uc.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	sheet := dto.RevisionSheet{
		Number:        rev.Number,
		WarehouseName: rev.WarehouseID,
		Date:          rev.Date,
		Status:        string(rev.Status),
		Reason:        rev.Reason,
		TotalSystem:   decimal.Zero,
		TotalFact:     decimal.Zero,
		TotalDiff:     decimal.Zero,
	}
	if w, err := uc.ledger.warehouseRepo.GetByID(ctx, rev.WarehouseID); err == nil && w != nil {
		sheet.WarehouseName = w.Name
	}
	for _, l := range rev.Lines {
		line := dto.RevisionSheetLine{Name: l.ItemID, System: l.QuantitySystem, Fact: l.QuantityFact, Diff: l.Diff()}
		if it, err := uc.ledger.itemRepo.GetByID(ctx, l.ItemID); err == nil && it != nil {
			line.SKU, line.Name, line.Unit = it.SKU, it.Name, it.Unit
		}
		sheet.Lines = append(sheet.Lines, line)
		sheet.TotalSystem = sheet.TotalSystem.Add(l.QuantitySystem)
		sheet.TotalFact = sheet.TotalFact.Add(l.QuantityFact)
		sheet.TotalDiff = sheet.TotalDiff.Add(line.Diff)
	}
	pdf, err := uc.renderer.RenderRevisionSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("render revision sheet: %w", err)
	}
	return pdf, fmt.Sprintf("revision-%s.pdf", rev.Date.Format(time.DateOnly)), nil
}

func (uc *RevisionUseCase) get(ctx context.Context, id string) (*entity.InventoryRevision, error) {
	rev, err := uc.revRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, domain.ErrNotFound
	}
	return rev, nil
}

func toRevisionResponse(r *entity.InventoryRevision) *dto.RevisionResponse {
	lines := make([]dto.RevisionLineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, dto.RevisionLineResponse{
			ItemID:         l.ItemID,
			QuantitySystem: l.QuantitySystem,
			QuantityFact:   l.QuantityFact,
			Diff:           l.Diff(),
		})
	}
	return &dto.RevisionResponse{
		ID:                   r.ID,
		Number:               r.Number,
		WarehouseID:          r.WarehouseID,
		Date:                 r.Date,
		Status:               string(r.Status),
		Lines:                lines,
		Reason:               r.Reason,
		CreatedByUserID:      r.CreatedByUserID,
		PostedAt:             r.PostedAt,
		AdjustmentMovementID: r.AdjustmentMovementID,
		Version:              r.Version,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}
