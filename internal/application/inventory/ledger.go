package inventory

import (
	"context"
	"fmt"
	"sync"
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

// LedgerOptions parámetros del registro.
type LedgerOptions struct {
	// AllowNegative permite bajas y traslados que dejan saldo negativo.
	AllowNegative bool
	// Snapshots, si no es nil, recibe la proyección tras cada verificación.
	Snapshots repository.BalanceSnapshotRepository
}

// LedgerUseCase registro de movimientos y saldos derivados. Es el único
// escritor: toda mutación del registro o de las revisiones pasa por mu. Los
// saldos se leen de la caché incremental sin bloquear a los escritores.
type LedgerUseCase struct {
	mu            sync.Mutex
	movRepo       repository.StockMovementRepository
	warehouseRepo repository.WarehouseRepository
	itemRepo      repository.InventoryItemRepository
	cache         *inventory.BalanceCache
	opts          LedgerOptions
	log           *logger.Logger
	now           func() time.Time
}

// NewLedgerUseCase construye el caso de uso. Llamar Load antes de servir.
func NewLedgerUseCase(
	movRepo repository.StockMovementRepository,
	warehouseRepo repository.WarehouseRepository,
	itemRepo repository.InventoryItemRepository,
	log *logger.Logger,
	opts LedgerOptions,
) *LedgerUseCase {
	return &LedgerUseCase{
		movRepo:       movRepo,
		warehouseRepo: warehouseRepo,
		itemRepo:      itemRepo,
		cache:         inventory.NewBalanceCache(),
		opts:          opts,
		log:           log.Named("ledger"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Load pliega el registro persistido y reconstruye la caché.
func (uc *LedgerUseCase) Load(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	all, err := uc.movRepo.All(ctx)
	if err != nil {
		return fmt.Errorf("load movements: %w", err)
	}
	skipped := uc.cache.Reset(all)
	if len(skipped) > 0 {
		uc.log.Warn().Strs("movement_ids", skipped).Msg("movimientos sin almacén omitidos de la proyección")
	}
	uc.log.Info().Int("movements", len(all)).Int("balances", len(uc.cache.Snapshot())).Msg("registro cargado")
	return nil
}

// RegisterMovement valida y anexa un movimiento. La caché se actualiza solo
// después de que el almacén confirma la escritura.
func (uc *LedgerUseCase) RegisterMovement(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	now := uc.now()
	params := entity.MovementParams{
		ID:              uuid.New().String(),
		Type:            entity.MovementType(in.Type),
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Reason:          in.Reason,
		CreatedByUserID: userID,
		CreatedAt:       now,
	}
	if in.Date != nil {
		params.Date = *in.Date
	}
	for _, l := range in.Items {
		params.Items = append(params.Items, entity.MovementLine{ItemID: l.ItemID, Quantity: l.Quantity, Price: l.Price})
	}
	m, err := entity.NewStockMovement(params)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.checkReferences(ctx, m); err != nil {
		return nil, err
	}
	if !uc.opts.AllowNegative && (m.Type == entity.MovementWriteoff || m.Type == entity.MovementTransfer) {
		if key, short := uc.cache.Shortfall(m); short {
			return nil, fmt.Errorf("%w: artículo %s en almacén %s", domain.ErrInsufficientStock, key.ItemID, key.WarehouseID)
		}
	}
	if err := uc.movRepo.Append(ctx, m); err != nil {
		return nil, fmt.Errorf("append movement: %w", err)
	}
	uc.cache.Apply(m)

	uc.log.Info().
		Str("movement_id", m.ID).
		Str("type", string(m.Type)).
		Str("from", m.FromWarehouseID).
		Str("to", m.ToWarehouseID).
		Int("lines", len(m.Items)).
		Str("user_id", userID).
		Msg("movimiento registrado")
	return toMovementResponse(m), nil
}

// checkReferences exige que almacenes y artículos existan y no estén archivados.
func (uc *LedgerUseCase) checkReferences(ctx context.Context, m *entity.StockMovement) error {
	for _, id := range m.WarehouseIDs() {
		w, err := uc.warehouseRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if w == nil {
			return fmt.Errorf("%w: almacén %s", domain.ErrNotFound, id)
		}
		if w.IsArchived {
			return fmt.Errorf("%w: almacén %s", domain.ErrArchived, w.Name)
		}
	}
	seen := make(map[string]bool, len(m.Items))
	for _, l := range m.Items {
		if seen[l.ItemID] {
			continue
		}
		seen[l.ItemID] = true
		it, err := uc.itemRepo.GetByID(ctx, l.ItemID)
		if err != nil {
			return err
		}
		if it == nil {
			return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, l.ItemID)
		}
		if it.IsArchived {
			return fmt.Errorf("%w: artículo %s", domain.ErrArchived, it.Name)
		}
	}
	return nil
}

// Balances devuelve los saldos derivados, ordenados por almacén y artículo.
func (uc *LedgerUseCase) Balances(f dto.BalanceFilter) *dto.BalanceListResponse {
	var src []entity.StockBalance
	if f.WarehouseID != "" {
		src = uc.cache.ByWarehouse(f.WarehouseID)
	} else {
		src = uc.cache.Snapshot()
	}
	items := make([]dto.BalanceResponse, 0, len(src))
	for _, b := range src {
		if f.ItemID != "" && b.ItemID != f.ItemID {
			continue
		}
		if f.NonZero && b.Quantity.IsZero() {
			continue
		}
		items = append(items, toBalanceResponse(b))
	}
	return &dto.BalanceListResponse{Items: items}
}

// Balance saldo actual de un artículo en un almacén.
func (uc *LedgerUseCase) Balance(warehouseID, itemID string) decimal.Decimal {
	return uc.cache.Get(warehouseID, itemID)
}

// Movements lista el registro filtrado, más recientes primero.
func (uc *LedgerUseCase) Movements(ctx context.Context, f dto.MovementFilter) (*dto.MovementListResponse, error) {
	all, err := uc.movRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*entity.StockMovement, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if f.Type != "" && string(m.Type) != f.Type {
			continue
		}
		if f.WarehouseID != "" && m.FromWarehouseID != f.WarehouseID && m.ToWarehouseID != f.WarehouseID {
			continue
		}
		if f.ItemID != "" && !m.HasItem(f.ItemID) {
			continue
		}
		matched = append(matched, m)
	}

	page := f.Page()
	start := min(page.Offset, len(matched))
	end := min(start+page.Limit, len(matched))
	items := make([]dto.MovementResponse, 0, end-start)
	for _, m := range matched[start:end] {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(matched)},
	}, nil
}

// Verify vuelve a plegar el registro persistido y lo compara con la caché.
// Si difieren se registra una advertencia y la caché se reconstruye.
func (uc *LedgerUseCase) Verify(ctx context.Context) (*dto.VerifyResponse, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	all, err := uc.movRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	proj := inventory.Project(all)
	res := &dto.VerifyResponse{Movements: len(all), Skipped: proj.Skipped, VerifiedAt: uc.now()}

	if drift := uc.cache.Diff(proj); len(drift) > 0 {
		for _, k := range drift {
			res.Drift = append(res.Drift, dto.BalanceResponse{
				WarehouseID: k.WarehouseID,
				ItemID:      k.ItemID,
				Quantity:    uc.cache.Get(k.WarehouseID, k.ItemID),
			})
		}
		uc.log.Warn().Err(domain.ErrProjectionDrift).Int("keys", len(drift)).Msg("caché de saldos reconstruida")
		uc.cache.Reset(all)
		res.Rebuilt = true
	}

	if uc.opts.Snapshots != nil {
		if err := uc.opts.Snapshots.Replace(ctx, proj.Balances, res.VerifiedAt); err != nil {
			uc.log.Error().Err(err).Msg("no se pudo exportar stock_balances")
		}
	}
	return res, nil
}

func toBalanceResponse(b entity.StockBalance) dto.BalanceResponse {
	return dto.BalanceResponse{WarehouseID: b.WarehouseID, ItemID: b.ItemID, Quantity: b.Quantity}
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	lines := make([]dto.MovementLineResponse, 0, len(m.Items))
	for _, l := range m.Items {
		lines = append(lines, dto.MovementLineResponse{ItemID: l.ItemID, Quantity: l.Quantity, Price: l.Price})
	}
	return &dto.MovementResponse{
		ID:              m.ID,
		Type:            string(m.Type),
		Date:            m.Date,
		FromWarehouseID: m.FromWarehouseID,
		ToWarehouseID:   m.ToWarehouseID,
		Items:           lines,
		Reason:          m.Reason,
		RevisionID:      m.RevisionID,
		CreatedByUserID: m.CreatedByUserID,
		CreatedAt:       m.CreatedAt,
	}
}
