package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ItemUseCase casos de uso de la nomenclatura. Las existencias se manejan vía movimientos.
type ItemUseCase struct {
	repo repository.InventoryItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.InventoryItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create da de alta un artículo.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	name, unit := strings.TrimSpace(in.Name), strings.TrimSpace(in.Unit)
	if name == "" || unit == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	item := &entity.InventoryItem{
		ID:        uuid.New().String(),
		SKU:       strings.TrimSpace(in.SKU),
		Name:      name,
		Unit:      unit,
		Category:  strings.TrimSpace(in.Category),
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Import guarda artículos ya construidos (herramienta de importación).
// Un artículo con id existente se actualiza.
func (uc *ItemUseCase) Import(ctx context.Context, items []*entity.InventoryItem) (int, error) {
	now := time.Now().UTC()
	for i, it := range items {
		if strings.TrimSpace(it.Name) == "" || strings.TrimSpace(it.Unit) == "" {
			return i, domain.ErrInvalidInput
		}
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		if it.CreatedAt.IsZero() {
			it.CreatedAt = now
		}
		it.UpdatedAt = now
		if err := uc.repo.Save(ctx, it); err != nil {
			return i, err
		}
	}
	return len(items), nil
}

// GetByID obtiene un artículo por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Update actualiza un artículo.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Unit != nil {
		if strings.TrimSpace(*in.Unit) == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.SKU != nil {
		item.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Category != nil {
		item.Category = strings.TrimSpace(*in.Category)
	}
	if in.Notes != nil {
		item.Notes = *in.Notes
	}
	item.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Archive archiva el artículo; deja de ofrecerse para movimientos nuevos.
func (uc *ItemUseCase) Archive(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.IsArchived {
		item.IsArchived = true
		item.UpdatedAt = time.Now().UTC()
		if err := uc.repo.Save(ctx, item); err != nil {
			return nil, err
		}
	}
	return toItemResponse(item), nil
}

// List lista artículos. La búsqueda Q compara nombre y SKU con plegado de
// mayúsculas Unicode (funciona igual con cirílico).
func (uc *ItemUseCase) List(ctx context.Context, f dto.ItemFilter) (*dto.ItemListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(f.Q))
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		if it.IsArchived && !f.IncludeArchived {
			continue
		}
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if q != "" && !strings.Contains(fold.String(it.Name), q) && !strings.Contains(fold.String(it.SKU), q) {
			continue
		}
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{Items: items}, nil
}

func (uc *ItemUseCase) get(ctx context.Context, id string) (*entity.InventoryItem, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func toItemResponse(it *entity.InventoryItem) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:         it.ID,
		SKU:        it.SKU,
		Name:       it.Name,
		Unit:       it.Unit,
		Category:   it.Category,
		Notes:      it.Notes,
		IsArchived: it.IsArchived,
		CreatedAt:  it.CreatedAt,
		UpdatedAt:  it.UpdatedAt,
	}
}
