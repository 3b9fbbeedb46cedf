package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// MovementType tipo de movimiento del registro de inventario.
type MovementType string

const (
	MovementReceipt    MovementType = "receipt"    // entrada al almacén destino
	MovementWriteoff   MovementType = "writeoff"   // baja desde el almacén origen
	MovementTransfer   MovementType = "transfer"   // traslado origen -> destino
	MovementAdjustment MovementType = "adjustment" // ajuste con signo sobre el destino
)

// Valid indica si el tipo es uno de los cuatro soportados.
func (t MovementType) Valid() bool {
	switch t {
	case MovementReceipt, MovementWriteoff, MovementTransfer, MovementAdjustment:
		return true
	}
	return false
}

// MovementLine línea de un movimiento.
type MovementLine struct {
	ItemID   string           `json:"itemId"`
	Quantity decimal.Decimal  `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

// StockMovement unidad atómica e inmutable del registro. Nunca se edita ni se
// borra; las correcciones son movimientos nuevos.
type StockMovement struct {
	ID              string         `json:"id"`
	Type            MovementType   `json:"type"`
	Date            time.Time      `json:"date"`
	FromWarehouseID string         `json:"fromWarehouseId,omitempty"`
	ToWarehouseID   string         `json:"toWarehouseId,omitempty"`
	Items           []MovementLine `json:"items"`
	Reason          string         `json:"reason,omitempty"`
	RevisionID      string         `json:"revisionId,omitempty"`
	CreatedByUserID string         `json:"createdByUserId"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// WarehouseIDs devuelve los almacenes que toca el movimiento (sin vacíos).
func (m *StockMovement) WarehouseIDs() []string {
	ids := make([]string, 0, 2)
	if m.FromWarehouseID != "" {
		ids = append(ids, m.FromWarehouseID)
	}
	if m.ToWarehouseID != "" && m.ToWarehouseID != m.FromWarehouseID {
		ids = append(ids, m.ToWarehouseID)
	}
	return ids
}

// HasItem indica si alguna línea referencia el artículo.
func (m *StockMovement) HasItem(itemID string) bool {
	for _, l := range m.Items {
		if l.ItemID == itemID {
			return true
		}
	}
	return false
}

// ValidationError rechazo estructural con un mensaje apto para el operador.
// errors.Is(err, domain.ErrInvalidMovement) es verdadero.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidMovement }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// MovementParams datos de entrada para construir un movimiento.
type MovementParams struct {
	ID              string
	Type            MovementType
	Date            time.Time
	FromWarehouseID string
	ToWarehouseID   string
	Items           []MovementLine
	Reason          string
	RevisionID      string
	CreatedByUserID string
	CreatedAt       time.Time
}

// NewStockMovement es el único constructor válido de movimientos: cada tipo
// exige exactamente los almacenes que necesita, de modo que ningún movimiento
// "legal pero inerte" llega al registro.
func NewStockMovement(p MovementParams) (*StockMovement, error) {
	if p.ID == "" {
		return nil, invalid("id", "id requerido")
	}
	if !p.Type.Valid() {
		return nil, invalid("type", fmt.Sprintf("tipo desconocido %q", p.Type))
	}
	if strings.TrimSpace(p.CreatedByUserID) == "" {
		return nil, invalid("createdByUserId", "operador requerido")
	}
	if len(p.Items) == 0 {
		return nil, invalid("items", "seleccione un artículo y una cantidad")
	}

	from, to := strings.TrimSpace(p.FromWarehouseID), strings.TrimSpace(p.ToWarehouseID)
	switch p.Type {
	case MovementReceipt:
		if to == "" {
			return nil, invalid("toWarehouseId", "elija el almacén de destino")
		}
		if from != "" {
			return nil, invalid("fromWarehouseId", "una entrada no tiene almacén de origen")
		}
	case MovementWriteoff:
		if from == "" {
			return nil, invalid("fromWarehouseId", "elija el almacén de origen")
		}
		if to != "" {
			return nil, invalid("toWarehouseId", "una baja no tiene almacén de destino")
		}
	case MovementTransfer:
		if from == "" {
			return nil, invalid("fromWarehouseId", "elija el almacén de origen")
		}
		if to == "" {
			return nil, invalid("toWarehouseId", "elija el almacén de destino")
		}
		if from == to {
			return nil, invalid("toWarehouseId", "origen y destino deben ser distintos")
		}
	case MovementAdjustment:
		if to == "" {
			return nil, invalid("toWarehouseId", "elija el almacén a ajustar")
		}
		if from != "" {
			return nil, invalid("fromWarehouseId", "un ajuste no tiene almacén de origen")
		}
	}

	items := make([]MovementLine, 0, len(p.Items))
	for i, l := range p.Items {
		field := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(l.ItemID) == "" {
			return nil, invalid(field+".itemId", "seleccione un artículo y una cantidad")
		}
		if p.Type == MovementAdjustment {
			if l.Quantity.IsZero() {
				return nil, invalid(field+".quantity", "la cantidad del ajuste no puede ser cero")
			}
		} else if !l.Quantity.IsPositive() {
			return nil, invalid(field+".quantity", "la cantidad debe ser mayor que cero")
		}
		if l.Price != nil && l.Price.IsNegative() {
			return nil, invalid(field+".price", "el precio no puede ser negativo")
		}
		items = append(items, MovementLine{ItemID: strings.TrimSpace(l.ItemID), Quantity: l.Quantity, Price: l.Price})
	}

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	date := p.Date
	if date.IsZero() {
		date = createdAt
	}

	return &StockMovement{
		ID:              p.ID,
		Type:            p.Type,
		Date:            date,
		FromWarehouseID: from,
		ToWarehouseID:   to,
		Items:           items,
		Reason:          strings.TrimSpace(p.Reason),
		RevisionID:      p.RevisionID,
		CreatedByUserID: p.CreatedByUserID,
		CreatedAt:       createdAt,
	}, nil
}
