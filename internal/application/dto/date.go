package dto

import (
	"encoding/json"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// UnmarshalJSON acepta date como "2006-01-02" o RFC3339.
func (r *CreateRevisionRequest) UnmarshalJSON(b []byte) error {
	type plain CreateRevisionRequest
	aux := struct {
		*plain
		Date *entity.LooseDate `json:"date"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.Date = nil
	if aux.Date != nil && !aux.Date.IsZero() {
		t := aux.Date.Time
		r.Date = &t
	}
	return nil
}

// UnmarshalJSON acepta date como "2006-01-02" o RFC3339.
func (r *RegisterMovementRequest) UnmarshalJSON(b []byte) error {
	type plain RegisterMovementRequest
	aux := struct {
		*plain
		Date *entity.LooseDate `json:"date"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.Date = nil
	if aux.Date != nil && !aux.Date.IsZero() {
		t := aux.Date.Time
		r.Date = &t
	}
	return nil
}
