package entity

import (
	"encoding/json"
	"time"
)

// LooseDate fecha JSON que acepta "2006-01-02" además de RFC3339. Los
// documentos antiguos guardan la fecha del conteo sin hora.
type LooseDate struct {
	time.Time
}

// ParseDate interpreta una fecha en formato DateOnly o RFC3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Message: "use AAAA-MM-DD o RFC3339"}
	}
	return t, nil
}

// UnmarshalJSON acepta null, DateOnly o RFC3339.
func (d *LooseDate) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &ValidationError{Field: "date", Message: "la fecha debe ser un texto"}
	}
	if s == "" {
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// UnmarshalJSON tolera fechas sin hora en revisiones guardadas.
func (r *InventoryRevision) UnmarshalJSON(b []byte) error {
	type plain InventoryRevision
	aux := struct {
		*plain
		Date LooseDate `json:"date"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.Date = aux.Date.Time
	return nil
}

// UnmarshalJSON tolera fechas sin hora en movimientos guardados.
func (m *StockMovement) UnmarshalJSON(b []byte) error {
	type plain StockMovement
	aux := struct {
		*plain
		Date LooseDate `json:"date"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	m.Date = aux.Date.Time
	return nil
}
