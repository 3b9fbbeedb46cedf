// Package csvimport lee la nomenclatura exportada por sistemas anteriores.
//
// Formato: separador ';', columnas sku;name;unit;category[;id]. La primera
// fila es cabecera. Las exportaciones antiguas vienen en windows-1251.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Codificaciones aceptadas.
const (
	EncodingAuto    = "auto"
	EncodingUTF8    = "utf-8"
	EncodingWin1251 = "windows-1251"
)

const minColumns = 3

// ReadItems decodifica el archivo y devuelve los artículos. Con EncodingAuto
// se asume UTF-8 si el contenido es UTF-8 válido y windows-1251 si no.
func ReadItems(r io.Reader, encoding string) ([]*entity.InventoryItem, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csvimport: leer: %w", err)
	}
	if encoding == EncodingAuto {
		encoding = EncodingUTF8
		if !utf8.Valid(raw) {
			encoding = EncodingWin1251
		}
	}

	var src io.Reader = strings.NewReader(string(raw))
	switch strings.ToLower(encoding) {
	case EncodingUTF8, "utf8":
		src = strings.NewReader(strings.TrimPrefix(string(raw), "\uFEFF"))
	case EncodingWin1251, "cp1251":
		src = transform.NewReader(src, charmap.Windows1251.NewDecoder())
	default:
		return nil, fmt.Errorf("csvimport: codificación no soportada %q", encoding)
	}

	cr := csv.NewReader(src)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var items []*entity.InventoryItem
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvimport: fila %d: %w", row, err)
		}
		if row == 1 || blank(rec) {
			continue
		}
		if len(rec) < minColumns {
			return nil, fmt.Errorf("csvimport: fila %d: se esperan al menos %d columnas", row, minColumns)
		}
		it := &entity.InventoryItem{
			SKU:  strings.TrimSpace(rec[0]),
			Name: strings.TrimSpace(rec[1]),
			Unit: strings.TrimSpace(rec[2]),
		}
		if len(rec) > 3 {
			it.Category = strings.TrimSpace(rec[3])
		}
		if len(rec) > 4 {
			it.ID = strings.TrimSpace(rec[4])
		}
		if it.Name == "" || it.Unit == "" {
			return nil, fmt.Errorf("csvimport: fila %d: nombre y unidad son obligatorios", row)
		}
		items = append(items, it)
	}
	return items, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
