package inventory

import (
	"fmt"
	"strconv"
	"strings"
)

// RevisionPrefix prefijo de los números de revisión (РЕВ-001, РЕВ-002...).
const RevisionPrefix = "РЕВ-"

// FormatRevisionNumber formatea el consecutivo con al menos tres dígitos.
func FormatRevisionNumber(n int64) string {
	return fmt.Sprintf("%s%03d", RevisionPrefix, n)
}

// ParseRevisionNumber extrae el valor numérico quitando todo lo que no sea
// dígito ASCII.
// ok=false si no hay dígitos o el valor es cero.
func ParseRevisionNumber(s string) (int64, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// MaxRevisionNumber mayor consecutivo presente; 0 si no hay ninguno.
// Solo se usa para sembrar el contador al arrancar.
func MaxRevisionNumber(numbers []string) int64 {
	var highest int64
	for _, s := range numbers {
		if n, ok := ParseRevisionNumber(s); ok && n > highest {
			highest = n
		}
	}
	return highest
}
