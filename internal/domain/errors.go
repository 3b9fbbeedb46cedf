package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidMovement   = errors.New("movimiento inválido")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrArchived          = errors.New("recurso archivado")
	ErrRevisionPosted    = errors.New("la revisión ya fue contabilizada")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrMissingID         = errors.New("documento sin id")
	ErrProjectionDrift   = errors.New("la proyección de saldos no coincide con el registro")
)
