package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrSessionClosed     = errors.New("la sesión de inventario ya está cerrada")
)

// InsufficientStockError identifica el artículo ofensor y el faltante.
// errors.Is(err, ErrInsufficientStock) == true.
type InsufficientStockError struct {
	ItemID    string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el artículo %s: solicitado %d, disponible %d",
		e.ItemID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Shortfall devuelve cuántas unidades faltan para cubrir lo solicitado.
func (e *InsufficientStockError) Shortfall() int64 { return e.Requested - e.Available }

// TransitionError identifica una transición rechazada por la tabla de estados.
// errors.Is(err, ErrInvalidTransition) == true.
type TransitionError struct {
	DocType string
	From    string
	To      string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transición no permitida para %s: %s -> %s", e.DocType, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
