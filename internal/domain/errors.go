package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrStockUnavailable   = errors.New("stock insuficiente")
	ErrInvalidOperation   = errors.New("operación inválida")
	ErrBusinessRule       = errors.New("regla de negocio violada")
)

// StockUnavailableError indica que no hay stock disponible para una operación.
// Cuando el fallback de aprovisionamiento creó una orden de compra (backorder),
// BackorderID lleva su id para que el caller pueda exponer la referencia.
type StockUnavailableError struct {
	ProductID   string
	WarehouseID string
	Requested   int
	Available   int
	BackorderID string
}

func (e *StockUnavailableError) Error() string {
	if e.BackorderID != "" {
		return fmt.Sprintf("stock insuficiente para producto %s: backorder creado %s", e.ProductID, e.BackorderID)
	}
	return fmt.Sprintf("stock insuficiente para producto %s en bodega %s: disponible %d, solicitado %d",
		e.ProductID, e.WarehouseID, e.Available, e.Requested)
}

// Unwrap permite errors.Is(err, ErrStockUnavailable).
func (e *StockUnavailableError) Unwrap() error { return ErrStockUnavailable }
