package repository

import (
	"context"

	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
)

// StockRecordRepository define el puerto de persistencia del registro de stock
// por (producto, bodega). Se usa dentro de transacciones para garantizar
// consistencia; GetForUpdate bloquea la fila (SELECT FOR UPDATE).
type StockRecordRepository interface {
	// Get devuelve el registro o nil si no existe.
	Get(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción; nil si no existe.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error)
	// CreateIfAbsent inserta un registro en cero si la clave no existe (idempotente).
	CreateIfAbsent(ctx context.Context, record *entity.StockRecord) error
	// UpdateQuantities persiste QtyOnHand y QtyReserved del registro.
	UpdateQuantities(ctx context.Context, record *entity.StockRecord) error
	// Available devuelve onHand - reservado; 0 si el registro no existe.
	Available(ctx context.Context, productID, warehouseID string) (int, error)
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockRecord, error)
}
