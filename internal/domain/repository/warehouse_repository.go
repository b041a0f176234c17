package repository

import (
	"context"

	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para bodegas.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	// GetByID devuelve la bodega o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
	// ListIDsExcept devuelve los ids de todas las bodegas excepto excludeID,
	// ordenados por id. Define el orden de visita del smart-reserve.
	ListIDsExcept(ctx context.Context, excludeID string) ([]string, error)
}
