package repository

import (
	"context"

	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error)
	// GetFirst devuelve el primer proveedor registrado o nil si no hay ninguno.
	// Lo usa el fallback de aprovisionamiento como proveedor por defecto.
	GetFirst(ctx context.Context) (*entity.Supplier, error)
}
