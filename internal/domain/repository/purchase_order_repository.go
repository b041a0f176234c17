package repository

import (
	"context"

	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	// Create persiste la orden con sus líneas.
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	// GetByID devuelve la orden con líneas, o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id, status string) error
	AddLine(ctx context.Context, line *entity.POLine) error
	Delete(ctx context.Context, id string) error
}
