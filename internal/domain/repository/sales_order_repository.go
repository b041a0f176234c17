package repository

import (
	"context"

	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
)

// SalesOrderFilter filtros opcionales para listados de pedidos.
type SalesOrderFilter struct {
	Status   string // vacío = todos
	ClientID string // vacío = todos
}

// SalesOrderRepository define el puerto de persistencia para pedidos de venta.
type SalesOrderRepository interface {
	// Create persiste el pedido con sus líneas.
	Create(ctx context.Context, order *entity.SalesOrder) error
	// GetByID devuelve el pedido con líneas, o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)
	List(ctx context.Context, filter SalesOrderFilter, limit, offset int) ([]*entity.SalesOrder, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// UpdateLineReserved persiste QtyReserved de una línea.
	UpdateLineReserved(ctx context.Context, lineID string, qtyReserved int) error
	AddLine(ctx context.Context, line *entity.SalesOrderLine) error
	Delete(ctx context.Context, id string) error
}
