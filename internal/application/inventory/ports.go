package inventory

import (
	"context"

	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: o se confirman el StockRecord y su Movement, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRecordRepository,
		movRepo repository.MovementRepository,
	) error) error

	// RunProcurement abre una transacción con los repos del fallback de
	// aprovisionamiento (proveedor por defecto + orden de compra).
	RunProcurement(ctx context.Context, fn func(
		supplierRepo repository.SupplierRepository,
		poRepo repository.PurchaseOrderRepository,
	) error) error
}

// MovementPublisher publica movimientos confirmados hacia el bus de eventos.
// La publicación es best-effort: un fallo nunca revierte la operación.
type MovementPublisher interface {
	PublishMovement(ctx context.Context, movement *entity.Movement) error
}
