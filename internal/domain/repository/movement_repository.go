package repository

import (
	"context"

	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
)

// MovementRepository define el puerto del libro de movimientos.
// Solo inserción y lectura: el libro es append-only por diseño.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	ListByStockRecord(ctx context.Context, stockRecordID string, limit, offset int) ([]*entity.Movement, error)
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Movement, error)
}
