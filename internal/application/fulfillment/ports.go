package fulfillment

import (
	"context"

	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/repository"
)

// OrderTxRunner abre una transacción con los repos que necesita la expedición
// de un pedido: stock (con bloqueo de fila), movimientos y el propio pedido.
// La expedición completa es una sola unidad atómica.
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(
		stockRepo repository.StockRecordRepository,
		movRepo repository.MovementRepository,
		orderRepo repository.SalesOrderRepository,
	) error) error
}
