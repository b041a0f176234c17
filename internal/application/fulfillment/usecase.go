package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/inventory"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/repository"
)

// SalesOrderUseCase orquesta el ciclo de vida del pedido de venta contra el
// motor de inventario: create → reserve → ship/cancel.
//
// La reserva y la liberación procesan cada línea de forma independiente (una
// transacción por línea): el fallo de una línea se acumula como warning y no
// aborta las demás. El estado del pedido es binario: RESERVED solo si el 100%
// de las líneas obtuvo su cantidad exacta.
type SalesOrderUseCase struct {
	orderRepo     repository.SalesOrderRepository
	userRepo      repository.UserRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	engine        *inventory.Engine
	orderTx       OrderTxRunner
}

// NewSalesOrderUseCase construye el caso de uso.
func NewSalesOrderUseCase(
	orderRepo repository.SalesOrderRepository,
	userRepo repository.UserRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	engine *inventory.Engine,
	orderTx OrderTxRunner,
) *SalesOrderUseCase {
	return &SalesOrderUseCase{
		orderRepo:     orderRepo,
		userRepo:      userRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		engine:        engine,
		orderTx:       orderTx,
	}
}

// OrderLineInput línea solicitada al crear un pedido.
type OrderLineInput struct {
	ProductID  string
	QtyOrdered int
}

// CreateOrderInput entrada para crear un pedido de venta.
type CreateOrderInput struct {
	ClientID    string
	WarehouseID string
	Lines       []OrderLineInput
}

// OrderResult pedido más los warnings acumulados por la operación.
// Los callers deben inspeccionar Warnings incluso en respuestas exitosas.
type OrderResult struct {
	Order    *entity.SalesOrder
	Warnings []string
}

// Create valida cliente, bodega y productos activos, congela el precio
// unitario (originalPrice + profit) por línea y persiste el pedido en CREATED
// con qtyReserved=0 en todas las líneas.
func (uc *SalesOrderUseCase) Create(ctx context.Context, input CreateOrderInput) (*OrderResult, error) {
	client, err := uc.userRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if !client.Active {
		return nil, domain.ErrBusinessRule
	}

	warehouse, err := uc.warehouseRepo.GetByID(ctx, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	if !warehouse.Active {
		return nil, domain.ErrBusinessRule
	}

	order := &entity.SalesOrder{
		ID:          uuid.New().String(),
		ClientID:    input.ClientID,
		WarehouseID: input.WarehouseID,
		Status:      entity.OrderStatusCreated,
		CreatedAt:   time.Now(),
	}

	for _, lineInput := range input.Lines {
		if lineInput.QtyOrdered < 1 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(ctx, lineInput.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if !product.Active {
			return nil, domain.ErrBusinessRule
		}
		// Snapshot del precio al momento de crear el pedido.
		unitPrice := product.OriginalPrice.Add(product.Profit)
		finalPrice := unitPrice.Mul(decimal.NewFromInt(int64(lineInput.QtyOrdered)))
		order.Lines = append(order.Lines, &entity.SalesOrderLine{
			ID:           uuid.New().String(),
			SalesOrderID: order.ID,
			ProductID:    lineInput.ProductID,
			QtyOrdered:   lineInput.QtyOrdered,
			QtyReserved:  0,
			Price:        finalPrice,
		})
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	log.Info().Str("order_id", order.ID).Str("client_id", input.ClientID).Msg("pedido de venta creado")
	return &OrderResult{Order: order}, nil
}

// GetByID devuelve el pedido con sus líneas.
func (uc *SalesOrderUseCase) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// List lista pedidos con filtros opcionales de estado y cliente.
func (uc *SalesOrderUseCase) List(ctx context.Context, filter repository.SalesOrderFilter, limit, offset int) ([]*entity.SalesOrder, error) {
	if filter.Status != "" && !entity.ValidOrderStatus(filter.Status) {
		return nil, domain.ErrBusinessRule
	}
	return uc.orderRepo.List(ctx, filter, limit, offset)
}

// AddLine agrega una línea a un pedido existente, con snapshot de precio.
func (uc *SalesOrderUseCase) AddLine(ctx context.Context, orderID string, input OrderLineInput) (*entity.SalesOrder, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if input.QtyOrdered < 1 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.Active {
		return nil, domain.ErrBusinessRule
	}
	unitPrice := product.OriginalPrice.Add(product.Profit)
	line := &entity.SalesOrderLine{
		ID:           uuid.New().String(),
		SalesOrderID: order.ID,
		ProductID:    input.ProductID,
		QtyOrdered:   input.QtyOrdered,
		QtyReserved:  0,
		Price:        unitPrice.Mul(decimal.NewFromInt(int64(input.QtyOrdered))),
	}
	if err := uc.orderRepo.AddLine(ctx, line); err != nil {
		return nil, err
	}
	order.Lines = append(order.Lines, line)
	return order, nil
}

// UpdateStatus transiciona el pedido hacia newStatus.
//
//   - CREATED → RESERVED: smart-reserve por línea; las líneas que fallan por
//     stock quedan en 0 con un warning y el estado solo cambia si todas las
//     líneas reservaron su cantidad completa.
//   - RESERVED → CREATED/CANCELED: libera lo reservado línea a línea; los
//     fallos individuales se acumulan como warnings sin abortar el resto.
//   - Cualquier otro estado reconocido: escritura simple sin efectos de stock.
//   - Estado no reconocido: ErrBusinessRule.
func (uc *SalesOrderUseCase) UpdateStatus(ctx context.Context, orderID, newStatus string) (*OrderResult, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.ValidOrderStatus(newStatus) {
		return nil, domain.ErrBusinessRule
	}

	var warnings []string
	allLinesReserved := true

	if newStatus == entity.OrderStatusReserved && order.Status == entity.OrderStatusCreated {
		log.Info().Str("order_id", orderID).Msg("intentando reservar líneas del pedido")
		reference := "SO:" + order.ID
		for _, line := range order.Lines {
			err := uc.engine.SmartReserve(ctx, line.ProductID, order.WarehouseID, line.QtyOrdered, reference)
			if err != nil {
				if !errors.Is(err, domain.ErrStockUnavailable) {
					return nil, err
				}
				allLinesReserved = false
				msg := fmt.Sprintf("stock insuficiente para el producto %s; pedido a proveedor previsto", line.ProductID)
				if backorderID := inventory.BackorderID(err); backorderID != "" {
					msg = fmt.Sprintf("stock insuficiente para el producto %s; backorder %s creado", line.ProductID, backorderID)
				}
				warnings = append(warnings, msg)
				log.Warn().Str("order_id", orderID).Str("product_id", line.ProductID).Msg(msg)
				continue
			}
			line.QtyReserved = line.QtyOrdered
			if err := uc.orderRepo.UpdateLineReserved(ctx, line.ID, line.QtyReserved); err != nil {
				return nil, err
			}
			log.Info().Str("product_id", line.ProductID).Int("qty", line.QtyOrdered).Msg("línea reservada")
		}
	}

	if order.Status == entity.OrderStatusReserved &&
		(newStatus == entity.OrderStatusCanceled || newStatus == entity.OrderStatusCreated) {
		log.Info().Str("order_id", orderID).Msg("liberando cantidades reservadas del pedido")
		for _, line := range order.Lines {
			if line.QtyReserved <= 0 {
				continue
			}
			if err := uc.engine.Release(ctx, line.ProductID, order.WarehouseID, line.QtyReserved); err != nil {
				msg := fmt.Sprintf("no se pudo liberar el stock del producto %s", line.ProductID)
				warnings = append(warnings, msg)
				log.Warn().Err(err).Str("order_id", orderID).Str("product_id", line.ProductID).Msg(msg)
				continue
			}
			line.QtyReserved = 0
			if err := uc.orderRepo.UpdateLineReserved(ctx, line.ID, 0); err != nil {
				return nil, err
			}
		}
	}

	if newStatus == entity.OrderStatusReserved && !allLinesReserved {
		// Al menos una línea no reservó: el pedido se queda en CREATED.
		log.Info().Str("order_id", orderID).Msg("reserva incompleta, el pedido conserva su estado")
	} else {
		order.Status = newStatus
		if err := uc.orderRepo.UpdateStatus(ctx, order.ID, newStatus); err != nil {
			return nil, err
		}
	}

	return &OrderResult{Order: order, Warnings: warnings}, nil
}

// Ship expide el pedido: por cada línea con reserva, bloquea el registro de
// stock, recorta la cantidad a qtyOnHand si hubo deriva, descuenta onHand y
// reservado y registra un movimiento OUTBOUND. Deja el pedido en SHIPPED.
// Falla con ErrBusinessRule si el pedido está CANCELED.
func (uc *SalesOrderUseCase) Ship(ctx context.Context, orderID, trackingRef string) (*OrderResult, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status == entity.OrderStatusCanceled {
		return nil, domain.ErrBusinessRule
	}

	err = uc.orderTx.RunOrder(ctx, func(
		stockRepo repository.StockRecordRepository,
		movRepo repository.MovementRepository,
		orderRepo repository.SalesOrderRepository,
	) error {
		for _, line := range order.Lines {
			qtyToShip := line.QtyReserved
			if qtyToShip <= 0 {
				continue
			}

			record, err := stockRepo.GetForUpdate(ctx, line.ProductID, order.WarehouseID)
			if err != nil {
				return err
			}
			if record == nil {
				return domain.ErrNotFound
			}

			if record.QtyOnHand < qtyToShip {
				// Deriva entre onHand y reservado: recortar en vez de fallar.
				log.Warn().Str("order_id", orderID).Str("product_id", line.ProductID).
					Int("on_hand", record.QtyOnHand).Int("reserved", record.QtyReserved).
					Msg("onHand insuficiente con reserva presente, recortando expedición")
				qtyToShip = record.QtyOnHand
			}

			record.QtyOnHand -= qtyToShip
			record.QtyReserved -= qtyToShip
			if record.QtyReserved < 0 {
				record.QtyReserved = 0
			}
			record.UpdatedAt = time.Now()
			if err := stockRepo.UpdateQuantities(ctx, record); err != nil {
				return err
			}

			line.QtyReserved -= qtyToShip
			if err := orderRepo.UpdateLineReserved(ctx, line.ID, line.QtyReserved); err != nil {
				return err
			}

			if qtyToShip > 0 {
				if err := movRepo.Create(ctx, &entity.Movement{
					ID:            uuid.New().String(),
					StockRecordID: record.ID,
					Type:          entity.MovementTypeOutbound,
					Qty:           qtyToShip,
					OccurredAt:    time.Now(),
					Reference:     "SO:" + order.ID,
				}); err != nil {
					return err
				}
			}
		}
		return orderRepo.UpdateStatus(ctx, order.ID, entity.OrderStatusShipped)
	})
	if err != nil {
		return nil, err
	}

	order.Status = entity.OrderStatusShipped
	log.Info().Str("order_id", orderID).Str("tracking_ref", trackingRef).Msg("pedido expedido")
	return &OrderResult{Order: order}, nil
}

// Delete elimina el pedido. No libera stock: el caller debe cancelar o liberar
// antes si el pedido estaba RESERVED.
func (uc *SalesOrderUseCase) Delete(ctx context.Context, id string) error {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	if err := uc.orderRepo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("order_id", id).Msg("pedido de venta eliminado")
	return nil
}
