package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/repository"
)

// Engine es el único mutador del estado StockRecord/Movement. Cada operación
// corre en una transacción propia con bloqueo de fila (SELECT FOR UPDATE) y
// deja el par registro/movimiento intacto ante cualquier error (rollback).
type Engine struct {
	txRunner      TxRunner
	stockRepo     repository.StockRecordRepository // atado al pool, solo lecturas
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	publisher     MovementPublisher // opcional
}

// NewEngine construye el motor de inventario. publisher puede ser nil.
func NewEngine(
	txRunner TxRunner,
	stockRepo repository.StockRecordRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	publisher MovementPublisher,
) *Engine {
	return &Engine{
		txRunner:      txRunner,
		stockRepo:     stockRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		publisher:     publisher,
	}
}

// EnsureExists crea el registro de stock en cero para (producto, bodega) si no
// existe. Idempotente. Falla con ErrNotFound si el producto o la bodega no existen.
func (e *Engine) EnsureExists(ctx context.Context, productID, warehouseID string) error {
	product, err := e.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	warehouse, err := e.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if warehouse == nil {
		return domain.ErrNotFound
	}

	return e.txRunner.Run(ctx, func(stockRepo repository.StockRecordRepository, _ repository.MovementRepository) error {
		return stockRepo.CreateIfAbsent(ctx, &entity.StockRecord{
			ID:          uuid.New().String(),
			ProductID:   productID,
			WarehouseID: warehouseID,
			UpdatedAt:   time.Now(),
		})
	})
}

// Inbound incrementa qtyOnHand y registra un movimiento INBOUND.
// Falla con ErrNotFound si el registro de stock no existe (usar EnsureExists antes).
func (e *Engine) Inbound(ctx context.Context, productID, warehouseID string, qty int, reference string) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	var mov *entity.Movement
	err := e.txRunner.Run(ctx, func(stockRepo repository.StockRecordRepository, movRepo repository.MovementRepository) error {
		record, err := stockRepo.GetForUpdate(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}
		record.QtyOnHand += qty
		record.UpdatedAt = time.Now()
		if err := stockRepo.UpdateQuantities(ctx, record); err != nil {
			return err
		}
		mov = newMovement(record.ID, entity.MovementTypeInbound, qty, reference)
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return err
	}
	e.publish(ctx, mov)
	return nil
}

// Outbound decrementa qtyOnHand y registra un movimiento OUTBOUND.
// Falla con StockUnavailableError si disponible < qty.
func (e *Engine) Outbound(ctx context.Context, productID, warehouseID string, qty int, reference string) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	var mov *entity.Movement
	err := e.txRunner.Run(ctx, func(stockRepo repository.StockRecordRepository, movRepo repository.MovementRepository) error {
		record, err := stockRepo.GetForUpdate(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}
		if record.Available() < qty {
			return &domain.StockUnavailableError{
				ProductID:   productID,
				WarehouseID: warehouseID,
				Requested:   qty,
				Available:   record.Available(),
			}
		}
		record.QtyOnHand -= qty
		record.UpdatedAt = time.Now()
		if err := stockRepo.UpdateQuantities(ctx, record); err != nil {
			return err
		}
		mov = newMovement(record.ID, entity.MovementTypeOutbound, qty, reference)
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return err
	}
	e.publish(ctx, mov)
	return nil
}

// Adjustment aplica qty (con signo) a qtyOnHand y registra un movimiento
// ADJUSTMENT. Falla con ErrInvalidOperation si el resultado dejaría
// qtyOnHand < qtyReserved.
func (e *Engine) Adjustment(ctx context.Context, productID, warehouseID string, qty int, reference string) error {
	if qty == 0 {
		return domain.ErrInvalidInput
	}
	var mov *entity.Movement
	err := e.txRunner.Run(ctx, func(stockRepo repository.StockRecordRepository, movRepo repository.MovementRepository) error {
		record, err := stockRepo.GetForUpdate(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}
		newOnHand := record.QtyOnHand + qty
		if newOnHand < record.QtyReserved {
			return domain.ErrInvalidOperation
		}
		record.QtyOnHand = newOnHand
		record.UpdatedAt = time.Now()
		if err := stockRepo.UpdateQuantities(ctx, record); err != nil {
			return err
		}
		mov = newMovement(record.ID, entity.MovementTypeAdjustment, qty, reference)
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return err
	}
	e.publish(ctx, mov)
	return nil
}

// Reserve incrementa qtyReserved y devuelve un token opaco de reserva.
// Falla con StockUnavailableError si disponible < qty. ttlSeconds se acepta
// pero no se aplica: las reservas duran hasta liberarse o expedirse.
func (e *Engine) Reserve(ctx context.Context, productID, warehouseID string, qty int, reference string, ttlSeconds int64) (string, error) {
	if qty <= 0 {
		return "", domain.ErrInvalidInput
	}
	_ = ttlSeconds
	var mov *entity.Movement
	err := e.txRunner.Run(ctx, func(stockRepo repository.StockRecordRepository, movRepo repository.MovementRepository) error {
		record, err := stockRepo.GetForUpdate(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}
		if record.Available() < qty {
			return &domain.StockUnavailableError{
				ProductID:   productID,
				WarehouseID: warehouseID,
				Requested:   qty,
				Available:   record.Available(),
			}
		}
		record.QtyReserved += qty
		record.UpdatedAt = time.Now()
		if err := stockRepo.UpdateQuantities(ctx, record); err != nil {
			return err
		}
		mov = newMovement(record.ID, entity.MovementTypeAdjustment, qty, reference)
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return "", err
	}
	e.publish(ctx, mov)
	return uuid.New().String(), nil
}

// Release decrementa qtyReserved en qty, con piso en cero. Lo usa la
// liberación de líneas de pedido (RESERVED → CREATED/CANCELED).
func (e *Engine) Release(ctx context.Context, productID, warehouseID string, qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	return e.txRunner.Run(ctx, func(stockRepo repository.StockRecordRepository, _ repository.MovementRepository) error {
		record, err := stockRepo.GetForUpdate(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}
		record.QtyReserved -= qty
		if record.QtyReserved < 0 {
			record.QtyReserved = 0
		}
		record.UpdatedAt = time.Now()
		return stockRepo.UpdateQuantities(ctx, record)
	})
}

// Transfer mueve qty unidades entre bodegas en una sola transacción: resta en
// origen (OUTBOUND), crea el registro destino si falta y suma (INBOUND).
// Las filas se bloquean en orden canónico (por id de bodega) para evitar
// deadlocks entre transferencias cruzadas concurrentes.
func (e *Engine) Transfer(ctx context.Context, productID, sourceWarehouseID, targetWarehouseID string, qty int, reference string) error {
	if sourceWarehouseID == targetWarehouseID {
		return domain.ErrInvalidOperation
	}
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	var movs []*entity.Movement
	err := e.txRunner.Run(ctx, func(stockRepo repository.StockRecordRepository, movRepo repository.MovementRepository) error {
		// El destino puede no existir todavía; se inserta en cero antes de
		// bloquear para que ambas filas existan al adquirir los locks.
		if err := stockRepo.CreateIfAbsent(ctx, &entity.StockRecord{
			ID:          uuid.New().String(),
			ProductID:   productID,
			WarehouseID: targetWarehouseID,
			UpdatedAt:   time.Now(),
		}); err != nil {
			return err
		}

		first, second := sourceWarehouseID, targetWarehouseID
		if second < first {
			first, second = second, first
		}
		firstRec, err := stockRepo.GetForUpdate(ctx, productID, first)
		if err != nil {
			return err
		}
		secondRec, err := stockRepo.GetForUpdate(ctx, productID, second)
		if err != nil {
			return err
		}

		source, target := firstRec, secondRec
		if first != sourceWarehouseID {
			source, target = secondRec, firstRec
		}
		if source == nil {
			return domain.ErrNotFound
		}
		if source.Available() < qty {
			return domain.ErrBusinessRule
		}

		now := time.Now()
		source.QtyOnHand -= qty
		source.UpdatedAt = now
		target.QtyOnHand += qty
		target.UpdatedAt = now
		if err := stockRepo.UpdateQuantities(ctx, source); err != nil {
			return err
		}
		if err := stockRepo.UpdateQuantities(ctx, target); err != nil {
			return err
		}

		outMov := newMovement(source.ID, entity.MovementTypeOutbound, qty, reference)
		if err := movRepo.Create(ctx, outMov); err != nil {
			return err
		}
		inMov := newMovement(target.ID, entity.MovementTypeInbound, qty, reference)
		if err := movRepo.Create(ctx, inMov); err != nil {
			return err
		}
		movs = []*entity.Movement{outMov, inMov}
		return nil
	})
	if err != nil {
		return err
	}
	e.publish(ctx, movs...)
	return nil
}

// Available devuelve la cantidad disponible (onHand - reservado); 0 si el
// registro no existe.
func (e *Engine) Available(ctx context.Context, productID, warehouseID string) (int, error) {
	return e.stockRepo.Available(ctx, productID, warehouseID)
}

func newMovement(stockRecordID, movType string, qty int, reference string) *entity.Movement {
	return &entity.Movement{
		ID:            uuid.New().String(),
		StockRecordID: stockRecordID,
		Type:          movType,
		Qty:           qty,
		OccurredAt:    time.Now(),
		Reference:     reference,
	}
}

// publish envía los movimientos confirmados al bus de eventos (best-effort).
func (e *Engine) publish(ctx context.Context, movs ...*entity.Movement) {
	if e.publisher == nil {
		return
	}
	for _, mov := range movs {
		if mov == nil {
			continue
		}
		if err := e.publisher.PublishMovement(ctx, mov); err != nil {
			log.Warn().Err(err).Str("movement_id", mov.ID).Msg("publicar movimiento falló")
		}
	}
}
