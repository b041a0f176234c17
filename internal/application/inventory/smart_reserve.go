package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/repository"
)

// ttl por defecto de las reservas del smart-reserve (aceptado, no aplicado).
const smartReserveTTL = 3600

// SmartReserve satisface una demanda en cascada: primero lo disponible en la
// bodega preferida, después el resto de bodegas transfiriendo hacia la
// preferida, y si aún queda remanente crea una orden de compra (backorder)
// contra el proveedor por defecto y falla con StockUnavailableError llevando
// el id de la orden.
//
// Cada paso (reserva o transferencia) es su propia transacción: la cascada no
// es atómica entre bodegas. Un fallo a mitad deja las transferencias ya
// confirmadas en el libro de movimientos.
func (e *Engine) SmartReserve(ctx context.Context, productID, preferredWarehouseID string, qty int, reference string) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}

	remaining := qty

	availableMain, err := e.Available(ctx, productID, preferredWarehouseID)
	if err != nil {
		return err
	}

	if availableMain >= remaining {
		if _, err := e.Reserve(ctx, productID, preferredWarehouseID, remaining, reference, smartReserveTTL); err != nil {
			return err
		}
		log.Info().Str("warehouse_id", preferredWarehouseID).Int("qty", remaining).
			Msg("reservado completo en bodega preferida")
		return nil
	}

	if availableMain > 0 {
		if _, err := e.Reserve(ctx, productID, preferredWarehouseID, availableMain, reference, smartReserveTTL); err != nil {
			return err
		}
		remaining -= availableMain
		log.Info().Str("warehouse_id", preferredWarehouseID).Int("qty", availableMain).
			Msg("reservado parcial en bodega preferida")
	}

	otherWarehouses, err := e.warehouseRepo.ListIDsExcept(ctx, preferredWarehouseID)
	if err != nil {
		return err
	}

	for _, warehouseID := range otherWarehouses {
		available, err := e.Available(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		if available <= 0 {
			continue
		}

		toReserve := remaining
		if available < toReserve {
			toReserve = available
		}

		log.Info().Str("from", warehouseID).Str("to", preferredWarehouseID).Int("qty", toReserve).
			Msg("transfiriendo unidades hacia bodega preferida")
		if err := e.Transfer(ctx, productID, warehouseID, preferredWarehouseID, toReserve, reference); err != nil {
			return err
		}
		if _, err := e.Reserve(ctx, productID, preferredWarehouseID, toReserve, reference, smartReserveTTL); err != nil {
			return err
		}
		remaining -= toReserve

		if remaining <= 0 {
			return nil
		}
	}

	if remaining > 0 {
		backorderID, err := e.createBackorder(ctx, productID, remaining)
		if err != nil {
			return err
		}
		log.Info().Str("purchase_order_id", backorderID).Str("product_id", productID).Int("qty", remaining).
			Msg("backorder creado por falta de stock global")
		return &domain.StockUnavailableError{
			ProductID:   productID,
			WarehouseID: preferredWarehouseID,
			Requested:   remaining,
			BackorderID: backorderID,
		}
	}
	return nil
}

// createBackorder crea una orden de compra CREATED con una sola línea por el
// remanente, al precio de referencia del producto, contra el proveedor por
// defecto (creándolo si no existe ninguno).
func (e *Engine) createBackorder(ctx context.Context, productID string, qty int) (string, error) {
	product, err := e.productRepo.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}
	if product == nil {
		return "", domain.ErrNotFound
	}

	var poID string
	err = e.txRunner.RunProcurement(ctx, func(supplierRepo repository.SupplierRepository, poRepo repository.PurchaseOrderRepository) error {
		supplier, err := supplierRepo.GetFirst(ctx)
		if err != nil {
			return err
		}
		if supplier == nil {
			supplier = &entity.Supplier{
				ID:        uuid.New().String(),
				Name:      entity.DefaultSupplierName,
				Email:     "unknown@example.com",
				Contact:   "unknown",
				CreatedAt: time.Now(),
			}
			if err := supplierRepo.Create(ctx, supplier); err != nil {
				return err
			}
			log.Info().Str("supplier_id", supplier.ID).Msg("proveedor por defecto creado")
		}

		po := &entity.PurchaseOrder{
			ID:         uuid.New().String(),
			SupplierID: supplier.ID,
			Status:     entity.POStatusCreated,
			CreatedAt:  time.Now(),
		}
		po.Lines = append(po.Lines, &entity.POLine{
			ID:              uuid.New().String(),
			PurchaseOrderID: po.ID,
			ProductID:       productID,
			Qty:             qty,
			Price:           product.OriginalPrice,
		})
		if err := poRepo.Create(ctx, po); err != nil {
			return err
		}
		poID = po.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return poID, nil
}

// BackorderID extrae el id de la orden de compra creada por el fallback, si
// err es un StockUnavailableError con backorder.
func BackorderID(err error) string {
	var suErr *domain.StockUnavailableError
	if errors.As(err, &suErr) {
		return suErr.BackorderID
	}
	return ""
}
