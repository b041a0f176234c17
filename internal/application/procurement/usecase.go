package procurement

import (
	"context"
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

// PurchaseOrderUseCase gestiona órdenes de compra: creación manual, aprobación
// y recepción. Recibir una orden aplica un inbound por línea contra la bodega
// indicada a través del motor de inventario.
type PurchaseOrderUseCase struct {
	poRepo        repository.PurchaseOrderRepository
	supplierRepo  repository.SupplierRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	engine        *inventory.Engine
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(
	poRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	engine *inventory.Engine,
) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{
		poRepo:        poRepo,
		supplierRepo:  supplierRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		engine:        engine,
	}
}

// POLineInput línea solicitada para una orden de compra.
type POLineInput struct {
	ProductID string
	Qty       int
	Price     decimal.Decimal
}

// Create crea una orden de compra en estado CREATED con sus líneas.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, supplierID string, lines []POLineInput) (*entity.PurchaseOrder, error) {
	supplier, err := uc.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	po := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		SupplierID: supplierID,
		Status:     entity.POStatusCreated,
		CreatedAt:  time.Now(),
	}
	for _, lineInput := range lines {
		if lineInput.Qty < 1 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(ctx, lineInput.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		po.Lines = append(po.Lines, &entity.POLine{
			ID:              uuid.New().String(),
			PurchaseOrderID: po.ID,
			ProductID:       lineInput.ProductID,
			Qty:             lineInput.Qty,
			Price:           lineInput.Price,
		})
	}
	if err := uc.poRepo.Create(ctx, po); err != nil {
		return nil, err
	}
	log.Info().Str("purchase_order_id", po.ID).Str("supplier_id", supplierID).Msg("orden de compra creada")
	return po, nil
}

// GetByID devuelve la orden con sus líneas.
func (uc *PurchaseOrderUseCase) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.poRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return po, nil
}

// List lista órdenes de compra con paginación.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	return uc.poRepo.List(ctx, limit, offset)
}

// AddLine agrega una línea a una orden existente.
func (uc *PurchaseOrderUseCase) AddLine(ctx context.Context, poID string, input POLineInput) (*entity.PurchaseOrder, error) {
	po, err := uc.poRepo.GetByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if input.Qty < 1 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	line := &entity.POLine{
		ID:              uuid.New().String(),
		PurchaseOrderID: po.ID,
		ProductID:       input.ProductID,
		Qty:             input.Qty,
		Price:           input.Price,
	}
	if err := uc.poRepo.AddLine(ctx, line); err != nil {
		return nil, err
	}
	po.Lines = append(po.Lines, line)
	return po, nil
}

// Approve pasa la orden de CREATED a APPROVED. Idempotente si ya está
// APPROVED; rechaza una orden ya RECEIVED.
func (uc *PurchaseOrderUseCase) Approve(ctx context.Context, id string) error {
	po, err := uc.poRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if po == nil {
		return domain.ErrNotFound
	}
	switch po.Status {
	case entity.POStatusApproved:
		log.Warn().Str("purchase_order_id", id).Msg("orden de compra ya estaba APPROVED")
		return nil
	case entity.POStatusReceived:
		return domain.ErrBusinessRule
	case entity.POStatusCreated:
		// transición válida
	default:
		return domain.ErrBusinessRule
	}
	if err := uc.poRepo.UpdateStatus(ctx, id, entity.POStatusApproved); err != nil {
		return err
	}
	log.Info().Str("purchase_order_id", id).Msg("orden de compra aprobada")
	return nil
}

// Receive marca la orden como RECEIVED y aplica un inbound por cada línea en
// la bodega indicada (creando el registro de stock si falta). Solo una orden
// APPROVED puede recibirse; si ya está RECEIVED no hace nada.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, id, warehouseID string) error {
	po, err := uc.poRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if po == nil {
		return domain.ErrNotFound
	}
	if po.Status == entity.POStatusReceived {
		log.Warn().Str("purchase_order_id", id).Msg("orden de compra ya estaba RECEIVED")
		return nil
	}
	if po.Status != entity.POStatusApproved {
		return domain.ErrBusinessRule
	}

	warehouse, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if warehouse == nil {
		return domain.ErrNotFound
	}

	for _, line := range po.Lines {
		if err := uc.engine.EnsureExists(ctx, line.ProductID, warehouseID); err != nil {
			return err
		}
		reference := fmt.Sprintf("PO:%s:LINE:%s", po.ID, line.ID)
		if err := uc.engine.Inbound(ctx, line.ProductID, warehouseID, line.Qty, reference); err != nil {
			return err
		}
		log.Info().Str("purchase_order_id", po.ID).Str("product_id", line.ProductID).
			Int("qty", line.Qty).Str("warehouse_id", warehouseID).Msg("inbound aplicado por recepción")
	}

	if err := uc.poRepo.UpdateStatus(ctx, id, entity.POStatusReceived); err != nil {
		return err
	}
	log.Info().Str("purchase_order_id", id).Msg("orden de compra recibida")
	return nil
}

// Delete elimina una orden de compra no recibida.
func (uc *PurchaseOrderUseCase) Delete(ctx context.Context, id string) error {
	po, err := uc.poRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if po == nil {
		return domain.ErrNotFound
	}
	if po.Status == entity.POStatusReceived {
		return domain.ErrBusinessRule
	}
	return uc.poRepo.Delete(ctx, id)
}
