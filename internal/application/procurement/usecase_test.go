package procurement_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/inventory"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/inventory/inventorytest"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/procurement"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
)

const (
	supplierID = "sup-1"
	productP   = "prod-p"
	warehouseP = "wh-p"
)

func newPOUseCase(t *testing.T) (*procurement.PurchaseOrderUseCase, *inventorytest.Store) {
	t.Helper()
	store := inventorytest.NewStore()
	store.Suppliers = append(store.Suppliers, &entity.Supplier{
		ID: supplierID, Name: "Proveedor Uno", Email: "uno@test.co",
	})
	store.AddProduct(&entity.Product{
		ID: productP, SKU: "SKU-P", Name: "Producto P",
		OriginalPrice: decimal.NewFromInt(30), Profit: decimal.NewFromInt(6), Active: true,
	})
	store.AddWarehouse(&entity.Warehouse{ID: warehouseP, Name: "Recepción", Active: true})

	engine := inventory.NewEngine(
		inventorytest.NewTxRunner(store),
		store.StockRepo(), store.ProductRepo(), store.WarehouseRepo(), nil,
	)
	uc := procurement.NewPurchaseOrderUseCase(
		store.PORepo(), store.SupplierRepo(), store.ProductRepo(), store.WarehouseRepo(), engine,
	)
	return uc, store
}

func createPO(t *testing.T, uc *procurement.PurchaseOrderUseCase, qty int) *entity.PurchaseOrder {
	t.Helper()
	po, err := uc.Create(context.Background(), supplierID, []procurement.POLineInput{
		{ProductID: productP, Qty: qty, Price: decimal.NewFromInt(30)},
	})
	require.NoError(t, err)
	return po
}

func TestPOCreate_EstadoInicialYLineas(t *testing.T) {
	uc, store := newPOUseCase(t)

	po := createPO(t, uc, 10)

	assert.Equal(t, entity.POStatusCreated, po.Status)
	assert.Equal(t, supplierID, po.SupplierID)
	require.Len(t, po.Lines, 1)
	assert.Equal(t, 10, po.Lines[0].Qty)
	require.NotNil(t, store.POs[po.ID])
}

func TestPOCreate_Validaciones(t *testing.T) {
	uc, _ := newPOUseCase(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, "fantasma", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(ctx, supplierID, []procurement.POLineInput{{ProductID: productP, Qty: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, supplierID, []procurement.POLineInput{{ProductID: "fantasma", Qty: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPOAddLine(t *testing.T) {
	uc, _ := newPOUseCase(t)
	po := createPO(t, uc, 10)

	updated, err := uc.AddLine(context.Background(), po.ID, procurement.POLineInput{
		ProductID: productP, Qty: 5, Price: decimal.NewFromInt(28),
	})
	require.NoError(t, err)
	assert.Len(t, updated.Lines, 2)
}

func TestPOApprove_TransicionesDeEstado(t *testing.T) {
	uc, store := newPOUseCase(t)
	ctx := context.Background()
	po := createPO(t, uc, 10)

	require.NoError(t, uc.Approve(ctx, po.ID))
	assert.Equal(t, entity.POStatusApproved, store.POs[po.ID].Status)

	// Idempotente sobre APPROVED.
	require.NoError(t, uc.Approve(ctx, po.ID))

	// Una orden RECEIVED no puede reaprobarse.
	require.NoError(t, uc.Receive(ctx, po.ID, warehouseP))
	assert.ErrorIs(t, uc.Approve(ctx, po.ID), domain.ErrBusinessRule)

	assert.ErrorIs(t, uc.Approve(ctx, "fantasma"), domain.ErrNotFound)
}

func TestPOReceive_AplicaInboundPorLinea(t *testing.T) {
	uc, store := newPOUseCase(t)
	ctx := context.Background()
	po := createPO(t, uc, 10)
	require.NoError(t, uc.Approve(ctx, po.ID))

	// Sin registro de stock previo: la recepción lo crea.
	require.Nil(t, store.GetStock(productP, warehouseP))

	require.NoError(t, uc.Receive(ctx, po.ID, warehouseP))

	rec := store.GetStock(productP, warehouseP)
	require.NotNil(t, rec)
	assert.Equal(t, 10, rec.QtyOnHand)
	assert.Equal(t, 0, rec.QtyReserved)
	assert.Equal(t, entity.POStatusReceived, store.POs[po.ID].Status)

	// El movimiento referencia orden y línea.
	wantRef := fmt.Sprintf("PO:%s:LINE:%s", po.ID, po.Lines[0].ID)
	found := false
	for _, mov := range store.Movements {
		if mov.Type == entity.MovementTypeInbound && mov.Reference == wantRef {
			found = true
			assert.Equal(t, 10, mov.Qty)
		}
	}
	assert.True(t, found, "el inbound debe referenciar PO y línea")
}

func TestPOReceive_SoloDesdeApproved(t *testing.T) {
	uc, store := newPOUseCase(t)
	ctx := context.Background()
	po := createPO(t, uc, 10)

	// CREATED no puede recibirse directamente.
	assert.ErrorIs(t, uc.Receive(ctx, po.ID, warehouseP), domain.ErrBusinessRule)

	require.NoError(t, uc.Approve(ctx, po.ID))
	require.NoError(t, uc.Receive(ctx, po.ID, warehouseP))

	// Recibir de nuevo es un no-op: no duplica el inbound.
	require.NoError(t, uc.Receive(ctx, po.ID, warehouseP))
	rec := store.GetStock(productP, warehouseP)
	assert.Equal(t, 10, rec.QtyOnHand)
	assert.Equal(t, 1, store.MovementCount(entity.MovementTypeInbound))
}

func TestPOReceive_BodegaInexistente(t *testing.T) {
	uc, _ := newPOUseCase(t)
	ctx := context.Background()
	po := createPO(t, uc, 10)
	require.NoError(t, uc.Approve(ctx, po.ID))

	assert.ErrorIs(t, uc.Receive(ctx, po.ID, "fantasma"), domain.ErrNotFound)
}

func TestPODelete_RechazaRecibidas(t *testing.T) {
	uc, store := newPOUseCase(t)
	ctx := context.Background()

	po := createPO(t, uc, 10)
	require.NoError(t, uc.Delete(ctx, po.ID))
	assert.Nil(t, store.POs[po.ID])

	received := createPO(t, uc, 5)
	require.NoError(t, uc.Approve(ctx, received.ID))
	require.NoError(t, uc.Receive(ctx, received.ID, warehouseP))
	assert.ErrorIs(t, uc.Delete(ctx, received.ID), domain.ErrBusinessRule)
}

func TestPOList_Paginacion(t *testing.T) {
	uc, _ := newPOUseCase(t)
	for i := 0; i < 3; i++ {
		createPO(t, uc, i+1)
	}

	all, err := uc.List(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := uc.List(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}
