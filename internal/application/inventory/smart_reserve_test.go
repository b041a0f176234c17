package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/inventory"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
)

func TestSmartReserve_CompletoEnBodegaPreferida(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()
	store.SetStock(productA, warehouse1, 10, 0)

	require.NoError(t, engine.SmartReserve(ctx, productA, warehouse1, 6, "sr"))

	rec := store.GetStock(productA, warehouse1)
	assert.Equal(t, 10, rec.QtyOnHand)
	assert.Equal(t, 6, rec.QtyReserved)
	assert.Empty(t, store.POs, "con stock local suficiente no hay backorder")
}

func TestSmartReserve_ParcialMasTransferencia(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()
	store.SetStock(productA, warehouse1, 4, 0)
	store.SetStock(productA, warehouse2, 10, 0)

	require.NoError(t, engine.SmartReserve(ctx, productA, warehouse1, 9, "sr"))

	// Se reservan las 4 locales y se transfieren 5 desde la otra bodega,
	// quedando todo reservado en la preferida.
	preferred := store.GetStock(productA, warehouse1)
	other := store.GetStock(productA, warehouse2)
	assert.Equal(t, 9, preferred.QtyOnHand)
	assert.Equal(t, 9, preferred.QtyReserved)
	assert.Equal(t, 5, other.QtyOnHand)
	assert.Equal(t, 0, other.QtyReserved)

	// La transferencia deja su par OUTBOUND/INBOUND en el libro.
	assert.Equal(t, 1, store.MovementCount(entity.MovementTypeOutbound))
	assert.Equal(t, 1, store.MovementCount(entity.MovementTypeInbound))
	assert.Empty(t, store.POs)
}

func TestSmartReserve_NoTocaLoReservadoDeOtrasBodegas(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()
	store.SetStock(productA, warehouse1, 0, 0)
	store.SetStock(productA, warehouse2, 10, 7) // disponible = 3

	err := engine.SmartReserve(ctx, productA, warehouse1, 5, "sr")
	require.Error(t, err, "3 disponibles globales no cubren 5")

	other := store.GetStock(productA, warehouse2)
	assert.Equal(t, 7, other.QtyOnHand, "solo viajan las 3 disponibles")
	assert.Equal(t, 7, other.QtyReserved)

	preferred := store.GetStock(productA, warehouse1)
	assert.Equal(t, 3, preferred.QtyOnHand)
	assert.Equal(t, 3, preferred.QtyReserved)
}

func TestSmartReserve_FaltanteGlobalCreaBackorder(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()
	store.SetStock(productA, warehouse1, 2, 0)
	store.SetStock(productA, warehouse2, 3, 0)

	err := engine.SmartReserve(ctx, productA, warehouse1, 9, "sr")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStockUnavailable)

	backorderID := inventory.BackorderID(err)
	require.NotEmpty(t, backorderID, "el error debe llevar el id del backorder")

	po := store.POs[backorderID]
	require.NotNil(t, po)
	assert.Equal(t, entity.POStatusCreated, po.Status)
	require.Len(t, po.Lines, 1)
	assert.Equal(t, productA, po.Lines[0].ProductID)
	assert.Equal(t, 4, po.Lines[0].Qty, "la línea cubre solo el remanente")
	assert.True(t, po.Lines[0].Price.Equal(store.Products[productA].OriginalPrice),
		"la línea usa el precio de referencia del producto")

	// Sin proveedores registrados se crea el proveedor por defecto.
	require.Len(t, store.Suppliers, 1)
	assert.Equal(t, entity.DefaultSupplierName, store.Suppliers[0].Name)
	assert.Equal(t, store.Suppliers[0].ID, po.SupplierID)

	// Lo que sí había quedó reservado en la preferida.
	preferred := store.GetStock(productA, warehouse1)
	assert.Equal(t, 5, preferred.QtyOnHand)
	assert.Equal(t, 5, preferred.QtyReserved)
}

func TestSmartReserve_BackorderReutilizaProveedorExistente(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()
	store.Suppliers = append(store.Suppliers, &entity.Supplier{
		ID: "sup-1", Name: "Proveedor Real", Email: "ventas@real.co",
	})
	store.SetStock(productA, warehouse1, 0, 0)

	err := engine.SmartReserve(ctx, productA, warehouse1, 3, "sr")
	require.Error(t, err)

	po := store.POs[inventory.BackorderID(err)]
	require.NotNil(t, po)
	assert.Equal(t, "sup-1", po.SupplierID)
	assert.Len(t, store.Suppliers, 1, "no debe duplicarse el proveedor")
}

func TestSmartReserve_VisitaBodegasEnOrdenCanonico(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()
	// Una tercera bodega con id menor que warehouse2: debe drenarse primero.
	const warehouse0 = "wh-0"
	store.AddWarehouse(&entity.Warehouse{ID: warehouse0, Name: "Sur", Active: true})
	store.SetStock(productA, warehouse1, 0, 0)
	store.SetStock(productA, warehouse0, 5, 0)
	store.SetStock(productA, warehouse2, 5, 0)

	require.NoError(t, engine.SmartReserve(ctx, productA, warehouse1, 5, "sr"))

	first := store.GetStock(productA, warehouse0)
	second := store.GetStock(productA, warehouse2)
	assert.Equal(t, 0, first.QtyOnHand, "la bodega de id menor se drena primero")
	assert.Equal(t, 5, second.QtyOnHand, "la siguiente no se toca si ya se cubrió")
}

func TestSmartReserve_CantidadInvalida(t *testing.T) {
	engine, _ := newEngine(t)
	assert.ErrorIs(t, engine.SmartReserve(context.Background(), productA, warehouse1, 0, ""), domain.ErrInvalidInput)
	assert.ErrorIs(t, engine.SmartReserve(context.Background(), productA, warehouse1, -2, ""), domain.ErrInvalidInput)
}
