package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/inventory"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/inventory/inventorytest"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
)

const (
	productA   = "prod-a"
	warehouse1 = "wh-1"
	warehouse2 = "wh-2"
)

// newEngine construye motor + store sembrado con un producto y dos bodegas.
func newEngine(t *testing.T) (*inventory.Engine, *inventorytest.Store) {
	t.Helper()
	store := inventorytest.NewStore()
	store.AddProduct(&entity.Product{
		ID: productA, SKU: "SKU-A", Name: "Producto A",
		OriginalPrice: decimal.NewFromInt(10), Profit: decimal.NewFromInt(2), Active: true,
	})
	store.AddWarehouse(&entity.Warehouse{ID: warehouse1, Name: "Central", Active: true})
	store.AddWarehouse(&entity.Warehouse{ID: warehouse2, Name: "Norte", Active: true})
	engine := inventory.NewEngine(
		inventorytest.NewTxRunner(store),
		store.StockRepo(), store.ProductRepo(), store.WarehouseRepo(), nil,
	)
	return engine, store
}

func TestEnsureExists_CreaRegistroEnCeroIdempotente(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.EnsureExists(ctx, productA, warehouse1))
	rec := store.GetStock(productA, warehouse1)
	require.NotNil(t, rec)
	assert.Equal(t, 0, rec.QtyOnHand)
	assert.Equal(t, 0, rec.QtyReserved)

	// Segunda llamada no toca el registro existente.
	store.SetStock(productA, warehouse1, 5, 1)
	require.NoError(t, engine.EnsureExists(ctx, productA, warehouse1))
	rec = store.GetStock(productA, warehouse1)
	assert.Equal(t, 5, rec.QtyOnHand)
	assert.Equal(t, 1, rec.QtyReserved)
}

func TestEnsureExists_ProductoOBodegaInexistente(t *testing.T) {
	engine, _ := newEngine(t)
	ctx := context.Background()

	assert.ErrorIs(t, engine.EnsureExists(ctx, "no-existe", warehouse1), domain.ErrNotFound)
	assert.ErrorIs(t, engine.EnsureExists(ctx, productA, "no-existe"), domain.ErrNotFound)
}

func TestInbound_IncrementaYRegistraMovimiento(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()
	store.SetStock(productA, warehouse1, 0, 0)

	require.NoError(t, engine.Inbound(ctx, productA, warehouse1, 7, "recepcion"))

	rec := store.GetStock(productA, warehouse1)
	assert.Equal(t, 7, rec.QtyOnHand)
	assert.Equal(t, 1, store.MovementCount(entity.MovementTypeInbound))
}

func TestInbound_SinRegistro_ErrNotFound(t *testing.T) {
	engine, _ := newEngine(t)
	err := engine.Inbound(context.Background(), productA, warehouse1, 7, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInbound_CantidadInvalida(t *testing.T) {
	engine, _ := newEngine(t)
	assert.ErrorIs(t, engine.Inbound(context.Background(), productA, warehouse1, 0, ""), domain.ErrInvalidInput)
	assert.ErrorIs(t, engine.Inbound(context.Background(), productA, warehouse1, -3, ""), domain.ErrInvalidInput)
}

func TestOutbound_DescuentaSoloDisponible(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()
	store.SetStock(productA, warehouse1, 10, 4) // disponible = 6

	require.NoError(t, engine.Outbound(ctx, productA, warehouse1, 6, "venta"))
	rec := store.GetStock(productA, warehouse1)
	assert.Equal(t, 4, rec.QtyOnHand)
	assert.Equal(t, 4, rec.QtyReserved)

	// Lo reservado no se puede sacar por outbound.
	err := engine.Outbound(ctx, productA, warehouse1, 1, "venta")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStockUnavailable)

	var suErr *domain.StockUnavailableError
	require.ErrorAs(t, err, &suErr)
	assert.Equal(t, 1, suErr.Requested)
	assert.Equal(t, 0, suErr.Available)

	// El fallo no dejó mutaciones ni movimientos a medias.
	rec = store.GetStock(productA, warehouse1)
	assert.Equal(t, 4, rec.QtyOnHand)
	assert.Equal(t, 1, store.MovementCount(entity.MovementTypeOutbound))
}

func TestAdjustment_ConSigno(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()
	store.SetStock(productA, warehouse1, 10, 3)

	require.NoError(t, engine.Adjustment(ctx, productA, warehouse1, -5, "merma"))
	rec := store.GetStock(productA, warehouse1)
	assert.Equal(t, 5, rec.QtyOnHand)

	require.NoError(t, engine.Adjustment(ctx, productA, warehouse1, 2, "conteo"))
	rec = store.GetStock(productA, warehouse1)
	assert.Equal(t, 7, rec.QtyOnHand)

	assert.Equal(t, 2, store.MovementCount(entity.MovementTypeAdjustment))
}

func TestAdjustment_NoPuedeBajarDeLoReservado(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()
	store.SetStock(productA, warehouse1, 10, 4)

	err := engine.Adjustment(ctx, productA, warehouse1, -7, "merma")
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	rec := store.GetStock(productA, warehouse1)
	assert.Equal(t, 10, rec.QtyOnHand, "el ajuste rechazado no debe mutar el registro")
}

func TestReserve_TokenYMovimiento(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()
	store.SetStock(productA, warehouse1, 10, 0)

	token, err := engine.Reserve(ctx, productA, warehouse1, 4, "res", 3600)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	rec := store.GetStock(productA, warehouse1)
	assert.Equal(t, 10, rec.QtyOnHand, "reservar no toca onHand")
	assert.Equal(t, 4, rec.QtyReserved)
	assert.Equal(t, 1, store.MovementCount(entity.MovementTypeAdjustment))

	// Un segundo reserve que excede lo disponible falla sin mutar.
	_, err = engine.Reserve(ctx, productA, warehouse1, 7, "res", 0)
	assert.ErrorIs(t, err, domain.ErrStockUnavailable)
	rec = store.GetStock(productA, warehouse1)
	assert.Equal(t, 4, rec.QtyReserved)
}

func TestRelease_ConPisoEnCero(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()
	store.SetStock(productA, warehouse1, 10, 4)

	require.NoError(t, engine.Release(ctx, productA, warehouse1, 3))
	rec := store.GetStock(productA, warehouse1)
	assert.Equal(t, 1, rec.QtyReserved)

	// Liberar más de lo reservado aplana a cero en lugar de fallar.
	require.NoError(t, engine.Release(ctx, productA, warehouse1, 5))
	rec = store.GetStock(productA, warehouse1)
	assert.Equal(t, 0, rec.QtyReserved)
}

func TestTransfer_MueveYDejaDosMovimientos(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()
	store.SetStock(productA, warehouse1, 10, 2) // disponible = 8

	require.NoError(t, engine.Transfer(ctx, productA, warehouse1, warehouse2, 5, "tr"))

	source := store.GetStock(productA, warehouse1)
	target := store.GetStock(productA, warehouse2)
	require.NotNil(t, target, "el destino se crea si no existe")
	assert.Equal(t, 5, source.QtyOnHand)
	assert.Equal(t, 2, source.QtyReserved, "lo reservado no viaja")
	assert.Equal(t, 5, target.QtyOnHand)
	assert.Equal(t, 1, store.MovementCount(entity.MovementTypeOutbound))
	assert.Equal(t, 1, store.MovementCount(entity.MovementTypeInbound))
}

func TestTransfer_MismaBodega(t *testing.T) {
	engine, _ := newEngine(t)
	err := engine.Transfer(context.Background(), productA, warehouse1, warehouse1, 5, "")
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestTransfer_DisponibleInsuficiente(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()
	store.SetStock(productA, warehouse1, 10, 6) // disponible = 4

	err := engine.Transfer(ctx, productA, warehouse1, warehouse2, 5, "")
	assert.ErrorIs(t, err, domain.ErrBusinessRule)

	source := store.GetStock(productA, warehouse1)
	assert.Equal(t, 10, source.QtyOnHand, "la transferencia rechazada no muta el origen")
}

func TestAvailable_RegistroInexistenteEsCero(t *testing.T) {
	engine, _ := newEngine(t)
	available, err := engine.Available(context.Background(), productA, warehouse1)
	require.NoError(t, err)
	assert.Equal(t, 0, available)
}

// TestReserve_ConcurrenciaSinSobreventa lanza más reservas concurrentes que
// unidades disponibles y verifica que nunca se reserva de más.
func TestReserve_ConcurrenciaSinSobreventa(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	const onHand = 25
	const attempts = 100
	store.SetStock(productA, warehouse1, onHand, 0)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := engine.Reserve(ctx, productA, warehouse1, 1, "conc", 0); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, onHand, succeeded, "deben reservar exactamente las unidades existentes")
	rec := store.GetStock(productA, warehouse1)
	assert.Equal(t, onHand, rec.QtyReserved)
	assert.Equal(t, onHand, rec.QtyOnHand)
	assert.GreaterOrEqual(t, rec.QtyOnHand, rec.QtyReserved, "invariante reservado <= onHand")
}
