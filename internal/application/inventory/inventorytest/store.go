// Package inventorytest provee un almacén en memoria con semántica
// transaccional (snapshot + rollback) para probar los casos de uso de
// inventario, pedidos y aprovisionamiento sin PostgreSQL.
package inventorytest

import (
	"context"
	"sort"
	"sync"

	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/repository"
)

func key(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

// Store estado compartido de los fakes. txMu serializa transacciones igual que
// lo harían los bloqueos de fila; mu protege las lecturas fuera de transacción.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	Stock      map[string]*entity.StockRecord // key: productID|warehouseID
	Movements  []*entity.Movement
	Products   map[string]*entity.Product
	Warehouses map[string]*entity.Warehouse
	Suppliers  []*entity.Supplier // en orden de creación
	POs        map[string]*entity.PurchaseOrder
	Orders     map[string]*entity.SalesOrder
	Users      map[string]*entity.User
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		Stock:      make(map[string]*entity.StockRecord),
		Products:   make(map[string]*entity.Product),
		Warehouses: make(map[string]*entity.Warehouse),
		POs:        make(map[string]*entity.PurchaseOrder),
		Orders:     make(map[string]*entity.SalesOrder),
		Users:      make(map[string]*entity.User),
	}
}

// Seed helpers ---------------------------------------------------------------

// AddProduct registra un producto.
func (s *Store) AddProduct(p *entity.Product) { s.Products[p.ID] = p }

// AddWarehouse registra una bodega.
func (s *Store) AddWarehouse(w *entity.Warehouse) { s.Warehouses[w.ID] = w }

// AddUser registra un usuario.
func (s *Store) AddUser(u *entity.User) { s.Users[u.ID] = u }

// SetStock fija las cantidades de un registro de stock.
func (s *Store) SetStock(productID, warehouseID string, onHand, reserved int) {
	s.Stock[key(productID, warehouseID)] = &entity.StockRecord{
		ID:          key(productID, warehouseID),
		ProductID:   productID,
		WarehouseID: warehouseID,
		QtyOnHand:   onHand,
		QtyReserved: reserved,
	}
}

// GetStock devuelve una copia del registro o nil.
func (s *Store) GetStock(productID, warehouseID string) *entity.StockRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.Stock[key(productID, warehouseID)]
	if !ok {
		return nil
	}
	c := *rec
	return &c
}

// MovementCount cuenta los movimientos registrados del tipo dado ("" = todos).
func (s *Store) MovementCount(movType string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if movType == "" {
		return len(s.Movements)
	}
	n := 0
	for _, m := range s.Movements {
		if m.Type == movType {
			n++
		}
	}
	return n
}

// Repos ----------------------------------------------------------------------

// StockRepo devuelve el fake de StockRecordRepository.
func (s *Store) StockRepo() repository.StockRecordRepository { return &stockRepo{s: s} }

// MovementRepo devuelve el fake de MovementRepository.
func (s *Store) MovementRepo() repository.MovementRepository { return &movementRepo{s: s} }

// ProductRepo devuelve el fake de ProductRepository.
func (s *Store) ProductRepo() repository.ProductRepository { return &productRepo{s: s} }

// WarehouseRepo devuelve el fake de WarehouseRepository.
func (s *Store) WarehouseRepo() repository.WarehouseRepository { return &warehouseRepo{s: s} }

// SupplierRepo devuelve el fake de SupplierRepository.
func (s *Store) SupplierRepo() repository.SupplierRepository { return &supplierRepo{s: s} }

// PORepo devuelve el fake de PurchaseOrderRepository.
func (s *Store) PORepo() repository.PurchaseOrderRepository { return &poRepo{s: s} }

// OrderRepo devuelve el fake de SalesOrderRepository.
func (s *Store) OrderRepo() repository.SalesOrderRepository { return &orderRepo{s: s} }

// UserRepo devuelve el fake de UserRepository.
func (s *Store) UserRepo() repository.UserRepository { return &userRepo{s: s} }

// TxRunner -------------------------------------------------------------------

// TxRunner simula transacciones: serializa con un mutex y restaura un snapshot
// del estado si fn devuelve error (rollback).
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

func (r *TxRunner) snapshot() (map[string]*entity.StockRecord, int, map[string]*entity.PurchaseOrder, []*entity.Supplier, map[string]*entity.SalesOrder) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stock := make(map[string]*entity.StockRecord, len(r.s.Stock))
	for k, v := range r.s.Stock {
		c := *v
		stock[k] = &c
	}
	pos := make(map[string]*entity.PurchaseOrder, len(r.s.POs))
	for k, v := range r.s.POs {
		pos[k] = copyPO(v)
	}
	suppliers := append([]*entity.Supplier(nil), r.s.Suppliers...)
	orders := make(map[string]*entity.SalesOrder, len(r.s.Orders))
	for k, v := range r.s.Orders {
		orders[k] = copyOrder(v)
	}
	return stock, len(r.s.Movements), pos, suppliers, orders
}

func (r *TxRunner) restore(stock map[string]*entity.StockRecord, movLen int, pos map[string]*entity.PurchaseOrder, suppliers []*entity.Supplier, orders map[string]*entity.SalesOrder) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Stock = stock
	r.s.Movements = r.s.Movements[:movLen]
	r.s.POs = pos
	r.s.Suppliers = suppliers
	r.s.Orders = orders
}

// Run ejecuta fn con rollback si devuelve error.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRecordRepository,
	movRepo repository.MovementRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	stock, movLen, pos, suppliers, orders := r.snapshot()
	if err := fn(r.s.StockRepo(), r.s.MovementRepo()); err != nil {
		r.restore(stock, movLen, pos, suppliers, orders)
		return err
	}
	return nil
}

// RunProcurement ejecuta fn con rollback si devuelve error.
func (r *TxRunner) RunProcurement(ctx context.Context, fn func(
	supplierRepo repository.SupplierRepository,
	poRepo repository.PurchaseOrderRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	stock, movLen, pos, suppliers, orders := r.snapshot()
	if err := fn(r.s.SupplierRepo(), r.s.PORepo()); err != nil {
		r.restore(stock, movLen, pos, suppliers, orders)
		return err
	}
	return nil
}

// RunOrder ejecuta fn con rollback si devuelve error.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	stockRepo repository.StockRecordRepository,
	movRepo repository.MovementRepository,
	orderRepo repository.SalesOrderRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	stock, movLen, pos, suppliers, orders := r.snapshot()
	if err := fn(r.s.StockRepo(), r.s.MovementRepo(), r.s.OrderRepo()); err != nil {
		r.restore(stock, movLen, pos, suppliers, orders)
		return err
	}
	return nil
}

// stockRepo ------------------------------------------------------------------

type stockRepo struct{ s *Store }

func (r *stockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	return r.s.GetStock(productID, warehouseID), nil
}

func (r *stockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	return r.s.GetStock(productID, warehouseID), nil
}

func (r *stockRepo) CreateIfAbsent(ctx context.Context, record *entity.StockRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(record.ProductID, record.WarehouseID)
	if _, ok := r.s.Stock[k]; ok {
		return nil
	}
	c := *record
	r.s.Stock[k] = &c
	return nil
}

func (r *stockRepo) UpdateQuantities(ctx context.Context, record *entity.StockRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(record.ProductID, record.WarehouseID)
	stored, ok := r.s.Stock[k]
	if !ok {
		return nil
	}
	stored.QtyOnHand = record.QtyOnHand
	stored.QtyReserved = record.QtyReserved
	stored.UpdatedAt = record.UpdatedAt
	return nil
}

func (r *stockRepo) Available(ctx context.Context, productID, warehouseID string) (int, error) {
	rec := r.s.GetStock(productID, warehouseID)
	if rec == nil {
		return 0, nil
	}
	return rec.Available(), nil
}

func (r *stockRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockRecord
	for _, rec := range r.s.Stock {
		if rec.WarehouseID == warehouseID {
			c := *rec
			out = append(out, &c)
		}
	}
	return out, nil
}

// movementRepo ---------------------------------------------------------------

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *movement
	r.s.Movements = append(r.s.Movements, &c)
	return nil
}

func (r *movementRepo) ListByStockRecord(ctx context.Context, stockRecordID string, limit, offset int) ([]*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Movement
	for _, m := range r.s.Movements {
		if m.StockRecordID == stockRecordID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *movementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Movement
	for _, m := range r.s.Movements {
		for _, rec := range r.s.Stock {
			if rec.ID == m.StockRecordID && rec.ProductID == productID {
				c := *m
				out = append(out, &c)
			}
		}
	}
	return out, nil
}

// productRepo ----------------------------------------------------------------

type productRepo struct{ s *Store }

func (r *productRepo) Create(ctx context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Products[product.ID] = product
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.Products[id], nil
}

func (r *productRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.Products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.Products {
		out = append(out, p)
	}
	return out, nil
}

func (r *productRepo) Update(ctx context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Products[product.ID] = product
	return nil
}

// warehouseRepo --------------------------------------------------------------

type warehouseRepo struct{ s *Store }

func (r *warehouseRepo) Create(ctx context.Context, warehouse *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Warehouses[warehouse.ID] = warehouse
	return nil
}

func (r *warehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.Warehouses[id], nil
}

func (r *warehouseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Warehouse
	for _, w := range r.s.Warehouses {
		out = append(out, w)
	}
	return out, nil
}

func (r *warehouseRepo) Update(ctx context.Context, warehouse *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Warehouses[warehouse.ID] = warehouse
	return nil
}

func (r *warehouseRepo) ListIDsExcept(ctx context.Context, excludeID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for id := range r.s.Warehouses {
		if id != excludeID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// supplierRepo ---------------------------------------------------------------

type supplierRepo struct{ s *Store }

func (r *supplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *supplier
	r.s.Suppliers = append(r.s.Suppliers, &c)
	return nil
}

func (r *supplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sup := range r.s.Suppliers {
		if sup.ID == id {
			c := *sup
			return &c, nil
		}
	}
	return nil, nil
}

func (r *supplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]*entity.Supplier(nil), r.s.Suppliers...), nil
}

func (r *supplierRepo) GetFirst(ctx context.Context) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if len(r.s.Suppliers) == 0 {
		return nil, nil
	}
	c := *r.s.Suppliers[0]
	return &c, nil
}

// poRepo ---------------------------------------------------------------------

type poRepo struct{ s *Store }

func copyPO(po *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *po
	c.Lines = nil
	for _, line := range po.Lines {
		lc := *line
		c.Lines = append(c.Lines, &lc)
	}
	return &c
}

func (r *poRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.POs[po.ID] = copyPO(po)
	return nil
}

func (r *poRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	po, ok := r.s.POs[id]
	if !ok {
		return nil, nil
	}
	return copyPO(po), nil
}

func (r *poRepo) List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PurchaseOrder
	for _, po := range r.s.POs {
		out = append(out, copyPO(po))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *poRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if po, ok := r.s.POs[id]; ok {
		po.Status = status
	}
	return nil
}

func (r *poRepo) AddLine(ctx context.Context, line *entity.POLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if po, ok := r.s.POs[line.PurchaseOrderID]; ok {
		lc := *line
		po.Lines = append(po.Lines, &lc)
	}
	return nil
}

func (r *poRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.POs, id)
	return nil
}

// orderRepo ------------------------------------------------------------------

type orderRepo struct{ s *Store }

func copyOrder(o *entity.SalesOrder) *entity.SalesOrder {
	c := *o
	c.Lines = nil
	for _, line := range o.Lines {
		lc := *line
		c.Lines = append(c.Lines, &lc)
	}
	return &c
}

func (r *orderRepo) Create(ctx context.Context, order *entity.SalesOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Orders[order.ID] = copyOrder(order)
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.Orders[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(o), nil
}

func (r *orderRepo) List(ctx context.Context, filter repository.SalesOrderFilter, limit, offset int) ([]*entity.SalesOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SalesOrder
	for _, o := range r.s.Orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.ClientID != "" && o.ClientID != filter.ClientID {
			continue
		}
		out = append(out, copyOrder(o))
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.Orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (r *orderRepo) UpdateLineReserved(ctx context.Context, lineID string, qtyReserved int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.Orders {
		for _, line := range o.Lines {
			if line.ID == lineID {
				line.QtyReserved = qtyReserved
				return nil
			}
		}
	}
	return nil
}

func (r *orderRepo) AddLine(ctx context.Context, line *entity.SalesOrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.Orders[line.SalesOrderID]; ok {
		lc := *line
		o.Lines = append(o.Lines, &lc)
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.Orders, id)
	return nil
}

// userRepo -------------------------------------------------------------------

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Users[user.ID] = user
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.Users[id], nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
