// Package memory implementa los puertos de persistencia en memoria con semántica transaccional
// (snapshot y restauración en Rollback). Se usa en pruebas de casos de uso y handlers.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*Store)(nil)
	_ repository.Tx      = (*Store)(nil)
)

type itemKey struct {
	kind entity.ItemKind
	id   string
}

type state struct {
	items       map[itemKey]entity.Item
	stock       map[itemKey]entity.StockRecord
	movements   []entity.MovementRecord
	salesOrders map[string]entity.SalesOrder
	lineItems   map[string][]entity.SalesOrderLineItem
	prodOrders  map[string]entity.ProductionOrder
	insumos     map[string][]entity.ProductionOrderInsumo
}

func (s state) clone() state {
	c := state{
		items:       make(map[itemKey]entity.Item, len(s.items)),
		stock:       make(map[itemKey]entity.StockRecord, len(s.stock)),
		movements:   append([]entity.MovementRecord(nil), s.movements...),
		salesOrders: make(map[string]entity.SalesOrder, len(s.salesOrders)),
		lineItems:   s.lineItems,
		prodOrders:  make(map[string]entity.ProductionOrder, len(s.prodOrders)),
		insumos:     s.insumos,
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.salesOrders {
		c.salesOrders[k] = v
	}
	for k, v := range s.prodOrders {
		c.prodOrders[k] = v
	}
	return c
}

// Store base de datos en memoria. Run serializa las transacciones con un mutex,
// equivalente a que cada transacción tome el bloqueo de todas las filas.
type Store struct {
	mu sync.Mutex
	st state

	// Ganchos para inyectar fallos en pruebas de atomicidad.
	FailMovement func(m *entity.MovementRecord) error
	FailMirror   func(kind entity.ItemKind, id string) error
	FailStatus   func(orderID string) error
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: state{
		items:       map[itemKey]entity.Item{},
		stock:       map[itemKey]entity.StockRecord{},
		salesOrders: map[string]entity.SalesOrder{},
		lineItems:   map[string][]entity.SalesOrderLineItem{},
		prodOrders:  map[string]entity.ProductionOrder{},
		insumos:     map[string][]entity.ProductionOrderInsumo{},
	}}
}

// Run ejecuta fn con repositorios transaccionales; si fn falla o el contexto se cancela, restaura el snapshot.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	snapshot := s.st.clone()
	if err := fn(&view{s: s, inTx: true}); err != nil {
		s.st = snapshot
		return err
	}
	if err := ctx.Err(); err != nil {
		s.st = snapshot
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Accesores fuera de transacción (equivalentes a repositorios sobre el pool).

func (s *Store) Items() repository.ItemRepository                       { return view{s: s}.items() }
func (s *Store) Stock() repository.StockRepository                      { return view{s: s}.stockRepo() }
func (s *Store) Movements() repository.MovementRepository               { return view{s: s}.movementRepo() }
func (s *Store) SalesOrders() repository.SalesOrderRepository           { return view{s: s}.salesRepo() }
func (s *Store) ProductionOrders() repository.ProductionOrderRepository { return view{s: s}.prodRepo() }

// ── Datos de prueba ──────────────────────────────────────────────────────────

// AddItem registra un ítem en el catálogo.
func (s *Store) AddItem(it entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	s.st.items[itemKey{it.Kind, it.ID}] = it
}

// SeedStock fija una existencia inicial (registro de stock y espejo) sin generar movimiento.
func (s *Store) SeedStock(kind entity.ItemKind, id string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := itemKey{kind, id}
	s.st.stock[k] = entity.StockRecord{ID: uuid.New().String(), Kind: kind, ItemID: id, WarehouseLocation: entity.DefaultWarehouseLocation, Quantity: qty}
	if it, ok := s.st.items[k]; ok {
		it.StockQuantity = qty
		s.st.items[k] = it
	}
}

// AddSalesOrder registra un pedido con sus líneas.
func (s *Store) AddSalesOrder(o entity.SalesOrder, lines ...entity.SalesOrderLineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.salesOrders[o.ID] = o
	for i := range lines {
		lines[i].OrderID = o.ID
	}
	s.st.lineItems[o.ID] = lines
}

// AddProductionOrder registra una orden de producción con sus insumos.
func (s *Store) AddProductionOrder(o entity.ProductionOrder, insumos ...entity.ProductionOrderInsumo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.prodOrders[o.ID] = o
	for i := range insumos {
		insumos[i].OrderID = o.ID
	}
	s.st.insumos[o.ID] = insumos
}

// Quantity devuelve la cantidad del registro de stock (0 si no existe).
func (s *Store) Quantity(kind entity.ItemKind, id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.stock[itemKey{kind, id}].Quantity
}

// HasStockRecord indica si el ítem ya tiene registro de stock.
func (s *Store) HasStockRecord(kind entity.ItemKind, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.st.stock[itemKey{kind, id}]
	return ok
}

// Mirror devuelve el stock_quantity del catálogo.
func (s *Store) Mirror(kind entity.ItemKind, id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.items[itemKey{kind, id}].StockQuantity
}

// Ledger devuelve los movimientos del ítem en orden cronológico.
func (s *Store) Ledger(kind entity.ItemKind, id string) []entity.MovementRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.MovementRecord
	for _, m := range s.st.movements {
		if m.Kind == kind && m.ItemID == id {
			out = append(out, m)
		}
	}
	return out
}

// SalesOrder devuelve una copia del pedido.
func (s *Store) SalesOrder(id string) entity.SalesOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.salesOrders[id]
}

// ProductionOrder devuelve una copia de la orden.
func (s *Store) ProductionOrder(id string) entity.ProductionOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.prodOrders[id]
}

// ── Repositorios ─────────────────────────────────────────────────────────────

// view implementa repository.Tx. Fuera de transacción cada llamada toma el mutex.
type view struct {
	s    *Store
	inTx bool
}

func (v *view) do(fn func(st *state) error) error {
	if !v.inTx {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	return fn(&v.s.st)
}

func (v *view) Items() repository.ItemRepository                       { return v.items() }
func (v *view) Stock() repository.StockRepository                      { return v.stockRepo() }
func (v *view) Movements() repository.MovementRepository               { return v.movementRepo() }
func (v *view) SalesOrders() repository.SalesOrderRepository           { return v.salesRepo() }
func (v *view) ProductionOrders() repository.ProductionOrderRepository { return v.prodRepo() }

func (v view) items() *itemRepo            { return &itemRepo{v} }
func (v view) stockRepo() *stockRepo       { return &stockRepo{v} }
func (v view) movementRepo() *movementRepo { return &movementRepo{v} }
func (v view) salesRepo() *salesRepo       { return &salesRepo{v} }
func (v view) prodRepo() *prodRepo         { return &prodRepo{v} }

type itemRepo struct{ v view }

func (r *itemRepo) GetByID(_ context.Context, kind entity.ItemKind, id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.v.do(func(st *state) error {
		if it, ok := st.items[itemKey{kind, id}]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *itemRepo) UpdateStockQuantity(_ context.Context, kind entity.ItemKind, id string, quantity int) error {
	return r.v.do(func(st *state) error {
		if r.v.s.FailMirror != nil {
			if err := r.v.s.FailMirror(kind, id); err != nil {
				return err
			}
		}
		k := itemKey{kind, id}
		it, ok := st.items[k]
		if !ok {
			return domain.ErrNotFound
		}
		it.StockQuantity = quantity
		st.items[k] = it
		return nil
	})
}

type stockRepo struct{ v view }

func (r *stockRepo) Get(_ context.Context, kind entity.ItemKind, itemID string) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	err := r.v.do(func(st *state) error {
		if rec, ok := st.stock[itemKey{kind, itemID}]; ok {
			out = &rec
		}
		return nil
	})
	return out, err
}

func (r *stockRepo) GetForUpdate(_ context.Context, kind entity.ItemKind, itemID, location string) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	err := r.v.do(func(st *state) error {
		k := itemKey{kind, itemID}
		rec, ok := st.stock[k]
		if !ok {
			rec = entity.StockRecord{ID: uuid.New().String(), Kind: kind, ItemID: itemID, WarehouseLocation: location}
			st.stock[k] = rec
		}
		out = &rec
		return nil
	})
	return out, err
}

func (r *stockRepo) Update(_ context.Context, record *entity.StockRecord) error {
	return r.v.do(func(st *state) error {
		st.stock[itemKey{record.Kind, record.ItemID}] = *record
		return nil
	})
}

type movementRepo struct{ v view }

func (r *movementRepo) Create(_ context.Context, m *entity.MovementRecord) error {
	return r.v.do(func(st *state) error {
		if !m.Type.Valid() {
			return fmt.Errorf("create movement: tipo inválido %q", m.Type)
		}
		if r.v.s.FailMovement != nil {
			if err := r.v.s.FailMovement(m); err != nil {
				return err
			}
		}
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *movementRepo) ListByItem(_ context.Context, kind entity.ItemKind, itemID string, limit int) ([]*entity.MovementRecord, error) {
	var out []*entity.MovementRecord
	err := r.v.do(func(st *state) error {
		// Recorre de atrás hacia adelante: el orden de inserción es el orden cronológico.
		for i := len(st.movements) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
			m := st.movements[i]
			if m.Kind == kind && m.ItemID == itemID {
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) DeleteAll(_ context.Context, kind entity.ItemKind) (int64, error) {
	var n int64
	err := r.v.do(func(st *state) error {
		kept := st.movements[:0:0]
		for _, m := range st.movements {
			if m.Kind == kind {
				n++
				continue
			}
			kept = append(kept, m)
		}
		st.movements = kept
		return nil
	})
	return n, err
}

type salesRepo struct{ v view }

func (r *salesRepo) GetByID(_ context.Context, id string) (*entity.SalesOrder, error) {
	var out *entity.SalesOrder
	err := r.v.do(func(st *state) error {
		if o, ok := st.salesOrders[id]; ok {
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *salesRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *salesRepo) ListLineItems(_ context.Context, orderID string) ([]*entity.SalesOrderLineItem, error) {
	var out []*entity.SalesOrderLineItem
	err := r.v.do(func(st *state) error {
		for _, li := range st.lineItems[orderID] {
			li := li
			out = append(out, &li)
		}
		return nil
	})
	return out, err
}

func (r *salesRepo) UpdateStatus(_ context.Context, order *entity.SalesOrder) error {
	return r.v.do(func(st *state) error {
		if r.v.s.FailStatus != nil {
			if err := r.v.s.FailStatus(order.ID); err != nil {
				return err
			}
		}
		if _, ok := st.salesOrders[order.ID]; !ok {
			return domain.ErrNotFound
		}
		st.salesOrders[order.ID] = *order
		return nil
	})
}

type prodRepo struct{ v view }

func (r *prodRepo) GetByID(_ context.Context, id string) (*entity.ProductionOrder, error) {
	var out *entity.ProductionOrder
	err := r.v.do(func(st *state) error {
		if o, ok := st.prodOrders[id]; ok {
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *prodRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *prodRepo) ListInsumos(_ context.Context, orderID string) ([]*entity.ProductionOrderInsumo, error) {
	var out []*entity.ProductionOrderInsumo
	err := r.v.do(func(st *state) error {
		list := append([]entity.ProductionOrderInsumo(nil), st.insumos[orderID]...)
		sort.SliceStable(list, func(i, j int) bool { return list[i].SupplyID < list[j].SupplyID })
		for i := range list {
			out = append(out, &list[i])
		}
		return nil
	})
	return out, err
}

func (r *prodRepo) UpdateStatus(_ context.Context, order *entity.ProductionOrder) error {
	return r.v.do(func(st *state) error {
		if r.v.s.FailStatus != nil {
			if err := r.v.s.FailStatus(order.ID); err != nil {
				return err
			}
		}
		if _, ok := st.prodOrders[order.ID]; !ok {
			return domain.ErrNotFound
		}
		st.prodOrders[order.ID] = *order
		return nil
	})
}
