package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

type aggKey struct {
	enterpriseID string
	productID    string
}

// Store almacenamiento en memoria con transacciones: el agregado de cada producto se bloquea
// con un mutex propio desde GetForUpdate hasta el commit o rollback, y las escrituras de la
// transacción solo se publican al hacer commit.
type Store struct {
	mu          sync.RWMutex
	enterprises map[string]*entity.Enterprise
	products    map[string]*entity.Product
	warehouses  map[string]*entity.Warehouse
	suppliers   map[string]*entity.Supplier
	lots        map[string]*entity.Lot
	aggregates  map[aggKey]*entity.StockAggregate
	movements   map[aggKey][]*entity.StockMovement // orden de commit
	movByID     map[string]*entity.StockMovement

	locksMu sync.Mutex
	locks   map[aggKey]chan struct{}
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		enterprises: make(map[string]*entity.Enterprise),
		products:    make(map[string]*entity.Product),
		warehouses:  make(map[string]*entity.Warehouse),
		suppliers:   make(map[string]*entity.Supplier),
		lots:        make(map[string]*entity.Lot),
		aggregates:  make(map[aggKey]*entity.StockAggregate),
		movements:   make(map[aggKey][]*entity.StockMovement),
		movByID:     make(map[string]*entity.StockMovement),
		locks:       make(map[aggKey]chan struct{}),
	}
}

// tx estado de una transacción en curso.
type tx struct {
	held       map[aggKey]chan struct{}
	aggregates map[aggKey]*entity.StockAggregate
	movements  []*entity.StockMovement
	movByID    map[string]*entity.StockMovement
}

// Run ejecuta fn en una transacción. Si fn falla o el contexto se cancela, nada se publica.
func (s *Store) Run(ctx context.Context, fn func(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	finder repository.EntityFinder,
) error) error {
	t := &tx{
		held:       make(map[aggKey]chan struct{}),
		aggregates: make(map[aggKey]*entity.StockAggregate),
		movByID:    make(map[string]*entity.StockMovement),
	}
	defer s.release(t)

	if err := fn(ctx, &MovementRepo{s: s, tx: t}, &StockRepo{s: s, tx: t}, &Finder{s: s}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.commit(t)
	return nil
}

func (s *Store) commit(t *tx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range t.movements {
		key := aggKey{m.EnterpriseID, m.ProductID}
		s.movements[key] = append(s.movements[key], m)
		s.movByID[m.ID] = m
	}
	for key, agg := range t.aggregates {
		cp := *agg
		s.aggregates[key] = &cp
	}
}

// lock toma el candado del producto para la transacción; es reentrante dentro de la misma tx.
func (s *Store) lock(ctx context.Context, t *tx, key aggKey) error {
	if _, ok := t.held[key]; ok {
		return nil
	}
	s.locksMu.Lock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	s.locksMu.Unlock()

	select {
	case ch <- struct{}{}:
		t.held[key] = ch
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release(t *tx) {
	for key, ch := range t.held {
		<-ch
		delete(t.held, key)
	}
}

// Movements repositorio de movimientos fuera de transacción (lecturas confirmadas).
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Stock repositorio de agregados fuera de transacción.
func (s *Store) Stock() *StockRepo { return &StockRepo{s: s} }

// Finder búsqueda de entidades activas.
func (s *Store) Finder() *Finder { return &Finder{s: s} }
