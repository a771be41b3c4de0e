package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/shop-manager-api/infrastructure/repository"
	"github.com/vfg2006/shop-manager-api/internal/domain"
)

// state mantém as tabelas em memória; em uma transação trabalhamos sobre uma cópia
type state struct {
	products  map[int64]*domain.Product
	leads     map[int64]*domain.Lead
	sales     map[int64]*domain.SaleTransaction
	movements []*domain.InventoryMovement

	productSeq  int64
	leadSeq     int64
	saleSeq     int64
	itemSeq     int64
	movementSeq int64
}

func newState() *state {
	return &state{
		products: make(map[int64]*domain.Product),
		leads:    make(map[int64]*domain.Lead),
		sales:    make(map[int64]*domain.SaleTransaction),
	}
}

func (s *state) clone() *state {
	c := &state{
		products:    make(map[int64]*domain.Product, len(s.products)),
		leads:       make(map[int64]*domain.Lead, len(s.leads)),
		sales:       make(map[int64]*domain.SaleTransaction, len(s.sales)),
		movements:   make([]*domain.InventoryMovement, 0, len(s.movements)),
		productSeq:  s.productSeq,
		leadSeq:     s.leadSeq,
		saleSeq:     s.saleSeq,
		itemSeq:     s.itemSeq,
		movementSeq: s.movementSeq,
	}
	for id, p := range s.products {
		c.products[id] = copyProduct(p)
	}
	for id, l := range s.leads {
		c.leads[id] = copyLead(l)
	}
	for id, sale := range s.sales {
		c.sales[id] = copySale(sale)
	}
	for _, m := range s.movements {
		c.movements = append(c.movements, copyMovement(m))
	}
	return c
}

// Store é uma implementação de repository.Store em memória, usada nos testes e na suíte de aceitação
type Store struct {
	mu       sync.Mutex
	state    *state
	now      func() time.Time
	failures map[string]error
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		state:    newState(),
		now:      time.Now,
		failures: make(map[string]error),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FailOn faz a operação informada (ex.: "movements.create") retornar err até ser limpa com FailOn(op, nil)
func (s *Store) FailOn(operation string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, operation)
		return
	}
	s.failures[operation] = err
}

func (s *Store) Repositories() *repository.Repositories {
	return newRepositories(session{store: s})
}

func (s *Store) RunInTransaction(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.state.clone()
	if err := fn(newRepositories(session{store: s, tx: work})); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.state = work
	return nil
}

// session decide se a operação roda sobre a cópia da transação ou sobre o estado com lock próprio
type session struct {
	store *Store
	tx    *state
}

func (x session) run(operation string, fn func(st *state) error) error {
	if x.tx != nil {
		if err := x.store.failures[operation]; err != nil {
			return err
		}
		return fn(x.tx)
	}

	x.store.mu.Lock()
	defer x.store.mu.Unlock()
	if err := x.store.failures[operation]; err != nil {
		return err
	}
	return fn(x.store.state)
}

func newRepositories(x session) *repository.Repositories {
	return &repository.Repositories{
		Products:  &productRepository{session: x},
		Leads:     &leadRepository{session: x},
		Sales:     &saleRepository{session: x},
		Movements: &movementRepository{session: x},
	}
}

// Snapshot helpers usados pelos testes para inspecionar o estado confirmado

func (s *Store) Product(id int64) *domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.state.products[id]
	if !ok {
		return nil
	}
	return copyProduct(p)
}

func (s *Store) Lead(id int64) *domain.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.state.leads[id]
	if !ok {
		return nil
	}
	return copyLead(l)
}

func (s *Store) CountSales() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.sales)
}

func (s *Store) CountLeads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.leads)
}

func (s *Store) Movements() []*domain.InventoryMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.InventoryMovement, 0, len(s.state.movements))
	for _, m := range s.state.movements {
		out = append(out, copyMovement(m))
	}
	return out
}

// SeedSale grava uma venda histórica preservando SoldAt, sem mexer no estoque
func (s *Store) SeedSale(sale *domain.SaleTransaction) *domain.SaleTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertSale(s.state, sale, s.now())
}

func copyProduct(p *domain.Product) *domain.Product {
	c := *p
	return &c
}

func copyLead(l *domain.Lead) *domain.Lead {
	c := *l
	return &c
}

func copyMovement(m *domain.InventoryMovement) *domain.InventoryMovement {
	c := *m
	return &c
}

func copySale(s *domain.SaleTransaction) *domain.SaleTransaction {
	c := *s
	c.Items = make([]*domain.SaleLineItem, 0, len(s.Items))
	for _, item := range s.Items {
		i := *item
		c.Items = append(c.Items, &i)
	}
	return &c
}
