package repository

import (
	"context"
	"database/sql"

	"github.com/vfg2006/shop-manager-api/infrastructure/database/postgres"
)

// Repositories agrupa os repositórios que participam de uma mesma unidade de trabalho
type Repositories struct {
	Products  ProductRepository
	Leads     LeadRepository
	Sales     SaleRepository
	Movements InventoryMovementRepository
}

type Store interface {
	Repositories() *Repositories
	// RunInTransaction executa fn de forma atômica; se fn retornar erro nada é gravado
	RunInTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

type postgresStore struct {
	conn  *postgres.Connection
	repos *Repositories
}

func NewStore(conn *postgres.Connection) Store {
	return &postgresStore{
		conn:  conn,
		repos: newRepositories(conn.DB),
	}
}

func (s *postgresStore) Repositories() *Repositories {
	return s.repos
}

func (s *postgresStore) RunInTransaction(ctx context.Context, fn func(repos *Repositories) error) error {
	return s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		return fn(newRepositories(tx))
	})
}

func newRepositories(db postgres.Queryer) *Repositories {
	return &Repositories{
		Products:  NewProductRepository(db),
		Leads:     NewLeadRepository(db),
		Sales:     NewSaleRepository(db),
		Movements: NewInventoryMovementRepository(db),
	}
}
