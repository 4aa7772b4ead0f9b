package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// El Rollback diferido usa un contexto sin cancelación: si el request expira, la tx igual se
// revierte y la conexión vuelve al pool.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(newTxRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txRepos repositorios atados a una misma transacción.
type txRepos struct {
	items      *ItemRepo
	stock      *StockRepo
	movements  *MovementRepo
	sales      *SalesOrderRepo
	production *ProductionOrderRepo
}

func newTxRepos(q Querier) *txRepos {
	return &txRepos{
		items:      NewItemRepository(q),
		stock:      NewStockRepository(q),
		movements:  NewMovementRepository(q),
		sales:      NewSalesOrderRepository(q),
		production: NewProductionOrderRepository(q),
	}
}

func (t *txRepos) Items() repository.ItemRepository                       { return t.items }
func (t *txRepos) Stock() repository.StockRepository                      { return t.stock }
func (t *txRepos) Movements() repository.MovementRepository               { return t.movements }
func (t *txRepos) SalesOrders() repository.SalesOrderRepository           { return t.sales }
func (t *txRepos) ProductionOrders() repository.ProductionOrderRepository { return t.production }
