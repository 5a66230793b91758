// Package storage elige la implementación de persistencia según APP_STORAGE.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/receivables-api/internal/application/cart"
	"github.com/jhoicas/receivables-api/internal/application/usecase"
	"github.com/jhoicas/receivables-api/internal/domain/repository"
	"github.com/jhoicas/receivables-api/internal/infrastructure/memory"
	"github.com/jhoicas/receivables-api/internal/infrastructure/postgres"
	"github.com/jhoicas/receivables-api/pkg/config"
)

const (
	KindPostgres = "postgres"
	KindMemory   = "memory"
)

// Repositories repositorios y runner transaccional listos para inyectar.
type Repositories struct {
	Companies repository.CompanyRepository
	Invoices  repository.InvoiceRepository
	Cart      repository.CartRepository
	Tx        cart.CartTxRunner
	InvoiceTx usecase.InvoiceTxRunner
	close     func()
}

// Close libera el pool (no-op en memoria).
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// Open construye los repositorios. Con postgres abre el pool y, si cfg.DB.AutoMigrate,
// aplica las migraciones embebidas antes de devolver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Repositories, error) {
	switch cfg.App.Storage {
	case KindMemory:
		store := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &Repositories{
			Companies: store.Companies(),
			Invoices:  store.Invoices(),
			Cart:      store.Cart(),
			Tx:        store,
			InvoiceTx: store,
		}, nil
	case KindPostgres, "":
		if cfg.DB.AutoMigrate {
			if err := migrateUp(cfg.DB.ConnectionString(), log); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		tx := postgres.NewTxRunner(pool)
		return &Repositories{
			Companies: postgres.NewCompanyRepository(pool),
			Invoices:  postgres.NewInvoiceRepository(pool),
			Cart:      postgres.NewCartRepository(pool),
			Tx:        tx,
			InvoiceTx: tx,
			close:     pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("APP_STORAGE desconocido: %q", cfg.App.Storage)
	}
}

func migrateUp(databaseURL string, log zerolog.Logger) error {
	m, err := postgres.NewMigrator(databaseURL, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}()
	return m.Up()
}
