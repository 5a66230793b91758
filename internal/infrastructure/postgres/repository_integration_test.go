//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/receivables-api/internal/application/cart"
	"github.com/jhoicas/receivables-api/internal/application/checkout"
	"github.com/jhoicas/receivables-api/internal/domain"
	"github.com/jhoicas/receivables-api/internal/domain/anticipation"
	"github.com/jhoicas/receivables-api/internal/domain/credit"
	"github.com/jhoicas/receivables-api/internal/domain/entity"
	"github.com/jhoicas/receivables-api/internal/infrastructure/postgres"
	"github.com/jhoicas/receivables-api/pkg/config"
)

// newTestPool levanta PostgreSQL en un contenedor, aplica las migraciones y devuelve el pool.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("receivables_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "no se pudo iniciar el contenedor PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	mg, err := postgres.NewMigrator(dsn, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, mg.Up())
	require.NoError(t, mg.Close())

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestRepositories_Postgres(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	companies := postgres.NewCompanyRepository(pool)
	invoices := postgres.NewInvoiceRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)

	company := entity.NewCompany("11222333000181", "ACME", decimal.RequireFromString("50001"), entity.SegmentServices, credit.Calculate)
	require.NoError(t, companies.Create(ctx, company))

	got, err := companies.GetByCNPJ(ctx, "11222333000181")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.CreditLimit.Equal(decimal.RequireFromString("27500.55")))
	assert.Equal(t, entity.SegmentServices, got.Segment)

	dup := entity.NewCompany("11222333000181", "Otra", decimal.NewFromInt(20000), entity.SegmentProducts, credit.Calculate)
	assert.True(t, errors.Is(companies.Create(ctx, dup), domain.ErrDuplicate))

	missing, err := companies.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)

	due := time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC)
	inv := entity.NewInvoice(company.ID, "NF-2", decimal.RequireFromString("1500.50"), due)
	require.NoError(t, invoices.Create(ctx, inv))
	require.NoError(t, invoices.Create(ctx, entity.NewInvoice(company.ID, "NF-1", decimal.NewFromInt(10), due)))
	assert.True(t, errors.Is(invoices.Create(ctx, entity.NewInvoice(company.ID, "NF-2", decimal.NewFromInt(1), due)), domain.ErrDuplicate))

	list, err := invoices.ListByCompany(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "NF-1", list[0].Number)
	assert.True(t, list[1].DueDate.Equal(due))

	total, err := cartRepo.GetCartTotal(ctx, company.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	require.NoError(t, cartRepo.AddToCart(ctx, inv.ID))
	assert.True(t, errors.Is(cartRepo.AddToCart(ctx, inv.ID), domain.ErrInvalidState), "ya en el carrito")

	edited := *inv
	edited.Amount = decimal.NewFromInt(99999)
	assert.True(t, errors.Is(invoices.Update(ctx, &edited), domain.ErrInvalidState), "no se edita una nota en el carrito")

	total, err = cartRepo.GetCartTotal(ctx, company.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("1500.50")))

	inCart, err := invoices.GetInCartByCompany(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, inCart, 1)
	assert.True(t, inCart[0].InCart)

	require.NoError(t, cartRepo.RemoveFromCart(ctx, inv.ID))
	assert.True(t, errors.Is(cartRepo.RemoveFromCart(ctx, inv.ID), domain.ErrInvalidState), "ya fuera del carrito")
	assert.True(t, errors.Is(cartRepo.AddToCart(ctx, "00000000-0000-0000-0000-000000000000"), domain.ErrNotFound))
}

func TestInvoices_OrdenPorBytes(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	companies := postgres.NewCompanyRepository(pool)
	invoices := postgres.NewInvoiceRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)

	company := entity.NewCompany("04252011000110", "ACME", decimal.NewFromInt(100000), entity.SegmentProducts, credit.Calculate)
	require.NoError(t, companies.Create(ctx, company))
	due := time.Now().AddDate(0, 1, 0)
	for _, n := range []string{"inv-2", "INV-10", "Inv-3", "INV-1"} {
		inv := entity.NewInvoice(company.ID, n, decimal.NewFromInt(10), due)
		require.NoError(t, invoices.Create(ctx, inv))
		require.NoError(t, cartRepo.AddToCart(ctx, inv.ID))
	}
	want := []string{"INV-1", "INV-10", "Inv-3", "inv-2"}

	list, err := invoices.ListByCompany(ctx, company.ID)
	require.NoError(t, err)
	items, err := cartRepo.GetCartItemsByCompany(ctx, company.ID)
	require.NoError(t, err)
	for i := range want {
		assert.Equal(t, want[i], list[i].Number)
		assert.Equal(t, want[i], items[i].Number)
	}
}

func TestCartService_AdmisionesConcurrentes(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	companies := postgres.NewCompanyRepository(pool)
	invoices := postgres.NewInvoiceRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)

	company := entity.NewCompany("11444777000161", "ACME", decimal.NewFromInt(10000), entity.SegmentServices, credit.Calculate) // límite 5000
	require.NoError(t, companies.Create(ctx, company))

	ids := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		inv := entity.NewInvoice(company.ID, fmt.Sprintf("NF-%02d", i), decimal.NewFromInt(1000), time.Now().AddDate(0, 1, 0))
		require.NoError(t, invoices.Create(ctx, inv))
		ids = append(ids, inv.ID)
	}

	co := checkout.NewService(companies, invoices, cartRepo, anticipation.NewCalculator(anticipation.DefaultMonthlyRate))
	svc := cart.NewService(companies, cartRepo, postgres.NewTxRunner(pool), co)

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _ = svc.AddInvoiceToCart(ctx, company.ID, id)
		}(id)
	}
	wg.Wait()

	total, err := cartRepo.GetCartTotal(ctx, company.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(5000)), "el total nunca supera el límite; obtenido %s", total)
}
