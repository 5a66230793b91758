package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/receivables-api/internal/application/dto"
	"github.com/jhoicas/receivables-api/internal/application/usecase"
	"github.com/jhoicas/receivables-api/internal/domain"
	"github.com/jhoicas/receivables-api/internal/domain/credit"
	"github.com/jhoicas/receivables-api/internal/domain/entity"
	"github.com/jhoicas/receivables-api/internal/infrastructure/memory"
)

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(dto.DateLayout)
}

func setupInvoices(t *testing.T) (*usecase.InvoiceUseCase, *memory.Store, *entity.Company) {
	t.Helper()
	store := memory.NewStore()
	company := entity.NewCompany(validCNPJ, "ACME", decimal.NewFromInt(20000), entity.SegmentServices, credit.Calculate)
	require.NoError(t, store.Companies().Create(context.Background(), company))
	return usecase.NewInvoiceUseCase(store.Invoices(), store.Companies(), store), store, company
}

func TestInvoiceCreate_FueraDelCarrito(t *testing.T) {
	uc, _, company := setupInvoices(t)
	due := futureDate(30)

	out, err := uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CompanyID: company.ID, Number: "NF-001", Amount: decimal.NewFromInt(1000), DueDate: due,
	})
	require.NoError(t, err)

	assert.False(t, out.InCart)
	assert.Equal(t, due, out.DueDate)
	assert.Equal(t, company.ID, out.CompanyID)
}

func TestInvoiceCreate_EmpresaInexistente(t *testing.T) {
	uc, _, _ := setupInvoices(t)

	_, err := uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CompanyID: "no-existe", Number: "NF-001", Amount: decimal.NewFromInt(1000), DueDate: futureDate(1),
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestInvoiceCreate_NumeroDuplicado(t *testing.T) {
	uc, _, company := setupInvoices(t)
	in := dto.CreateInvoiceRequest{CompanyID: company.ID, Number: "NF-001", Amount: decimal.NewFromInt(1000), DueDate: futureDate(5)}

	_, err := uc.Create(context.Background(), in)
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	assert.Contains(t, err.Error(), "NF-001")
}

func TestInvoiceUpdate_EnCarritoNoSeEdita(t *testing.T) {
	uc, store, company := setupInvoices(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateInvoiceRequest{CompanyID: company.ID, Number: "NF-001", Amount: decimal.NewFromInt(1000), DueDate: futureDate(5)})
	require.NoError(t, err)
	require.NoError(t, store.Cart().AddToCart(ctx, created.ID))

	_, err = uc.Update(ctx, created.ID, dto.UpdateInvoiceRequest{Number: "NF-001", Amount: decimal.NewFromInt(2000), DueDate: futureDate(6)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(1000)), "el valor no cambia")
}

func TestInvoiceUpdate_AplicaCambios(t *testing.T) {
	uc, _, company := setupInvoices(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateInvoiceRequest{CompanyID: company.ID, Number: "NF-001", Amount: decimal.NewFromInt(1000), DueDate: futureDate(5)})
	require.NoError(t, err)

	due := futureDate(40)
	out, err := uc.Update(ctx, created.ID, dto.UpdateInvoiceRequest{Number: "NF-100", Amount: decimal.NewFromInt(2500), DueDate: due})
	require.NoError(t, err)
	assert.Equal(t, "NF-100", out.Number)
	assert.True(t, out.Amount.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, due, out.DueDate)
}

func TestInvoiceUpdate_NumeroDeOtraNota(t *testing.T) {
	uc, _, company := setupInvoices(t)
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateInvoiceRequest{CompanyID: company.ID, Number: "NF-001", Amount: decimal.NewFromInt(1000), DueDate: futureDate(5)})
	require.NoError(t, err)
	second, err := uc.Create(ctx, dto.CreateInvoiceRequest{CompanyID: company.ID, Number: "NF-002", Amount: decimal.NewFromInt(1000), DueDate: futureDate(5)})
	require.NoError(t, err)

	_, err = uc.Update(ctx, second.ID, dto.UpdateInvoiceRequest{Number: "NF-001", Amount: decimal.NewFromInt(1000), DueDate: futureDate(5)})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestInvoiceUpdate_NoEncontrada(t *testing.T) {
	uc, _, _ := setupInvoices(t)

	_, err := uc.Update(context.Background(), "no-existe", dto.UpdateInvoiceRequest{Number: "X", Amount: decimal.NewFromInt(1), DueDate: futureDate(1)})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestInvoiceListByCompany_OrdenPorNumero(t *testing.T) {
	uc, _, company := setupInvoices(t)
	ctx := context.Background()
	for _, n := range []string{"NF-003", "NF-001", "NF-002"} {
		_, err := uc.Create(ctx, dto.CreateInvoiceRequest{CompanyID: company.ID, Number: n, Amount: decimal.NewFromInt(10), DueDate: futureDate(3)})
		require.NoError(t, err)
	}

	out, err := uc.ListByCompany(ctx, company.ID)
	require.NoError(t, err)
	require.Equal(t, 3, out.Total)
	assert.Equal(t, []string{"NF-001", "NF-002", "NF-003"},
		[]string{out.Items[0].Number, out.Items[1].Number, out.Items[2].Number})

	_, err = uc.ListByCompany(ctx, "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestInvoice_ValorFueraDeEscala(t *testing.T) {
	uc, _, company := setupInvoices(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateInvoiceRequest{
		CompanyID: company.ID, Number: "NF-001", Amount: decimal.RequireFromString("0.001"), DueDate: futureDate(5),
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "0.001 se redondearía a cero al guardar")

	created, err := uc.Create(ctx, dto.CreateInvoiceRequest{
		CompanyID: company.ID, Number: "NF-001", Amount: decimal.RequireFromString("10.50"), DueDate: futureDate(5),
	})
	require.NoError(t, err)

	_, err = uc.Update(ctx, created.ID, dto.UpdateInvoiceRequest{
		Number: "NF-001", Amount: decimal.RequireFromString("10.555"), DueDate: futureDate(6),
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
