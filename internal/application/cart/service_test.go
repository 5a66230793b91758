package cart_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/receivables-api/internal/application/cart"
	"github.com/jhoicas/receivables-api/internal/application/checkout"
	"github.com/jhoicas/receivables-api/internal/application/dto"
	"github.com/jhoicas/receivables-api/internal/application/usecase"
	"github.com/jhoicas/receivables-api/internal/domain"
	"github.com/jhoicas/receivables-api/internal/domain/anticipation"
	"github.com/jhoicas/receivables-api/internal/domain/credit"
	"github.com/jhoicas/receivables-api/internal/domain/entity"
	"github.com/jhoicas/receivables-api/internal/infrastructure/memory"
)

type fixture struct {
	store   *memory.Store
	svc     *cart.Service
	company *entity.Company
}

// newFixture crea una empresa Services con faturamento 50000 (límite 25000).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	company := entity.NewCompany("11222333000181", "ACME", decimal.NewFromInt(50000), entity.SegmentServices, credit.Calculate)
	require.NoError(t, store.Companies().Create(context.Background(), company))

	co := checkout.NewService(store.Companies(), store.Invoices(), store.Cart(),
		anticipation.NewCalculator(anticipation.DefaultMonthlyRate))
	svc := cart.NewService(store.Companies(), store.Cart(), store, co)
	return &fixture{store: store, svc: svc, company: company}
}

func (f *fixture) invoice(t *testing.T, companyID, number string, amount int64) *entity.Invoice {
	t.Helper()
	inv := entity.NewInvoice(companyID, number, decimal.NewFromInt(amount), time.Now().AddDate(0, 0, 30))
	require.NoError(t, f.store.Invoices().Create(context.Background(), inv))
	return inv
}

// ─────────────────────────────────────────────────────────────────────────────
// Agregar al carrito
// ─────────────────────────────────────────────────────────────────────────────

func TestAddInvoiceToCart_RespetaLimite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.invoice(t, f.company.ID, "INV001", 10000)
	second := f.invoice(t, f.company.ID, "INV002", 20000)

	out, err := f.svc.AddInvoiceToCart(ctx, f.company.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalItems)
	assert.True(t, out.TotalGross.Equal(decimal.NewFromInt(10000)))
	assert.True(t, out.AvailableCredit.Equal(decimal.NewFromInt(15000)))

	_, err = f.svc.AddInvoiceToCart(ctx, f.company.ID, second.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCreditLimitExceeded))
	assert.Contains(t, err.Error(), "R$ 30.000,00", "el mensaje incluye el nuevo total")
	assert.Contains(t, err.Error(), "R$ 25.000,00", "el mensaje incluye el límite")

	cur, err := f.svc.GetCart(ctx, f.company.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cur.TotalItems, "el carrito no cambia tras el rechazo")
}

func TestAddInvoiceToCart_HastaElLimiteExacto(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice(t, f.company.ID, "INV001", 25000)

	out, err := f.svc.AddInvoiceToCart(context.Background(), f.company.ID, inv.ID)
	require.NoError(t, err)
	assert.True(t, out.AvailableCredit.IsZero())
}

func TestAddInvoiceToCart_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := entity.NewCompany("11444777000161", "Otra", decimal.NewFromInt(50000), entity.SegmentProducts, credit.Calculate)
	require.NoError(t, f.store.Companies().Create(ctx, other))
	foreign := f.invoice(t, other.ID, "EXT-1", 100)
	own := f.invoice(t, f.company.ID, "INV001", 100)

	_, err := f.svc.AddInvoiceToCart(ctx, "no-existe", own.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "empresa inexistente")

	_, err = f.svc.AddInvoiceToCart(ctx, f.company.ID, "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound), "nota inexistente")

	_, err = f.svc.AddInvoiceToCart(ctx, f.company.ID, foreign.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidState), "nota de otra empresa")

	_, err = f.svc.AddInvoiceToCart(ctx, f.company.ID, own.ID)
	require.NoError(t, err)
	_, err = f.svc.AddInvoiceToCart(ctx, f.company.ID, own.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidState), "ya en el carrito")
}

func TestAddInvoiceToCart_ErrorAlPersistirNoDejaRastro(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice(t, f.company.ID, "INV001", 100)
	f.store.Cart().AddToCartFn = func(ctx context.Context, invoiceID string) error {
		return fmt.Errorf("conexión perdida")
	}

	_, err := f.svc.AddInvoiceToCart(context.Background(), f.company.ID, inv.ID)
	require.Error(t, err)

	f.store.Cart().AddToCartFn = nil
	out, err := f.svc.GetCart(context.Background(), f.company.ID)
	require.NoError(t, err)
	assert.Zero(t, out.TotalItems)
}

func TestAddInvoiceToCart_ConcurrenteNoSuperaLimite(t *testing.T) {
	f := newFixture(t)
	ids := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		ids = append(ids, f.invoice(t, f.company.ID, fmt.Sprintf("INV%03d", i), 2000).ID)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var ok, rejected int
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.svc.AddInvoiceToCart(context.Background(), f.company.ID, id)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrCreditLimitExceeded) {
				rejected++
			}
		}(id)
	}
	wg.Wait()

	out, err := f.svc.GetCart(context.Background(), f.company.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, ok, "caben 12 notas de 2000 en 25000")
	assert.Equal(t, 8, rejected)
	assert.True(t, out.TotalGross.LessThanOrEqual(f.company.CreditLimit))
}

// ─────────────────────────────────────────────────────────────────────────────
// Quitar y consultar
// ─────────────────────────────────────────────────────────────────────────────

func TestRemoveInvoiceFromCart_NoEstaEnCarrito(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.invoice(t, f.company.ID, "INV001", 1000)
	out := f.invoice(t, f.company.ID, "INV002", 1000)
	_, err := f.svc.AddInvoiceToCart(ctx, f.company.ID, in.ID)
	require.NoError(t, err)

	_, err = f.svc.RemoveInvoiceFromCart(ctx, f.company.ID, out.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))

	cur, err := f.svc.GetCart(ctx, f.company.ID)
	require.NoError(t, err)
	require.Len(t, cur.Invoices, 1)
	assert.Equal(t, "INV001", cur.Invoices[0].Number)
}

func TestRemoveInvoiceFromCart_LiberaCredito(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.invoice(t, f.company.ID, "INV001", 1000)
	_, err := f.svc.AddInvoiceToCart(ctx, f.company.ID, inv.ID)
	require.NoError(t, err)

	out, err := f.svc.RemoveInvoiceFromCart(ctx, f.company.ID, inv.ID)
	require.NoError(t, err)
	assert.Zero(t, out.TotalItems)
	assert.True(t, out.AvailableCredit.Equal(f.company.CreditLimit))
}

func TestGetCart_VacioEIdempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.GetCart(ctx, f.company.ID)
	require.NoError(t, err)
	assert.Zero(t, first.TotalItems)
	assert.True(t, first.TotalGross.IsZero())
	assert.Equal(t, "ACME", first.CompanyName)

	second, err := f.svc.GetCart(ctx, f.company.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = f.svc.GetCart(ctx, "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetCart_OrdenadoPorNumero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, n := range []string{"INV003", "INV001", "INV002"} {
		inv := f.invoice(t, f.company.ID, n, 100)
		_, err := f.svc.AddInvoiceToCart(ctx, f.company.ID, inv.ID)
		require.NoError(t, err)
	}

	out, err := f.svc.GetCart(ctx, f.company.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV001", out.Invoices[0].Number)
	assert.Equal(t, "INV003", out.Invoices[2].Number)
	assert.True(t, out.TotalGross.Equal(decimal.NewFromInt(300)))
}

func TestGetCartCheckout_Delegacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetCartCheckout(ctx, "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.svc.GetCartCheckout(ctx, f.company.ID)
	assert.True(t, errors.Is(err, domain.ErrEmptyCart))

	inv := f.invoice(t, f.company.ID, "INV001", 1000)
	_, err = f.svc.AddInvoiceToCart(ctx, f.company.ID, inv.ID)
	require.NoError(t, err)

	out, err := f.svc.GetCartCheckout(ctx, f.company.ID)
	require.NoError(t, err)
	require.Len(t, out.Invoices, 1)
	assert.True(t, out.TotalGross.Equal(decimal.NewFromInt(1000)))
	assert.True(t, out.TotalNet.LessThan(out.TotalGross))
}

// ─────────────────────────────────────────────────────────────────────────────
// Edición concurrente de notas
// ─────────────────────────────────────────────────────────────────────────────

func editRequest(inv *entity.Invoice, amount int64) dto.UpdateInvoiceRequest {
	return dto.UpdateInvoiceRequest{
		Number:  inv.Number,
		Amount:  decimal.NewFromInt(amount),
		DueDate: time.Now().UTC().AddDate(0, 0, 20).Format(dto.DateLayout),
	}
}

// Una edición lanzada entre el chequeo de límite y la escritura del carrito espera al
// bloqueo y luego ve la nota ya incluida.
func TestEdicionDuranteAlta_NoCambiaElValorAdmitido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := usecase.NewInvoiceUseCase(f.store.Invoices(), f.store.Companies(), f.store)
	inv := f.invoice(t, f.company.ID, "INV001", 1000)

	editErr := make(chan error, 1)
	var once sync.Once
	f.store.Cart().AddToCartFn = func(ctx context.Context, invoiceID string) error {
		once.Do(func() {
			go func() {
				_, err := uc.Update(context.Background(), inv.ID, editRequest(inv, 30000))
				editErr <- err
			}()
			time.Sleep(20 * time.Millisecond)
		})
		return nil
	}

	_, err := f.svc.AddInvoiceToCart(ctx, f.company.ID, inv.ID)
	require.NoError(t, err)

	err = <-editErr
	assert.True(t, errors.Is(err, domain.ErrInvalidState), "la edición llega con la nota ya en el carrito: %v", err)

	out, err := f.svc.GetCart(ctx, f.company.ID)
	require.NoError(t, err)
	assert.True(t, out.TotalGross.Equal(decimal.NewFromInt(1000)), "total %s", out.TotalGross)
	assert.True(t, out.TotalGross.LessThanOrEqual(out.CreditLimit))
}

// Un alta lanzada en medio de una edición espera al bloqueo y valida el límite con el
// valor nuevo; la edición no deshace un alta confirmada.
func TestAltaDuranteEdicion_ValidaElValorNuevo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := usecase.NewInvoiceUseCase(f.store.Invoices(), f.store.Companies(), f.store)
	inv := f.invoice(t, f.company.ID, "INV001", 1000)

	addErr := make(chan error, 1)
	var once sync.Once
	f.store.Invoices().GetByIDFn = func(ctx context.Context, id string) (*entity.Invoice, error) {
		once.Do(func() {
			go func() {
				_, err := f.svc.AddInvoiceToCart(context.Background(), f.company.ID, inv.ID)
				addErr <- err
			}()
			time.Sleep(20 * time.Millisecond)
		})
		return f.store.Cart().GetInvoiceByID(ctx, id)
	}

	out, err := uc.Update(ctx, inv.ID, editRequest(inv, 30000))
	require.NoError(t, err)
	assert.False(t, out.InCart)

	err = <-addErr
	assert.True(t, errors.Is(err, domain.ErrCreditLimitExceeded), "el alta ve el valor editado: %v", err)

	f.store.Invoices().GetByIDFn = nil
	cur, err := f.svc.GetCart(ctx, f.company.ID)
	require.NoError(t, err)
	assert.Zero(t, cur.TotalItems)
	got, err := f.store.Invoices().GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(30000)))
}

func TestEdicionYAltasConcurrentes_NoSuperanLimite(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewInvoiceUseCase(f.store.Invoices(), f.store.Companies(), f.store)
	invoices := make([]*entity.Invoice, 0, 10)
	for i := 0; i < 10; i++ {
		invoices = append(invoices, f.invoice(t, f.company.ID, fmt.Sprintf("INV%03d", i), 1000))
	}

	var wg sync.WaitGroup
	for _, inv := range invoices {
		wg.Add(2)
		go func(inv *entity.Invoice) {
			defer wg.Done()
			_, _ = f.svc.AddInvoiceToCart(context.Background(), f.company.ID, inv.ID)
		}(inv)
		go func(inv *entity.Invoice) {
			defer wg.Done()
			_, _ = uc.Update(context.Background(), inv.ID, editRequest(inv, 5000))
		}(inv)
	}
	wg.Wait()

	out, err := f.svc.GetCart(context.Background(), f.company.ID)
	require.NoError(t, err)
	assert.True(t, out.TotalGross.LessThanOrEqual(out.CreditLimit), "total %s límite %s", out.TotalGross, out.CreditLimit)
}
