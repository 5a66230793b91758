// Package memory implementa los puertos de persistencia en memoria. Se usa con
// APP_STORAGE=memory para levantar la API sin PostgreSQL y como doble en los tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/receivables-api/internal/application/cart"
	"github.com/jhoicas/receivables-api/internal/application/usecase"
	"github.com/jhoicas/receivables-api/internal/domain"
	"github.com/jhoicas/receivables-api/internal/domain/entity"
	"github.com/jhoicas/receivables-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
	_ repository.InvoiceRepository = (*InvoiceRepo)(nil)
	_ repository.CartRepository    = (*CartRepo)(nil)
	_ cart.CartTxRunner            = (*Store)(nil)
	_ usecase.InvoiceTxRunner      = (*Store)(nil)
)

// Store datos compartidos por los repositorios en memoria.
type Store struct {
	mu        sync.RWMutex
	txMu      sync.Mutex
	companies map[string]entity.Company
	invoices  map[string]entity.Invoice

	companyRepo *CompanyRepo
	invoiceRepo *InvoiceRepo
	cartRepo    *CartRepo
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	s := &Store{
		companies: make(map[string]entity.Company),
		invoices:  make(map[string]entity.Invoice),
	}
	s.companyRepo = &CompanyRepo{s: s}
	s.invoiceRepo = &InvoiceRepo{s: s}
	s.cartRepo = &CartRepo{s: s}
	return s
}

// Companies repositorio de empresas.
func (s *Store) Companies() *CompanyRepo { return s.companyRepo }

// Invoices repositorio de notas fiscales.
func (s *Store) Invoices() *InvoiceRepo { return s.invoiceRepo }

// Cart repositorio del carrito.
func (s *Store) Cart() *CartRepo { return s.cartRepo }

// RunCart serializa las operaciones de carrito con un candado global, equivalente al
// bloqueo de fila de la empresa en PostgreSQL. No hay rollback: fn escribe al final.
func (s *Store) RunCart(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	cartRepo repository.CartRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s.companyRepo, s.cartRepo)
}

// RunInvoice toma el mismo candado que RunCart.
func (s *Store) RunInvoice(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s.companyRepo, s.invoiceRepo)
}

func sortByNumber(list []*entity.Invoice) {
	slices.SortFunc(list, func(a, b *entity.Invoice) int { return strings.Compare(a.Number, b.Number) })
}

// ─────────────────────────────────────────────────────────────────────────────
// Empresas
// ─────────────────────────────────────────────────────────────────────────────

// CompanyRepo empresas en memoria. Los campos *Fn reemplazan el comportamiento por defecto.
type CompanyRepo struct {
	s *Store

	CreateFn    func(ctx context.Context, c *entity.Company) error
	GetByIDFn   func(ctx context.Context, id string) (*entity.Company, error)
	GetByCNPJFn func(ctx context.Context, cnpj string) (*entity.Company, error)
}

func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	if r.CreateFn != nil {
		return r.CreateFn(ctx, c)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.companies {
		if existing.CNPJ == c.CNPJ {
			return domain.ErrDuplicate
		}
	}
	r.s.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	if r.GetByIDFn != nil {
		return r.GetByIDFn(ctx, id)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CompanyRepo) GetByCNPJ(ctx context.Context, cnpj string) (*entity.Company, error) {
	if r.GetByCNPJFn != nil {
		return r.GetByCNPJFn(ctx, cnpj)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.companies {
		if c.CNPJ == cnpj {
			return &c, nil
		}
	}
	return nil, nil
}

// GetByIDForUpdate igual que GetByID; la exclusión la da RunCart.
func (r *CompanyRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Company, error) {
	return r.GetByID(ctx, id)
}

func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*entity.Company, 0, len(r.s.companies))
	for _, c := range r.s.companies {
		all = append(all, &c)
	}
	slices.SortFunc(all, func(a, b *entity.Company) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if offset >= len(all) {
		return []*entity.Company{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Notas fiscales
// ─────────────────────────────────────────────────────────────────────────────

// InvoiceRepo notas fiscales en memoria.
type InvoiceRepo struct {
	s *Store

	CreateFn  func(ctx context.Context, i *entity.Invoice) error
	UpdateFn  func(ctx context.Context, i *entity.Invoice) error
	GetByIDFn func(ctx context.Context, id string) (*entity.Invoice, error)
}

func (r *InvoiceRepo) Create(ctx context.Context, i *entity.Invoice) error {
	if r.CreateFn != nil {
		return r.CreateFn(ctx, i)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.numberTaken(i.CompanyID, i.Number, i.ID) {
		return domain.ErrDuplicate
	}
	r.s.invoices[i.ID] = *i
	return nil
}

func (r *InvoiceRepo) Update(ctx context.Context, i *entity.Invoice) error {
	if r.UpdateFn != nil {
		return r.UpdateFn(ctx, i)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.invoices[i.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.InCart {
		return domain.ErrInvalidState
	}
	if r.s.numberTaken(i.CompanyID, i.Number, i.ID) {
		return domain.ErrDuplicate
	}
	updated := *i
	updated.InCart = stored.InCart
	r.s.invoices[i.ID] = updated
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	if r.GetByIDFn != nil {
		return r.GetByIDFn(ctx, id)
	}
	return r.s.invoice(id), nil
}

func (r *InvoiceRepo) GetByNumberAndCompany(ctx context.Context, number, companyID string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, i := range r.s.invoices {
		if i.CompanyID == companyID && i.Number == number {
			return &i, nil
		}
	}
	return nil, nil
}

func (r *InvoiceRepo) GetInCartByCompany(ctx context.Context, companyID string) ([]*entity.Invoice, error) {
	return r.s.filter(companyID, true), nil
}

func (r *InvoiceRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Invoice, error) {
	return r.s.filter(companyID, false), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Carrito
// ─────────────────────────────────────────────────────────────────────────────

// CartRepo vista de carrito sobre las notas en memoria. AddToCartFn corre antes de la
// escritura; si devuelve error la nota no entra al carrito.
type CartRepo struct {
	s *Store

	AddToCartFn func(ctx context.Context, invoiceID string) error
}

func (r *CartRepo) GetCartItemsByCompany(ctx context.Context, companyID string) ([]*entity.Invoice, error) {
	return r.s.filter(companyID, true), nil
}

func (r *CartRepo) GetCartTotal(ctx context.Context, companyID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, i := range r.s.filter(companyID, true) {
		total = total.Add(i.Amount)
	}
	return total, nil
}

func (r *CartRepo) GetInvoiceByID(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	return r.s.invoice(invoiceID), nil
}

func (r *CartRepo) AddToCart(ctx context.Context, invoiceID string) error {
	if r.AddToCartFn != nil {
		if err := r.AddToCartFn(ctx, invoiceID); err != nil {
			return err
		}
	}
	return r.s.setInCart(invoiceID, true)
}

func (r *CartRepo) RemoveFromCart(ctx context.Context, invoiceID string) error {
	return r.s.setInCart(invoiceID, false)
}

func (s *Store) invoice(id string) *entity.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.invoices[id]
	if !ok {
		return nil
	}
	return &i
}

func (s *Store) filter(companyID string, onlyInCart bool) []*entity.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Invoice, 0)
	for _, i := range s.invoices {
		if i.CompanyID != companyID || (onlyInCart && !i.InCart) {
			continue
		}
		out = append(out, &i)
	}
	sortByNumber(out)
	return out
}

func (s *Store) setInCart(id string, inCart bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	if i.InCart == inCart {
		return domain.ErrInvalidState
	}
	i.InCart = inCart
	s.invoices[id] = i
	return nil
}

// numberTaken requiere s.mu tomado.
func (s *Store) numberTaken(companyID, number, exceptID string) bool {
	for _, i := range s.invoices {
		if i.CompanyID == companyID && i.Number == number && i.ID != exceptID {
			return true
		}
	}
	return false
}
