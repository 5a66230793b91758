package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/receivables-api/internal/domain/entity"
	"github.com/jhoicas/receivables-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo carrito sobre la columna invoices.in_cart; el total se suma en cada lectura.
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador del carrito (pool o tx).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// GetCartItemsByCompany notas en el carrito ordenadas por número.
func (r *CartRepo) GetCartItemsByCompany(ctx context.Context, companyID string) ([]*entity.Invoice, error) {
	return listInvoices(ctx, r.q,
		`SELECT `+invoiceColumns+` FROM invoices WHERE company_id = $1 AND in_cart ORDER BY number COLLATE "C"`, companyID)
}

// GetCartTotal suma de amount de las notas en el carrito.
func (r *CartRepo) GetCartTotal(ctx context.Context, companyID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM invoices WHERE company_id = $1 AND in_cart`, companyID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cart total: %w", err)
	}
	return total, nil
}

// GetInvoiceByID obtiene la nota (esté o no en el carrito).
func (r *CartRepo) GetInvoiceByID(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	return getInvoice(ctx, r.q, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, invoiceID)
}

// AddToCart marca la nota como incluida en el carrito; si ya lo estaba devuelve domain.ErrInvalidState.
func (r *CartRepo) AddToCart(ctx context.Context, invoiceID string) error {
	return r.setInCart(ctx, invoiceID, true)
}

// RemoveFromCart quita la marca de carrito; si no estaba devuelve domain.ErrInvalidState.
func (r *CartRepo) RemoveFromCart(ctx context.Context, invoiceID string) error {
	return r.setInCart(ctx, invoiceID, false)
}

func (r *CartRepo) setInCart(ctx context.Context, invoiceID string, inCart bool) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE invoices SET in_cart = $2, updated_at = now() WHERE id = $1 AND in_cart <> $2`, invoiceID, inCart)
	if err != nil {
		return fmt.Errorf("update cart flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return noRowsUpdated(ctx, r.q, invoiceID)
	}
	return nil
}
