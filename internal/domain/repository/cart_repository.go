package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/receivables-api/internal/domain/entity"
)

// CartRepository puerto del carrito: el carrito no se persiste aparte, es el conjunto
// de notas con in_cart = true de la empresa.
type CartRepository interface {
	// GetCartItemsByCompany notas en el carrito ordenadas por número.
	GetCartItemsByCompany(ctx context.Context, companyID string) ([]*entity.Invoice, error)
	// GetCartTotal suma de los valores en el carrito; cero si está vacío.
	GetCartTotal(ctx context.Context, companyID string) (decimal.Decimal, error)
	GetInvoiceByID(ctx context.Context, invoiceID string) (*entity.Invoice, error)
	AddToCart(ctx context.Context, invoiceID string) error
	RemoveFromCart(ctx context.Context, invoiceID string) error
}
