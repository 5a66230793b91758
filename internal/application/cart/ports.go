package cart

import (
	"context"

	"github.com/jhoicas/receivables-api/internal/application/dto"
	"github.com/jhoicas/receivables-api/internal/domain/repository"
)

// CartTxRunner ejecuta fn en una transacción con repos atados a ella.
// Implementaciones deben serializar las llamadas que bloquean la misma empresa
// con CompanyRepository.GetByIDForUpdate.
type CartTxRunner interface {
	RunCart(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		cartRepo repository.CartRepository,
	) error) error
}

// CheckoutCalculator cotización de anticipación del carrito de una empresa.
type CheckoutCalculator interface {
	CalculateCheckout(ctx context.Context, companyID string) (*dto.CheckoutResponse, error)
}
