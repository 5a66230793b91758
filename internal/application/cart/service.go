// Package cart administra el carrito de anticipación: las notas seleccionadas cuyo
// valor bruto total nunca supera el límite de crédito de la empresa.
package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/receivables-api/internal/application/dto"
	"github.com/jhoicas/receivables-api/internal/domain"
	"github.com/jhoicas/receivables-api/internal/domain/entity"
	"github.com/jhoicas/receivables-api/internal/domain/repository"
	"github.com/jhoicas/receivables-api/pkg/money"
)

// Service casos de uso del carrito.
type Service struct {
	companies repository.CompanyRepository
	cart      repository.CartRepository
	tx        CartTxRunner
	checkout  CheckoutCalculator
}

// NewService construye el servicio. companies y cart se usan para lecturas fuera de transacción.
func NewService(
	companies repository.CompanyRepository,
	cartRepo repository.CartRepository,
	tx CartTxRunner,
	checkout CheckoutCalculator,
) *Service {
	return &Service{companies: companies, cart: cartRepo, tx: tx, checkout: checkout}
}

// AddInvoiceToCart incluye la nota en el carrito si pertenece a la empresa, no está ya
// incluida y el nuevo total no supera el límite de crédito.
func (s *Service) AddInvoiceToCart(ctx context.Context, companyID, invoiceID string) (*dto.CartResponse, error) {
	err := s.tx.RunCart(ctx, func(companyRepo repository.CompanyRepository, cartRepo repository.CartRepository) error {
		company, err := companyRepo.GetByIDForUpdate(ctx, companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return companyNotFound(companyID)
		}
		invoice, err := loadOwnedInvoice(ctx, cartRepo, companyID, invoiceID)
		if err != nil {
			return err
		}
		if invoice.InCart {
			return fmt.Errorf("%w: la nota fiscal %s ya está en el carrito", domain.ErrInvalidState, invoice.Number)
		}

		current, err := cartRepo.GetCartTotal(ctx, companyID)
		if err != nil {
			return err
		}
		newTotal := current.Add(invoice.Amount)
		if newTotal.GreaterThan(company.CreditLimit) {
			return fmt.Errorf("%w: agregar la nota fiscal %s excedería el límite de crédito. "+
				"Valor actual en el carrito: %s, valor de la nota: %s, total: %s, límite: %s",
				domain.ErrCreditLimitExceeded, invoice.Number,
				money.FormatBRL(current), money.FormatBRL(invoice.Amount),
				money.FormatBRL(newTotal), money.FormatBRL(company.CreditLimit))
		}

		invoice.AddToCart()
		return cartRepo.AddToCart(ctx, invoice.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, companyID)
}

// RemoveInvoiceFromCart quita la nota del carrito.
func (s *Service) RemoveInvoiceFromCart(ctx context.Context, companyID, invoiceID string) (*dto.CartResponse, error) {
	err := s.tx.RunCart(ctx, func(companyRepo repository.CompanyRepository, cartRepo repository.CartRepository) error {
		company, err := companyRepo.GetByIDForUpdate(ctx, companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return companyNotFound(companyID)
		}
		invoice, err := loadOwnedInvoice(ctx, cartRepo, companyID, invoiceID)
		if err != nil {
			return err
		}
		if !invoice.InCart {
			return fmt.Errorf("%w: la nota fiscal %s no está en el carrito", domain.ErrInvalidState, invoice.Number)
		}

		invoice.RemoveFromCart()
		return cartRepo.RemoveFromCart(ctx, invoice.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, companyID)
}

// GetCart devuelve las notas del carrito ordenadas por número con sus totales. No modifica estado.
func (s *Service) GetCart(ctx context.Context, companyID string) (*dto.CartResponse, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, companyNotFound(companyID)
	}
	items, err := s.cart.GetCartItemsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	out := &dto.CartResponse{
		CompanyID:   company.ID,
		CompanyName: company.Name,
		Invoices:    make([]dto.CartItemResponse, 0, len(items)),
		TotalGross:  decimal.Zero,
		CreditLimit: company.CreditLimit,
	}
	for _, inv := range items {
		out.Invoices = append(out.Invoices, dto.CartItemResponse{
			ID:      inv.ID,
			Number:  inv.Number,
			Amount:  inv.Amount,
			DueDate: inv.DueDate.Format(dto.DateLayout),
		})
		out.TotalGross = out.TotalGross.Add(inv.Amount)
	}
	out.TotalItems = len(out.Invoices)
	out.AvailableCredit = company.CreditLimit.Sub(out.TotalGross)
	return out, nil
}

// GetCartCheckout confirma que la empresa existe y delega la cotización.
func (s *Service) GetCartCheckout(ctx context.Context, companyID string) (*dto.CheckoutResponse, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, companyNotFound(companyID)
	}
	return s.checkout.CalculateCheckout(ctx, companyID)
}

func loadOwnedInvoice(ctx context.Context, cartRepo repository.CartRepository, companyID, invoiceID string) (*entity.Invoice, error) {
	invoice, err := cartRepo.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("%w: la nota fiscal con ID %s no fue encontrada", domain.ErrNotFound, invoiceID)
	}
	if !invoice.BelongsTo(companyID) {
		return nil, fmt.Errorf("%w: la nota fiscal %s no pertenece a esta empresa", domain.ErrInvalidState, invoice.Number)
	}
	return invoice, nil
}

func companyNotFound(id string) error {
	return fmt.Errorf("%w: la empresa con ID %s no fue encontrada", domain.ErrNotFound, id)
}
