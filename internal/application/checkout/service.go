// Package checkout valora el carrito (o una nota suelta) aplicando la anticipación.
package checkout

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/receivables-api/internal/application/dto"
	"github.com/jhoicas/receivables-api/internal/domain"
	"github.com/jhoicas/receivables-api/internal/domain/entity"
	"github.com/jhoicas/receivables-api/internal/domain/repository"
	"github.com/jhoicas/receivables-api/pkg/money"
)

// Service casos de uso de cotización.
type Service struct {
	companies  repository.CompanyRepository
	invoices   repository.InvoiceRepository
	cart       repository.CartRepository
	calculator NetValueCalculator
	pdf        QuotationPDFGenerator
	now        func() time.Time
}

// Option personaliza el servicio.
type Option func(*Service)

// WithClock reemplaza el reloj usado como fecha de referencia.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPDFGenerator habilita DownloadCheckoutPDF.
func WithPDFGenerator(g QuotationPDFGenerator) Option {
	return func(s *Service) { s.pdf = g }
}

// NewService construye el servicio de cotización.
func NewService(
	companies repository.CompanyRepository,
	invoices repository.InvoiceRepository,
	cartRepo repository.CartRepository,
	calculator NetValueCalculator,
	opts ...Option,
) *Service {
	s := &Service{
		companies:  companies,
		invoices:   invoices,
		cart:       cartRepo,
		calculator: calculator,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CalculateCheckout valora cada nota del carrito con la fecha actual. Falla con domain.ErrEmptyCart
// si no hay notas y con domain.ErrCreditLimitExceeded si el bruto total supera el límite.
func (s *Service) CalculateCheckout(ctx context.Context, companyID string) (*dto.CheckoutResponse, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: la empresa con ID %s no fue encontrada", domain.ErrNotFound, companyID)
	}
	items, err := s.cart.GetCartItemsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no hay notas fiscales en el carrito", domain.ErrEmptyCart)
	}
	slices.SortStableFunc(items, func(a, b *entity.Invoice) int { return strings.Compare(a.Number, b.Number) })

	ref := s.now()
	out := &dto.CheckoutResponse{
		Company:     company.Name,
		CNPJ:        company.CNPJ,
		CreditLimit: company.CreditLimit,
		Invoices:    make([]dto.CheckoutItemResponse, 0, len(items)),
		TotalNet:    decimal.Zero,
		TotalGross:  decimal.Zero,
	}
	for _, inv := range items {
		item := s.quote(inv, ref)
		out.Invoices = append(out.Invoices, item)
		out.TotalGross = out.TotalGross.Add(item.GrossValue)
		out.TotalNet = out.TotalNet.Add(item.NetValue)
	}

	if out.TotalGross.GreaterThan(company.CreditLimit) {
		return nil, fmt.Errorf("%w: el valor bruto total (%s) excede el límite de crédito (%s)",
			domain.ErrCreditLimitExceeded, money.FormatBRL(out.TotalGross), money.FormatBRL(company.CreditLimit))
	}
	return out, nil
}

// CalculateCheckoutByInvoiceID valora una sola nota, esté o no en el carrito, sin verificar el límite.
func (s *Service) CalculateCheckoutByInvoiceID(ctx context.Context, invoiceID string) (*dto.CheckoutItemResponse, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("%w: la nota fiscal con ID %s no fue encontrada", domain.ErrNotFound, invoiceID)
	}
	item := s.quote(invoice, s.now())
	return &item, nil
}

// DownloadCheckoutPDF genera el PDF de la cotización del carrito. Devuelve bytes, nombre de archivo y error.
func (s *Service) DownloadCheckoutPDF(ctx context.Context, companyID string) ([]byte, string, error) {
	if s.pdf == nil {
		return nil, "", fmt.Errorf("generador de PDF no configurado")
	}
	quotation, err := s.CalculateCheckout(ctx, companyID)
	if err != nil {
		return nil, "", err
	}
	content, err := s.pdf.GenerateQuotation(quotation, s.now())
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF de cotización: %w", err)
	}
	return content, fmt.Sprintf("cotizacion-%s.pdf", quotation.CNPJ), nil
}

func (s *Service) quote(inv *entity.Invoice, ref time.Time) dto.CheckoutItemResponse {
	return dto.CheckoutItemResponse{
		Number:     inv.Number,
		GrossValue: inv.Amount,
		NetValue:   s.calculator.CalculateNetValue(inv.Amount, inv.DueDate, ref),
	}
}
