package usecase

import (
	"context"

	"github.com/jhoicas/receivables-api/internal/domain/repository"
)

// InvoiceTxRunner ejecuta fn en una transacción con repos atados a ella. Comparte con
// cart.CartTxRunner el bloqueo de la empresa vía CompanyRepository.GetByIDForUpdate.
type InvoiceTxRunner interface {
	RunInvoice(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}
