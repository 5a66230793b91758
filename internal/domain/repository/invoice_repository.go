package repository

import (
	"context"

	"github.com/jhoicas/receivables-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para notas fiscales.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	Update(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByNumberAndCompany(ctx context.Context, number, companyID string) (*entity.Invoice, error)
	GetInCartByCompany(ctx context.Context, companyID string) ([]*entity.Invoice, error)
	// ListByCompany devuelve todas las notas de la empresa ordenadas por número.
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Invoice, error)
}
