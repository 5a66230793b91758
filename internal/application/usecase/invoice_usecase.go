package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/receivables-api/internal/application/dto"
	"github.com/jhoicas/receivables-api/internal/domain"
	"github.com/jhoicas/receivables-api/internal/domain/entity"
	"github.com/jhoicas/receivables-api/internal/domain/repository"
	"github.com/jhoicas/receivables-api/pkg/money"
)

// InvoiceUseCase alta, edición y consulta de notas fiscales.
type InvoiceUseCase struct {
	invoices  repository.InvoiceRepository
	companies repository.CompanyRepository
	tx        InvoiceTxRunner
}

// NewInvoiceUseCase construye el caso de uso. tx serializa las ediciones con las
// operaciones de carrito de la misma empresa.
func NewInvoiceUseCase(invoices repository.InvoiceRepository, companies repository.CompanyRepository, tx InvoiceTxRunner) *InvoiceUseCase {
	return &InvoiceUseCase{invoices: invoices, companies: companies, tx: tx}
}

// Create registra una nota fuera del carrito. El número es único por empresa.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := checkAmount(in.Amount); err != nil {
		return nil, err
	}
	dueDate, err := parseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}
	company, err := uc.companies.GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, companyNotFound(in.CompanyID)
	}
	existing, err := uc.invoices.GetByNumberAndCompany(ctx, in.Number, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, duplicateNumber(in.Number)
	}

	invoice := entity.NewInvoice(in.CompanyID, in.Number, in.Amount, dueDate)
	if err := uc.invoices.Create(ctx, invoice); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicateNumber(in.Number)
		}
		return nil, err
	}
	return EntityToInvoiceResponse(invoice), nil
}

// Update edita número, valor y vencimiento. Una nota en el carrito no se puede editar.
// Corre con la fila de la empresa bloqueada, igual que las altas al carrito.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := checkAmount(in.Amount); err != nil {
		return nil, err
	}
	dueDate, err := parseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	var out *entity.Invoice
	err = uc.tx.RunInvoice(ctx, func(companyRepo repository.CompanyRepository, invoiceRepo repository.InvoiceRepository) error {
		current, err := invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return invoiceNotFound(id)
		}
		company, err := companyRepo.GetByIDForUpdate(ctx, current.CompanyID)
		if err != nil {
			return err
		}
		if company == nil {
			return companyNotFound(current.CompanyID)
		}
		// releer con el bloqueo tomado
		invoice, err := invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoiceNotFound(id)
		}

		if in.Number != invoice.Number {
			other, err := invoiceRepo.GetByNumberAndCompany(ctx, in.Number, invoice.CompanyID)
			if err != nil {
				return err
			}
			if other != nil && other.ID != invoice.ID {
				return duplicateNumber(in.Number)
			}
		}
		if invoice.InCart {
			return inCartNotEditable(invoice.Number)
		}

		invoice.Update(in.Number, in.Amount, dueDate)
		if err := invoiceRepo.Update(ctx, invoice); err != nil {
			switch {
			case errors.Is(err, domain.ErrDuplicate):
				return duplicateNumber(in.Number)
			case errors.Is(err, domain.ErrInvalidState):
				return inCartNotEditable(invoice.Number)
			}
			return err
		}
		out = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return EntityToInvoiceResponse(out), nil
}

// GetByID obtiene una nota; domain.ErrNotFound si no existe.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	invoice, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoiceNotFound(id)
	}
	return EntityToInvoiceResponse(invoice), nil
}

// ListByCompany lista las notas de la empresa ordenadas por número.
func (uc *InvoiceUseCase) ListByCompany(ctx context.Context, companyID string) (*dto.InvoiceListResponse, error) {
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, companyNotFound(companyID)
	}
	list, err := uc.invoices.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *EntityToInvoiceResponse(inv))
	}
	return &dto.InvoiceListResponse{Items: items, Total: len(items)}, nil
}

// EntityToInvoiceResponse mapea la entidad a su DTO de salida.
func EntityToInvoiceResponse(i *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:        i.ID,
		CompanyID: i.CompanyID,
		Number:    i.Number,
		Amount:    i.Amount,
		DueDate:   i.DueDate.Format(dto.DateLayout),
		InCart:    i.InCart,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func checkAmount(v decimal.Decimal) error {
	if !v.IsPositive() {
		return fmt.Errorf("%w: el valor de la nota debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if !money.HasValidScale(v) {
		return fmt.Errorf("%w: el valor de la nota admite como máximo %d decimales", domain.ErrInvalidInput, money.Scale)
	}
	return nil
}

func parseDueDate(s string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha de vencimiento %q inválida, formato esperado AAAA-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func invoiceNotFound(id string) error {
	return fmt.Errorf("%w: la nota fiscal con ID %s no fue encontrada", domain.ErrNotFound, id)
}

func inCartNotEditable(number string) error {
	return fmt.Errorf("%w: no es posible editar la nota fiscal %s porque está en el carrito", domain.ErrInvalidState, number)
}

func duplicateNumber(number string) error {
	return fmt.Errorf("%w: ya existe una nota fiscal con el número %s para esta empresa", domain.ErrDuplicate, number)
}
