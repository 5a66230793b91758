package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/receivables-api/internal/domain"
	"github.com/jhoicas/receivables-api/internal/domain/entity"
	"github.com/jhoicas/receivables-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, company_id, number, amount, due_date, in_cart, created_at, updated_at`

// InvoiceRepo implementación del puerto InvoiceRepository sobre PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador de persistencia para notas fiscales (pool o tx).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la nota. (company_id, number) repetido devuelve domain.ErrDuplicate.
func (r *InvoiceRepo) Create(ctx context.Context, i *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, company_id, number, amount, due_date, in_cart, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		i.ID, i.CompanyID, i.Number, i.Amount, i.DueDate, i.InCart, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: nota fiscal %s", domain.ErrDuplicate, i.Number)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update guarda número, valor y vencimiento; la marca de carrito solo la cambia CartRepo.
// Una nota en el carrito no se modifica: devuelve domain.ErrInvalidState.
func (r *InvoiceRepo) Update(ctx context.Context, i *entity.Invoice) error {
	query := `
		UPDATE invoices SET number = $2, amount = $3, due_date = $4, updated_at = $5
		WHERE id = $1 AND NOT in_cart`
	tag, err := r.q.Exec(ctx, query, i.ID, i.Number, i.Amount, i.DueDate, i.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: nota fiscal %s", domain.ErrDuplicate, i.Number)
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return noRowsUpdated(ctx, r.q, i.ID)
	}
	return nil
}

// GetByID obtiene una nota por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return getInvoice(ctx, r.q, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetByNumberAndCompany busca por número dentro de una empresa.
func (r *InvoiceRepo) GetByNumberAndCompany(ctx context.Context, number, companyID string) (*entity.Invoice, error) {
	return getInvoice(ctx, r.q,
		`SELECT `+invoiceColumns+` FROM invoices WHERE number = $1 AND company_id = $2`, number, companyID)
}

// GetInCartByCompany notas en el carrito de la empresa ordenadas por número.
func (r *InvoiceRepo) GetInCartByCompany(ctx context.Context, companyID string) ([]*entity.Invoice, error) {
	return listInvoices(ctx, r.q,
		`SELECT `+invoiceColumns+` FROM invoices WHERE company_id = $1 AND in_cart ORDER BY number COLLATE "C"`, companyID)
}

// ListByCompany todas las notas de la empresa ordenadas por número.
func (r *InvoiceRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Invoice, error) {
	return listInvoices(ctx, r.q,
		`SELECT `+invoiceColumns+` FROM invoices WHERE company_id = $1 ORDER BY number COLLATE "C"`, companyID)
}

// noRowsUpdated distingue nota inexistente de nota en un estado que no admite el cambio.
func noRowsUpdated(ctx context.Context, q Querier, id string) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check invoice: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: nota fiscal %s", domain.ErrNotFound, id)
	}
	return fmt.Errorf("%w: nota fiscal %s", domain.ErrInvalidState, id)
}

func getInvoice(ctx context.Context, q Querier, query string, args ...any) (*entity.Invoice, error) {
	i, err := scanInvoice(q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return i, nil
}

func listInvoices(ctx context.Context, q Querier, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Invoice, 0)
	for rows.Next() {
		i, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var i entity.Invoice
	if err := row.Scan(&i.ID, &i.CompanyID, &i.Number, &i.Amount, &i.DueDate, &i.InCart, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}
