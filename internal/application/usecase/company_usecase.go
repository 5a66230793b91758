package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/receivables-api/internal/application/dto"
	"github.com/jhoicas/receivables-api/internal/domain"
	"github.com/jhoicas/receivables-api/internal/domain/credit"
	"github.com/jhoicas/receivables-api/internal/domain/entity"
	"github.com/jhoicas/receivables-api/internal/domain/repository"
	"github.com/jhoicas/receivables-api/pkg/money"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo    repository.CompanyRepository
	limitFn entity.CreditLimitFunc
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia y la regla de límite.
func NewCompanyUseCase(repo repository.CompanyRepository, limitFn entity.CreditLimitFunc) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, limitFn: limitFn}
}

// Create registra una empresa y calcula su límite de crédito.
// Devuelve domain.ErrDuplicate si el CNPJ ya existe y domain.ErrInvalidInput si el faturamento es menor al mínimo.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	existing, err := uc.repo.GetByCNPJ(ctx, in.CNPJ)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe una empresa registrada con el CNPJ %s", domain.ErrDuplicate, in.CNPJ)
	}
	if !money.HasValidScale(in.MonthlyRevenue) {
		return nil, fmt.Errorf("%w: el faturamento mensual admite como máximo %d decimales", domain.ErrInvalidInput, money.Scale)
	}
	if in.MonthlyRevenue.LessThan(credit.MinimumRevenue) {
		return nil, fmt.Errorf("%w: el faturamento mensual debe ser como mínimo %s",
			domain.ErrInvalidInput, money.FormatBRL(credit.MinimumRevenue))
	}

	company := entity.NewCompany(in.CNPJ, in.Name, in.MonthlyRevenue, entity.Segment(in.Segment), uc.limitFn)
	if err := uc.repo.Create(ctx, company); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: ya existe una empresa registrada con el CNPJ %s", domain.ErrDuplicate, in.CNPJ)
		}
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// GetByID obtiene una empresa por ID; domain.ErrNotFound si no existe.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, companyNotFound(id)
	}
	return entityToCompanyResponse(company), nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CompanyListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func companyNotFound(id string) error {
	return fmt.Errorf("%w: la empresa con ID %s no fue encontrada", domain.ErrNotFound, id)
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:             c.ID,
		CNPJ:           c.CNPJ,
		Name:           c.Name,
		MonthlyRevenue: c.MonthlyRevenue,
		Segment:        string(c.Segment),
		CreditLimit:    c.CreditLimit,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
