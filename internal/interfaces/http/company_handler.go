package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/receivables-api/internal/application/dto"
	"github.com/jhoicas/receivables-api/internal/application/usecase"
)

// CompanyHandler maneja las peticiones HTTP para el recurso Company.
type CompanyHandler struct {
	uc       *usecase.CompanyUseCase
	invoices *usecase.InvoiceUseCase
	val      *Validator
	log      zerolog.Logger
}

// NewCompanyHandler construye el handler inyectando los casos de uso.
func NewCompanyHandler(uc *usecase.CompanyUseCase, invoices *usecase.InvoiceUseCase, val *Validator, log zerolog.Logger) *CompanyHandler {
	return &CompanyHandler{uc: uc, invoices: invoices, val: val, log: log}
}

// Create godoc
// @Summary      Registrar empresa
// @Description  Calcula el límite de crédito a partir del faturamento mensual y el segmento.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /v1/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if ok, err := h.val.parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Tags         companies
// @Produce      json
// @Param        companyID  path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /v1/companies/{companyId} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), companyID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar empresas
// @Tags         companies
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.CompanyListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /v1/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	if errs := h.val.Struct(page); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida", Errors: errs})
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListInvoices godoc
// @Summary      Listar notas fiscales de la empresa
// @Tags         companies
// @Produce      json
// @Param        companyID  path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.InvoiceListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /v1/companies/{companyId}/invoices [get]
func (h *CompanyHandler) ListInvoices(c *fiber.Ctx) error {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.invoices.ListByCompany(c.UserContext(), companyID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
