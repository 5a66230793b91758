package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/receivables-api/internal/application/cart"
	"github.com/jhoicas/receivables-api/internal/application/checkout"
	"github.com/jhoicas/receivables-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC   *usecase.CompanyUseCase
	InvoiceUC   *usecase.InvoiceUseCase
	CartSvc     *cart.Service
	CheckoutSvc *checkout.Service
	Validator   *Validator
	Logger      zerolog.Logger
}

// NewApp crea la aplicación Fiber con manejo de errores, recover, request id y log de peticiones.
func NewApp(name string, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: fiberErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Validator == nil {
		deps.Validator = NewValidator()
	}
	v1 := app.Group("/v1")

	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.InvoiceUC, deps.Validator, deps.Logger)
	cartHandler := NewCartHandler(deps.CartSvc, deps.CheckoutSvc, deps.Validator, deps.Logger)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.CheckoutSvc, deps.Validator, deps.Logger)

	companies := v1.Group("/companies")
	companies.Post("/", companyHandler.Create)
	companies.Get("/", companyHandler.List)
	companies.Get("/:companyId", companyHandler.GetByID)
	companies.Get("/:companyId/invoices", companyHandler.ListInvoices)

	companies.Get("/:companyId/cart", cartHandler.Get)
	companies.Get("/:companyId/cart/checkout", cartHandler.CartCheckout)
	companies.Post("/:companyId/cart/items", cartHandler.AddItem)
	companies.Delete("/:companyId/cart/items/:invoiceId", cartHandler.RemoveItem)
	companies.Get("/:companyId/checkout", cartHandler.Checkout)
	companies.Get("/:companyId/checkout/pdf", cartHandler.CheckoutPDF)

	invoices := v1.Group("/invoices")
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Get("/:id/calculate", invoiceHandler.Calculate)
}
