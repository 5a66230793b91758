package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	_ "github.com/jhoicas/receivables-api/docs"
	"github.com/jhoicas/receivables-api/internal/application/cart"
	"github.com/jhoicas/receivables-api/internal/application/checkout"
	"github.com/jhoicas/receivables-api/internal/application/usecase"
	"github.com/jhoicas/receivables-api/internal/domain/anticipation"
	"github.com/jhoicas/receivables-api/internal/domain/credit"
	infrapdf "github.com/jhoicas/receivables-api/internal/infrastructure/pdf"
	"github.com/jhoicas/receivables-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/receivables-api/internal/interfaces/http"
	"github.com/jhoicas/receivables-api/pkg/config"
	"github.com/jhoicas/receivables-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Str("monthly_rate", cfg.Anticipation.MonthlyRate.String()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer repos.Close()

	checkoutSvc := checkout.NewService(
		repos.Companies, repos.Invoices, repos.Cart,
		anticipation.NewCalculator(cfg.Anticipation.MonthlyRate),
		checkout.WithPDFGenerator(infrapdf.NewQuotationGenerator()),
	)
	cartSvc := cart.NewService(repos.Companies, repos.Cart, repos.Tx, checkoutSvc)
	companyUC := usecase.NewCompanyUseCase(repos.Companies, credit.Calculate)
	invoiceUC := usecase.NewInvoiceUseCase(repos.Invoices, repos.Companies, repos.InvoiceTx)

	app := httpRouter.NewApp(cfg.App.Name, log.Zerolog())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Receivables API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:   companyUC,
		InvoiceUC:   invoiceUC,
		CartSvc:     cartSvc,
		CheckoutSvc: checkoutSvc,
		Logger:      log.Zerolog(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
