// seed importa empresas y notas fiscales desde CSV separados por ';'.
//
// Uso: go run ./cmd/seed [directorio] [latin1]
// Lee <directorio>/companies.csv y, si existe, <directorio>/invoices.csv.
// Con "latin1" los archivos se decodifican como ISO-8859-1.
// El almacenamiento se elige con las mismas variables que la API (APP_STORAGE, DB_*).
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/receivables-api/internal/application/usecase"
	"github.com/jhoicas/receivables-api/internal/domain/credit"
	"github.com/jhoicas/receivables-api/internal/infrastructure/storage"
	"github.com/jhoicas/receivables-api/pkg/config"
	"github.com/jhoicas/receivables-api/pkg/logger"
)

func main() {
	dir := "."
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	latin1 := len(os.Args) > 2 && strings.EqualFold(os.Args[2], "latin1")

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer repos.Close()

	im := NewImporter(
		usecase.NewCompanyUseCase(repos.Companies, credit.Calculate),
		usecase.NewInvoiceUseCase(repos.Invoices, repos.Companies, repos.InvoiceTx),
		repos.Companies,
		latin1,
		log.Zerolog(),
	)

	files := []struct {
		name string
		run  func(ctx context.Context, f *os.File) (Result, error)
	}{
		{"companies.csv", func(ctx context.Context, f *os.File) (Result, error) { return im.ImportCompanies(ctx, f) }},
		{"invoices.csv", func(ctx context.Context, f *os.File) (Result, error) { return im.ImportInvoices(ctx, f) }},
	}
	for _, file := range files {
		path := filepath.Join(dir, file.name)
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("file", path).Msg("archivo no encontrado, se omite")
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("abrir archivo")
		}
		res, err := file.run(ctx, f)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("importación interrumpida")
		}
		log.Info().Str("file", path).Int("created", res.Created).Int("skipped", res.Skipped).Msg("importación terminada")
	}
}
