package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/receivables-api/internal/application/dto"
	"github.com/jhoicas/receivables-api/internal/domain"
	"github.com/jhoicas/receivables-api/internal/domain/entity"
	"github.com/jhoicas/receivables-api/pkg/cnpj"
)

var (
	companyColumns = []string{"cnpj", "name", "monthly_revenue", "segment"}
	invoiceColumns = []string{"cnpj", "number", "amount", "due_date"}
)

type companyCreator interface {
	Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error)
}

type invoiceCreator interface {
	Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
}

type companyFinder interface {
	GetByCNPJ(ctx context.Context, cnpj string) (*entity.Company, error)
}

// Result cuenta las filas procesadas de un archivo.
type Result struct {
	Created int
	Skipped int
}

// Importer registra empresas y notas fiscales leídas de CSV a través de los casos de uso.
// Las filas rechazadas por reglas de negocio se registran y se omiten.
type Importer struct {
	companies companyCreator
	invoices  invoiceCreator
	finder    companyFinder
	latin1    bool
	log       zerolog.Logger
}

func NewImporter(companies companyCreator, invoices invoiceCreator, finder companyFinder, latin1 bool, log zerolog.Logger) *Importer {
	return &Importer{companies: companies, invoices: invoices, finder: finder, latin1: latin1, log: log}
}

// ImportCompanies columnas: cnpj;name;monthly_revenue;segment.
func (im *Importer) ImportCompanies(ctx context.Context, r io.Reader) (Result, error) {
	var res Result
	err := im.eachRow(r, companyColumns, func(row map[string]string) error {
		revenue, err := parseAmount(row["monthly_revenue"])
		if err != nil {
			return fmt.Errorf("%w: faturamento %q", domain.ErrInvalidInput, row["monthly_revenue"])
		}
		doc := cnpj.Normalize(row["cnpj"])
		if err := cnpj.Validate(doc); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		_, err = im.companies.Create(ctx, dto.CreateCompanyRequest{
			CNPJ:           doc,
			Name:           row["name"],
			MonthlyRevenue: revenue,
			Segment:        row["segment"],
		})
		return err
	}, &res)
	return res, err
}

// ImportInvoices columnas: cnpj;number;amount;due_date (AAAA-MM-DD). La empresa debe existir.
func (im *Importer) ImportInvoices(ctx context.Context, r io.Reader) (Result, error) {
	var res Result
	ids := map[string]string{}
	err := im.eachRow(r, invoiceColumns, func(row map[string]string) error {
		doc := cnpj.Normalize(row["cnpj"])
		companyID, ok := ids[doc]
		if !ok {
			c, err := im.finder.GetByCNPJ(ctx, doc)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("%w: empresa con CNPJ %s", domain.ErrNotFound, doc)
			}
			companyID = c.ID
			ids[doc] = companyID
		}
		amount, err := parseAmount(row["amount"])
		if err != nil {
			return fmt.Errorf("%w: valor %q", domain.ErrInvalidInput, row["amount"])
		}
		if !amount.IsPositive() {
			return fmt.Errorf("%w: el valor debe ser mayor que cero", domain.ErrInvalidInput)
		}
		_, err = im.invoices.Create(ctx, dto.CreateInvoiceRequest{
			CompanyID: companyID,
			Number:    row["number"],
			Amount:    amount,
			DueDate:   row["due_date"],
		})
		return err
	}, &res)
	return res, err
}

// eachRow recorre el CSV llamando a fn por fila. Los errores de dominio omiten la fila;
// cualquier otro error corta la importación.
func (im *Importer) eachRow(r io.Reader, columns []string, fn func(row map[string]string) error, res *Result) error {
	cr := im.newReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return errors.New("archivo vacío")
	}
	if err != nil {
		return fmt.Errorf("leer cabecera: %w", err)
	}
	index, err := headerIndex(header, columns)
	if err != nil {
		return err
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("línea %d: %w", line, err)
		}
		row := make(map[string]string, len(columns))
		for _, col := range columns {
			if i := index[col]; i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		err = fn(row)
		switch {
		case err == nil:
			res.Created++
		case isRowError(err):
			res.Skipped++
			im.log.Warn().Int("line", line).Err(err).Msg("fila omitida")
		default:
			return fmt.Errorf("línea %d: %w", line, err)
		}
	}
}

func (im *Importer) newReader(r io.Reader) *csv.Reader {
	if im.latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	br := bufio.NewReader(r)
	// BOM UTF-8
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}
	cr := csv.NewReader(br)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	return cr
}

func headerIndex(header, columns []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("falta la columna %q en la cabecera", col)
		}
	}
	return index, nil
}

// parseAmount acepta "1234.56" y el formato brasileño "1.234,56".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

func isRowError(err error) bool {
	for _, target := range []error{domain.ErrInvalidInput, domain.ErrDuplicate, domain.ErrNotFound} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
