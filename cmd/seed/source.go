package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// movementsSheet hoja que se lee de un archivo XLSX.
const movementsSheet = "movements"

// row una línea del archivo de seed ya validada.
type row struct {
	Line        int
	ID          string
	SKU         string
	ProductName string
	Warehouse   string
	Supplier    string
	Lot         string
	Direction   string
	Source      string
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal
	Reference   string
	Notes       string
}

var requiredColumns = []string{"sku", "warehouse", "direction", "source", "quantity"}

// readCSV lee movimientos de un CSV con encabezado. latin1 decodifica ISO-8859-1.
func readCSV(r io.Reader, latin1 bool) ([]row, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	return parseRecords(records)
}

// readXLSX lee la hoja "movements" de un libro de Excel.
func readXLSX(r io.Reader) ([]row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir XLSX: %w", err)
	}
	defer f.Close()

	records, err := f.GetRows(movementsSheet)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", movementsSheet, err)
	}
	return parseRecords(records)
}

func parseRecords(records [][]string) ([]row, error) {
	if len(records) == 0 {
		return nil, errors.New("archivo vacío")
	}
	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q", c)
		}
	}

	out := make([]row, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		get := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		if isBlank(rec) {
			continue
		}
		r := row{
			Line:        line,
			ID:          get("id"),
			SKU:         get("sku"),
			ProductName: get("product_name"),
			Warehouse:   get("warehouse"),
			Supplier:    get("supplier"),
			Lot:         get("lot"),
			Direction:   strings.ToUpper(get("direction")),
			Source:      strings.ToUpper(get("source")),
			Reference:   get("reference"),
			Notes:       get("notes"),
		}
		if r.SKU == "" || r.Warehouse == "" {
			return nil, fmt.Errorf("línea %d: sku y warehouse son obligatorios", line)
		}
		qty, err := decimal.NewFromString(get("quantity"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: quantity inválida: %w", line, err)
		}
		r.Quantity = qty
		if raw := get("unit_cost"); raw != "" {
			cost, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("línea %d: unit_cost inválido: %w", line, err)
			}
			r.UnitCost = &cost
		}
		out = append(out, r)
	}
	return out, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
