// seed reproduce un archivo de movimientos (CSV o XLSX) contra la base configurada.
// Crea empresa, bodegas, proveedores, lotes y productos que falten y registra cada fila
// por el punto de entrada genérico del libro. Volver a correrlo no duplica movimientos.
//
// Uso: go run ./cmd/seed -file seed/movements.csv [-latin1] [-enterprise <uuid>]
// Columnas: id, sku, product_name, warehouse, supplier, lot, direction, source, quantity,
// unit_cost, reference, notes. Obligatorias: sku, warehouse, direction, source, quantity.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	domaininv "github.com/jhoicas/inventory-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-ledger/pkg/config"
	pkgjwt "github.com/jhoicas/inventory-ledger/pkg/jwt"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

const (
	defaultEnterpriseID = "00000000-0000-4000-8000-00000000e001"
	seedUserID          = "00000000-0000-4000-8000-00000000a001"
)

func main() {
	file := flag.String("file", "seed/movements.csv", "archivo CSV o XLSX con los movimientos")
	latin1 := flag.Bool("latin1", false, "el CSV viene en ISO-8859-1")
	enterpriseID := flag.String("enterprise", defaultEnterpriseID, "ID de la empresa a poblar")
	enterpriseName := flag.String("enterprise-name", "Empresa de desarrollo", "nombre de la empresa")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.App.IsProduction() {
		fmt.Fprintln(os.Stderr, "seed no se ejecuta con APP_ENV=production")
		os.Exit(1)
	}
	base := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	log := base.WithComponent("seed")

	rows, err := readFile(*file, *latin1)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("leer archivo de seed")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, base); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	costPolicy, err := domaininv.NewCostPolicy(cfg.Ledger.CostPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("política de costo")
	}
	txRunner := postgres.NewTxRunner(pool, postgres.TxOptionsFromConfig(cfg.Ledger), nil, base.WithComponent("tx"))
	recorder := inventory.NewRecordMovementUseCase(txRunner, inventory.WriterConfig{
		AllowNegative:  cfg.Ledger.AllowNegative,
		AllowClientIDs: true,
		CostPolicy:     costPolicy,
	}, nil, base)

	s := newSeeder(catalog{
		enterprises: postgres.NewEnterpriseRepository(pool),
		warehouses:  postgres.NewWarehouseRepository(pool),
		suppliers:   postgres.NewSupplierRepository(pool),
		lots:        postgres.NewLotRepository(pool),
		products:    postgres.NewProductRepository(pool),
	}, recorder, *enterpriseID, *enterpriseName, seedUserID, filepath.Base(*file), log)

	sum, err := s.Run(ctx, rows)
	if err != nil {
		log.Fatal().Err(err).Msg("seed interrumpido")
	}
	log.Info().
		Int("rows", sum.Rows).
		Int("recorded", sum.Recorded).
		Int("products_created", sum.Products).
		Int("suppliers_created", sum.Suppliers).
		Msg("seed completado")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío, no se genera token de desarrollo")
		return
	}
	token, err := pkgjwt.Generate(cfg.JWT.Secret, seedUserID, *enterpriseID, "admin", cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("generar token")
	}
	fmt.Printf("Authorization: Bearer %s\n", token)
}

func readFile(path string, latin1 bool) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(f)
	}
	return readCSV(f, latin1)
}
