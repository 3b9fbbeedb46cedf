// import_items carga la nomenclatura de artículos desde un CSV separado por ';'
// en el almacén configurado (STORE_DRIVER).
//
// Uso: go run ./cmd/import_items [-encoding auto|utf-8|windows-1251] archivo.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/csvimport"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/docstore"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/storage"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	encoding := flag.String("encoding", csvimport.EncodingAuto, "auto | utf-8 | windows-1251")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: import_items [-encoding auto|utf-8|windows-1251] archivo.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("import_items")

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	items, err := csvimport.ReadItems(f, *encoding)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén de documentos")
	}
	defer backend.Close()

	n, err := usecase.NewItemUseCase(docstore.NewItemRepository(backend.Store)).Import(ctx, items)
	if err != nil {
		log.Error().Err(err).Int("importados", n).Msg("importación interrumpida")
		return
	}
	log.Info().Int("importados", n).Str("store", cfg.Store.Driver).Msg("nomenclatura importada")
}
