package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"dog-nutrition-api/internal/core/catalog"
	"dog-nutrition-api/internal/core/fdc"
	"dog-nutrition-api/internal/infrastructure/config"
	"dog-nutrition-api/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	dbPath := flag.String("db", "", "SQLite DB path (defaults to FOODS_DB_PATH)")
	input := flag.String("input", "", "Local FDC JSON/CSV path or directory")
	source := flag.String("source", "fdc", "Data source label")
	query := flag.String("query", "", "Remote FDC search query (uses the API instead of local files)")
	maxPages := flag.Int("max-pages", 0, "Page cap for remote import, 0 means all pages")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	if *dbPath == "" {
		*dbPath = cfg.Database.Path
	}
	if *input == "" && *query == "" {
		fmt.Println("Either -input or -query is required")
		flag.Usage()
		os.Exit(2)
	}

	store, err := catalog.NewStore(*dbPath)
	if err != nil {
		common.LogFatal("Failed to open food catalog", zap.Error(err))
	}
	defer store.Close()

	var client *fdc.Client
	if *query != "" {
		client = fdc.NewClient(&cfg.FDC)
	}
	importer := fdc.NewImporter(store, client, cfg.FDC.Workers)

	ctx := context.Background()
	var report *fdc.Report
	if *query != "" {
		report, err = importer.ImportRemote(ctx, *query, *maxPages)
	} else {
		report, err = importer.ImportPath(ctx, *input, *source)
	}
	if err != nil {
		common.LogFatal("Import failed", zap.Error(err))
	}

	common.LogInfo("匯入完成",
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
		zap.String("db", *dbPath),
	)
	fmt.Printf("Import done. imported=%d skipped=%d db=%s\n", report.Imported, report.Skipped, *dbPath)
	fmt.Printf("By dataset: %v\n", report.ByDataset)
	fmt.Printf("Skip reasons: %v\n", report.SkipReasons)
}
