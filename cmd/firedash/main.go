package main

import (
	"bytes"
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/ozfires/firedash/internal/api"
	"github.com/ozfires/firedash/internal/config"
	"github.com/ozfires/firedash/internal/dataset"
	"github.com/ozfires/firedash/internal/metrics"
	"github.com/ozfires/firedash/internal/store"
)

var cli struct {
	Data    string `help:"Dataset source: file path, http(s):// URL or ftp:// URL." default:"data/Historical_Wildfires.csv" env:"FIREDASH_DATA"`
	DB      string `help:"Path to the SQLite cache database." default:"data/firedash.db" env:"FIREDASH_DB"`
	Port    string `help:"HTTP server port." default:"8050" env:"FIREDASH_PORT"`
	Refresh bool   `help:"Re-fetch the dataset even when the cache is already populated." env:"FIREDASH_REFRESH"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("firedash"),
		kong.Description("Australian wildfires dashboard."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	count, err := st.RecordCount()
	if err != nil {
		log.Fatalf("count records: %v", err)
	}
	if count == 0 || cli.Refresh {
		log.Printf("loading dataset from %s", cli.Data)
		raw, err := dataset.Fetch(cli.Data)
		if err != nil {
			log.Fatalf("fetch dataset: %v", err)
		}
		records, err := dataset.Parse(bytes.NewReader(raw))
		if err != nil {
			log.Fatalf("parse dataset: %v", err)
		}
		if err := st.ReplaceRecords(records, cli.Data); err != nil {
			log.Fatalf("store dataset: %v", err)
		}
		log.Printf("loaded %d records", len(records))
	}

	records, err := st.AllRecords()
	if err != nil {
		log.Fatalf("load records: %v", err)
	}
	metrics.DatasetRecords.Set(float64(len(records)))

	server := api.NewServer(st, records, config.Default(), cli.Port)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("starting server on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
