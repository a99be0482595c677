package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/suitability.report/api"
	"github.com/banshee-data/suitability.report/internal/config"
	"github.com/banshee-data/suitability.report/internal/monitoring"
	"github.com/banshee-data/suitability.report/internal/overlay"
	"github.com/banshee-data/suitability.report/internal/report"
	"github.com/banshee-data/suitability.report/internal/store"
)

var (
	configPath = flag.String("config", "", "Path to JSON settings file")
	dbPath     = flag.String("db", "", "Layer database path (overrides config)")
	listen     = flag.String("listen", "", "HTTP listen address (overrides config)")
	runPath    = flag.String("run", "", "Run a single overlay request from a JSON file and exit")
	outDir     = flag.String("out", "", "Artifact output directory (overrides config)")
	migrations = flag.String("migrations", "", "Apply schema migrations from this directory before starting")
	verbose    = flag.Bool("verbose", false, "Enable debug logging")
)

func main() {
	flag.Parse()
	monitoring.SetVerbose(*verbose)

	settings := config.Default()
	if *configPath != "" {
		var err error
		settings, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	if *dbPath != "" {
		settings.StorePath = dbPath
	}
	if *listen != "" {
		settings.Listen = listen
	}
	if *outDir != "" {
		settings.OutputDir = outDir
	}

	st, err := store.Open(settings.GetStorePath())
	if err != nil {
		log.Fatalf("failed to open layer store: %v", err)
	}
	defer st.Close()

	if *migrations != "" {
		if err := st.MigrateUp(*migrations); err != nil {
			log.Fatalf("failed to apply migrations: %v", err)
		}
	}

	if *runPath != "" {
		if err := runOnce(st, settings, *runPath); err != nil {
			log.Fatalf("overlay run failed: %v", err)
		}
		return
	}

	serve(st, settings)
}

// runOnce executes a single overlay request from a JSON file and writes the
// artifact set, logging a summary instead of serving HTTP.
func runOnce(st *store.Store, settings *config.Settings, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var req overlay.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return err
	}

	p := overlay.NewPipeline(st)
	p.ScoreMin = settings.GetScoreMin()
	p.ScoreMax = settings.GetScoreMax()
	p.Workers = settings.GetWorkers()

	res, err := p.Run(context.Background(), req)
	if err != nil {
		return err
	}

	paths, err := report.WriteArtifacts(settings.GetOutputDir(), res, req, settings.GetLayerDescriptions())
	if err != nil {
		return err
	}

	s := res.Diagnostics.Stats
	monitoring.Logf("run %s: %dx%d cells, score min=%.0f max=%.0f mean=%.2f",
		res.RunID, res.Grid.Rows, res.Grid.Cols, s.Min, s.Max, s.Mean)
	for name, p := range paths {
		monitoring.Logf("  wrote %s -> %s", name, p)
	}
	return nil
}

func serve(st *store.Store, settings *config.Settings) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := api.NewServer(st, settings).ServeMux()
	server := &http.Server{
		Addr:    settings.GetListen(),
		Handler: mux,
	}

	go func() {
		monitoring.Logf("listening on %s", settings.GetListen())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Printf("graceful shutdown complete")
}
