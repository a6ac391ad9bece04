// Package main provides the offline analysis command: it reads per-frame
// pose and shuttle records from a JSON file, runs the classification pass,
// and writes the report to stdout or a file. Optionally it persists the
// report to a SQLite database and serves the monitor API over it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/banshee-data/shuttle.report/internal/badminton"
	"github.com/banshee-data/shuttle.report/internal/config"
	"github.com/banshee-data/shuttle.report/internal/db"
	"github.com/banshee-data/shuttle.report/internal/monitor"
	sqlite "github.com/banshee-data/shuttle.report/internal/storage/sqlite"
	"github.com/banshee-data/shuttle.report/internal/version"
)

type cliConfig struct {
	Input      string
	FPS        float64
	ConfigPath string
	DBPath     string
	Source     string
	Output     string
	Listen     string
	Signals    bool
	Version    bool
}

func main() {
	cfg := parseFlags()

	if cfg.Version {
		fmt.Printf("shuttle-report %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if cfg.Input == "" && cfg.Listen == "" {
		log.Fatal("either -input or -listen is required")
	}

	analysisCfg, err := loadAnalysisConfig(cfg)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var store *sqlite.ReportStore
	if cfg.DBPath != "" {
		database, err := db.NewDB(cfg.DBPath)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer database.Close()
		if err := database.MigrateUp(); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
		store = sqlite.NewReportStore(database.DB)
	}

	if cfg.Input != "" {
		if err := runAnalysis(cfg, analysisCfg, store); err != nil {
			log.Fatalf("analysis failed: %v", err)
		}
	}

	if cfg.Listen != "" {
		if store == nil {
			log.Fatal("-listen requires -db")
		}
		serveMonitor(cfg.Listen, store)
	}
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.Input, "input", "", "Path to frame records JSON file")
	flag.Float64Var(&cfg.FPS, "fps", 30, "Frame rate of the source video")
	flag.StringVar(&cfg.ConfigPath, "config", "", "Path to tuning config JSON (optional)")
	flag.StringVar(&cfg.DBPath, "db", "", "SQLite database path for persisting reports (optional)")
	flag.StringVar(&cfg.Source, "source", "", "Source label stored with the report (default: input basename)")
	flag.StringVar(&cfg.Output, "out", "", "Write the report JSON to this file instead of stdout")
	flag.StringVar(&cfg.Listen, "listen", "", "Serve the monitor API on this address (e.g. :8080); requires -db")
	flag.BoolVar(&cfg.Signals, "signals", false, "Capture per-frame hit detector signals in the report")
	flag.BoolVar(&cfg.Version, "version", false, "Print version information and exit")

	flag.Parse()

	if cfg.Source == "" && cfg.Input != "" {
		cfg.Source = filepath.Base(cfg.Input)
	}
	return cfg
}

func loadAnalysisConfig(cfg cliConfig) (badminton.Config, error) {
	analysisCfg := badminton.DefaultConfig()
	if cfg.ConfigPath != "" {
		tuning, err := config.LoadTuningConfig(cfg.ConfigPath)
		if err != nil {
			return analysisCfg, err
		}
		analysisCfg = tuning.Apply()
	}
	if cfg.Signals {
		analysisCfg.HitDetector.CaptureSignals = true
	}
	return analysisCfg, nil
}

func runAnalysis(cfg cliConfig, analysisCfg badminton.Config, store *sqlite.ReportStore) error {
	frames, err := loadFrames(cfg.Input)
	if err != nil {
		return err
	}
	log.Printf("loaded %d frames from %s", len(frames), cfg.Input)

	analyzer := badminton.NewAnalyzer(analysisCfg)
	report := analyzer.Analyze(frames, cfg.FPS)

	if store != nil {
		stored, err := store.Insert(cfg.Source, cfg.FPS, report)
		if err != nil {
			return fmt.Errorf("persist report: %w", err)
		}
		log.Printf("report stored as %s", stored.ReportID)
	}

	return writeReport(report, cfg.Output)
}

func loadFrames(path string) ([]badminton.FrameRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	var frames []badminton.FrameRecord
	if err := json.Unmarshal(data, &frames); err != nil {
		return nil, fmt.Errorf("parse frame records: %w", err)
	}
	return frames, nil
}

func writeReport(report *badminton.Report, path string) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func serveMonitor(address string, store *sqlite.ReportStore) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws := monitor.NewWebServer(monitor.WebServerConfig{Address: address, Store: store})
	if err := ws.Start(ctx); err != nil {
		log.Fatalf("monitor server: %v", err)
	}
}
