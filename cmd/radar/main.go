// Command radar mines a JSONL corpus for product opportunities and stores
// the resulting topics for the read API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/cognicore/radar/internal/corpus"
	"github.com/cognicore/radar/internal/settings"
	"github.com/cognicore/radar/pkg/radar"
	"github.com/cognicore/radar/pkg/radar/config"
	"github.com/cognicore/radar/pkg/radar/store"
	"github.com/cognicore/radar/pkg/radar/store/sqlite"
)

type options struct {
	input      string
	output     string
	dbPath     string
	config     config.Loader
	workers    int
	metricsOut string
}

func main() {
	env, err := settings.Load()
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}

	var opts options
	flag.StringVar(&opts.input, "input", "", "Input JSONL corpus (required)")
	flag.StringVar(&opts.output, "output", "-", "Topic JSON output file, - for stdout, empty to skip")
	flag.StringVar(&opts.dbPath, "db", env.DBPath, "SQLite database path, empty to skip storing")
	flag.StringVar(&opts.config.ConfigPath, "config", env.ConfigPath, "Pipeline YAML config")
	flag.StringVar(&opts.config.StoplistPath, "stoplist", env.StoplistPath, "Extra stopwords YAML")
	flag.StringVar(&opts.config.LexiconPath, "lexicon", env.LexiconPath, "Lemma groups YAML")
	flag.IntVar(&opts.workers, "workers", env.Workers, "Worker goroutines, 0 uses the config value")
	flag.StringVar(&opts.metricsOut, "metrics-out", "", "Write Prometheus metrics to this textfile")
	flag.Parse()

	if opts.input == "" {
		log.Fatal("--input required")
	}

	logger, err := env.Logger()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Fatal("radar run failed", zap.Error(err))
	}
}

func run(ctx context.Context, opts options, logger *zap.Logger) error {
	comp, err := opts.config.Load()
	if err != nil {
		return err
	}
	if opts.workers > 0 {
		comp.Config.Workers = opts.workers
	}

	docs, err := corpus.LoadFromJSONL(opts.input, logger)
	if err != nil {
		return err
	}
	logger.Info("loaded corpus", zap.String("path", opts.input), zap.Int("documents", len(docs)))

	reg := prometheus.NewRegistry()
	engine, err := radar.New(radar.Options{
		Components: comp,
		Logger:     logger,
		Metrics:    radar.NewMetrics(reg),
	})
	if err != nil {
		return err
	}

	topics, err := engine.Run(ctx, docs)
	if err != nil {
		return err
	}

	if err := writeTopics(opts.output, topics); err != nil {
		return fmt.Errorf("write topics: %w", err)
	}

	if opts.dbPath != "" {
		if err := saveRun(ctx, opts.dbPath, len(docs), topics, logger); err != nil {
			return err
		}
	}

	if opts.metricsOut != "" {
		if err := prometheus.WriteToTextfile(opts.metricsOut, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	logger.Info("run complete", zap.Int("documents", len(docs)), zap.Int("topics", len(topics)))
	return nil
}

func writeTopics(path string, topics []radar.Topic) error {
	if path == "" {
		return nil
	}

	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(topics)
}

func saveRun(ctx context.Context, dbPath string, documents int, topics []radar.Topic, logger *zap.Logger) error {
	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	run := store.Run{
		ID:        store.NewID(),
		CreatedAt: time.Now(),
		Documents: documents,
		Topics:    topics,
	}
	if err := st.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	logger.Info("stored run", zap.String("run_id", run.ID), zap.String("db", dbPath))
	return nil
}
