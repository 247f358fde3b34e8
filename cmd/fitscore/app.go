package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/fit-scorer/internal/config"
	"github.com/jonathan/fit-scorer/internal/db"
	"github.com/jonathan/fit-scorer/internal/embedding"
	"github.com/jonathan/fit-scorer/internal/fixtures"
	"github.com/jonathan/fit-scorer/internal/logger"
	"github.com/jonathan/fit-scorer/internal/observability"
	"github.com/jonathan/fit-scorer/internal/ranking"
	"github.com/jonathan/fit-scorer/internal/requirements"
	"github.com/jonathan/fit-scorer/internal/vectorindex"
)

// app is the wired runtime shared by the subcommands
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	engine   *ranking.Engine
	base     embedding.Provider
	cache    *embedding.Cache
	index    vectorindex.Index
	database *db.DB
	store    *fixtures.Store
	printer  *observability.Printer
	out      io.Writer
	output   string
}

// loadConfig reads the config file, environment and command flags
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.output != outputText && opts.output != outputJSON {
		return nil, fmt.Errorf("unknown output format %q (want text or json)", opts.output)
	}
	return cfg, nil
}

// newApp wires repositories, the embedding provider, the vector index and the engine
func newApp(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  log,
		printer: observability.NewPrinter(cmd.OutOrStdout()),
		out:     cmd.OutOrStdout(),
		output:  opts.output,
	}

	var candidates ranking.CandidateRepository
	var reqs requirements.Repository
	if cfg.DatabaseURL != "" {
		a.database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		candidates, reqs = a.database, a.database
	} else {
		if len(cfg.Fixtures) == 0 {
			return nil, fmt.Errorf("no data source: set database_url or pass --fixtures")
		}
		a.store, err = fixtures.Load(cfg.Fixtures...)
		if err != nil {
			return nil, err
		}
		candidates, reqs = a.store, a.store
	}

	a.base, err = embedding.New(ctx, cfg.EmbeddingProviderConfig())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}
	a.cache = embedding.NewCache(a.base, cfg.Embedding.CacheSize)

	switch cfg.VectorIndex.Type {
	case config.IndexQdrant:
		a.index = vectorindex.NewQdrantIndex(cfg.QdrantConfig())
	default:
		a.index = vectorindex.NewMemoryIndex()
	}

	engineLog := logger.WithFields(log,
		append(logger.ProviderFields(a.base.Name(), cfg.EmbeddingProviderConfig().Model),
			zap.String(logger.FieldIndex, cfg.VectorIndex.Type))...)

	engineCfg := cfg.EngineConfig()
	engineCfg.Logger = engineLog
	a.engine = ranking.NewEngine(candidates, reqs, a.cache, a.index, engineCfg)

	engineLog.Debug("engine ready")

	return a, nil
}

// indexTarget is a candidate to embed plus the jobs it is tagged with
type indexTarget struct {
	id     string
	jobIDs []string
}

// indexTargets lists every candidate of the configured data source
func (a *app) indexTargets(ctx context.Context) ([]indexTarget, error) {
	var targets []indexTarget
	if a.store != nil {
		for _, c := range a.store.Candidates() {
			targets = append(targets, indexTarget{id: c.ID, jobIDs: c.AppliedJobs})
		}
		return targets, nil
	}

	ids, err := a.database.ListCandidateIDs(ctx, 0)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		targets = append(targets, indexTarget{id: id})
	}
	return targets, nil
}

// warmIndex loads every known candidate into an in-process memory index so
// shortlists work without a persistent vector store.
func (a *app) warmIndex(ctx context.Context) error {
	if _, ok := a.index.(*vectorindex.MemoryIndex); !ok {
		return nil
	}

	targets, err := a.indexTargets(ctx)
	if err != nil {
		return err
	}

	// a candidate that cannot be embedded is left out of shortlists
	skipped := 0
	for _, t := range targets {
		if err := a.engine.IndexCandidate(ctx, t.id, t.jobIDs); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			skipped++
			a.logger.Warn("skipping candidate during index warm-up",
				zap.String(logger.FieldCandidate, t.id), zap.Error(err))
		}
	}

	if skipped > 0 {
		a.logger.Warn("memory index warmed with skipped candidates",
			zap.Int("indexed", len(targets)-skipped), zap.Int("skipped", skipped))
	} else {
		a.logger.Debug("memory index warmed", zap.Int("candidates", len(targets)))
	}
	return nil
}

// Close releases the provider, database and logger
func (a *app) Close() {
	if a.cache != nil {
		stats := a.cache.Stats()
		a.logger.Debug("embedding cache",
			zap.Int("entries", stats.Entries), zap.Int("hits", stats.Hits), zap.Int("misses", stats.Misses))
	}
	if a.base != nil {
		if err := embedding.Close(a.base); err != nil {
			a.logger.Warn("failed to close embedding provider", zap.Error(err))
		}
	}
	if a.database != nil {
		a.database.Close()
	}
	_ = a.logger.Sync()
}

// write renders v as indented JSON, or calls text for the text format
func (a *app) write(v any, text func()) error {
	if a.output == outputJSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output JSON: %w", err)
		}
		_, err = fmt.Fprintln(a.out, string(data))
		return err
	}
	text()
	return nil
}
