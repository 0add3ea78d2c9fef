package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lexiscreen/internal/config"
	"github.com/kailas-cloud/lexiscreen/internal/db"
	dbValkey "github.com/kailas-cloud/lexiscreen/internal/db/valkey"
	"github.com/kailas-cloud/lexiscreen/internal/export/document"
	logpkg "github.com/kailas-cloud/lexiscreen/internal/logger"
	"github.com/kailas-cloud/lexiscreen/internal/metrics"
	"github.com/kailas-cloud/lexiscreen/internal/repository/artifact"
	assembleuc "github.com/kailas-cloud/lexiscreen/internal/usecase/assemble"
	inferenceuc "github.com/kailas-cloud/lexiscreen/internal/usecase/inference"
	rankinguc "github.com/kailas-cloud/lexiscreen/internal/usecase/ranking"
	screeninguc "github.com/kailas-cloud/lexiscreen/internal/usecase/screening"
)

// modelName labels inference metrics.
const modelName = "xgboost"

// app is the composition root shared by the serve and screen commands.
// Everything in it is built once and only read afterwards.
type app struct {
	env       string
	cfg       config.Config
	logger    *zap.Logger
	store     db.Store // nil when artifacts come from a directory
	bundle    artifact.Bundle
	assembler *assembleuc.Service
	inference *inferenceuc.Service
	ranking   *rankinguc.Service
	screening *screeninguc.Service
	renderer  *document.Renderer
}

// loadConfig resolves the environment and configuration.
func loadConfig(cmd *cobra.Command) (string, config.Config, error) {
	env, _ := cmd.Flags().GetString("env")
	if env == "" {
		env = config.GetEnv()
	}

	cfg, err := config.Load(env)
	if err != nil {
		return "", config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return env, cfg, nil
}

// newLogger builds the process logger for env.
func newLogger(env string, cfg config.Config) (*zap.Logger, error) {
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

// openStore connects to the artifact registry and waits until it answers.
func openStore(ctx context.Context, cfg config.ArtifactsConfig) (db.Store, error) {
	store, err := dbValkey.NewStore(dbValkey.Config{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Source, err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("%s not ready: %w", cfg.Source, err)
	}
	return store, nil
}

// bootstrap loads configuration and artifacts and wires the pipeline.
func bootstrap(ctx context.Context, cmd *cobra.Command) (*app, error) {
	env, cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	// --artifacts switches to a local directory regardless of the configured source.
	if dir, _ := cmd.Flags().GetString("artifacts"); dir != "" {
		cfg.Artifacts.Source = config.SourceFile
		cfg.Artifacts.Dir = dir
	}
	logger, err := newLogger(env, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{env: env, cfg: cfg, logger: logger}

	var src artifact.Source
	if cfg.Artifacts.UsesRegistry() {
		a.store, err = openStore(ctx, cfg.Artifacts)
		if err != nil {
			return nil, err
		}
		src = artifact.NewKVSource(a.store, cfg.Artifacts.KeyPrefix)
		logger.Info("Connected to artifact registry",
			zap.String("source", cfg.Artifacts.Source),
			zap.Strings("addrs", cfg.Artifacts.Addrs),
			zap.String("key_prefix", cfg.Artifacts.KeyPrefix),
		)
	} else {
		src = artifact.NewDirSource(cfg.Artifacts.Dir)
	}

	a.bundle, err = artifact.Load(ctx, src)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load artifacts: %w", err)
	}
	logger.Info("Artifacts loaded",
		zap.String("source", cfg.Artifacts.Source),
		zap.Int("features", a.bundle.Schema.Len()),
		zap.Int("typical_values", a.bundle.Defaults.Len()),
		zap.Int("trees", a.bundle.Model.NumTrees()),
	)

	metrics.RegisterScreeningMetrics()

	a.assembler = assembleuc.New(a.bundle.Schema, a.bundle.Defaults)
	if cfg.Screening.EnforceAgeRange {
		a.assembler = a.assembler.WithAgeRange(cfg.Screening.AgeMin, cfg.Screening.AgeMax)
	}

	a.inference, err = inferenceuc.New(a.bundle.Model, a.bundle.Schema, *cfg.Model.PositiveLabel)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create inference service: %w", err)
	}

	a.ranking, err = rankinguc.New(a.bundle.Model, a.bundle.Schema)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create importance ranking: %w", err)
	}

	a.screening = screeninguc.New(
		a.assembler,
		inferenceuc.NewInstrumented(a.inference, modelName, logger),
		a.ranking,
		screeninguc.WithTopK(cfg.Screening.DefaultTopK, cfg.Screening.MaxTopK),
	)

	a.renderer = document.NewRenderer(document.Config{
		Title:     cfg.Export.Title,
		WrapWidth: cfg.Export.WrapWidth,
		Compress:  cfg.Export.Compress,
	})

	return a, nil
}

// Close releases the registry connection and flushes the logger.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	_ = a.logger.Sync()
}
