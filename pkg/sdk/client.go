package lexiscreen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/lexiscreen/internal/db"
	dbValkey "github.com/kailas-cloud/lexiscreen/internal/db/valkey"
	"github.com/kailas-cloud/lexiscreen/internal/domain/feature"
	"github.com/kailas-cloud/lexiscreen/internal/domain/importance"
	"github.com/kailas-cloud/lexiscreen/internal/domain/report"
	"github.com/kailas-cloud/lexiscreen/internal/export/document"
	"github.com/kailas-cloud/lexiscreen/internal/repository/artifact"
	assembleuc "github.com/kailas-cloud/lexiscreen/internal/usecase/assemble"
	healthuc "github.com/kailas-cloud/lexiscreen/internal/usecase/health"
	inferenceuc "github.com/kailas-cloud/lexiscreen/internal/usecase/inference"
	rankinguc "github.com/kailas-cloud/lexiscreen/internal/usecase/ranking"
	screeninguc "github.com/kailas-cloud/lexiscreen/internal/usecase/screening"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "lexiscreen:"
	modelName               = "xgboost"
)

// Internal interfaces for substitution in tests.
type screeningUseCase interface {
	Screen(ctx context.Context, req screeninguc.Request) (report.Report, error)
}

type catalogUseCase interface {
	Schema() feature.Schema
	Defaults() feature.Defaults
}

type rankingUseCase interface {
	TopFeatures(k int) ([]importance.Entry, error)
	All() []importance.Entry
}

type documentRenderer interface {
	Marshal(r report.Report) ([]byte, error)
}

// Client is the lexiscreen SDK entry point. It is safe for concurrent use.
type Client struct {
	store      db.Store // nil when artifacts come from a directory
	screenSvc  screeningUseCase
	catalog    catalogUseCase
	rankingSvc rankingUseCase
	healthSvc  healthUseCase
	renderer   documentRenderer
	obs        *observer
}

// New loads the artifacts and builds a Client.
// The provided context bounds the registry readiness check and artifact fetch.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:     defaultKeyPrefix,
		positiveLabel: 1,
		defaultTopK:   screeninguc.DefaultTopK,
		maxTopK:       screeninguc.DefaultMaxTopK,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.dir == "" && len(cfg.addrs) == 0 {
		return nil, errors.New("lexiscreen: artifact source required (use WithArtifactDir, WithValkey or WithRedis)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var (
		store db.Store
		src   artifact.Source
	)
	if cfg.driver != "" {
		store, err = createStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("lexiscreen: %s not ready: %w", cfg.driver, err)
		}
		src = artifact.NewKVSource(store, cfg.keyPrefix)
	} else {
		src = artifact.NewDirSource(cfg.dir)
	}

	bundle, err := artifact.Load(ctx, src)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("lexiscreen: load artifacts: %w", err)
	}

	c, err := wireClient(bundle, store, cfg, obs)
	if err != nil && store != nil {
		store.Close()
	}
	return c, err
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		// rueidis speaks RESP to both servers.
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("lexiscreen: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("lexiscreen: unknown driver %q", cfg.driver)
	}
}

func wireClient(b artifact.Bundle, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	assembler := assembleuc.New(b.Schema, b.Defaults)
	if cfg.ageRange != nil {
		assembler = assembler.WithAgeRange(cfg.ageRange[0], cfg.ageRange[1])
	}

	inference, err := inferenceuc.New(b.Model, b.Schema, cfg.positiveLabel)
	if err != nil {
		return nil, fmt.Errorf("lexiscreen: %w", err)
	}
	ranking, err := rankinguc.New(b.Model, b.Schema)
	if err != nil {
		return nil, fmt.Errorf("lexiscreen: %w", err)
	}

	if cfg.defaultTopK < 1 || cfg.defaultTopK > cfg.maxTopK {
		return nil, fmt.Errorf("lexiscreen: default top-k %d must be in [1, %d]", cfg.defaultTopK, cfg.maxTopK)
	}
	screenSvc := screeninguc.New(assembler, inference, ranking,
		screeninguc.WithTopK(cfg.defaultTopK, cfg.maxTopK))

	// Pass nil interface (not typed nil) when there is no registry.
	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}

	return &Client{
		store:      store,
		screenSvc:  screenSvc,
		catalog:    assembler,
		rankingSvc: ranking,
		healthSvc:  healthuc.New(inference, pinger),
		renderer:   document.NewRenderer(document.Config{Title: cfg.title, WrapWidth: cfg.wrapWidth}),
		obs:        obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}
