package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lexiscreen/internal/repository/artifact"
)

var publishCmd = &cobra.Command{
	Use:   "publish [dir]",
	Short: "Validate an artifact directory and upload it to the Valkey/Redis registry",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPublish(cmd, args)
	},
}

func runPublish(cmd *cobra.Command, args []string) error {
	env, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.Artifacts.UsesRegistry() {
		return fmt.Errorf("publish needs artifacts.source valkey or redis, got %q", cfg.Artifacts.Source)
	}
	logger, err := newLogger(env, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	dir := cfg.Artifacts.Dir
	if flagDir, _ := cmd.Flags().GetString("artifacts"); flagDir != "" {
		dir = flagDir
	}
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		dir = "artifacts"
	}

	ctx := context.Background()
	blobs, err := artifact.NewDirSource(dir).Load(ctx)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg.Artifacts)
	if err != nil {
		return err
	}
	defer store.Close()

	bundle, err := artifact.Publish(ctx, store, cfg.Artifacts.KeyPrefix, blobs)
	if err != nil {
		return err
	}

	logger.Info("Artifacts published",
		zap.String("dir", dir),
		zap.Strings("keys", artifact.Keys(cfg.Artifacts.KeyPrefix)),
		zap.Int("features", bundle.Schema.Len()),
		zap.Int("trees", bundle.Model.NumTrees()),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Published %d features and %d trees from %s under %q\n",
		bundle.Schema.Len(), bundle.Model.NumTrees(), dir, cfg.Artifacts.KeyPrefix)
	return nil
}
