package main

import (
	"context"
	"fmt"

	"ecostudy/internal/config"
	"ecostudy/internal/logger"
	"ecostudy/internal/service"

	"github.com/spf13/cobra"
)

func seedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the study sources with the default set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateDB(); err != nil {
		return err
	}
	log := logger.Get(cfg.Log.Level, cfg.Log.Encoding)
	defer func() { _ = log.Sync() }()

	repos, closeStore, err := openStore(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := service.NewSourceService(repos.Sources).Seed(ctx); err != nil {
		return err
	}
	log.Infow("sources_seeded", "count", len(service.SeedSources()))
	fmt.Println("Seeded")
	return nil
}
