// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/waluna/waluna/internal/api"
	"github.com/waluna/waluna/internal/buildinfo"
	"github.com/waluna/waluna/internal/domain"
	"github.com/waluna/waluna/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "waluna",
		Short:         "Anime torrent matching service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config.toml or the directory holding it")

	rootCmd.AddCommand(
		RunServeCommand(),
		RunMatchCommand(),
		RunSuggestCommand(),
		RunCacheCommand(),
		RunVersionCommand(),
	)

	return rootCmd
}

func RunServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logCloser, err := logger.Setup(logger.Options{
				Level:      cfg.Config.LogLevel,
				Path:       cfg.Config.LogPath,
				MaxSize:    cfg.Config.LogMaxSize,
				MaxBackups: cfg.Config.LogMaxBackups,
			})
			if err != nil {
				return err
			}
			defer logCloser.Close()

			log.Info().Str("version", buildinfo.Version).Str("config", cfg.Path()).Msg("starting waluna")

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close services")
				}
			}()

			if err := a.persistent.Init(cmd.Context()); err != nil {
				return err
			}

			cfg.OnChange(func(c *domain.Config) {
				logger.SetLevel(c.LogLevel)
			})
			cfg.Watch()

			server := api.NewServer(&api.Dependencies{
				Config:     cfg,
				Torrents:   a.torrents,
				Suggest:    a.suggest,
				Episodes:   a.episodes,
				Cache:      a.persistent,
				DataCache:  a.data,
				ImageCache: a.images,
				Metrics:    a.metrics,
			})

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return server.ListenAndServe(ctx)
			})
			g.Go(func() error {
				a.persistent.RunJanitor(ctx, cfg.Config.JanitorInterval())
				return nil
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info().Msg("waluna stopped")
			return nil
		},
	}
}

func RunVersionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				data, err := buildinfo.JSON()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), buildinfo.String())
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
