// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/waluna/waluna/internal/cache"
)

func RunCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Persistent cache maintenance",
	}

	cmd.AddCommand(runCachePurgeCommand(), runCacheClearCommand())
	return cmd
}

func openPersistent(cmd *cobra.Command) (*cache.Persistent, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := setupCommandLogger(cmd, cfg); err != nil {
		return nil, err
	}

	store := cache.NewPersistent(cfg.GetDatabasePath())
	if err := store.Init(cmd.Context()); err != nil {
		return nil, err
	}
	return store, nil
}

func runCachePurgeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete expired entries from every store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openPersistent(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.PurgeExpired(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries\n", removed)
			return nil
		},
	}
}

func runCacheClearCommand() *cobra.Command {
	names := make([]string, 0, len(cache.Stores))
	for _, s := range cache.Stores {
		names = append(names, string(s))
	}

	return &cobra.Command{
		Use:       "clear <store>",
		Short:     "Delete every entry of one store (" + strings.Join(names, ", ") + ")",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := cache.ParseStoreName(args[0])
			if err != nil {
				return err
			}

			store, err := openPersistent(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context(), name)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries from %s\n", removed, name)
			return nil
		},
	}
}
