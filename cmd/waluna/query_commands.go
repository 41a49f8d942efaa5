// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/waluna/waluna/internal/config"
	"github.com/waluna/waluna/internal/logger"
	"github.com/waluna/waluna/internal/services/torrents"
)

// setupCommandLogger sends logs to stderr so stdout only carries results.
func setupCommandLogger(cmd *cobra.Command, cfg *config.AppConfig) error {
	_, err := logger.Setup(logger.Options{
		Level: cfg.Config.LogLevel,
		Out:   cmd.ErrOrStderr(),
	})
	return err
}

func RunMatchCommand() *cobra.Command {
	var (
		season  int
		episode int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "match <name>",
		Short: "Find torrents for an anime episode",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := torrents.Target{AnimeName: strings.Join(args, " ")}
			if cmd.Flags().Changed("season") {
				if season < 0 {
					return errors.New("--season must not be negative")
				}
				target.Season = &season
			}
			if cmd.Flags().Changed("episode") {
				if episode < 0 {
					return errors.New("--episode must not be negative")
				}
				target.Episode = &episode
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := setupCommandLogger(cmd, cfg); err != nil {
				return err
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			result := a.torrents.FilterTorrents(cmd.Context(), target)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return printMatchResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().IntVar(&season, "season", 0, "Season number (records without one count as season 1)")
	cmd.Flags().IntVar(&episode, "episode", 0, "Episode number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw match result as JSON")

	return cmd
}

func printMatchResult(out io.Writer, result torrents.MatchResult) error {
	fmt.Fprintf(out, "Strategy: %s\n", result.Strategy)
	fmt.Fprintf(out, "Matches: %d\n", len(result.Matches))

	if len(result.Matches) > 0 {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FILENAME\tQUALITY\tSIZE\tSEEDERS")
		for _, rec := range result.Matches {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rec.Filename, orDash(rec.Quality), formatSize(rec.TorrentInfo), formatCount(rec.TorrentInfo.Seeders))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(result.PartialMatches) > 0 {
		fmt.Fprintf(out, "Partial matches: %d\n", len(result.PartialMatches))
		for _, pm := range result.PartialMatches {
			fmt.Fprintf(out, "  [%s] %s (%s)\n", pm.Type, pm.Torrent.Filename, pm.Reason)
		}
	}
	return nil
}

func formatSize(info torrents.TorrentInfo) string {
	if info.SizeBytes != nil && *info.SizeBytes >= 0 {
		return humanize.IBytes(uint64(*info.SizeBytes))
	}
	return orDash(info.Size)
}

func formatCount(v *int) string {
	if v == nil {
		return "-"
	}
	return humanize.Comma(int64(*v))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func RunSuggestCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <term>",
		Short: "Suggest catalog titles for a search term",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := setupCommandLogger(cmd, cfg); err != nil {
				return err
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			results := a.suggest.Suggest(cmd.Context(), "", strings.Join(args, " "))
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}
			for i, title := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, title)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of suggestions (0 uses the service default)")
	return cmd
}
