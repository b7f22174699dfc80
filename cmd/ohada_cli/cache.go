package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	"github.com/SscSPs/ohada_reporting_app/internal/dto"
	"github.com/SscSPs/ohada_reporting_app/internal/utils"
	"github.com/spf13/cobra"
)

func cacheCommands(c *cli) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or purge the report cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the number and total size of cached artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := a.Services.Reporting.CacheStats(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dto.ToCacheStatsResponse(stats))
		},
	}

	var key string
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached artifact, or one with --key",
		RunE: func(cmd *cobra.Command, args []string) error {
			var target *domain.CacheKey
			if key != "" {
				parsed, err := domain.ParseCacheKey(key)
				if err != nil {
					return err
				}
				target = &parsed
			}
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.Services.Reporting.ClearCache(cmd.Context(), target); err != nil {
				return err
			}
			if target == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache entry cleared")
			}
			return nil
		},
	}
	clearCmd.Flags().StringVar(&key, "key", "", "printed cache key of the entry to delete")

	var (
		limit     int
		pageToken string
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cached artifacts, most recently accessed first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			page, err := a.Services.Reporting.CacheEntries(cmd.Context(), limit, pageToken)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, e := range page.Entries {
				fmt.Fprintf(w, "%s  %s\n", e.AccessedAt.Format(time.RFC3339), e.Key)
			}
			if page.NextPageToken != "" {
				fmt.Fprintf(w, "next page: --page-token %s\n", page.NextPageToken)
			}
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "page size")
	listCmd.Flags().StringVar(&pageToken, "page-token", "", "token printed by the previous page")

	cacheCmd.AddCommand(statsCmd, listCmd, clearCmd)
	return cacheCmd
}

func tokenCommand(c *cli) *cobra.Command {
	var (
		operator string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin bearer token for the cache maintenance endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := utils.GenerateAdminJWT(operator, c.cfg.AdminJWTSecret, ttl, "ohada_cli")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&operator, "operator", "", "operator recorded as the token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("operator")

	return cmd
}
