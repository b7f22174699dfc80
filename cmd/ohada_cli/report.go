package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	"github.com/SscSPs/ohada_reporting_app/internal/dto"
	"github.com/spf13/cobra"
)

const reportExample = `  ohada_cli report --type bal_gen --company CI13 --year 2024 --start 1 --end 12
  ohada_cli report --type gl_fourn --company SN11 --year 2024 --start 1 --end 3`

func reportCommand(c *cli) *cobra.Command {
	var (
		req    dto.GenerateReportRequest
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Generate a ledger or trial balance workbook, served from the cache when unchanged",
		Example: reportExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			artifact, err := a.Services.Reporting.GenerateReport(cmd.Context(), req.ToDomain())
			if err != nil {
				return err
			}
			return printArtifact(cmd.OutOrStdout(), artifact, asJSON)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.ReportType, "type", "", "report type code, see 'ohada_cli types'")
	flags.StringVar(&req.CompanyCode, "company", "", "company code, e.g. CI13")
	flags.IntVar(&req.Year, "year", 0, "fiscal year")
	flags.IntVar(&req.StartMonth, "start", 1, "first month of the period (1-12)")
	flags.IntVar(&req.EndMonth, "end", 12, "last month of the period (1-12)")
	flags.StringVar(&req.PartnerType, "partner", "", "Vendor or Customer, implied by partner report types")
	flags.BoolVar(&req.Bank, "bank", false, "restrict to the bank account list, implied by bank report types")
	flags.StringVar(&req.Layout, "layout", "", "named layout profile for ledger columns")
	flags.BoolVar(&asJSON, "json", false, "print the artifact as JSON")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}

func typesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the implemented report types",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range dto.ToReportTypeResponses() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", t.Code, t.Title)
			}
			return nil
		},
	}
}

func journalCommand(c *cli) *cobra.Command {
	var (
		req    dto.PrintJournalRequest
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Print the accounting slip (fiche comptable) of one document number",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			artifact, err := a.Services.Reporting.PrintJournal(cmd.Context(), req.ToDomain())
			if err != nil {
				return err
			}
			return printArtifact(cmd.OutOrStdout(), artifact, asJSON)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.CompanyCode, "company", "", "company code, e.g. CI13")
	flags.IntVar(&req.Year, "year", 0, "fiscal year")
	flags.StringVar(&req.DocumentNumber, "document", "", "document number")
	flags.BoolVar(&asJSON, "json", false, "print the artifact as JSON")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("document")

	return cmd
}

func printArtifact(w io.Writer, artifact *domain.ReportArtifact, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(artifact)
	}

	status := "MISS"
	if artifact.CacheHit {
		status = "HIT"
	}
	fmt.Fprintf(w, "%s\n", artifact.Path)
	if artifact.CacheKey != "" {
		fmt.Fprintf(w, "cache: %s (%s)\n", status, artifact.CacheKey)
	}
	if artifact.Empty {
		fmt.Fprintln(w, "no transaction in the requested period")
	}
	for _, warn := range artifact.Warnings {
		fmt.Fprintf(w, "warning: %s: %s: %s\n", warn.File, warn.Column, warn.Detail)
	}
	return nil
}
