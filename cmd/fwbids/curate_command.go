package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fwbids/internal/audit"
	"fwbids/internal/curate"
	"fwbids/internal/runlock"
)

func newCurateCommand(ctx *commandContext) *cobra.Command {
	var projectParts []string
	var heuristicRef string
	var subjects []string
	var sessions []string
	var verbose bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "curate",
		Short: "Apply a heuristic to organize a project's files into a BIDS layout",
		Long: `Query the remote service for a project's imaging sessions, classify their
scan sequences with the given heuristic, and write the resulting BIDS
organization back to the service.

The heuristic may be a registered preset name, a Go file interpreted at
runtime, or a YAML rule file.

Examples:
  fwbids curate --project Study A --heuristic heuristic.go
  fwbids curate --project StudyA --heuristic rules.yaml --subject sub-01 --dry_run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.newLogger(cfg, verbose)
			if err != nil {
				return err
			}
			client, err := ctx.newClient(cfg)
			if err != nil {
				return err
			}

			projectLabel := strings.Join(projectParts, " ")

			opts := []curate.Option{}
			if cfg.Audit.Enabled {
				store, err := audit.Open(cfg.Audit.Path)
				if err != nil {
					return err
				}
				defer store.Close()
				opts = append(opts, curate.WithAuditStore(store))
			}

			if !dryRun {
				lock, err := runlock.Acquire(cfg.Curate.LockDir, projectLabel)
				if err != nil {
					return err
				}
				defer func() { _ = lock.Release() }()
			}

			curator := curate.New(client, logger, opts...)
			result, err := curator.Run(cmd.Context(), curate.Options{
				ProjectLabel:  projectLabel,
				HeuristicRef:  heuristicRef,
				SubjectLabels: subjects,
				SessionLabels: sessions,
				DryRun:        dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintln(out, renderPlannedActions(result))
				printStatusLine(out, "Dry run", statusOK, "no changes were applied")
				return nil
			}

			total := 0
			for _, applied := range result.Applied {
				total += len(applied.Actions)
			}
			printStatusLine(out, "Curation", statusOK,
				fmt.Sprintf("%d destinations, %d files updated (run %s)", len(result.Applied), total, result.RunID))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&projectParts, "project", nil, "The project label (repeatable; parts are joined with spaces)")
	cmd.Flags().StringVar(&heuristicRef, "heuristic", "", "Heuristic preset name, .go file, or .yaml rule file")
	cmd.Flags().StringArrayVar(&subjects, "subject", nil, "Only curate these subject labels")
	cmd.Flags().StringArrayVar(&sessions, "session", nil, "Only curate these session labels")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Print ongoing messages of progress")
	cmd.Flags().BoolVar(&dryRun, "dry_run", false, "Compute changes without applying them")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("heuristic")

	return cmd
}

func renderPlannedActions(result *curate.Result) string {
	headers := []string{"Destination", "Acquisition", "File", "IntendedFor"}
	var rows [][]string
	for _, applied := range result.Applied {
		for _, action := range applied.Actions {
			rows = append(rows, []string{
				action.Destination,
				action.AcquisitionID,
				action.FileName,
				strconv.Itoa(len(action.IntendedFor)),
			})
		}
	}
	if len(rows) == 0 {
		return "No files matched the heuristic."
	}
	return renderTable(headers, rows, 4)
}
