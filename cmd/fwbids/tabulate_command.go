package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fwbids/internal/curate"
	"fwbids/internal/query"
)

func newTabulateCommand(ctx *commandContext) *cobra.Command {
	var projectParts []string
	var subjects []string
	var sessions []string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "tabulate",
		Short: "List the sequence information gathered for a project",
		Long: `Query the remote service for a project's imaging sessions and print the
sequence information a heuristic would see, one row per acquisition.

With --output the rows are written as tab-separated values instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			client, err := ctx.newClient(cfg)
			if err != nil {
				return err
			}

			projectLabel := strings.Join(projectParts, " ")

			project, err := client.ResolveProject(cmd.Context(), projectLabel)
			if err != nil {
				return fmt.Errorf("resolve project %q: %w", projectLabel, err)
			}
			sessionList, err := client.ListSessions(cmd.Context(), project.ID)
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}
			sessionList = curate.FilterBySubject(sessionList, subjects)
			sessionList = curate.FilterBySession(sessionList, sessions)

			infos, err := query.GetSeqInfo(cmd.Context(), client, sessionList)
			if err != nil {
				return err
			}

			if outputPath != "" {
				if err := writeSeqInfoTSV(outputPath, infos); err != nil {
					return err
				}
				printStatusLine(cmd.OutOrStdout(), "Tabulate", statusOK,
					fmt.Sprintf("%d rows written to %s", len(infos), outputPath))
				return nil
			}

			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				fmt.Fprintln(out, "No acquisitions with DICOM files were found.")
				return nil
			}
			fmt.Fprintln(out, renderSeqInfoTable(infos))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&projectParts, "project", nil, "The project label (repeatable; parts are joined with spaces)")
	cmd.Flags().StringArrayVar(&subjects, "subject", nil, "Only include these subject labels")
	cmd.Flags().StringArrayVar(&sessions, "session", nil, "Only include these session labels")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write tab-separated values to this file")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

var seqInfoColumns = []string{
	"Subject", "Session", "Series", "Protocol", "TR", "TE", "Dim1", "Dim2", "Dim3", "Dim4", "ImageType",
}

func renderSeqInfoTable(infos []query.SeqInfo) string {
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, seqInfoRow(info))
	}
	return renderTable(seqInfoColumns, rows, 5, 6, 7, 8, 9, 10)
}

func writeSeqInfoTSV(path string, infos []query.SeqInfo) error {
	var sb strings.Builder
	sb.WriteString(strings.Join(seqInfoColumns, "\t"))
	sb.WriteByte('\n')
	for _, info := range infos {
		sb.WriteString(strings.Join(seqInfoRow(info), "\t"))
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func seqInfoRow(info query.SeqInfo) []string {
	return []string{
		info.SubjectLabel,
		info.SessionLabel,
		info.SeriesID,
		info.ProtocolName,
		strconv.FormatFloat(info.TR, 'f', 2, 64),
		strconv.FormatFloat(info.TE, 'f', 4, 64),
		strconv.Itoa(info.Dim1),
		strconv.Itoa(info.Dim2),
		strconv.Itoa(info.Dim3),
		strconv.Itoa(info.Dim4),
		info.ImageType,
	}
}
