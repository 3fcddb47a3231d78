package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List the projects visible with the configured credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			client, err := ctx.newClient(cfg)
			if err != nil {
				return err
			}

			projects, err := client.ListProjects(cmd.Context())
			if err != nil {
				return fmt.Errorf("list projects: %w", err)
			}

			collator := collate.New(language.English, collate.IgnoreCase)
			sort.Slice(projects, func(i, j int) bool {
				return collator.CompareString(projects[i].Label, projects[j].Label) < 0
			})

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects are visible.")
				return nil
			}
			rows := make([][]string, 0, len(projects))
			for _, project := range projects {
				rows = append(rows, []string{project.Label, project.ID})
			}
			fmt.Fprintln(out, renderTable([]string{"Label", "ID"}, rows))
			return nil
		},
	}
}
