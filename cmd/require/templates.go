package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/rpggio/require/internal/domain/template"
	"github.com/spf13/cobra"
)

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List built-in project templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCOMPONENTS\tDESCRIPTION")
			for _, t := range template.DefaultRegistry().All() {
				bp := t.Build(t.Name, t.Description)
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", t.ID, t.Name, len(bp.Components), t.Description)
			}
			return w.Flush()
		},
	}
}
