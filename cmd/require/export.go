package main

import (
	"fmt"

	"github.com/rpggio/require/internal/config"
	"github.com/rpggio/require/internal/domain/model"
	"github.com/rpggio/require/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored projects",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "mermaid [project-id]",
		Short: "Print a project as a Mermaid flowchart (default: the current project)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			logger, closeLog := newLogger(withStderrLogs(cfg))
			defer closeLog()

			ws, closeWorkspace, err := openWorkspace(cmd.Context(), cfg, logger, nil)
			if err != nil {
				return err
			}
			defer closeWorkspace()

			var p *model.Project
			if len(args) == 1 {
				p, err = ws.Project(args[0])
			} else {
				p, err = ws.CurrentProject()
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), export.Mermaid(p))
			return err
		},
	})
	return cmd
}

// withStderrLogs keeps command output clean when stdout is the payload.
func withStderrLogs(cfg config.Config) config.Config {
	cfg.Transport.Mode = "stdio"
	return cfg
}
