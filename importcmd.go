package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <info-hash>",
		Short: "Mark a release as imported, deleting its cloud state when configured",
		Long:  "Applies the same cloud-deletion logic as remove, gated by seedr.delete_from_cloud, but never touches local data (spec.md §4.5 MarkItemAsImported).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := mustCLIContext(cmd.Context())

			engine, history, err := buildEngine(cmd.Context(), cc.Cfg, cc.Logger)
			if err != nil {
				return err
			}
			defer history.Close()

			engine.GetItems(cmd.Context())

			if err := engine.MarkItemAsImported(cmd.Context(), args[0]); err != nil {
				return err
			}

			if err := history.MarkImported(cmd.Context(), args[0]); err != nil {
				cc.Logger.Warn("marking grab history imported", slog.String("info_hash", args[0]), slog.String("error", err.Error()))
			}

			return nil
		},
	}
}
