package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	var deleteLocal bool

	cmd := &cobra.Command{
		Use:   "remove <info-hash>",
		Short: "Remove a mapping, deleting its cloud state (subject to ownership) and optionally local data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := mustCLIContext(cmd.Context())

			engine, history, err := buildEngine(cmd.Context(), cc.Cfg, cc.Logger)
			if err != nil {
				return err
			}
			defer history.Close()

			engine.GetItems(cmd.Context())

			if err := engine.RemoveItem(cmd.Context(), args[0], deleteLocal); err != nil {
				return err
			}

			// Mark the grab imported in history too, so a removed release
			// isn't resurrected by RecoverFromHistory on the next restart.
			if err := history.MarkImported(cmd.Context(), args[0]); err != nil {
				cc.Logger.Warn("marking grab history imported", slog.String("info_hash", args[0]), slog.String("error", err.Error()))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&deleteLocal, "delete-local", false, "also remove the local payload under the download directory")

	return cmd
}
