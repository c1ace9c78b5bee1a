package main

import (
	"github.com/spf13/cobra"
)

func newPollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Run one GetItems reconciliation pass and print the resulting queue",
		Long:  "The CLI analogue of the plugin's polling cadence: fuses cloud inventory with mapping and disk state once, starts any fetchers that are due, and prints the projected download-client queue.",
		RunE:  runPoll,
	}
}

func runPoll(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	engine, history, err := buildEngine(cmd.Context(), cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}
	defer history.Close()

	items := engine.GetItems(cmd.Context())

	if cc.Flags.JSON {
		return renderItemsJSON(cmd.OutOrStdout(), items)
	}

	renderItemsTable(cmd.OutOrStdout(), items)

	return nil
}
