package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Validate Seedr credentials, quota, download directory, and the ownership registry",
		Long:  "Runs the same self-test a movie-collection manager would run before accepting this adapter as a download client: account auth, storage headroom, local download directory, and (if shared_account is configured) the ownership registry connection.",
		RunE:  runTest,
	}
}

func runTest(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	engine, history, err := buildEngine(cmd.Context(), cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}
	defer history.Close()

	failures := engine.Test(cmd.Context())

	if cc.Flags.JSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(failures)
	}

	if len(failures) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "OK: Seedr adapter is configured correctly.")
		return nil
	}

	var hasError bool

	for _, f := range failures {
		kind := "ERROR"
		if f.IsWarning {
			kind = "WARN"
		} else {
			hasError = true
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] %s\n", kind, f.Field, f.Message)
	}

	if hasError {
		return fmt.Errorf("self-test failed")
	}

	return nil
}
