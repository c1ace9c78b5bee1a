package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MaxwellDPS/seedr-adapter/internal/config"
)

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Signal a running watch daemon",
		Long:  "Sends SIGHUP to the PID recorded by a running `watch` process. The daemon logs that a restart is required to pick up config changes; this command exists to give process managers a uniform signal to send.",
		RunE:  runReload,
	}
}

func runReload(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	pidPath := filepath.Join(config.DefaultStateDir(), "watch.pid")

	if err := sendSIGHUP(pidPath); err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	cc.Logger.Info("sent SIGHUP to watch daemon", "pid_file", pidPath)

	return nil
}
