package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MaxwellDPS/seedr-adapter/internal/reconcile"
)

func newSubmitCmd() *cobra.Command {
	var infoHash string

	cmd := &cobra.Command{
		Use:   "submit <magnet-uri|torrent-file>",
		Short: "Submit a release to Seedr and record its mapping",
		Long:  "Registers a magnet link or .torrent file with Seedr (spec.md §4.5 Submit) and prints the info-hash to use as the download id thereafter.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, args[0], infoHash)
		},
	}

	cmd.Flags().StringVar(&infoHash, "info-hash", "", "known info-hash, skipping hash extraction")

	return cmd
}

func runSubmit(cmd *cobra.Command, target, infoHash string) error {
	cc := mustCLIContext(cmd.Context())

	engine, history, err := buildEngine(cmd.Context(), cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}
	defer history.Close()

	release := reconcile.Release{InfoHash: infoHash}

	if strings.HasPrefix(target, "magnet:") {
		release.MagnetURI = target
	} else {
		payload, err := os.ReadFile(target)
		if err != nil {
			return fmt.Errorf("reading torrent file: %w", err)
		}

		release.TorrentPayload = payload
		release.TorrentName = filepath.Base(target)
	}

	downloadID, err := engine.Submit(cmd.Context(), release)
	if err != nil {
		return err
	}

	meta := engine.GrabMetadata(downloadID)
	if err := history.RecordGrab(cmd.Context(), downloadID, meta["SeedrName"], meta["SeedrTransferId"], time.Now().Unix()); err != nil {
		cc.Logger.Warn("recording grab history", slog.String("info_hash", downloadID), slog.String("error", err.Error()))
	}

	fmt.Fprintln(cmd.OutOrStdout(), downloadID)

	return nil
}
