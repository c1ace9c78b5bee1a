package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/MaxwellDPS/seedr-adapter/internal/reconcile"
)

// jsonItem is the JSON-rendered shape of a DownloadClientItem; ETA is
// rendered as seconds since time.Duration has no canonical JSON form.
type jsonItem struct {
	DownloadID    string  `json:"download_id"`
	Name          string  `json:"name"`
	TotalSize     int64   `json:"total_size"`
	RemainingSize int64   `json:"remaining_size"`
	Status        string  `json:"status"`
	Message       string  `json:"message,omitempty"`
	OutputPath    string  `json:"output_path,omitempty"`
	CanMoveFiles  bool    `json:"can_move_files"`
	CanBeRemoved  bool    `json:"can_be_removed"`
	ETASeconds    float64 `json:"eta_seconds,omitempty"`
}

func renderItemsJSON(w io.Writer, items []reconcile.DownloadClientItem) error {
	out := make([]jsonItem, 0, len(items))

	for _, it := range items {
		out = append(out, jsonItem{
			DownloadID:    it.DownloadID,
			Name:          it.Name,
			TotalSize:     it.TotalSize,
			RemainingSize: it.RemainingSize,
			Status:        it.Status.String(),
			Message:       it.Message,
			OutputPath:    it.OutputPath,
			CanMoveFiles:  it.CanMoveFiles,
			CanBeRemoved:  it.CanBeRemoved,
			ETASeconds:    it.ETA.Seconds(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func renderItemsTable(w io.Writer, items []reconcile.DownloadClientItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No active downloads.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "DOWNLOAD ID\tNAME\tSTATUS\tREMAINING\tMESSAGE")

	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", it.DownloadID, it.Name, it.Status, it.RemainingSize, it.Message)
	}

	tw.Flush()
}
