package reconcile

import (
	"context"
	"log/slog"
	"strings"
)

// GetItems runs one reconciliation pass: it fuses the current cloud
// inventory with local mapping state, advances fetchers, and returns the
// projected download-client queue.
func (e *Engine) GetItems(ctx context.Context) []DownloadClientItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ensureRecovered(ctx)

	snapshot, err := e.client.GetFolderContents(ctx, "")
	if err != nil {
		e.logger.Warn("fetching cloud inventory", slog.String("error", err.Error()))
		return nil
	}

	activeTransferNames := make(map[string]struct{}, len(snapshot.Transfers))
	for _, t := range snapshot.Transfers {
		if t.Name != "" {
			activeTransferNames[strings.ToLower(t.Name)] = struct{}{}
		}
	}

	var items []DownloadClientItem

	for _, t := range snapshot.Transfers {
		values := e.store.Values()

		if item := e.processTransfer(ctx, t, values); item != nil {
			items = append(items, *item)
		}
	}

	for _, f := range snapshot.Folders {
		if _, active := activeTransferNames[strings.ToLower(f.Name)]; active {
			continue
		}

		values := e.store.Values()

		if item := e.processFolder(ctx, f, values); item != nil {
			items = append(items, *item)
		}
	}

	for _, file := range snapshot.Files {
		values := e.store.Values()

		if item := e.processFile(ctx, file, values); item != nil {
			items = append(items, *item)
		}
	}

	return items
}

// ensureRecovered performs the one-shot RecoverFromHistory call the first
// time GetItems runs against an empty mapping store, collapsing concurrent
// callers onto a single recovery attempt.
func (e *Engine) ensureRecovered(ctx context.Context) {
	if e.recovered {
		return
	}

	if len(e.store.Values()) != 0 {
		e.recovered = true
		return
	}

	_, _, _ = e.recoverGroup.Do("recover", func() (any, error) {
		if err := e.RecoverFromHistory(ctx); err != nil {
			e.logger.Warn("recovering mappings from grab history", slog.String("error", err.Error()))
		}

		return nil, nil
	})

	e.recovered = true
}
