package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MaxwellDPS/seedr-adapter/internal/mapping"
	"github.com/MaxwellDPS/seedr-adapter/internal/ownership"
	"github.com/MaxwellDPS/seedr-adapter/internal/seedrapi"
)

// maxPlausibleETA bounds the progress-rate ETA estimate computed below; an
// estimate outside (0, maxPlausibleETA) is discarded as noise from a tiny
// elapsed-time sample.
const maxPlausibleETA = 24 * time.Hour

// processTransfer turns one in-flight cloud transfer into a Downloading
// item, updating (or creating) its mapping's progress-rate bookkeeping.
func (e *Engine) processTransfer(ctx context.Context, t seedrapi.TransferInfo, values []mapping.DownloadMapping) *DownloadClientItem {
	m, found := findByTransferID(values, t.ID)
	if !found {
		m, found = findByName(values, t.Name)
	}

	infoHash := m.InfoHash
	if infoHash == "" {
		if t.Hash != "" {
			infoHash = strings.ToUpper(t.Hash)
		} else {
			infoHash = fmt.Sprintf("seedr-%s", t.ID)
		}
	}

	if e.sharedAccount && e.registry.IsOwnedByMe(ctx, infoHash) == ownership.False {
		return nil
	}

	if !found && t.Hash != "" {
		m = mapping.DownloadMapping{InfoHash: infoHash}
		found = true
	}

	var eta time.Duration

	if found {
		now := time.Now()

		if t.Progress > 0 && t.Progress < 100 && t.Progress > m.LastProgress {
			if !m.LastProgressTime.IsZero() {
				elapsed := now.Sub(m.LastProgressTime).Seconds()
				rate := (t.Progress - m.LastProgress) / elapsed

				if rate > 0 {
					estimate := time.Duration((100-t.Progress)/rate*float64(time.Second))
					if estimate > 0 && estimate < maxPlausibleETA {
						eta = estimate
					}
				}
			}
		}

		if t.Progress != m.LastProgress {
			m.LastProgress = t.Progress
			m.LastProgressTime = now
		}

		m.TransferID = t.ID
		m.Name = t.Name

		e.store.Set(infoHash, m)
	}

	remaining := t.Size - int64(float64(t.Size)*t.Progress/100)
	if remaining < 0 {
		remaining = 0
	}

	return &DownloadClientItem{
		DownloadID:    infoHash,
		Name:          t.Name,
		TotalSize:     t.Size,
		RemainingSize: remaining,
		Status:        StatusDownloading,
		CanMoveFiles:  false,
		CanBeRemoved:  false,
		ETA:           eta,
	}
}
