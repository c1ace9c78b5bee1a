package reconcile

import (
	"context"
	"errors"

	"github.com/MaxwellDPS/seedr-adapter/internal/ownership"
	"github.com/MaxwellDPS/seedr-adapter/internal/seedrapi"
)

// spaceUsageWarningThreshold is the fraction of account quota at which Test
// emits a capacity warning.
const spaceUsageWarningThreshold = 0.90

// Test validates account credentials, quota headroom, the local download
// directory, and (if configured) the ownership registry connection.
func (e *Engine) Test(ctx context.Context) []ValidationFailure {
	var failures []ValidationFailure

	user, err := e.client.GetUser(ctx)
	if err != nil {
		failures = append(failures, ValidationFailure{
			Field:   "Email",
			Message: authFailureMessage(err),
		})
	} else if user.SpaceMax > 0 && float64(user.SpaceUsed)/float64(user.SpaceMax) >= spaceUsageWarningThreshold {
		failures = append(failures, ValidationFailure{
			Field:     "Email",
			Message:   "Seedr account storage is nearly full",
			IsWarning: true,
		})
	}

	if err := e.disk.DirectoryExistsAndWritable(e.downloadDir); err != nil {
		failures = append(failures, ValidationFailure{
			Field:   "DownloadDirectory",
			Message: err.Error(),
		})
	}

	_, isNoop := e.registry.(ownership.NoopRegistry)

	if !isNoop {
		if err := e.registry.TestConnection(ctx); err != nil {
			failures = append(failures, ValidationFailure{
				Field:   "Redis",
				Message: err.Error(),
			})
		}
	} else if e.sharedAccount {
		failures = append(failures, ValidationFailure{
			Field:     "Redis",
			Message:   "Shared-account mode is enabled but no ownership registry is configured",
			IsWarning: true,
		})
	}

	return failures
}

func authFailureMessage(err error) string {
	if errors.Is(err, seedrapi.ErrAuthFailure) {
		return "Invalid Seedr credentials"
	}

	return err.Error()
}
