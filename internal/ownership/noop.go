package ownership

import "context"

// NoopRegistry is used when multi-tenancy is not configured (shared account
// disabled, or instance tag / connection string missing). Every membership
// query returns Unknown so callers fall through to their fail-safe path.
type NoopRegistry struct{}

var _ Registry = NoopRegistry{}

func (NoopRegistry) ClaimOwnership(context.Context, string) error { return nil }

func (NoopRegistry) IsOwnedByMe(context.Context, string) Tri { return Unknown }

func (NoopRegistry) ReleaseOwnership(context.Context, string) Tri { return Unknown }

func (NoopRegistry) TestConnection(context.Context) error { return nil }
