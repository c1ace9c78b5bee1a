package reconcile

import (
	"context"

	"github.com/MaxwellDPS/seedr-adapter/internal/collab"
	"github.com/MaxwellDPS/seedr-adapter/internal/ownership"
)

// fakeRegistry is a configurable ownership.Registry test double.
type fakeRegistry struct {
	isOwnedByMe       ownership.Tri
	releaseOwnership  ownership.Tri
	testConnectionErr error
}

var _ ownership.Registry = (*fakeRegistry)(nil)

func (f *fakeRegistry) ClaimOwnership(context.Context, string) error { return nil }

func (f *fakeRegistry) IsOwnedByMe(context.Context, string) ownership.Tri { return f.isOwnedByMe }

func (f *fakeRegistry) ReleaseOwnership(context.Context, string) ownership.Tri {
	return f.releaseOwnership
}

func (f *fakeRegistry) TestConnection(context.Context) error { return f.testConnectionErr }

// fakeHistory is a configurable collab.GrabHistory test double.
type fakeHistory struct {
	records []collab.GrabRecord
	err     error
}

var _ collab.GrabHistory = (*fakeHistory)(nil)

func (f *fakeHistory) ListGrabs(context.Context) ([]collab.GrabRecord, error) {
	return f.records, f.err
}
