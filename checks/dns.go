package checks

import (
	"context"
	"fmt"
	"net"

	health "github.com/hirenkeraliya/go-health"
)

// LookupFunc is a function that is used for looking up something (in DNS) and return the resolved results count, and a possible error
type LookupFunc func(ctx context.Context, lookFor string) (resolvedCount int, err error)

// ResolveCheck makes sure a name resolves to enough results.
// A failed lookup or zero results fail the check; fewer results than required is a warning.
type ResolveCheck struct {
	*health.Gate
	lookupFn           LookupFunc
	resolveThis        string
	minRequiredResults int
}

var _ health.Check = (*ResolveCheck)(nil)

// NewHostResolveCheck returns a check that makes sure the provided host can resolve
// to at least `minRequiredResults` IP address within the deadline of the provided context.
func NewHostResolveCheck(host string, minRequiredResults int) *ResolveCheck {
	return NewResolveCheck(NewHostLookup(nil), host, minRequiredResults)
}

// NewResolveCheck returns a check that makes sure the `resolveThis` arg can be resolved using the `lookupFn`
// to at least `minRequiredResults` result.
func NewResolveCheck(lookupFn LookupFunc, resolveThis string, minRequiredResults int) *ResolveCheck {
	check := &ResolveCheck{
		lookupFn:           lookupFn,
		resolveThis:        resolveThis,
		minRequiredResults: minRequiredResults,
	}
	check.Gate = health.NewGate(check)
	check.SetName("resolve." + resolveThis)

	return check
}

func (check *ResolveCheck) Run(ctx context.Context) health.Result {
	resolvedCount, err := check.lookupFn(ctx, check.resolveThis)
	meta := map[string]interface{}{
		"host":     check.resolveThis,
		"resolved": resolvedCount,
	}
	summary := fmt.Sprintf("[%d] results were resolved", resolvedCount)

	switch {
	case err != nil:
		return health.Failed(err.Error()).WithSummary(summary).WithMeta(meta)
	case resolvedCount == 0:
		return health.Failed(fmt.Sprintf("[%s] lookup returned no results", check.resolveThis)).
			WithSummary(summary).WithMeta(meta)
	case resolvedCount < check.minRequiredResults:
		return health.Warning(fmt.Sprintf("[%s] lookup returned %d results, but requires at least %d",
			check.resolveThis, resolvedCount, check.minRequiredResults)).WithSummary(summary).WithMeta(meta)
	}

	return health.OK(summary).WithSummary(summary).WithMeta(meta)
}

// NewHostLookup creates a LookupFunc that looks up host addresses
func NewHostLookup(resolver *net.Resolver) LookupFunc {
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	return func(ctx context.Context, host string) (resolvedCount int, err error) {
		addrs, err := resolver.LookupHost(ctx, host)
		resolvedCount = len(addrs)
		return
	}
}
