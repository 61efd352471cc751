package track

import "github.com/samber/mo"

// Resolver owns the ActiveTrackState of a session. It never caches the
// active track beyond what it last read back from the element.
type Resolver struct {
	tracks    []Descriptor
	preferred string

	explicit bool
	desired  mo.Option[int]
	active   mo.Option[int]
}

// NewResolver creates a resolver for the caller's descriptors.
func NewResolver(tracks []Descriptor, preferredLabel string) *Resolver {
	return &Resolver{
		tracks:    tracks,
		preferred: preferredLabel,
		desired:   mo.None[int](),
		active:    mo.None[int](),
	}
}

// Sync recomputes the desired track for the current runtime list and returns
// the actions needed to reach it. Safe to call any number of times: with an
// unchanged list it returns no actions after the first reconciliation.
func (r *Resolver) Sync(runtime []Runtime) []Action {
	if !r.explicit {
		r.desired = ResolveDefault(r.tracks, runtime, r.preferred)
	}
	return Reconcile(runtime, r.desired)
}

// SelectExplicit records a user choice, overriding the default algorithm for
// the rest of the session. None turns subtitles off.
func (r *Resolver) SelectExplicit(index mo.Option[int], runtime []Runtime) []Action {
	r.explicit = true
	r.desired = index
	return Reconcile(runtime, r.desired)
}

// Observe reconciles the resolver's view against the element after actions
// were applied and returns the track that is actually showing.
func (r *Resolver) Observe(runtime []Runtime) mo.Option[int] {
	r.active = Active(runtime)
	return r.active
}

// Active returns the last observed active track.
func (r *Resolver) Active() mo.Option[int] {
	return r.active
}

// Desired returns the track the resolver is steering towards.
func (r *Resolver) Desired() mo.Option[int] {
	return r.desired
}

// Explicit reports whether the user has overridden the default choice.
func (r *Resolver) Explicit() bool {
	return r.explicit
}
