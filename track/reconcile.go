package track

import "github.com/samber/mo"

// Action sets the mode of one runtime track.
type Action struct {
	Index int
	Mode  Mode
}

// Reconcile computes the mode changes that bring the runtime list to the
// desired state: the desired track showing, every other selectable track
// disabled. Metadata and thumbnail tracks are left alone. Disabling actions
// come first so two tracks are never showing at once. An out-of-range
// desired index is treated as none.
func Reconcile(runtime []Runtime, desired mo.Option[int]) []Action {
	want, ok := desired.Get()
	if ok && (want < 0 || want >= len(runtime) || !runtime[want].Kind.Selectable()) {
		ok = false
	}

	var disable, enable []Action
	for i, rt := range runtime {
		if !rt.Kind.Selectable() {
			continue
		}
		switch {
		case ok && i == want:
			if rt.Mode != Showing {
				enable = append(enable, Action{Index: i, Mode: Showing})
			}
		case rt.Mode != Disabled:
			disable = append(disable, Action{Index: i, Mode: Disabled})
		}
	}

	return append(disable, enable...)
}

// Active returns the index of the showing selectable track as read back from
// the element. When several are showing, which the element may briefly
// report, the first wins.
func Active(runtime []Runtime) mo.Option[int] {
	for i, rt := range runtime {
		if rt.Kind.Selectable() && rt.Mode == Showing {
			return mo.Some(i)
		}
	}
	return mo.None[int]()
}
