package track

import (
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func apply(runtime []Runtime, actions []Action) []Runtime {
	out := append([]Runtime(nil), runtime...)
	for _, a := range actions {
		out[a.Index].Mode = a.Mode
	}
	return out
}

func TestReconcile(t *testing.T) {
	Convey("Reconcile", t, func() {
		runtime := []Runtime{
			{Label: "thumbs", Kind: Metadata, Mode: Hidden},
			{Label: "English", Kind: Subtitles, Mode: Showing},
			{Label: "Deutsch", Kind: Subtitles, Mode: Disabled},
		}

		Convey("Disables the old track before enabling the new one", func() {
			actions := Reconcile(runtime, mo.Some(2))
			So(actions, ShouldResemble, []Action{
				{Index: 1, Mode: Disabled},
				{Index: 2, Mode: Showing},
			})
		})

		Convey("Produces no actions when already reconciled", func() {
			So(Reconcile(runtime, mo.Some(1)), ShouldBeEmpty)
		})

		Convey("None disables every selectable track but leaves metadata alone", func() {
			after := apply(runtime, Reconcile(runtime, mo.None[int]()))
			So(after[0].Mode, ShouldEqual, Hidden)
			So(Active(after).IsPresent(), ShouldBeFalse)
		})

		Convey("An out-of-range or metadata index counts as none", func() {
			So(Active(apply(runtime, Reconcile(runtime, mo.Some(9)))).IsPresent(), ShouldBeFalse)
			So(Active(apply(runtime, Reconcile(runtime, mo.Some(0)))).IsPresent(), ShouldBeFalse)
		})

		Convey("Leaves exactly one showing track", func() {
			messy := []Runtime{
				{Label: "a", Kind: Subtitles, Mode: Showing},
				{Label: "b", Kind: Subtitles, Mode: Showing},
				{Label: "c", Kind: Captions, Mode: Hidden},
			}
			after := apply(messy, Reconcile(messy, mo.Some(2)))
			showing := 0
			for _, rt := range after {
				if rt.Mode == Showing {
					showing++
				}
			}
			So(showing, ShouldEqual, 1)
			So(Active(after), ShouldResemble, mo.Some(2))
		})
	})
}

func TestResolver(t *testing.T) {
	Convey("Given a resolver over asynchronously enumerated tracks", t, func() {
		r := NewResolver([]Descriptor{{Label: "Deutsch", Kind: Subtitles, Default: true}}, "")

		Convey("An empty list yields nothing and is safe to repeat", func() {
			So(r.Sync(nil), ShouldBeEmpty)
			So(r.Sync(nil), ShouldBeEmpty)
			So(r.Observe(nil).IsPresent(), ShouldBeFalse)
		})

		Convey("Late enumeration converges and repeated syncs are idempotent", func() {
			runtime := []Runtime{
				{Label: "English", Language: "en", Kind: Subtitles},
				{Label: "Deutsch", Language: "de", Kind: Subtitles},
			}
			runtime = apply(runtime, r.Sync(runtime))
			So(r.Observe(runtime), ShouldResemble, mo.Some(1))
			So(r.Sync(runtime), ShouldBeEmpty)
		})

		Convey("An explicit choice sticks across later syncs", func() {
			runtime := []Runtime{
				{Label: "English", Language: "en", Kind: Subtitles},
				{Label: "Deutsch", Language: "de", Kind: Subtitles},
			}
			runtime = apply(runtime, r.SelectExplicit(mo.Some(0), runtime))
			So(r.Observe(runtime), ShouldResemble, mo.Some(0))
			So(r.Explicit(), ShouldBeTrue)
			So(r.Sync(runtime), ShouldBeEmpty)

			runtime = apply(runtime, r.SelectExplicit(mo.None[int](), runtime))
			So(r.Observe(runtime).IsPresent(), ShouldBeFalse)
		})
	})
}
