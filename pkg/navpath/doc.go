// Package navpath models a navigation path: an ordered stack of screens,
// animated pushes and modal sheets that a UI layer projects onto its views.
//
// The path never interprets entry content. It classifies entries, keeps them
// ordered, assigns paint order (z-index) and tells observers what changed.
// Rendering is done by whoever subscribes.
//
// # Basic Usage
//
//	p := navpath.New(navpath.WithRoot(homeView))
//
//	p.Subscribe(navpath.ObserverFunc(func(c navpath.Change) {
//	    render(c.NoSheet, c.OnlySheet, c.Animation)
//	}))
//
//	_ = p.Push(navpath.Plain(listView))
//	_ = p.Push(navpath.Animated(detailView,
//	    navpath.Transition{Name: navpath.TransitionSlide},
//	    navpath.Animation{Curve: navpath.CurveEaseInOut, Duration: 300 * time.Millisecond}))
//
//	_ = p.PresentSheet(navpath.Sheet(filterView, func() {
//	    // runs exactly once when the sheet leaves the path
//	}))
//
//	p.DismissSheet()
//	p.Pop()
//
// # Sheets
//
// At most one sheet is on a path at a time. Presenting a second one fails
// with ErrInvalidState and leaves the path unchanged; check SheetPresented
// first. Plain and animated entries may be pushed while a sheet is
// presented; they stay part of the NoSheet surface.
//
// # Empty Paths
//
// By default Pop and PopToRoot on an empty path return ErrEmptyStack. Use
// WithEmptyPolicy(EmptyPolicyIgnore) to make them silent no-ops instead.
// DismissSheet without a presented sheet is always a no-op.
//
// # Reentrancy
//
// Dismiss handlers and observers run synchronously inside the mutation that
// triggered them. Mutating the same path from there fails with
// ErrReentrantMutation.
package navpath
