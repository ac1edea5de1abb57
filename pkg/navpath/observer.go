package navpath

// Op identifies a Path mutation.
type Op string

const (
	OpPush         Op = "push"
	OpPop          Op = "pop"
	OpPopToRoot    Op = "pop_to_root"
	OpPresentSheet Op = "present_sheet"
	OpDismissSheet Op = "dismiss_sheet"
)

// Change is delivered to observers after every successful mutation. Each
// observer receives its own copies of the slices and the animation.
type Change struct {
	Op        Op
	Added     []Entry    // Entries appended by the mutation
	Removed   []Entry    // Entries removed, in removal order (top first)
	NoSheet   []Entry    // Non-sheet entries in stack order
	OnlySheet []Entry    // The active sheet, if any
	Animation *Animation // Relevant animation, nil when the mutation is not animated
	Depth     int        // Number of entries after the mutation
}

func (c Change) clone() Change {
	c.Added = cloneEntries(c.Added)
	c.Removed = cloneEntries(c.Removed)
	c.NoSheet = cloneEntries(c.NoSheet)
	c.OnlySheet = cloneEntries(c.OnlySheet)
	if c.Animation != nil {
		anim := *c.Animation
		c.Animation = &anim
	}
	return c
}

func cloneEntries(in []Entry) []Entry {
	if in == nil {
		return nil
	}
	out := make([]Entry, len(in))
	copy(out, in)
	return out
}

// SheetPresented reports whether a sheet is active after the change.
func (c Change) SheetPresented() bool {
	return len(c.OnlySheet) > 0
}

// Observer receives change notifications. PathChanged runs synchronously on
// the goroutine that performed the mutation and must not mutate the same
// Path; doing so fails with ErrReentrantMutation. A panic in PathChanged is
// recovered and logged, and the remaining observers are still notified.
type Observer interface {
	PathChanged(Change)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Change)

func (f ObserverFunc) PathChanged(c Change) { f(c) }

// RejectHook is called when a mutation is rejected.
type RejectHook func(op Op, err error)
