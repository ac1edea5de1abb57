package navpath

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RootPaintOrder is the paint order of the root content. It always paints
// beneath the first entry of a Path.
const RootPaintOrder = -1

// Kind classifies how an Entry is presented.
type Kind int

const (
	KindPlain    Kind = iota // Pushed without a custom transition
	KindAnimated             // Pushed with an explicit Transition and Animation
	KindSheet                // Presented modally as an overlay
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindAnimated:
		return "animated"
	case KindSheet:
		return "sheet"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Transition names the visual transition used when an animated entry
// enters or leaves the screen.
type Transition struct {
	Name string // e.g. TransitionSlide
	Edge Edge   // Edge the entry moves from, only meaningful for move transitions
}

const (
	TransitionSlide   = "slide"
	TransitionOpacity = "opacity"
	TransitionScale   = "scale"
	TransitionMove    = "move"
	TransitionPush    = "push"
)

// Edge is the screen edge a move transition is anchored to.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeLeading
	EdgeTrailing
	EdgeTop
	EdgeBottom
)

// Curve is the timing curve of an Animation.
type Curve string

const (
	CurveLinear    Curve = "linear"
	CurveEaseIn    Curve = "easeIn"
	CurveEaseOut   Curve = "easeOut"
	CurveEaseInOut Curve = "easeInOut"
	CurveSpring    Curve = "spring"
)

// Animation describes how a transition is timed. Interpolation itself is
// left to the rendering layer.
type Animation struct {
	Curve    Curve
	Duration time.Duration
	Delay    time.Duration
}

// DismissHandler is invoked exactly once when a sheet entry leaves the path.
type DismissHandler func()

// Entry is one navigable unit of a Path. Entries are immutable values; the
// paint order is written by the Path that holds them.
type Entry struct {
	id         string
	kind       Kind
	content    any
	transition Transition
	animation  Animation
	onDismiss  DismissHandler
	paintOrder int
}

// EntryOption configures an Entry at construction.
type EntryOption func(*Entry)

// WithID overrides the generated identity of an entry. Use it when the
// rendering layer needs identities that survive process restarts.
func WithID(id string) EntryOption {
	return func(e *Entry) {
		if id != "" {
			e.id = id
		}
	}
}

func newEntry(kind Kind, content any, opts []EntryOption) Entry {
	e := Entry{
		id:         uuid.NewString(),
		kind:       kind,
		content:    content,
		paintOrder: RootPaintOrder,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&e)
		}
	}
	return e
}

// Plain creates an entry pushed without a custom transition.
func Plain(content any, opts ...EntryOption) Entry {
	return newEntry(KindPlain, content, opts)
}

// Animated creates an entry pushed with the given transition and animation.
func Animated(content any, transition Transition, animation Animation, opts ...EntryOption) Entry {
	e := newEntry(KindAnimated, content, opts)
	e.transition = transition
	e.animation = animation
	return e
}

// Sheet creates a modal entry. onDismiss may be nil.
func Sheet(content any, onDismiss DismissHandler, opts ...EntryOption) Entry {
	e := newEntry(KindSheet, content, opts)
	e.onDismiss = onDismiss
	return e
}

// ID returns the stable identity of the entry.
func (e Entry) ID() string { return e.id }

// Kind returns the presentation kind.
func (e Entry) Kind() Kind { return e.kind }

// Content returns the opaque content the rendering layer resolves.
func (e Entry) Content() any { return e.content }

// Transition returns the transition of an animated entry.
func (e Entry) Transition() (Transition, bool) {
	return e.transition, e.kind == KindAnimated
}

// Animation returns the animation of an animated entry.
func (e Entry) Animation() (Animation, bool) {
	return e.animation, e.kind == KindAnimated
}

// PaintOrder returns the z-order assigned by the owning Path. An entry that
// was never added to a Path reports RootPaintOrder.
func (e Entry) PaintOrder() int { return e.paintOrder }

// IsSheet reports whether the entry is presented modally.
func (e Entry) IsSheet() bool { return e.kind == KindSheet }

// Same reports whether both values describe the same entry, regardless of
// paint order or content.
func (e Entry) Same(other Entry) bool { return e.id == other.id }

func (e Entry) withPaintOrder(order int) Entry {
	e.paintOrder = order
	return e
}

func (e Entry) String() string {
	return fmt.Sprintf("%s(%s)@%d", e.kind, e.id, e.paintOrder)
}
