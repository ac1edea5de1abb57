package router

import (
	"github.com/BrandonKowalski/navpath/pkg/navpath"
)

// Route is the content of every entry the router places on its path. It
// stores the screen identifier, the input that was used to call the screen,
// and any resume state returned by the screen.
type Route struct {
	Screen Screen
	Input  any
	Resume any
}

// PushOption configures how a route is pushed.
type PushOption func(*pushConfig)

type pushConfig struct {
	animated   bool
	transition navpath.Transition
	animation  navpath.Animation
	id         string
}

// WithAnimation pushes the route as an animated entry.
func WithAnimation(transition navpath.Transition, animation navpath.Animation) PushOption {
	return func(c *pushConfig) {
		c.animated = true
		c.transition = transition
		c.animation = animation
	}
}

// WithEntryID gives the pushed entry a fixed identity.
func WithEntryID(id string) PushOption {
	return func(c *pushConfig) {
		c.id = id
	}
}

// History is the navigation history handed to transition functions. It is a
// view over the router's navpath.Path that deals in Routes.
type History struct {
	path *navpath.Path
}

func newHistory(p *navpath.Path) *History {
	return &History{path: p}
}

// Push adds a route to the history.
// Called when navigating forward to a new screen.
func (h *History) Push(screen Screen, input any, resume any, opts ...PushOption) error {
	cfg := pushConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	route := Route{Screen: screen, Input: input, Resume: resume}
	var idOpts []navpath.EntryOption
	if cfg.id != "" {
		idOpts = append(idOpts, navpath.WithID(cfg.id))
	}

	if cfg.animated {
		return h.path.Push(navpath.Animated(route, cfg.transition, cfg.animation, idOpts...))
	}
	return h.path.Push(navpath.Plain(route, idOpts...))
}

// PresentSheet adds a modal route. onDismiss runs once when it leaves the
// history, whether by Pop, DismissSheet or Clear.
func (h *History) PresentSheet(screen Screen, input any, onDismiss func()) error {
	route := Route{Screen: screen, Input: input}
	return h.path.PresentSheet(navpath.Sheet(route, onDismiss))
}

// DismissSheet removes the modal route, if any, and returns it. A sheet
// that was not presented through a History is left in place.
func (h *History) DismissSheet() *Route {
	sheet := h.path.OnlySheet()
	if len(sheet) == 0 || routeOf(sheet[0]) == nil {
		return nil
	}
	e, ok, err := h.path.DismissSheet()
	if err != nil || !ok {
		return nil
	}
	return routeOf(e)
}

// Pop removes and returns the top route.
// Returns nil if the history is empty or the top entry is not a route, for
// example an entry pushed by another owner of a shared path. Such an entry
// is left in place.
func (h *History) Pop() *Route {
	top, ok := h.path.Top()
	if !ok || routeOf(top) == nil {
		return nil
	}
	e, ok, err := h.path.Pop()
	if err != nil || !ok {
		return nil
	}
	return routeOf(e)
}

// Peek returns the top route without removing it.
// Returns nil if the history is empty or the top entry is not a route.
func (h *History) Peek() *Route {
	e, ok := h.path.Top()
	if !ok {
		return nil
	}
	return routeOf(e)
}

// IsEmpty returns true if the history has no routes.
func (h *History) IsEmpty() bool {
	return h.path.IsEmpty()
}

// Len returns the number of routes in the history.
func (h *History) Len() int {
	return h.path.Len()
}

// Clear removes all routes, dismissing a presented sheet.
func (h *History) Clear() {
	if h.path.IsEmpty() {
		return
	}
	_, _ = h.path.PopToRoot()
}

// Path returns the underlying navigation path.
func (h *History) Path() *navpath.Path {
	return h.path
}

func routeOf(e navpath.Entry) *Route {
	if r, ok := e.Content().(Route); ok {
		return &r
	}
	return nil
}
