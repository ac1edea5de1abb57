package router

import (
	"fmt"
	"log/slog"

	"github.com/BrandonKowalski/navpath/internal/logging"
	"github.com/BrandonKowalski/navpath/pkg/navpath"
)

// Screen is a type-safe identifier for screens.
// Applications should define their own Screen constants using iota.
//
// Example:
//
//	const (
//	    ScreenMain Screen = iota
//	    ScreenSettings
//	    ScreenDetail
//	)
type Screen int

// ScreenFunc is a function that runs a screen.
// It takes an input and returns a result.
// The input and result types are screen-specific.
type ScreenFunc func(input any) (result any, err error)

// TransitionFunc is called after each screen completes to determine the next screen.
// It receives the screen that just completed, its result, and the navigation history.
// It returns the next screen to navigate to and its input.
//
// Return (screen, input) to navigate to a new screen.
// Return history.Pop() values to go back.
// Return (ScreenExit, nil) to exit the router.
type TransitionFunc func(from Screen, result any, history *History) (next Screen, input any)

// ScreenExit is a special Screen value that signals the router to exit.
const ScreenExit Screen = -1

// Option configures a Router.
type Option func(*Router)

// WithPath runs the router on an externally owned path, typically one a
// presenter is also bound to.
func WithPath(p *navpath.Path) Option {
	return func(r *Router) {
		if p != nil {
			r.history = newHistory(p)
		}
	}
}

// WithLogger sets the router logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Router manages screen navigation with explicit data flow.
// Screens are registered with their functions, and a single transition
// function handles all routing logic in one place.
type Router struct {
	screens    map[Screen]ScreenFunc
	transition TransitionFunc
	history    *History
	logger     *slog.Logger
}

// New creates a new Router. Without WithPath it navigates on a fresh path
// that ignores pops on an empty history.
func New(opts ...Option) *Router {
	r := &Router{
		screens: make(map[Screen]ScreenFunc),
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.history == nil {
		r.history = newHistory(navpath.New(
			navpath.WithEmptyPolicy(navpath.EmptyPolicyIgnore),
			navpath.WithLogger(r.logger),
		))
	}
	return r
}

// Register adds a screen to the router.
// The screen function will be called when navigating to this screen.
func (r *Router) Register(screen Screen, fn ScreenFunc) *Router {
	r.screens[screen] = fn
	return r
}

// OnTransition sets the transition function that determines navigation flow.
// This function is called after each screen completes.
func (r *Router) OnTransition(fn TransitionFunc) *Router {
	r.transition = fn
	return r
}

// Run starts the router at the given screen with the given input.
// It continues running until the transition function returns ScreenExit
// or an error occurs.
func (r *Router) Run(start Screen, input any) error {
	if r.transition == nil {
		return fmt.Errorf("router: no transition function set")
	}

	current := start
	currentInput := input

	for {
		fn, ok := r.screens[current]
		if !ok {
			return fmt.Errorf("router: screen %d not registered", current)
		}

		result, err := fn(currentInput)
		if err != nil {
			return fmt.Errorf("router: screen %d error: %w", current, err)
		}

		next, nextInput := r.transition(current, result, r.history)
		r.logger.Debug("router transition", "from", int(current), "to", int(next), "depth", r.history.Len())

		if next == ScreenExit {
			return nil
		}

		current = next
		currentInput = nextInput
	}
}

// History returns the navigation history for use outside transition functions.
func (r *Router) History() *History {
	return r.history
}
