// Package presenter is the boundary between a navpath.Path and the screen
// that shows it. A Presenter either owns its path or references one owned
// elsewhere, and projects the path into paint-ordered layers for a Renderer.
package presenter

import (
	"log/slog"

	"github.com/BrandonKowalski/navpath/internal/logging"
	"github.com/BrandonKowalski/navpath/pkg/navpath"
)

// Layer is one renderable unit of a Frame.
type Layer struct {
	ID         string
	Kind       navpath.Kind
	Content    any
	PaintOrder int
	Transition *navpath.Transition // Set for animated entries only
}

// Frame is everything a renderer needs to draw the path at one instant.
type Frame struct {
	Root      *Layer             // Root content, painted beneath Stack
	Stack     []Layer            // Non-sheet entries, bottom first
	Overlay   *Layer             // Active sheet, rendered modally
	Animation *navpath.Animation // Animation of the last mutation
}

// SheetPresented reports whether the frame carries a modal overlay.
func (f Frame) SheetPresented() bool {
	return f.Overlay != nil
}

// Renderer draws frames. Render is called synchronously from the mutation
// that produced the frame and must not mutate the path.
type Renderer interface {
	Render(Frame)
}

// RenderFunc adapts a function to the Renderer interface.
type RenderFunc func(Frame)

func (f RenderFunc) Render(frame Frame) { f(frame) }

// Option configures a Presenter.
type Option func(*config)

type config struct {
	path     *navpath.Path
	renderer Renderer
	logger   *slog.Logger
	pathOpts []navpath.Option
}

// WithPath makes the presenter reference an externally owned path. The
// presenter never releases it.
func WithPath(p *navpath.Path) Option {
	return func(c *config) {
		c.path = p
	}
}

// WithPathOptions configures the path the presenter creates for itself.
// Ignored together with WithPath.
func WithPathOptions(opts ...navpath.Option) Option {
	return func(c *config) {
		c.pathOpts = append(c.pathOpts, opts...)
	}
}

// WithRenderer sets the renderer invoked on every change.
func WithRenderer(r Renderer) Option {
	return func(c *config) {
		c.renderer = r
	}
}

// WithLogger sets the presenter logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Presenter binds a path to a renderer for the lifetime of a screen.
type Presenter struct {
	path     *navpath.Path
	owned    bool
	renderer Renderer
	logger   *slog.Logger
	cancel   func()
	closed   bool
}

// New creates a presenter. Without WithPath it owns a fresh path.
func New(opts ...Option) *Presenter {
	cfg := config{logger: logging.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	p := &Presenter{
		path:     cfg.path,
		renderer: cfg.renderer,
		logger:   cfg.logger,
	}
	if p.path == nil {
		p.path = navpath.New(cfg.pathOpts...)
		p.owned = true
	}
	p.cancel = p.path.Subscribe(navpath.ObserverFunc(p.pathChanged))
	return p
}

// Path returns the bound path for two-way control.
func (p *Presenter) Path() *navpath.Path {
	return p.path
}

// Owned reports whether the presenter created, and will release, its path.
func (p *Presenter) Owned() bool {
	return p.owned
}

// Frame projects the current path state.
func (p *Presenter) Frame() Frame {
	anim, ok := p.path.RelevantAnimation()
	var animPtr *navpath.Animation
	if ok {
		animPtr = &anim
	}
	return project(p.path, p.path.NoSheet(), p.path.OnlySheet(), animPtr)
}

// Close detaches the presenter from its path. An owned path is emptied so
// any presented sheet gets its dismiss handler; an external path is left
// untouched. Close is idempotent once it has succeeded; if releasing the
// path fails, for example when called from a renderer, the presenter stays
// open to the path and Close may be retried.
func (p *Presenter) Close() error {
	if p.closed {
		return nil
	}
	p.cancel()

	if p.owned && !p.path.IsEmpty() {
		removed, err := p.path.PopToRoot()
		if err != nil {
			return err
		}
		p.logger.Debug("released owned path", "entries", len(removed))
	}
	p.closed = true
	return nil
}

func (p *Presenter) pathChanged(c navpath.Change) {
	if p.renderer == nil {
		return
	}
	p.renderer.Render(project(p.path, c.NoSheet, c.OnlySheet, c.Animation))
}

func project(path *navpath.Path, noSheet, onlySheet []navpath.Entry, anim *navpath.Animation) Frame {
	frame := Frame{
		Stack:     make([]Layer, 0, len(noSheet)),
		Animation: anim,
	}
	if root, ok := path.Root(); ok {
		frame.Root = &Layer{Content: root, PaintOrder: navpath.RootPaintOrder}
	}
	for _, e := range noSheet {
		frame.Stack = append(frame.Stack, layerOf(e))
	}
	if len(onlySheet) > 0 {
		overlay := layerOf(onlySheet[0])
		frame.Overlay = &overlay
	}
	return frame
}

func layerOf(e navpath.Entry) Layer {
	l := Layer{
		ID:         e.ID(),
		Kind:       e.Kind(),
		Content:    e.Content(),
		PaintOrder: e.PaintOrder(),
	}
	if tr, ok := e.Transition(); ok {
		l.Transition = &tr
	}
	return l
}
