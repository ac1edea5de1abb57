package navpath

import (
	"fmt"
	"log/slog"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/navpath/internal/logging"
)

// Path is an ordered navigation stack of entries. The last entry is the top.
//
// A Path is meant to be driven from a single goroutine (the UI event loop).
// It does not lock its entries; callers sharing a Path across goroutines
// must synchronize themselves. The only concurrency-aware state is the
// mutation guard, which rejects nested mutations with ErrReentrantMutation.
type Path struct {
	entries   []Entry
	root      any
	hasRoot   bool
	animation *Animation

	policy   EmptyPolicy
	logger   *slog.Logger
	onReject RejectHook

	subscribers []subscriber
	nextSubID   uint64

	mutating *atomic.Bool
}

type subscriber struct {
	id       uint64
	observer Observer
}

// New creates an empty path.
func New(opts ...Option) *Path {
	p := &Path{
		entries:  make([]Entry, 0),
		logger:   logging.Nop(),
		mutating: atomic.NewBool(false),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// From creates a path already populated with entries, bottom first. It fails
// with ErrInvalidState if more than one sheet is supplied or identities
// repeat.
func From(entries []Entry, opts ...Option) (*Path, error) {
	p := New(opts...)
	seen := make(map[string]struct{}, len(entries))
	sheets := 0
	for _, e := range entries {
		if e.id == "" {
			return nil, newMutationError(OpPush, ErrInvalidState, "entry has no identity")
		}
		if _, dup := seen[e.id]; dup {
			return nil, newMutationError(OpPush, ErrInvalidState, fmt.Sprintf("duplicate entry %s", e.id))
		}
		seen[e.id] = struct{}{}
		if e.kind == KindSheet {
			sheets++
		}
	}
	if sheets > 1 {
		return nil, newMutationError(OpPresentSheet, ErrInvalidState, fmt.Sprintf("%d sheets supplied", sheets))
	}
	p.entries = append(p.entries, entries...)
	p.reindex()
	return p, nil
}

// Push appends an entry to the top of the path. Pushing a sheet while
// another sheet is presented fails with ErrInvalidState and leaves the path
// unchanged, as does pushing an entry whose identity is already present.
func (p *Path) Push(e Entry) error {
	return p.push(OpPush, e)
}

// PresentSheet pushes a sheet entry. Non-sheet entries are rejected.
func (p *Path) PresentSheet(e Entry) error {
	if e.kind != KindSheet {
		return p.reject(OpPresentSheet, ErrInvalidState, fmt.Sprintf("%s entry is not a sheet", e.kind))
	}
	return p.push(OpPresentSheet, e)
}

func (p *Path) push(op Op, e Entry) error {
	if err := p.begin(op); err != nil {
		return err
	}
	defer p.end()

	if e.id == "" {
		return p.reject(op, ErrInvalidState, "entry has no identity")
	}
	if p.indexOf(e.id) >= 0 {
		return p.reject(op, ErrInvalidState, fmt.Sprintf("entry %s is already on the path", e.id))
	}
	if e.kind == KindSheet && p.sheetIndex() >= 0 {
		return p.reject(op, ErrSheetPresented, "")
	}

	e = e.withPaintOrder(len(p.entries))
	p.entries = append(p.entries, e)
	p.animation = animationOf(e)

	p.notify(Change{Op: op, Added: []Entry{e}})
	return nil
}

// Pop removes the top entry. If it is a sheet, its dismiss handler runs
// before Pop returns. On an empty path Pop returns ErrEmptyStack under
// EmptyPolicyError and (Entry{}, false, nil) under EmptyPolicyIgnore.
func (p *Path) Pop() (Entry, bool, error) {
	if err := p.begin(OpPop); err != nil {
		return Entry{}, false, err
	}
	defer p.end()

	if len(p.entries) == 0 {
		return Entry{}, false, p.empty(OpPop)
	}

	last := len(p.entries) - 1
	top := p.entries[last]
	p.entries[last] = Entry{}
	p.entries = p.entries[:last]
	p.animation = animationOf(top)

	p.dismiss(top)
	p.notify(Change{Op: OpPop, Removed: []Entry{top}})
	return top, true, nil
}

// PopToRoot removes every entry. Sheet dismiss handlers run in removal
// order, top first. Observers receive a single change.
func (p *Path) PopToRoot() ([]Entry, error) {
	if err := p.begin(OpPopToRoot); err != nil {
		return nil, err
	}
	defer p.end()

	if len(p.entries) == 0 {
		return nil, p.empty(OpPopToRoot)
	}

	removed := make([]Entry, 0, len(p.entries))
	for i := len(p.entries) - 1; i >= 0; i-- {
		removed = append(removed, p.entries[i])
	}
	p.entries = make([]Entry, 0)
	p.animation = animationOf(removed[0])

	for _, e := range removed {
		p.dismiss(e)
	}
	p.notify(Change{Op: OpPopToRoot, Removed: removed})
	return removed, nil
}

// DismissSheet removes the active sheet wherever it sits in the path and
// runs its dismiss handler. It is a no-op when no sheet is presented.
func (p *Path) DismissSheet() (Entry, bool, error) {
	if err := p.begin(OpDismissSheet); err != nil {
		return Entry{}, false, err
	}
	defer p.end()

	idx := p.sheetIndex()
	if idx < 0 {
		return Entry{}, false, nil
	}

	sheet := p.entries[idx]
	p.entries = append(p.entries[:idx], p.entries[idx+1:]...)
	p.reindex()
	p.animation = nil

	p.dismiss(sheet)
	p.notify(Change{Op: OpDismissSheet, Removed: []Entry{sheet}})
	return sheet, true, nil
}

// NoSheet returns every non-sheet entry in stack order.
func (p *Path) NoSheet() []Entry {
	out := make([]Entry, 0, len(p.entries))
	for _, e := range p.entries {
		if e.kind != KindSheet {
			out = append(out, e)
		}
	}
	return out
}

// OnlySheet returns the active sheet as a one-element slice, or an empty
// slice when no sheet is presented.
func (p *Path) OnlySheet() []Entry {
	if idx := p.sheetIndex(); idx >= 0 {
		return []Entry{p.entries[idx]}
	}
	return []Entry{}
}

// SheetPresented reports whether a sheet is on the path.
func (p *Path) SheetPresented() bool {
	return p.sheetIndex() >= 0
}

// RelevantAnimation returns the animation of the most recent mutation.
func (p *Path) RelevantAnimation() (Animation, bool) {
	if p.animation == nil {
		return Animation{}, false
	}
	return *p.animation, true
}

// Entries returns a copy of the path, bottom first.
func (p *Path) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Len returns the number of entries.
func (p *Path) Len() int {
	return len(p.entries)
}

// IsEmpty returns true if the path has no entries.
func (p *Path) IsEmpty() bool {
	return len(p.entries) == 0
}

// Top returns the top entry without removing it.
func (p *Path) Top() (Entry, bool) {
	if len(p.entries) == 0 {
		return Entry{}, false
	}
	return p.entries[len(p.entries)-1], true
}

// Root returns the root content, if one was supplied.
func (p *Path) Root() (any, bool) {
	return p.root, p.hasRoot
}

// Mutating reports whether a mutation is in progress, which is only
// observable from dismiss handlers and observers.
func (p *Path) Mutating() bool {
	return p.mutating.Load()
}

// Subscribe registers an observer and returns a function that removes it.
// Observers are notified in subscription order. The returned function is
// safe to call more than once.
func (p *Path) Subscribe(o Observer) (cancel func()) {
	if o == nil {
		return func() {}
	}
	p.nextSubID++
	id := p.nextSubID
	p.subscribers = append(p.subscribers, subscriber{id: id, observer: o})
	return func() {
		for i, s := range p.subscribers {
			if s.id == id {
				p.subscribers = append(p.subscribers[:i:i], p.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (p *Path) begin(op Op) error {
	if !p.mutating.CompareAndSwap(false, true) {
		return p.reject(op, ErrReentrantMutation, "")
	}
	return nil
}

func (p *Path) end() {
	p.mutating.Store(false)
}

func (p *Path) empty(op Op) error {
	if p.policy == EmptyPolicyIgnore {
		return nil
	}
	return p.reject(op, ErrEmptyStack, "")
}

func (p *Path) reject(op Op, err error, detail string) error {
	mErr := newMutationError(op, err, detail)
	p.logger.Debug("path mutation rejected", "op", string(op), "error", mErr)
	if p.onReject != nil {
		p.onReject(op, mErr)
	}
	return mErr
}

// dismiss runs a sheet's handler. A panicking handler is logged; the path
// has already been updated and stays consistent.
func (p *Path) dismiss(e Entry) {
	if e.kind != KindSheet || e.onDismiss == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("sheet dismiss handler panicked", "entry", e.id, "panic", r)
		}
	}()
	e.onDismiss()
}

func (p *Path) notify(c Change) {
	c.NoSheet = p.NoSheet()
	c.OnlySheet = p.OnlySheet()
	c.Depth = len(p.entries)
	if p.animation != nil {
		anim := *p.animation
		c.Animation = &anim
	}
	subs := make([]subscriber, len(p.subscribers))
	copy(subs, p.subscribers)
	for _, s := range subs {
		p.deliver(s, c.clone())
	}
}

// deliver hands a change to one observer. A panicking observer is logged
// and skipped; later observers are still notified.
func (p *Path) deliver(s subscriber, c Change) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("path observer panicked", "op", string(c.Op), "subscriber", s.id, "panic", r)
		}
	}()
	s.observer.PathChanged(c)
}

func (p *Path) reindex() {
	for i := range p.entries {
		p.entries[i] = p.entries[i].withPaintOrder(i)
	}
}

func (p *Path) indexOf(id string) int {
	for i, e := range p.entries {
		if e.id == id {
			return i
		}
	}
	return -1
}

func (p *Path) sheetIndex() int {
	for i := len(p.entries) - 1; i >= 0; i-- {
		if p.entries[i].kind == KindSheet {
			return i
		}
	}
	return -1
}

func animationOf(e Entry) *Animation {
	if e.kind != KindAnimated {
		return nil
	}
	anim := e.animation
	return &anim
}
