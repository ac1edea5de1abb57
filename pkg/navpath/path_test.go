package navpath_test

import (
	"bytes"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/navpath/internal/logging"
	"github.com/BrandonKowalski/navpath/pkg/navpath"
)

var slide = navpath.Transition{Name: navpath.TransitionSlide, Edge: navpath.EdgeTrailing}

var standard = navpath.Animation{Curve: navpath.CurveEaseInOut, Duration: 350 * time.Millisecond}

func ids(entries []navpath.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID()
	}
	return out
}

func assertInvariants(t *testing.T, p *navpath.Path) {
	t.Helper()

	sheet := 0
	if p.SheetPresented() {
		sheet = 1
	}
	assert.Equal(t, p.Len(), len(p.NoSheet())+sheet, "noSheet + sheet must cover every entry")

	sheets := 0
	for i, e := range p.Entries() {
		if e.IsSheet() {
			sheets++
		}
		assert.Equal(t, i, e.PaintOrder(), "paint order must equal stack position")
	}
	assert.LessOrEqual(t, sheets, 1, "at most one sheet")
	assert.Equal(t, sheets == 1, p.SheetPresented())
	assert.Len(t, p.OnlySheet(), sheets)
}

func TestPath_PushAssignsPaintOrder(t *testing.T) {
	p := navpath.New()

	require.NoError(t, p.Push(navpath.Plain("a")))
	require.NoError(t, p.Push(navpath.Animated("b", slide, standard)))
	require.NoError(t, p.Push(navpath.Plain("c")))

	entries := p.Entries()
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].PaintOrder(), entries[i].PaintOrder())
	}
	assert.Equal(t, "c", entries[2].Content())
	assertInvariants(t, p)
}

func TestPath_SecondSheetRejected(t *testing.T) {
	p := navpath.New()
	require.NoError(t, p.Push(navpath.Plain("home")))
	require.NoError(t, p.Push(navpath.Sheet("a", nil)))
	before := p.Entries()

	err := p.Push(navpath.Sheet("b", nil))

	require.Error(t, err)
	assert.True(t, navpath.IsInvalidState(err))
	op, ok := navpath.OpOf(err)
	require.True(t, ok)
	assert.Equal(t, navpath.OpPush, op)
	assert.Equal(t, before, p.Entries())

	err = p.PresentSheet(navpath.Sheet("c", nil))
	assert.True(t, navpath.IsInvalidState(err))
	assert.Equal(t, before, p.Entries())
	assertInvariants(t, p)
}

func TestPath_PresentSheetRejectsNonSheet(t *testing.T) {
	p := navpath.New()

	err := p.PresentSheet(navpath.Plain("x"))

	assert.True(t, navpath.IsInvalidState(err))
	assert.True(t, p.IsEmpty())
}

func TestPath_DuplicateIdentityRejected(t *testing.T) {
	p := navpath.New()
	e := navpath.Plain("x")
	require.NoError(t, p.Push(e))

	err := p.Push(e)

	assert.True(t, navpath.IsInvalidState(err))
	assert.Equal(t, 1, p.Len())
}

func TestPath_ZeroEntryRejected(t *testing.T) {
	p := navpath.New()

	err := p.Push(navpath.Entry{})

	assert.True(t, navpath.IsInvalidState(err))
	assert.True(t, p.IsEmpty())
}

func TestPath_PresentThenDismiss(t *testing.T) {
	p := navpath.New()
	require.NoError(t, p.Push(navpath.Plain("home")))
	require.NoError(t, p.Push(navpath.Plain("list")))
	before := p.Entries()

	calls := 0
	sheet := navpath.Sheet("filters", func() { calls++ })
	require.NoError(t, p.PresentSheet(sheet))
	assert.True(t, p.SheetPresented())
	require.Len(t, p.OnlySheet(), 1)
	assert.True(t, p.OnlySheet()[0].Same(sheet))
	assert.Equal(t, 2, p.OnlySheet()[0].PaintOrder())

	removed, ok, err := p.DismissSheet()

	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, removed.Same(sheet))
	assert.Equal(t, 1, calls)
	assert.Equal(t, before, p.Entries())
	assert.False(t, p.SheetPresented())
	assert.Empty(t, p.OnlySheet())
}

func TestPath_DismissSheetWithoutSheetIsNoop(t *testing.T) {
	p := navpath.New()
	require.NoError(t, p.Push(navpath.Plain("home")))
	notified := 0
	p.Subscribe(navpath.ObserverFunc(func(navpath.Change) { notified++ }))

	_, ok, err := p.DismissSheet()

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, p.Len())
	assert.Zero(t, notified)
}

func TestPath_DismissSheetBelowTopReindexes(t *testing.T) {
	p := navpath.New()
	calls := 0
	require.NoError(t, p.Push(navpath.Plain("home")))
	require.NoError(t, p.PresentSheet(navpath.Sheet("sheet", func() { calls++ })))
	require.NoError(t, p.Push(navpath.Plain("inside")))

	_, ok, err := p.DismissSheet()

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []any{"home", "inside"}, []any{p.Entries()[0].Content(), p.Entries()[1].Content()})
	assertInvariants(t, p)
}

func TestPath_PopSheetInvokesHandlerOnce(t *testing.T) {
	p := navpath.New()
	calls := 0
	require.NoError(t, p.Push(navpath.Plain("home")))
	require.NoError(t, p.Push(navpath.Sheet("sheet", func() {
		calls++
		assert.Equal(t, 1, p.Len(), "handler runs after removal")
	})))

	top, ok, err := p.Pop()

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sheet", top.Content())
	assert.Equal(t, 1, calls)

	_, _, err = p.Pop()
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPath_PopToRootDepthThree(t *testing.T) {
	p := navpath.New(navpath.WithRoot("root"))
	calls := 0
	require.NoError(t, p.Push(navpath.Plain("a")))
	require.NoError(t, p.Push(navpath.Animated("b", slide, standard)))
	require.NoError(t, p.PresentSheet(navpath.Sheet("c", func() { calls++ })))

	removed, err := p.PopToRoot()

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, p.IsEmpty())
	assert.Equal(t, []any{"c", "b", "a"}, []any{removed[0].Content(), removed[1].Content(), removed[2].Content()})
	root, ok := p.Root()
	assert.True(t, ok)
	assert.Equal(t, "root", root)
}

func TestPath_PopToRootHandlerOrder(t *testing.T) {
	var order []string
	sheet := navpath.Sheet("sheet", func() { order = append(order, "sheet") })
	p, err := navpath.From([]navpath.Entry{navpath.Plain("a"), sheet, navpath.Plain("b")})
	require.NoError(t, err)
	p.Subscribe(navpath.ObserverFunc(func(c navpath.Change) {
		order = append(order, "notify")
	}))

	_, err = p.PopToRoot()

	require.NoError(t, err)
	assert.Equal(t, []string{"sheet", "notify"}, order)
}

func TestPath_EmptyPolicyError(t *testing.T) {
	p := navpath.New()
	p.Subscribe(navpath.ObserverFunc(func(navpath.Change) { t.Fatal("no change expected") }))

	for i := 0; i < 3; i++ {
		_, ok, err := p.Pop()
		assert.False(t, ok)
		assert.True(t, navpath.IsEmptyStack(err))

		removed, err := p.PopToRoot()
		assert.Nil(t, removed)
		assert.True(t, navpath.IsEmptyStack(err))
	}
	assert.True(t, p.IsEmpty())
}

func TestPath_EmptyPolicyIgnore(t *testing.T) {
	p := navpath.New(navpath.WithEmptyPolicy(navpath.EmptyPolicyIgnore))

	for i := 0; i < 3; i++ {
		_, ok, err := p.Pop()
		assert.False(t, ok)
		assert.NoError(t, err)

		removed, err := p.PopToRoot()
		assert.Empty(t, removed)
		assert.NoError(t, err)
	}
	assert.True(t, p.IsEmpty())
}

func TestPath_ReentrantDismissRejected(t *testing.T) {
	p := navpath.New()
	require.NoError(t, p.Push(navpath.Plain("home")))

	var nested error
	require.NoError(t, p.PresentSheet(navpath.Sheet("sheet", func() {
		assert.True(t, p.Mutating())
		_, _, nested = p.Pop()
	})))

	_, _, err := p.DismissSheet()

	require.NoError(t, err)
	assert.True(t, navpath.IsReentrant(nested))
	assert.Equal(t, 1, p.Len())
	assert.False(t, p.Mutating())
}

func TestPath_ReentrantObserverRejected(t *testing.T) {
	p := navpath.New()
	var nested error
	p.Subscribe(navpath.ObserverFunc(func(navpath.Change) {
		nested = p.Push(navpath.Plain("nested"))
	}))

	require.NoError(t, p.Push(navpath.Plain("a")))

	assert.True(t, navpath.IsReentrant(nested))
	assert.Equal(t, 1, p.Len())
}

func TestPath_PanickingHandlerKeepsPathUsable(t *testing.T) {
	p := navpath.New()
	require.NoError(t, p.PresentSheet(navpath.Sheet("boom", func() { panic("boom") })))

	_, ok, err := p.Pop()

	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, p.Mutating())
	assert.NoError(t, p.Push(navpath.Plain("after")))
}

func TestPath_RelevantAnimation(t *testing.T) {
	p := navpath.New()

	require.NoError(t, p.Push(navpath.Plain("a")))
	_, ok := p.RelevantAnimation()
	assert.False(t, ok, "plain push has no animation")

	require.NoError(t, p.Push(navpath.Animated("b", slide, standard)))
	anim, ok := p.RelevantAnimation()
	require.True(t, ok)
	assert.Equal(t, standard, anim)

	_, _, err := p.Pop()
	require.NoError(t, err)
	anim, ok = p.RelevantAnimation()
	require.True(t, ok, "popping an animated entry reverses its animation")
	assert.Equal(t, standard, anim)

	require.NoError(t, p.PresentSheet(navpath.Sheet("s", nil)))
	_, ok = p.RelevantAnimation()
	assert.False(t, ok)
}

func TestPath_ChangeNotification(t *testing.T) {
	p := navpath.New()
	var changes []navpath.Change
	cancel := p.Subscribe(navpath.ObserverFunc(func(c navpath.Change) {
		changes = append(changes, c)
	}))

	a := navpath.Animated("a", slide, standard)
	s := navpath.Sheet("s", nil)
	require.NoError(t, p.Push(a))
	require.NoError(t, p.PresentSheet(s))

	require.Len(t, changes, 2)
	assert.Equal(t, navpath.OpPush, changes[0].Op)
	assert.Equal(t, []string{a.ID()}, ids(changes[0].Added))
	require.NotNil(t, changes[0].Animation)
	assert.Equal(t, standard, *changes[0].Animation)
	assert.Equal(t, 1, changes[0].Depth)

	assert.Equal(t, navpath.OpPresentSheet, changes[1].Op)
	assert.True(t, changes[1].SheetPresented())
	assert.Equal(t, []string{a.ID()}, ids(changes[1].NoSheet))
	assert.Equal(t, []string{s.ID()}, ids(changes[1].OnlySheet))
	assert.Nil(t, changes[1].Animation)

	cancel()
	cancel()
	_, _, err := p.Pop()
	require.NoError(t, err)
	assert.Len(t, changes, 2)
}

func TestPath_ObserversGetTheirOwnChange(t *testing.T) {
	p := navpath.New()
	a := navpath.Animated("a", slide, standard)

	p.Subscribe(navpath.ObserverFunc(func(c navpath.Change) {
		c.NoSheet[0] = navpath.Plain("tampered")
		c.Added[0] = navpath.Plain("tampered")
		c.Animation.Duration = 0
	}))
	var seen navpath.Change
	p.Subscribe(navpath.ObserverFunc(func(c navpath.Change) { seen = c }))

	require.NoError(t, p.Push(a))

	assert.Equal(t, []string{a.ID()}, ids(seen.NoSheet))
	assert.Equal(t, []string{a.ID()}, ids(seen.Added))
	require.NotNil(t, seen.Animation)
	assert.Equal(t, standard, *seen.Animation)
	assert.Equal(t, []string{a.ID()}, ids(p.Entries()))
}

func TestPath_PanickingObserverIsRecovered(t *testing.T) {
	var buf bytes.Buffer
	p := navpath.New(navpath.WithLogger(logging.New(&buf, slog.LevelError)))

	p.Subscribe(navpath.ObserverFunc(func(navpath.Change) { panic("boom") }))
	notified := 0
	p.Subscribe(navpath.ObserverFunc(func(navpath.Change) { notified++ }))

	require.NotPanics(t, func() {
		require.NoError(t, p.Push(navpath.Plain("a")))
	})
	assert.Equal(t, 1, notified)
	assert.False(t, p.Mutating())
	assert.Contains(t, buf.String(), "path observer panicked")

	_, ok, err := p.Pop()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, notified)
}

func TestPath_RejectHook(t *testing.T) {
	var rejected []navpath.Op
	p := navpath.New(navpath.WithRejectHook(func(op navpath.Op, err error) {
		rejected = append(rejected, op)
	}))

	_, _, _ = p.Pop()
	require.NoError(t, p.PresentSheet(navpath.Sheet("a", nil)))
	_ = p.PresentSheet(navpath.Sheet("b", nil))

	assert.Equal(t, []navpath.Op{navpath.OpPop, navpath.OpPresentSheet}, rejected)
}

func TestFrom_Validates(t *testing.T) {
	_, err := navpath.From([]navpath.Entry{navpath.Sheet("a", nil), navpath.Sheet("b", nil)})
	assert.True(t, navpath.IsInvalidState(err))

	e := navpath.Plain("x")
	_, err = navpath.From([]navpath.Entry{e, e})
	assert.True(t, navpath.IsInvalidState(err))

	p, err := navpath.From([]navpath.Entry{navpath.Plain("a"), navpath.Sheet("b", nil), navpath.Plain("c")})
	require.NoError(t, err)
	assertInvariants(t, p)
}

func TestPath_RandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := navpath.New(navpath.WithEmptyPolicy(navpath.EmptyPolicyIgnore))
	dismissed := map[string]int{}

	for i := 0; i < 2000; i++ {
		switch rng.Intn(6) {
		case 0, 1:
			_ = p.Push(navpath.Plain(i))
		case 2:
			_ = p.Push(navpath.Animated(i, slide, standard))
		case 3:
			var s navpath.Entry
			s = navpath.Sheet(i, func() { dismissed[s.ID()]++ })
			before := ids(p.Entries())
			if err := p.Push(s); err != nil {
				require.True(t, navpath.IsInvalidState(err))
				require.Equal(t, before, ids(p.Entries()))
			}
		case 4:
			_, _, err := p.Pop()
			require.NoError(t, err)
		case 5:
			if rng.Intn(10) == 0 {
				_, err := p.PopToRoot()
				require.NoError(t, err)
			} else {
				_, _, err := p.DismissSheet()
				require.NoError(t, err)
			}
		}
		assertInvariants(t, p)
	}

	for id, n := range dismissed {
		assert.Equal(t, 1, n, "sheet %s dismissed more than once", id)
	}
}
