package router_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/navpath/pkg/navpath"
	"github.com/BrandonKowalski/navpath/pkg/navpath/router"
)

func TestRouter_RunWithoutTransition(t *testing.T) {
	err := router.New().Run(ScreenGameList, nil)
	assert.EqualError(t, err, "router: no transition function set")
}

func TestRouter_UnregisteredScreen(t *testing.T) {
	r := router.New().OnTransition(func(router.Screen, any, *router.History) (router.Screen, any) {
		return router.ScreenExit, nil
	})

	err := r.Run(ScreenGameDetail, nil)
	assert.EqualError(t, err, "router: screen 1 not registered")
}

func TestRouter_ScreenErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	r := router.New().
		Register(ScreenGameList, func(any) (any, error) { return nil, boom }).
		OnTransition(func(router.Screen, any, *router.History) (router.Screen, any) {
			return router.ScreenExit, nil
		})

	err := r.Run(ScreenGameList, nil)
	assert.ErrorIs(t, err, boom)
}

func TestHistory_PushPop(t *testing.T) {
	h := router.New().History()

	assert.True(t, h.IsEmpty())
	assert.Nil(t, h.Pop())
	assert.Nil(t, h.Peek())

	require.NoError(t, h.Push(ScreenGameList, "list", 3))
	require.NoError(t, h.Push(ScreenGameDetail, "detail", nil, slideIn, router.WithEntryID("detail")))
	assert.Equal(t, 2, h.Len())

	top, ok := h.Path().Top()
	require.True(t, ok)
	assert.Equal(t, "detail", top.ID())
	assert.Equal(t, navpath.KindAnimated, top.Kind())

	peek := h.Peek()
	require.NotNil(t, peek)
	assert.Equal(t, ScreenGameDetail, peek.Screen)

	route := h.Pop()
	require.NotNil(t, route)
	assert.Equal(t, "detail", route.Input)
	route = h.Pop()
	require.NotNil(t, route)
	assert.Equal(t, 3, route.Resume)
	assert.True(t, h.IsEmpty())
}

func TestHistory_ClearDismissesSheet(t *testing.T) {
	h := router.New().History()
	dismissed := 0

	require.NoError(t, h.Push(ScreenGameList, nil, nil))
	require.NoError(t, h.PresentSheet(ScreenGameOptions, nil, func() { dismissed++ }))
	assert.Error(t, h.PresentSheet(ScreenGameOptions, nil, nil))

	h.Clear()
	h.Clear()

	assert.True(t, h.IsEmpty())
	assert.Equal(t, 1, dismissed)
	assert.Nil(t, h.DismissSheet())
}

func TestRouter_SharedPath(t *testing.T) {
	path := navpath.New()
	r := router.New(router.WithPath(path))

	require.NoError(t, r.History().Push(ScreenGameList, nil, nil))
	assert.Equal(t, 1, path.Len())
	assert.Same(t, path, r.History().Path())
}

func TestHistory_PopLeavesForeignEntries(t *testing.T) {
	path := navpath.New()
	h := router.New(router.WithPath(path)).History()

	require.NoError(t, h.Push(ScreenGameList, "list", nil))
	dismissed := 0
	require.NoError(t, path.PresentSheet(navpath.Sheet("external", func() { dismissed++ })))

	assert.Nil(t, h.Peek())
	assert.Nil(t, h.Pop())
	assert.Nil(t, h.DismissSheet())
	assert.Equal(t, 2, path.Len())
	assert.Zero(t, dismissed)

	_, ok, err := path.DismissSheet()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, dismissed)

	route := h.Pop()
	require.NotNil(t, route)
	assert.Equal(t, ScreenGameList, route.Screen)
	assert.Equal(t, "list", route.Input)
	assert.True(t, h.IsEmpty())
}
