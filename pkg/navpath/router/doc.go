// Package router provides screen navigation with explicit data flow on top
// of a navpath.Path.
//
// Router uses explicit input/output types for each screen and a centralized
// transition function for all routing logic. Back navigation is recorded on
// the path as Route entries, so a presenter bound to the same path sees every
// screen the router pushes, with its transition and paint order.
//
// # Basic Usage
//
//	const (
//	    ScreenList router.Screen = iota
//	    ScreenDetail
//	)
//
//	r := router.New(router.WithPath(p))
//
//	r.Register(ScreenList, func(input any) (any, error) {
//	    return listScreen(input.(ListInput)), nil
//	})
//
//	r.OnTransition(func(from router.Screen, result any, history *router.History) (router.Screen, any) {
//	    switch from {
//	    case ScreenList:
//	        res := result.(ListResult)
//	        if res.Action == ActionSelected {
//	            history.Push(from, ListInput{}, res.Resume,
//	                router.WithAnimation(slide, standard))
//	            return ScreenDetail, DetailInput{Item: res.Selected}
//	        }
//	    case ScreenDetail:
//	        if route := history.Pop(); route != nil {
//	            in := route.Input.(ListInput)
//	            in.Resume = route.Resume.(*ListResume)
//	            return route.Screen, in
//	        }
//	    }
//	    return router.ScreenExit, nil
//	})
//
//	r.Run(ScreenList, ListInput{Items: items})
//
// # Resume State
//
// Screens can return resume state (like scroll position) that gets stored
// with the route when navigating forward. When navigating back, this state
// is passed back to the screen via its input, allowing it to restore position.
//
// # Modal Screens
//
// History.PresentSheet records a modal route. Only one can be presented at a
// time; its dismiss callback runs once when it leaves the history.
package router
