package status

// Screen is one of the navigable client screens
type Screen string

const (
	ScreenLogin    Screen = "login"
	ScreenArticles Screen = "articles"
)

// Navigator moves the client between screens
type Navigator interface {
	Navigate(Screen)
}

// Router tracks the current screen and reports every entry through the
// OnEnter hook, so the client can run per-entry work (the articles fetch).
type Router struct {
	current Screen
	onEnter func(Screen)
}

// NewRouter creates a router positioned on start
func NewRouter(start Screen) *Router {
	return &Router{current: start}
}

// OnEnter registers a hook invoked after every navigation
func (r *Router) OnEnter(fn func(Screen)) {
	r.onEnter = fn
}

// Navigate switches to screen. Navigating to the current screen still counts
// as a fresh entry.
func (r *Router) Navigate(screen Screen) {
	r.current = screen
	if r.onEnter != nil {
		r.onEnter(screen)
	}
}

// Current returns the active screen
func (r *Router) Current() Screen {
	return r.current
}
