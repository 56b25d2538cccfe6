package surface

import "sync"

// publisher holds the latest view of a surface and notifies listeners.
// Render is the single writer; HTTP handlers read concurrently.
type publisher[T any] struct {
	mu        sync.RWMutex
	latest    T
	rendered  bool
	listeners []func(T)
}

func (p *publisher[T]) publish(view T) {
	p.mu.Lock()
	p.latest = view
	p.rendered = true
	listeners := append([]func(T){}, p.listeners...)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(view)
	}
}

// Latest returns the last rendered view and whether anything was rendered yet
func (p *publisher[T]) Latest() (T, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest, p.rendered
}

// OnRender registers fn to be called after every render
func (p *publisher[T]) OnRender(fn func(T)) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}
