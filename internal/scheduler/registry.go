package scheduler

import (
	"fmt"
	"sync"
)

var (
	renderers   = map[SchedulerType]Renderer{}
	renderersMu sync.RWMutex
)

func init() {
	Register(SlurmRenderer{})
	Register(LsfRenderer{})
}

// Register makes a renderer available under its scheduler type, replacing
// any previous one.
func Register(r Renderer) {
	renderersMu.Lock()
	defer renderersMu.Unlock()
	renderers[r.Type()] = r
}

// RendererFor returns the renderer registered for the named scheduler.
func RendererFor(name string) (Renderer, error) {
	renderersMu.RLock()
	defer renderersMu.RUnlock()
	r, ok := renderers[ParseType(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheduler, name)
	}
	return r, nil
}
