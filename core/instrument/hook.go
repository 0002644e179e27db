// Package instrument counts template tag usage from inside the template
// compiler and wires that counter into a build configuration.
package instrument

import (
	"sync"

	"github.com/tristendillon/weexscan/core/models"
)

// State holds the counters for one scan. Usage only tracks known tags;
// Seen tracks every tag.
type State struct {
	mu    sync.Mutex
	Usage models.Counter
	Seen  models.Counter
}

func NewState(usage models.Counter) *State {
	if usage == nil {
		usage = models.NewCounter()
	}
	return &State{
		Usage: usage,
		Seen:  models.NewCounter(),
	}
}

// Snapshot copies both counters under the lock.
func (s *State) Snapshot() (usage, seen models.Counter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Usage.Clone(), s.Seen.Clone()
}

// Hook is the compiler module handed to the template compiler.
type Hook struct {
	state *State
}

func NewHook(state *State) *Hook {
	return &Hook{state: state}
}

func (h *Hook) State() *State {
	return h.state
}

func (h *Hook) PostTransformNode(el *models.Element) {
	if el == nil {
		return
	}
	s := h.state
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Usage.Has(el.Tag) {
		s.Usage.Inc(el.Tag)
	}
	s.Seen.Inc(el.Tag)
}
