package eval

import (
	"sort"

	"src.sexp.sh/pkg/parse"
)

// Env is a stack of frames, each mapping symbol names to values. Lookup
// searches frames from the most recently pushed one to the base frame, so
// inner bindings shadow outer ones; Put always writes to the top frame.
//
// The base frame holds the global bindings. It is created by NewEnv and is
// never popped by evaluation.
//
// An Env is not safe for concurrent use.
type Env struct {
	frames []map[string]parse.Node
}

// NewEnv creates an Env with one frame populated with a copy of initial,
// which may be nil.
func NewEnv(initial map[string]parse.Node) *Env {
	base := make(map[string]parse.Node, len(initial))
	for k, v := range initial {
		base[k] = v
	}
	return &Env{frames: []map[string]parse.Node{base}}
}

// Get returns the value bound to key in the innermost frame that has it.
func (e *Env) Get(key string) (parse.Node, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if v, ok := e.frames[i][key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Put binds key to value in the top frame. It does nothing if there are no
// frames.
func (e *Env) Put(key string, value parse.Node) {
	if len(e.frames) == 0 {
		return
	}
	e.frames[len(e.frames)-1][key] = value
}

// PushFrame pushes a new empty frame.
func (e *Env) PushFrame() {
	e.frames = append(e.frames, make(map[string]parse.Node))
}

// PopFrame removes the top frame and returns it. It returns false if there
// are no frames.
func (e *Env) PopFrame() (map[string]parse.Node, bool) {
	if len(e.frames) == 0 {
		return nil, false
	}
	top := e.frames[len(e.frames)-1]
	e.frames = e.frames[:len(e.frames)-1]
	return top, true
}

// Depth returns the number of frames.
func (e *Env) Depth() int { return len(e.frames) }

// Names returns the sorted names visible from the top frame.
func (e *Env) Names() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, frame := range e.frames {
		for name := range frame {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
