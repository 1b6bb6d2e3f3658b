package flow

import (
	"slices"
	"time"
)

// Config tunes the delayed transitions of the flow.
type Config struct {
	MinSpinDuration time.Duration `yaml:"min_spin_duration" validate:"min=0"`
	SettleDelay     time.Duration `yaml:"settle_delay" validate:"min=0"`
	AutoplayDelay   time.Duration `yaml:"autoplay_delay" validate:"min=0"`
	FreeSpinDelay   time.Duration `yaml:"free_spin_delay" validate:"min=0"`
	TickupDuration  time.Duration `yaml:"tickup_duration" validate:"min=0"`
}

// DefaultConfig returns the delays used when a profile sets none.
func DefaultConfig() Config {
	return Config{
		MinSpinDuration: DefaultMinSpinDuration,
		SettleDelay:     DefaultSettleDelay,
		AutoplayDelay:   DefaultAutoplayDelay,
		FreeSpinDelay:   DefaultFreeSpinDelay,
		TickupDuration:  DefaultTickupDuration,
	}
}

// Snapshot is the complete flow state between two events.
type Snapshot struct {
	State State
	Ctx   Context
}

type guardFunc func(c *Context, ev Event) bool
type actionFunc func(c *Context, ev Event, fx *effects)

// transition moves to target, or stays put without exit/entry when target is empty.
type transition struct {
	guard  guardFunc
	target State
	action actionFunc
	// absorbed marks a corrective fallback: it runs its action but the
	// intent itself counts as refused.
	absorbed bool
}

type stateNode struct {
	entry  func(c *Context, fx *effects)
	exit   func(c *Context, fx *effects)
	on     map[EventKind][]transition
	always []transition
}

// Machine is the game flow graph. It holds no round data; every call to Step
// takes a snapshot and returns the next one with the effects to run.
type Machine struct {
	cfg    Config
	states map[State]*stateNode
}

// New builds the flow graph.
func New(cfg Config) *Machine {
	m := &Machine{cfg: cfg}
	m.states = m.build()
	return m
}

// Config returns the delays the machine was built with.
func (m *Machine) Config() Config {
	return m.cfg
}

// Start enters the initial state of a fresh session.
func (m *Machine) Start() (Snapshot, []Effect) {
	c := NewContext()
	fx := &effects{}
	state := m.transit(root, StateLoading, &c, fx, nil)
	state = m.settle(state, &c, fx)
	return Snapshot{State: state, Ctx: c}, fx.list
}

// Step processes one event to completion, including eventless transitions.
// Events without a matching transition are absorbed and leave the state unchanged.
func (m *Machine) Step(s Snapshot, ev Event) (Snapshot, []Effect) {
	c := s.Ctx.Clone()
	if !observe(&c, ev) {
		return Snapshot{State: s.State, Ctx: c}, nil
	}
	fx := &effects{}
	state := s.State
	if t, ok := m.match(state, &c, ev); ok {
		state = m.take(state, t, &c, ev, fx)
		state = m.settle(state, &c, fx)
	}
	return Snapshot{State: state, Ctx: c}, fx.list
}

// Handles reports whether ev would be accepted in s. Corrective
// fallbacks still run when the event is stepped but do not count.
func (m *Machine) Handles(s Snapshot, ev Event) bool {
	c := s.Ctx.Clone()
	if !observe(&c, ev) {
		return false
	}
	t, ok := m.match(s.State, &c, ev)
	return ok && !t.absorbed
}

// observe applies bookkeeping every event carries regardless of state.
// It returns false for stale completions that must be dropped.
func observe(c *Context, ev Event) bool {
	switch e := ev.(type) {
	case TimerFired:
		if !c.HasTimer(e.Name) {
			return false
		}
		delete(c.PendingTimers, e.Name)
	case AllReelsStopped:
		c.ReelsInMotion = false
		if e.Landing != nil {
			c.Reels = e.Landing.Clone()
		}
	case FeatureFinished:
		return e.Seq == c.FeatureSeq
	case FeatureCurrentStart:
		return e.Seq == c.FeatureSeq
	case FeatureInteraction:
		return e.Seq == c.FeatureSeq
	}
	return true
}

func (m *Machine) match(state State, c *Context, ev Event) (transition, bool) {
	for cur := state; ; cur = cur.Parent() {
		if n := m.states[cur]; n != nil {
			for _, t := range n.on[ev.Kind()] {
				if t.guard == nil || t.guard(c, ev) {
					return t, true
				}
			}
		}
		if cur == root {
			return transition{}, false
		}
	}
}

func (m *Machine) take(from State, t transition, c *Context, ev Event, fx *effects) State {
	if t.target == root {
		if t.action != nil {
			t.action(c, ev, fx)
		}
		return from
	}
	var action func()
	if t.action != nil {
		action = func() { t.action(c, ev, fx) }
	}
	return m.transit(from, t.target, c, fx, action)
}

// transit exits up to the common ancestor, runs the action, then enters down to target.
// A transition to the current state or one of its ancestors re-enters it.
func (m *Machine) transit(from, to State, c *Context, fx *effects, action func()) State {
	fp, tp := from.path(), to.path()
	n := 0
	for n < len(fp) && n < len(tp) && fp[n] == tp[n] {
		n++
	}
	if n == len(tp) && n > 0 {
		n--
	}
	for i := len(fp) - 1; i >= n; i-- {
		if node := m.states[fp[i]]; node != nil && node.exit != nil {
			node.exit(c, fx)
		}
	}
	if action != nil {
		action()
	}
	for i := n; i < len(tp); i++ {
		if node := m.states[tp[i]]; node != nil && node.entry != nil {
			node.entry(c, fx)
		}
	}
	return to
}

// settle follows eventless transitions until none applies.
func (m *Machine) settle(state State, c *Context, fx *effects) State {
	for range maxAlwaysSteps {
		node := m.states[state]
		if node == nil {
			return state
		}
		i := slices.IndexFunc(node.always, func(t transition) bool {
			return t.guard == nil || t.guard(c, nil)
		})
		if i < 0 {
			return state
		}
		state = m.take(state, node.always[i], c, nil, fx)
	}
	return state
}
