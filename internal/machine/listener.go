package machine

import "github.com/osse101/reelflow/internal/domain"

// Listener receives coordinator notifications, synchronously on the caller's goroutine.
type Listener interface {
	SpinStarted()
	AllReelsStopped(landing domain.Layout)
	NudgeComplete()
	CascadeComplete()
	ReelFault(reel int, op string, err error)
}

// ListenerFuncs adapts optional functions to Listener.
type ListenerFuncs struct {
	OnSpinStarted     func()
	OnAllReelsStopped func(landing domain.Layout)
	OnNudgeComplete   func()
	OnCascadeComplete func()
	OnReelFault       func(reel int, op string, err error)
}

func (l ListenerFuncs) SpinStarted() {
	if l.OnSpinStarted != nil {
		l.OnSpinStarted()
	}
}

func (l ListenerFuncs) AllReelsStopped(landing domain.Layout) {
	if l.OnAllReelsStopped != nil {
		l.OnAllReelsStopped(landing)
	}
}

func (l ListenerFuncs) NudgeComplete() {
	if l.OnNudgeComplete != nil {
		l.OnNudgeComplete()
	}
}

func (l ListenerFuncs) CascadeComplete() {
	if l.OnCascadeComplete != nil {
		l.OnCascadeComplete()
	}
}

func (l ListenerFuncs) ReelFault(reel int, op string, err error) {
	if l.OnReelFault != nil {
		l.OnReelFault(reel, op, err)
	}
}
