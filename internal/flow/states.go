package flow

import "strings"

// State is a node of the game flow graph. Child states are dotted under their parent.
type State string

const (
	StateLoading                 State = "loading"
	StateInitialStateCheck       State = "initialStateCheck"
	StateIdle                    State = "idle"
	StateAutoplay                State = "autoplay"
	StateSpinning                State = "spinning"
	StateEvaluatingSpin          State = "evaluatingSpin"
	StateWinPresentation         State = "winPresentation"
	StateBigWin                  State = "bigWin"
	StatePlayFreeSpinMultiplier  State = "playFreeSpinMultiplier"
	StateExtraFreeSpinAnimation  State = "extraFreeSpinAnimation"
	StatePostWinEvaluation       State = "postWinEvaluation"
	StateFreeSpins               State = "freeSpins"
	StateFreeSpinsShowingIntro   State = "freeSpins.showingIntro"
	StateFreeSpinsIntroComplete  State = "freeSpins.introComplete"
	StateFreeSpinsPlaying        State = "freeSpins.playing"
	StateFreeSpinsShowingOutro   State = "freeSpins.showingOutro"
	StateFreeSpinsOutroComplete  State = "freeSpins.outroComplete"
	StatePostFreeSpinsEvaluation State = "postFreeSpinsEvaluation"
	StateFreeRoundOutro          State = "freeRoundOutro"
	StateReplayPopup             State = "replayPopup"
	StateError                   State = "error"

	// root is the implicit parent of every top-level state.
	root State = ""
)

// Parent returns the enclosing state, or "" for top-level states.
func (s State) Parent() State {
	if i := strings.LastIndexByte(string(s), '.'); i >= 0 {
		return s[:i]
	}
	return root
}

// In reports whether s is ancestor or s itself.
func (s State) In(ancestor State) bool {
	for cur := s; cur != root; cur = cur.Parent() {
		if cur == ancestor {
			return true
		}
	}
	return ancestor == root
}

// path returns s and its ancestors, outermost first, without the root.
func (s State) path() []State {
	var out []State
	for cur := s; cur != root; cur = cur.Parent() {
		out = append([]State{cur}, out...)
	}
	return out
}
