package domain

// GameMode is the server-side mode a spin is played in.
type GameMode string

const (
	GameModeBase      GameMode = "base"
	GameModeFreeSpins GameMode = "free_spins"
)

// GameSpeed controls presentation pacing.
type GameSpeed string

const (
	GameSpeedNormal GameSpeed = "normal"
	GameSpeedFast   GameSpeed = "fast"
	// GameSpeedTurbo skips the minimum spin duration and lands reels as soon as stop data arrives.
	GameSpeedTurbo GameSpeed = "turbo"
)

// Valid reports whether s is a known speed.
func (s GameSpeed) Valid() bool {
	switch s {
	case GameSpeedNormal, GameSpeedFast, GameSpeedTurbo:
		return true
	}
	return false
}

// FeatureKind names a presentation sequence handed to the feature runner.
type FeatureKind string

const (
	FeatureWin                FeatureKind = "win"
	FeatureBigWin             FeatureKind = "big_win"
	FeatureFreeSpinIntro      FeatureKind = "free_spin_intro"
	FeatureFreeSpinOutro      FeatureKind = "free_spin_outro"
	FeatureFreeSpinMultiplier FeatureKind = "free_spin_multiplier"
	FeatureExtraFreeSpins     FeatureKind = "extra_free_spins"
)

// UIElement names a control the orchestrator toggles.
type UIElement string

const (
	UIElementSpinButton     UIElement = "spin_button"
	UIElementStopButton     UIElement = "stop_button"
	UIElementAutoplayButton UIElement = "autoplay_button"
	UIElementBetControls    UIElement = "bet_controls"
	UIElementBuyFeature     UIElement = "buy_feature"
	UIElementFreeSpinsPanel UIElement = "free_spins_panel"
)

// WinMode tells the UI how to present a current-win amount.
type WinMode string

const (
	WinModeLine    WinMode = "line"
	WinModeTotal   WinMode = "total"
	WinModeFeature WinMode = "feature"
	WinModeCascade WinMode = "cascade"
)
