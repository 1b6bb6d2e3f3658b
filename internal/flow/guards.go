package flow

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/reelflow/internal/domain"
)

// CanSpin reports whether a new spin intent may start a round.
func CanSpin(c *Context) bool {
	return !c.IsSpinBlocked && !c.IsAutoplayTick && c.Popup == nil && !c.ReelsInMotion
}

// ShouldDeferSpin reports whether the reels must wait for the server before moving.
// Free spins, free rounds and feature buys never defer.
func ShouldDeferSpin(c *Context) bool {
	if c.FreeRoundActive() || c.InFreeSpins() || c.FeatureID != "" {
		return false
	}
	return c.Credits.LessThan(c.BetAmount)
}

// AutoplayStopReason evaluates the autoplay stop predicate. An empty reason means keep going.
func AutoplayStopReason(a Autoplay, credits decimal.Decimal, featureTriggered bool) StopReason {
	switch {
	case a.DisabledByRule:
		return StopReasonDisabled
	case a.WinLimit.IsPositive() && a.TotalWin.GreaterThanOrEqual(a.WinLimit):
		return StopReasonWinLimit
	case a.LossLimit.IsPositive() && a.InitialCredits.Sub(credits).GreaterThanOrEqual(a.LossLimit):
		return StopReasonLoss
	case a.Count == 0:
		return StopReasonCount
	case featureTriggered && a.Settings.StopOnFeature:
		return StopReasonFeature
	}
	return StopReasonNone
}

// ShouldStopAutoplay is AutoplayStopReason as a predicate.
func ShouldStopAutoplay(c *Context) bool {
	return AutoplayStopReason(c.Autoplay, c.Credits, c.FeatureTriggered) != StopReasonNone
}

// SpinCost is what the next spin deducts from credits.
func SpinCost(c *Context) decimal.Decimal {
	if c.FreeRoundActive() || c.InFreeSpins() {
		return decimal.Zero
	}
	if c.FeatureID != "" {
		if offer, ok := findFeature(c.Features, c.FeatureID); ok {
			return c.BetAmount.Mul(decimal.NewFromInt(offer.CostMultiplier))
		}
	}
	return c.BetAmount
}

func findFeature(offers []domain.FeatureOffer, id string) (domain.FeatureOffer, bool) {
	for _, o := range offers {
		if o.ID == id {
			return o, true
		}
	}
	return domain.FeatureOffer{}, false
}

// ErrorPopup classifies a request failure into the popup the player sees.
func ErrorPopup(err error) *domain.Popup {
	actions := []domain.PopupAction{domain.PopupActionDismiss, domain.PopupActionRestore}
	if apiErr, ok := domain.AsAPIError(err); ok {
		return &domain.Popup{
			Kind:    domain.PopupAPIError,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Actions: actions,
		}
	}
	return &domain.Popup{
		Kind:    domain.PopupNetworkError,
		Code:    CodeNetworkError,
		Message: MsgNetworkError,
		Actions: actions,
	}
}
