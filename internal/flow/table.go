package flow

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/event"
)

func not(g guardFunc) guardFunc {
	return func(c *Context, ev Event) bool { return !g(c, ev) }
}

func all(gs ...guardFunc) guardFunc {
	return func(c *Context, ev Event) bool {
		for _, g := range gs {
			if !g(c, ev) {
				return false
			}
		}
		return true
	}
}

func canSpin(c *Context, _ Event) bool { return CanSpin(c) }

func inFreeSpins(c *Context, _ Event) bool { return c.InFreeSpins() }

func hasWins(c *Context, _ Event) bool { return len(c.Wins) > 0 }

func hasBigWins(c *Context, _ Event) bool { return len(c.BigWins) > 0 }

func hasExtraSpins(c *Context, _ Event) bool { return c.InFreeSpins() && c.FreeSpinExtra > 0 }

func hasMultiplier(c *Context, _ Event) bool { return c.InFreeSpins() && c.FreeSpinMultiplier > 1 }

func freeRoundExhausted(c *Context, _ Event) bool { return c.FreeRound.Exhausted() }

func replayExhausted(c *Context, _ Event) bool {
	return c.Replay != nil && c.Replay.Active && c.Replay.Remaining <= 0
}

func timer(name TimerName) guardFunc {
	return func(_ *Context, ev Event) bool { return ev.(TimerFired).Name == name }
}

func finished(kind domain.FeatureKind) guardFunc {
	return func(_ *Context, ev Event) bool { return ev.(FeatureFinished).Feature == kind }
}

func secondaryRunning(c *Context) bool { return c.IsNudgeRunning || c.IsCascadeRunning }

func (m *Machine) build() map[State]*stateNode {
	return map[State]*stateNode{
		root: {
			on: map[EventKind][]transition{
				KindRequestRejected: {{target: StateError, action: m.onRejected}},
				KindGameSpeedChange: {{
					guard:  func(_ *Context, ev Event) bool { return ev.(GameSpeedChange).Speed.Valid() },
					action: func(c *Context, ev Event, _ *effects) { c.GameSpeed = ev.(GameSpeedChange).Speed },
				}},
				KindAutoplayStop: {{
					guard:  func(c *Context, _ Event) bool { return c.Autoplay.IsActive },
					action: func(c *Context, _ Event, _ *effects) { c.Autoplay.IsStopped = true },
				}},
				// Bet changes outside idle are refused with the authoritative bet.
				KindBetChange:      {{action: func(c *Context, _ Event, fx *effects) { syncBet(c, fx) }, absorbed: true}},
				KindHistoryRequest: {{action: func(_ *Context, _ Event, fx *effects) { fx.add(ShowHistory{}) }}},
				KindPopupClosed: {{
					guard: func(c *Context, _ Event) bool { return c.Popup != nil && !c.Popup.IsError() },
					action: func(c *Context, _ Event, fx *effects) {
						c.Popup = nil
						fx.add(ClosePopup{})
					},
				}},
			},
		},

		StateLoading: {
			entry: func(c *Context, fx *effects) {
				fx.add(SendRequest{Path: domain.PathInit, Payload: domain.RoundRequest{SessionID: c.SessionID}})
			},
			on: map[EventKind][]transition{
				KindRequestResolved: {{
					guard:  func(_ *Context, ev Event) bool { return ev.(RequestResolved).Initial != nil },
					target: StateInitialStateCheck,
					action: m.applyInitial,
				}},
			},
		},

		StateInitialStateCheck: {
			entry: func(c *Context, fx *effects) {
				fx.add(MachineRefresh{Layout: c.Reels.Clone()})
				syncBet(c, fx)
			},
			always: []transition{
				{guard: func(c *Context, _ Event) bool { return c.InFreeSpins() && c.FreeSpins > 0 }, target: StateFreeSpinsShowingIntro},
				{target: StateIdle},
			},
		},

		StateIdle: {
			entry: func(c *Context, fx *effects) {
				c.IsSpinBlocked = false
				c.IsSpinning = false
				c.IsAutoplayTick = false
				c.Saved = nil
				fx.add(
					SetVisible{Element: domain.UIElementSpinButton, Visible: true},
					SetVisible{Element: domain.UIElementStopButton, Visible: false},
				)
			},
			always: []transition{
				{
					guard: func(c *Context, _ Event) bool {
						return c.FreeRound != nil && !c.FreeRound.Accepted && !c.FreeRoundOffered && c.Popup == nil
					},
					action: func(c *Context, _ Event, fx *effects) {
						c.FreeRoundOffered = true
						c.Popup = &domain.Popup{
							Kind:    domain.PopupFreeRoundIntro,
							Message: MsgFreeRoundIntro,
							Amount:  c.FreeRound.Bet.Amount(),
							Count:   c.FreeRound.Total,
							Actions: []domain.PopupAction{domain.PopupActionAccept, domain.PopupActionDecline},
						}
						fx.add(ShowPopup{Popup: *c.Popup.Clone()})
					},
				},
				{
					guard: func(c *Context, _ Event) bool {
						return c.Autoplay.IsActive && !c.Autoplay.IsStopped && c.Popup == nil
					},
					target: StateAutoplay,
				},
				{
					guard: func(c *Context, _ Event) bool { return c.Autoplay.IsActive && c.Autoplay.IsStopped },
					action: func(c *Context, _ Event, fx *effects) {
						stopAutoplay(c, fx, StopReasonUser)
					},
				},
			},
			on: map[EventKind][]transition{
				KindSpin: {{guard: canSpin, target: StateSpinning}},
				KindAutoplayStart: {{
					guard: all(canSpin, func(c *Context, ev Event) bool {
						return !c.Autoplay.DisabledByRule && ev.(AutoplayStart).Settings.Count != 0
					}),
					target: StateAutoplay,
					action: startAutoplay,
				}},
				KindBuyFeature: {{
					guard: all(canSpin, not(inFreeSpins), func(c *Context, ev Event) bool {
						if c.FreeRoundActive() {
							return false
						}
						offer, ok := findFeature(c.Features, ev.(BuyFeature).FeatureID)
						if !ok {
							return false
						}
						cost := c.BetAmount.Mul(decimal.NewFromInt(offer.CostMultiplier))
						return c.Credits.GreaterThanOrEqual(cost)
					}),
					target: StateSpinning,
					action: func(c *Context, ev Event, _ *effects) { c.FeatureID = ev.(BuyFeature).FeatureID },
				}},
				KindBetChange: {
					{
						guard: func(c *Context, ev Event) bool {
							return CanSpin(c) && !c.FreeRoundActive() && c.BetTable.Allows(ev.(BetChange).Bet)
						},
						action: func(c *Context, ev Event, fx *effects) {
							c.Bet = ev.(BetChange).Bet
							c.BetAmount = c.Bet.Amount()
							syncBet(c, fx)
						},
					},
					{action: func(c *Context, _ Event, fx *effects) { syncBet(c, fx) }, absorbed: true},
				},
				KindFreeRoundAccept: {{
					guard: func(c *Context, _ Event) bool { return c.FreeRound != nil && !c.FreeRound.Accepted },
					action: func(c *Context, _ Event, fx *effects) {
						c.FreeRound.Accepted = true
						c.Popup = nil
						fx.add(ClosePopup{})
						syncBet(c, fx)
					},
				}},
				KindFreeRoundDecline: {{
					guard: func(c *Context, _ Event) bool { return c.FreeRound != nil && !c.FreeRound.Accepted },
					action: func(c *Context, _ Event, fx *effects) {
						c.FreeRound = nil
						c.FreeRoundOffered = false
						c.Popup = nil
						fx.add(ClosePopup{})
					},
				}},
			},
		},

		StateAutoplay: {
			exit: func(c *Context, fx *effects) {
				cancelTimer(c, fx, TimerAutoplay)
				c.IsAutoplayTick = false
			},
			always: []transition{
				{
					guard:  func(c *Context, _ Event) bool { return ShouldStopAutoplay(c) },
					target: StateIdle,
					action: func(c *Context, _ Event, fx *effects) {
						stopAutoplay(c, fx, AutoplayStopReason(c.Autoplay, c.Credits, c.FeatureTriggered))
					},
				},
				{
					guard: func(c *Context, _ Event) bool { return !c.IsAutoplayTick },
					action: func(c *Context, _ Event, fx *effects) {
						c.IsAutoplayTick = true
						startTimer(c, fx, TimerAutoplay, m.cfg.AutoplayDelay)
					},
				},
			},
			on: map[EventKind][]transition{
				KindTimerFired: {{
					guard:  timer(TimerAutoplay),
					target: StateSpinning,
					action: func(c *Context, _ Event, _ *effects) {
						if c.Autoplay.Count > 0 {
							c.Autoplay.Count--
						}
					},
				}},
				KindAutoplayStop: {{
					target: StateIdle,
					action: func(c *Context, _ Event, fx *effects) { stopAutoplay(c, fx, StopReasonUser) },
				}},
			},
		},

		StateSpinning: {
			entry: m.beginRound,
			exit: func(c *Context, fx *effects) {
				cancelTimer(c, fx, TimerMinSpin)
				c.IsSpinning = false
				fx.add(SetVisible{Element: domain.UIElementStopButton, Visible: false})
			},
			on: map[EventKind][]transition{
				KindRequestResolved: {{
					guard:  func(c *Context, ev Event) bool { return ev.(RequestResolved).Result != nil && !c.StopDataReady },
					action: m.mergeResult,
				}},
				KindTimerFired: {{
					guard:  timer(TimerMinSpin),
					action: func(c *Context, _ Event, fx *effects) { provideStopData(c, fx) },
				}},
				KindForceStop: {{
					guard: func(c *Context, _ Event) bool {
						return !c.IsForceStopped && !c.ReelsLanded && !secondaryRunning(c)
					},
					action: m.forceStop,
				}},
				KindAllReelsStopped: {{
					guard:  func(c *Context, _ Event) bool { return !c.IsWaitingForStopData && !c.ReelsLanded },
					action: func(c *Context, _ Event, _ *effects) { c.ReelsLanded = true },
				}},
				KindNudgeComplete: {{
					guard:  func(c *Context, _ Event) bool { return c.IsNudgeRunning },
					action: finishNudge,
				}},
				KindCascadeComplete: {{
					guard:  func(c *Context, _ Event) bool { return c.IsCascadeRunning },
					action: finishCascade,
				}},
			},
			always: []transition{
				{
					guard: func(c *Context, _ Event) bool {
						return c.ReelsLanded && !secondaryRunning(c) && len(c.Nudges) > 0
					},
					action: startNudge,
				},
				{
					guard: func(c *Context, _ Event) bool {
						return c.ReelsLanded && !secondaryRunning(c) && len(c.Cascades) > 0
					},
					action: startCascade,
				},
				{
					guard:  func(c *Context, _ Event) bool { return c.ReelsLanded && !secondaryRunning(c) },
					target: StateEvaluatingSpin,
				},
			},
		},

		StateEvaluatingSpin: {
			always: []transition{
				{guard: hasWins, target: StateWinPresentation},
				{guard: hasBigWins, target: StateBigWin},
				{guard: hasExtraSpins, target: StateExtraFreeSpinAnimation},
				{target: StatePostWinEvaluation},
			},
		},

		StateWinPresentation: {
			entry: func(c *Context, fx *effects) {
				c.IsWinRunning = true
				fx.add(
					ShowWin{Amount: c.RoundWinAmount, Mode: domain.WinModeTotal, Tickup: m.tickup(c)},
					RunFeature{Kind: domain.FeatureWin, Seq: nextSeq(c), Data: FeatureData{Wins: cloneWins(c.Wins), Amount: c.RoundWinAmount}},
				)
			},
			exit: func(c *Context, _ *effects) { c.IsWinRunning = false },
			on: map[EventKind][]transition{
				KindFeatureCurrentStart: {{
					guard: func(c *Context, ev Event) bool {
						i := ev.(FeatureCurrentStart).Index
						return i >= 0 && i < len(c.Wins)
					},
					action: func(c *Context, ev Event, fx *effects) {
						w := c.Wins[ev.(FeatureCurrentStart).Index]
						fx.add(ShowWin{Amount: w.Amount, Mode: domain.WinModeLine})
					},
				}},
				KindFeatureFinished: {
					{guard: all(finished(domain.FeatureWin), hasMultiplier), target: StatePlayFreeSpinMultiplier},
					{guard: all(finished(domain.FeatureWin), hasExtraSpins), target: StateExtraFreeSpinAnimation},
					{guard: finished(domain.FeatureWin), target: StatePostWinEvaluation},
				},
			},
		},

		StateBigWin: {
			entry: func(c *Context, fx *effects) {
				c.IsBigWinRunning = true
				fx.add(
					ShowWin{Amount: c.RoundWinAmount, Mode: domain.WinModeFeature, Tickup: m.tickup(c)},
					RunFeature{Kind: domain.FeatureBigWin, Seq: nextSeq(c), Data: FeatureData{
						BigWins: append([]domain.BigWin(nil), c.BigWins...),
						Amount:  c.RoundWinAmount,
					}},
				)
			},
			exit: func(c *Context, _ *effects) {
				c.IsBigWinRunning = false
				c.BigWins = nil
			},
			on: map[EventKind][]transition{
				KindFeatureFinished: {
					{guard: all(finished(domain.FeatureBigWin), hasExtraSpins), target: StateExtraFreeSpinAnimation},
					{guard: finished(domain.FeatureBigWin), target: StatePostWinEvaluation},
				},
			},
		},

		StatePlayFreeSpinMultiplier: {
			entry: func(c *Context, fx *effects) {
				fx.add(RunFeature{Kind: domain.FeatureFreeSpinMultiplier, Seq: nextSeq(c), Data: FeatureData{
					Multiplier: c.FreeSpinMultiplier,
					Amount:     c.RoundWinAmount,
				}})
			},
			on: map[EventKind][]transition{
				KindFeatureFinished: {
					{guard: all(finished(domain.FeatureFreeSpinMultiplier), hasExtraSpins), target: StateExtraFreeSpinAnimation},
					{guard: finished(domain.FeatureFreeSpinMultiplier), target: StatePostWinEvaluation},
				},
			},
		},

		StateExtraFreeSpinAnimation: {
			entry: func(c *Context, fx *effects) {
				fx.add(RunFeature{Kind: domain.FeatureExtraFreeSpins, Seq: nextSeq(c), Data: FeatureData{Count: c.FreeSpinExtra}})
			},
			on: map[EventKind][]transition{
				KindFeatureFinished: {{
					guard:  finished(domain.FeatureExtraFreeSpins),
					target: StatePostWinEvaluation,
					action: func(c *Context, _ Event, _ *effects) { c.FreeSpinExtra = 0 },
				}},
			},
		},

		StatePostWinEvaluation: {
			entry: func(c *Context, fx *effects) {
				// Wins are cleared before the idle guard below reads them.
				c.Wins = nil
				m.settleRound(c, fx)
				startTimer(c, fx, TimerSettle, m.cfg.SettleDelay)
			},
			exit: func(c *Context, fx *effects) { cancelTimer(c, fx, TimerSettle) },
			on: map[EventKind][]transition{
				KindTimerFired: {
					{guard: all(timer(TimerSettle), hasBigWins), target: StateBigWin},
					{
						guard: all(timer(TimerSettle), not(inFreeSpins), func(c *Context, _ Event) bool {
							return c.NextGameMode == domain.GameModeFreeSpins && c.FreeSpins > 0
						}),
						target: StateFreeSpinsShowingIntro,
					},
					{
						guard:  all(timer(TimerSettle), inFreeSpins, func(c *Context, _ Event) bool { return c.FreeSpins > 0 }),
						target: StateFreeSpinsPlaying,
					},
					{guard: all(timer(TimerSettle), inFreeSpins), target: StateFreeSpinsShowingOutro},
					{guard: all(timer(TimerSettle), freeRoundExhausted), target: StateFreeRoundOutro},
					{guard: all(timer(TimerSettle), replayExhausted), target: StateReplayPopup},
					{
						guard: all(timer(TimerSettle), func(c *Context, _ Event) bool {
							return len(c.Wins) == 0 && !c.IsWinRunning && !c.IsNudgeRunning && !c.IsBigWinRunning
						}),
						target: StateIdle,
					},
				},
			},
		},

		StateFreeSpinsShowingIntro: {
			entry: func(c *Context, fx *effects) {
				c.GameMode = domain.GameModeFreeSpins
				c.NextGameMode = domain.GameModeFreeSpins
				c.FreeSpinsUsed = 0
				c.TotalWinAmount = decimal.Zero
				fx.add(SetVisible{Element: domain.UIElementFreeSpinsPanel, Visible: true})
				fx.add(RunFeature{Kind: domain.FeatureFreeSpinIntro, Seq: nextSeq(c), Data: FeatureData{Count: c.FreeSpins}})
			},
			on: map[EventKind][]transition{
				KindFeatureFinished: {{guard: finished(domain.FeatureFreeSpinIntro), target: StateFreeSpinsIntroComplete}},
			},
		},

		StateFreeSpinsIntroComplete: {
			always: []transition{{target: StateFreeSpinsPlaying}},
		},

		StateFreeSpinsPlaying: {
			entry: func(c *Context, fx *effects) {
				if c.FreeSpins > 0 {
					startTimer(c, fx, TimerFreeSpin, m.cfg.FreeSpinDelay)
				}
			},
			exit: func(c *Context, fx *effects) { cancelTimer(c, fx, TimerFreeSpin) },
			always: []transition{
				{guard: func(c *Context, _ Event) bool { return c.FreeSpins <= 0 }, target: StateFreeSpinsShowingOutro},
			},
			on: map[EventKind][]transition{
				KindTimerFired: {{guard: timer(TimerFreeSpin), target: StateSpinning}},
			},
		},

		StateFreeSpinsShowingOutro: {
			entry: func(c *Context, fx *effects) {
				fx.add(
					ShowWin{Amount: c.TotalWinAmount, Mode: domain.WinModeFeature, Tickup: m.tickup(c)},
					RunFeature{Kind: domain.FeatureFreeSpinOutro, Seq: nextSeq(c), Data: FeatureData{
						Amount: c.TotalWinAmount,
						Count:  c.FreeSpinsUsed,
					}},
				)
			},
			on: map[EventKind][]transition{
				KindFeatureFinished: {{guard: finished(domain.FeatureFreeSpinOutro), target: StateFreeSpinsOutroComplete}},
			},
		},

		StateFreeSpinsOutroComplete: {
			entry: func(c *Context, fx *effects) {
				c.GameMode = domain.GameModeBase
				c.NextGameMode = domain.GameModeBase
				c.FreeSpinMultiplier = 1
				fx.add(SetVisible{Element: domain.UIElementFreeSpinsPanel, Visible: false})
			},
			always: []transition{{target: StatePostFreeSpinsEvaluation}},
		},

		StatePostFreeSpinsEvaluation: {
			always: []transition{
				{guard: freeRoundExhausted, target: StateFreeRoundOutro},
				{guard: replayExhausted, target: StateReplayPopup},
				{target: StateIdle},
			},
		},

		StateFreeRoundOutro: {
			entry: func(c *Context, fx *effects) {
				c.Popup = &domain.Popup{
					Kind:    domain.PopupFreeRoundOutro,
					Message: MsgFreeRoundOutro,
					Amount:  c.FreeRound.TotalWin,
					Count:   c.FreeRound.Total,
					Actions: []domain.PopupAction{domain.PopupActionClose},
				}
				fx.add(ShowPopup{Popup: *c.Popup.Clone()})
			},
			on: map[EventKind][]transition{
				KindPopupClosed: {{
					target: StateIdle,
					action: func(c *Context, _ Event, fx *effects) {
						c.FreeRound = nil
						c.FreeRoundOffered = false
						c.Popup = nil
						fx.add(ClosePopup{})
						syncBet(c, fx)
					},
				}},
			},
		},

		StateReplayPopup: {
			entry: func(c *Context, fx *effects) {
				c.Popup = &domain.Popup{
					Kind:    domain.PopupReplayEnd,
					Message: MsgReplayEnd,
					Actions: []domain.PopupAction{domain.PopupActionClose},
				}
				fx.add(ShowPopup{Popup: *c.Popup.Clone()})
			},
			on: map[EventKind][]transition{
				KindPopupClosed: {{
					target: StateIdle,
					action: func(c *Context, _ Event, fx *effects) {
						c.Replay = nil
						c.Popup = nil
						fx.add(ClosePopup{})
					},
				}},
			},
		},

		StateError: {
			entry: func(c *Context, fx *effects) {
				stopAutoplay(c, fx, StopReasonError)
				cancelAllTimers(c, fx)
				c.Popup = ErrorPopup(c.Err)
				fx.add(
					ShowPopup{Popup: *c.Popup.Clone()},
					Publish{Event: event.NewSessionErrorEvent(c.RoundID, c.Popup)},
				)
			},
			on: map[EventKind][]transition{
				KindErrorDismiss: {
					{
						guard:  func(c *Context, _ Event) bool { return !c.Loaded },
						target: StateLoading,
						action: func(c *Context, _ Event, fx *effects) { clearError(c, fx) },
					},
					{
						target: StateIdle,
						action: func(c *Context, _ Event, fx *effects) {
							c.Saved = nil
							clearError(c, fx)
						},
					},
				},
				KindErrorRestore: {{
					guard:  func(c *Context, _ Event) bool { return c.Saved != nil },
					target: StateIdle,
					action: func(c *Context, _ Event, fx *effects) {
						c.restoreFrom(c.Saved)
						c.Saved = nil
						clearError(c, fx)
						fx.add(MachineRefresh{Layout: c.Reels.Clone()})
						syncBet(c, fx)
					},
				}},
			},
		},
	}
}
