package flow

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/event"
)

func startTimer(c *Context, fx *effects, name TimerName, d time.Duration) {
	c.PendingTimers[name] = struct{}{}
	fx.add(StartTimer{Name: name, Delay: d})
}

func cancelTimer(c *Context, fx *effects, name TimerName) {
	if !c.HasTimer(name) {
		return
	}
	delete(c.PendingTimers, name)
	fx.add(CancelTimer{Name: name})
}

func cancelAllTimers(c *Context, fx *effects) {
	names := make([]string, 0, len(c.PendingTimers))
	for n := range c.PendingTimers {
		names = append(names, string(n))
	}
	sort.Strings(names)
	for _, n := range names {
		cancelTimer(c, fx, TimerName(n))
	}
}

func nextSeq(c *Context) int {
	c.FeatureSeq++
	return c.FeatureSeq
}

func (m *Machine) tickup(c *Context) time.Duration {
	switch c.GameSpeed {
	case domain.GameSpeedTurbo:
		return 0
	case domain.GameSpeedFast:
		return min(m.cfg.TickupDuration, FastTickupDuration)
	}
	return m.cfg.TickupDuration
}

func (m *Machine) applyInitial(c *Context, ev Event, fx *effects) {
	s := ev.(RequestResolved).Initial
	c.Loaded = true
	c.SessionID = s.SessionID
	c.Credits = s.Balance
	c.PrevCredits = s.Balance
	c.Reels = s.Reels.Clone()
	c.BetTable = s.BetTable.Clone()
	c.Bet = s.DefaultBet
	c.BetAmount = s.DefaultBet.Amount()
	c.Features = append([]domain.FeatureOffer(nil), s.Features...)
	c.GameMode = s.GameMode
	if c.GameMode == "" {
		c.GameMode = domain.GameModeBase
	}
	c.NextGameMode = c.GameMode
	c.FreeSpins = s.FreeSpins
	c.FreeRound = nil
	if s.FreeRound != nil {
		fr := *s.FreeRound
		c.FreeRound = &fr
	}
	c.Replay = nil
	if s.Replay != nil {
		rp := *s.Replay
		c.Replay = &rp
	}
	c.Autoplay.DisabledByRule = s.AutoplayDisabled
}

// beginRound is the entry of spinning: snapshot, charge and fire the request.
func (m *Machine) beginRound(c *Context, fx *effects) {
	path := domain.PathSpin
	switch {
	case c.InFreeSpins():
		path = domain.PathFreeSpin
	case c.FeatureID != "":
		path = domain.PathBuyFeature
	}
	c.Saved = c.snapshot()

	cost := SpinCost(c)
	deferred := ShouldDeferSpin(c)

	c.RoundID = ""
	c.RoundPath = path
	c.IsSpinBlocked = true
	c.IsSpinning = true
	c.IsWaitingForStopData = true
	c.IsForceStopped = false
	c.StopDataReady = false
	c.ReelsLanded = false
	c.RoundSettled = false
	c.HasPendingCredits = false
	c.FinalReels = nil
	c.Wins = nil
	c.BigWins = nil
	c.Nudges = nil
	c.Cascades = nil
	c.RoundWinAmount = decimal.Zero
	c.FreeSpinExtra = 0
	c.DeferMachineSpin = deferred
	c.RoundCost = cost
	if c.InFreeSpins() {
		c.FreeSpinsUsed++
		if c.FreeSpins > 0 {
			c.FreeSpins--
		}
	} else {
		c.FeatureTriggered = false
	}
	if !deferred {
		c.PrevCredits = c.Credits
		c.Credits = c.Credits.Sub(cost)
	}

	req := domain.RoundRequest{
		SessionID: c.SessionID,
		Bet:       c.Bet,
		BetAmount: c.BetAmount,
		FeatureID: c.FeatureID,
		GameMode:  c.GameMode,
	}
	if c.FreeRoundActive() {
		req.Bet = c.FreeRound.Bet
		req.BetAmount = c.FreeRound.Bet.Amount()
		req.FreeRoundID = c.FreeRound.ID
	}
	fx.add(
		SetVisible{Element: domain.UIElementSpinButton, Visible: false},
		SetVisible{Element: domain.UIElementStopButton, Visible: true},
		SendRequest{Path: path, Payload: req},
	)
	if deferred {
		return
	}
	c.ReelsInMotion = true
	fx.add(MachineSpin{})
	if c.GameSpeed != domain.GameSpeedTurbo && m.cfg.MinSpinDuration > 0 {
		startTimer(c, fx, TimerMinSpin, m.cfg.MinSpinDuration)
	}
}

// mergeResult copies the server outcome into the context and releases stop data when allowed.
func (m *Machine) mergeResult(c *Context, ev Event, fx *effects) {
	r := ev.(RequestResolved).Result
	c.RoundID = r.RoundID
	c.FinalReels = r.Reels.Clone()
	c.Wins = cloneWins(r.Wins)
	c.BigWins = append([]domain.BigWin(nil), r.BigWins...)
	c.Nudges = cloneNudges(r.Nudges)
	c.Cascades = cloneCascades(r.Cascades)
	c.RoundWinAmount = r.RoundWin
	if c.InFreeSpins() {
		c.TotalWinAmount = r.TotalWin
		c.FreeSpinExtra = r.FreeSpinExtra
	} else {
		c.TotalWinAmount = r.RoundWin
	}
	c.PendingCredits = r.Balance
	c.HasPendingCredits = true
	c.NextGameMode = r.GameMode
	if c.NextGameMode == "" {
		c.NextGameMode = domain.GameModeBase
	}
	c.FreeSpins = r.FreeSpinsRemaining
	if r.FreeSpinsAwarded > 0 && !c.InFreeSpins() {
		c.FeatureTriggered = true
	}
	c.FreeSpinMultiplier = max(r.FreeSpinMultiplier, 1)
	if r.FreeRound != nil {
		fr := *r.FreeRound
		fr.Accepted = fr.Accepted || (c.FreeRound != nil && c.FreeRound.Accepted)
		c.FreeRound = &fr
	}
	if r.Replay != nil {
		rp := *r.Replay
		c.Replay = &rp
	}
	c.StopDataReady = true

	if c.DeferMachineSpin {
		c.DeferMachineSpin = false
		c.ReelsInMotion = true
		fx.add(MachineSpin{})
		provideStopData(c, fx)
		return
	}
	if c.HasTimer(TimerMinSpin) {
		return
	}
	provideStopData(c, fx)
}

// provideStopData hands the final layout to the machine once per round.
func provideStopData(c *Context, fx *effects) {
	if !c.IsWaitingForStopData || !c.StopDataReady {
		return
	}
	c.IsWaitingForStopData = false
	fx.add(MachineProvideStopData{Layout: c.FinalReels.Clone()})
	if c.GameSpeed == domain.GameSpeedTurbo || c.IsForceStopped {
		fx.add(MachineForceStop{})
	}
}

func (m *Machine) forceStop(c *Context, _ Event, fx *effects) {
	c.IsForceStopped = true
	cancelTimer(c, fx, TimerMinSpin)
	if c.IsWaitingForStopData && c.StopDataReady {
		provideStopData(c, fx)
		return
	}
	if c.ReelsInMotion {
		fx.add(MachineForceStop{})
	}
}

func startNudge(c *Context, _ Event, fx *effects) {
	c.IsNudgeRunning = true
	fx.add(MachineNudge{Nudges: cloneNudges(c.Nudges)})
}

func finishNudge(c *Context, _ Event, _ *effects) {
	for _, n := range c.Nudges {
		if n.Reel >= 0 && n.Reel < len(c.Reels) && n.Symbols != nil {
			c.Reels[n.Reel] = n.Symbols.Clone()
		}
	}
	c.Nudges = nil
	c.IsNudgeRunning = false
}

func startCascade(c *Context, _ Event, fx *effects) {
	c.IsCascadeRunning = true
	fx.add(MachineCascade{Layout: c.Cascades[0].Layout.Clone()})
}

func finishCascade(c *Context, _ Event, _ *effects) {
	c.IsCascadeRunning = false
	if len(c.Cascades) == 0 {
		return
	}
	step := c.Cascades[0]
	c.Cascades = c.Cascades[1:]
	c.Reels = step.Layout.Clone()
	c.Wins = append(c.Wins, cloneWins(step.Wins)...)
}

// settleRound books the round exactly once, however often postWinEvaluation is entered.
func (m *Machine) settleRound(c *Context, fx *effects) {
	if c.RoundSettled {
		return
	}
	c.RoundSettled = true
	if c.HasPendingCredits {
		c.Credits = c.PendingCredits
		c.HasPendingCredits = false
	}
	if c.Autoplay.IsActive {
		c.Autoplay.TotalWin = c.Autoplay.TotalWin.Add(c.RoundWinAmount)
	}
	fx.add(Publish{Event: event.NewRoundCompletedEvent(domain.RoundRecord{
		RoundID:          c.RoundID,
		SessionID:        c.SessionID,
		GameMode:         c.GameMode,
		Bet:              c.RoundCost,
		Win:              c.RoundWinAmount,
		Balance:          c.Credits,
		Reels:            c.Reels.Clone(),
		FeatureTriggered: c.FeatureTriggered,
	})})
	c.FeatureID = ""
}

func startAutoplay(c *Context, ev Event, fx *effects) {
	s := ev.(AutoplayStart).Settings
	c.Autoplay = Autoplay{
		Count:          s.Count,
		WinLimit:       s.WinLimit,
		LossLimit:      s.LossLimit,
		IsActive:       true,
		InitialCredits: c.Credits,
		TotalWin:       decimal.Zero,
		Settings:       s,
		DisabledByRule: c.Autoplay.DisabledByRule,
	}
	fx.add(Publish{Event: event.NewAutoplayStartedEvent(s)})
}

// stopAutoplay resets the autoplay fields. It is a no-op when autoplay is not running.
func stopAutoplay(c *Context, fx *effects, reason StopReason) {
	c.IsAutoplayTick = false
	if !c.Autoplay.IsActive {
		return
	}
	total := c.Autoplay.TotalWin
	c.Autoplay = Autoplay{DisabledByRule: c.Autoplay.DisabledByRule, Settings: c.Autoplay.Settings}
	fx.add(Publish{Event: event.NewAutoplayStoppedEvent(string(reason), total)})
}

func (m *Machine) onRejected(c *Context, ev Event, fx *effects) {
	c.Err = ev.(RequestRejected).Err
	if c.Saved != nil {
		c.restoreFrom(c.Saved)
	}
	c.IsWaitingForStopData = false
	c.DeferMachineSpin = false
	if c.ReelsInMotion {
		fx.add(MachineForceStop{}, MachineProvideStopData{Layout: c.Reels.Clone()})
	}
}

func clearError(c *Context, fx *effects) {
	c.Err = nil
	c.Popup = nil
	fx.add(ClosePopup{})
}

func syncBet(c *Context, fx *effects) {
	if c.FreeRoundActive() {
		fx.add(SyncBet{Bet: c.FreeRound.Bet, Amount: c.FreeRound.Bet.Amount()})
		return
	}
	fx.add(SyncBet{Bet: c.Bet, Amount: c.BetAmount})
}
