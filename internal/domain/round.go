package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request paths understood by the game server.
const (
	PathInit       = "init"
	PathSpin       = "spin"
	PathFreeSpin   = "freespin"
	PathBuyFeature = "buyfeature"
)

// Bet is the wager selection: coin value x level x lines.
type Bet struct {
	Level     int             `json:"level" yaml:"level" validate:"min=1"`
	CoinValue decimal.Decimal `json:"coin_value" yaml:"coin_value"`
	Line      int             `json:"line" yaml:"line" validate:"min=1"`
}

// Amount returns the total stake of one spin.
func (b Bet) Amount() decimal.Decimal {
	return b.CoinValue.Mul(decimal.NewFromInt(int64(b.Level))).Mul(decimal.NewFromInt(int64(b.Line)))
}

// BetTable lists the selectable bet components.
type BetTable struct {
	Levels     []int             `json:"levels" yaml:"levels"`
	CoinValues []decimal.Decimal `json:"coin_values" yaml:"coin_values"`
	Lines      []int             `json:"lines" yaml:"lines"`
}

// Allows reports whether every component of b is offered by the table.
func (t BetTable) Allows(b Bet) bool {
	return containsInt(t.Levels, b.Level) && containsInt(t.Lines, b.Line) && containsDecimal(t.CoinValues, b.CoinValue)
}

// Clone returns a deep copy of the table.
func (t BetTable) Clone() BetTable {
	return BetTable{
		Levels:     append([]int(nil), t.Levels...),
		CoinValues: append([]decimal.Decimal(nil), t.CoinValues...),
		Lines:      append([]int(nil), t.Lines...),
	}
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func containsDecimal(xs []decimal.Decimal, v decimal.Decimal) bool {
	for _, x := range xs {
		if x.Equal(v) {
			return true
		}
	}
	return false
}

// Win is one paying combination, already evaluated by the server.
type Win struct {
	Line      int             `json:"line"`
	Symbol    Symbol          `json:"symbol"`
	Count     int             `json:"count"`
	Amount    decimal.Decimal `json:"amount"`
	Positions []Position      `json:"positions,omitempty"`
}

// BigWinTier is the celebration level of a big win.
type BigWinTier string

const (
	BigWinTierBig  BigWinTier = "big"
	BigWinTierMega BigWinTier = "mega"
	BigWinTierEpic BigWinTier = "epic"
)

// BigWin marks a round win large enough for the big-win sequence.
type BigWin struct {
	Tier   BigWinTier      `json:"tier"`
	Amount decimal.Decimal `json:"amount"`
}

// Nudge shifts one reel by Steps positions, landing on Symbols.
type Nudge struct {
	Reel    int   `json:"reel"`
	Steps   int   `json:"steps"`
	Symbols Strip `json:"symbols"`
}

// Cascade is one tumble step: winning symbols drop out and the layout refills.
type Cascade struct {
	Layout Layout          `json:"layout"`
	Wins   []Win           `json:"wins,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

// FreeRound is a provider-granted package of prepaid spins.
type FreeRound struct {
	ID        string          `json:"id" yaml:"id"`
	Total     int             `json:"total" yaml:"total"`
	Remaining int             `json:"remaining" yaml:"remaining"`
	Bet       Bet             `json:"bet" yaml:"bet"`
	TotalWin  decimal.Decimal `json:"total_win" yaml:"-"`
	// Accepted is false until the player takes the intro offer.
	Accepted bool `json:"accepted" yaml:"-"`
}

// Exhausted reports whether every spin of the package was played.
func (f *FreeRound) Exhausted() bool {
	return f != nil && f.Accepted && f.Remaining <= 0
}

// Replay describes a replay session of previously played rounds.
type Replay struct {
	Active    bool `json:"active"`
	Remaining int  `json:"remaining"`
}

// RoundRequest is the payload of a spin, free spin or feature buy request.
type RoundRequest struct {
	SessionID   string          `json:"session_id,omitempty"`
	RoundID     string          `json:"round_id"`
	Bet         Bet             `json:"bet"`
	BetAmount   decimal.Decimal `json:"bet_amount"`
	FeatureID   string          `json:"feature_id,omitempty"`
	GameMode    GameMode        `json:"game_mode"`
	FreeRoundID string          `json:"free_round_id,omitempty"`
}

// RoundResult is the server's authoritative outcome of one request.
type RoundResult struct {
	RoundID            string          `json:"round_id"`
	Reels              Layout          `json:"reels"`
	Wins               []Win           `json:"wins,omitempty"`
	BigWins            []BigWin        `json:"big_wins,omitempty"`
	Nudges             []Nudge         `json:"nudges,omitempty"`
	Cascades           []Cascade       `json:"cascades,omitempty"`
	RoundWin           decimal.Decimal `json:"round_win"`
	TotalWin           decimal.Decimal `json:"total_win"`
	Balance            decimal.Decimal `json:"balance"`
	GameMode           GameMode        `json:"game_mode"`
	FreeSpinsAwarded   int             `json:"free_spins_awarded,omitempty"`
	FreeSpinsRemaining int             `json:"free_spins_remaining,omitempty"`
	FreeSpinMultiplier int             `json:"free_spin_multiplier,omitempty"`
	FreeSpinExtra      int             `json:"free_spin_extra,omitempty"`
	FreeRound          *FreeRound      `json:"free_round,omitempty"`
	Replay             *Replay         `json:"replay,omitempty"`
}

// InitialState is what the server hands a new session.
type InitialState struct {
	SessionID  string          `json:"session_id"`
	Balance    decimal.Decimal `json:"balance"`
	Reels      Layout          `json:"reels"`
	BetTable   BetTable        `json:"bet_table"`
	DefaultBet Bet             `json:"default_bet"`
	GameMode   GameMode        `json:"game_mode"`
	FreeSpins  int             `json:"free_spins,omitempty"`
	FreeRound  *FreeRound      `json:"free_round,omitempty"`
	Replay     *Replay         `json:"replay,omitempty"`
	Features   []FeatureOffer  `json:"features,omitempty"`
	// AutoplayDisabled is set where the jurisdiction forbids autoplay.
	AutoplayDisabled bool `json:"autoplay_disabled,omitempty"`
}

// FeatureOffer is a buyable feature and its cost as a multiple of the bet.
type FeatureOffer struct {
	ID             string `json:"id" yaml:"id"`
	CostMultiplier int64  `json:"cost_multiplier" yaml:"cost_multiplier"`
	FreeSpins      int    `json:"free_spins" yaml:"free_spins"`
}

// AutoplaySettings is what the player picks when starting autoplay.
// Zero limits are disabled; Count < 0 runs until another condition stops it.
type AutoplaySettings struct {
	Count         int             `json:"count" validate:"min=-1,max=1000"`
	WinLimit      decimal.Decimal `json:"win_limit"`
	LossLimit     decimal.Decimal `json:"loss_limit"`
	StopOnFeature bool            `json:"stop_on_feature"`
}

// RoundRecord summarizes a finished round for the history view.
type RoundRecord struct {
	RoundID          string          `json:"round_id"`
	SessionID        string          `json:"session_id"`
	GameMode         GameMode        `json:"game_mode"`
	Bet              decimal.Decimal `json:"bet"`
	Win              decimal.Decimal `json:"win"`
	Balance          decimal.Decimal `json:"balance"`
	Reels            Layout          `json:"reels"`
	FeatureTriggered bool            `json:"feature_triggered"`
	CompletedAt      time.Time       `json:"completed_at"`
}
