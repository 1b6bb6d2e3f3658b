package gameserver

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/osse101/reelflow/internal/domain"
)

// SymbolConfig is one symbol on the virtual strip.
type SymbolConfig struct {
	Symbol domain.Symbol `yaml:"symbol" validate:"required"`
	// Weight is the relative draw frequency.
	Weight int `yaml:"weight" validate:"min=1"`
	// Pays maps a run length to its multiple of the line bet.
	Pays map[int]decimal.Decimal `yaml:"pays"`
}

// BigWinThresholds are win to bet ratios that open each celebration tier.
type BigWinThresholds struct {
	Big  int64 `yaml:"big" validate:"min=1"`
	Mega int64 `yaml:"mega" validate:"gtfield=Big"`
	Epic int64 `yaml:"epic" validate:"gtfield=Mega"`
}

// DefaultBigWinThresholds returns the stock tiers.
func DefaultBigWinThresholds() BigWinThresholds {
	return BigWinThresholds{Big: BigWinThreshold, Mega: MegaWinThreshold, Epic: EpicWinThreshold}
}

// Config describes the simulated game.
type Config struct {
	Reels              int                   `yaml:"reels" validate:"min=1,max=12"`
	Rows               int                   `yaml:"rows" validate:"min=1,max=10"`
	StartingBalance    decimal.Decimal       `yaml:"starting_balance"`
	BetTable           domain.BetTable       `yaml:"bet_table"`
	DefaultBet         domain.Bet            `yaml:"default_bet"`
	Symbols            []SymbolConfig        `yaml:"symbols" validate:"min=1,dive"`
	Scatter            domain.Symbol         `yaml:"scatter"`
	FreeSpinsAward     int                   `yaml:"free_spins_award" validate:"min=0"`
	FreeSpinsRetrigger int                   `yaml:"free_spins_retrigger" validate:"min=0"`
	Multipliers        []int                 `yaml:"multipliers" validate:"dive,min=1"`
	BigWin             BigWinThresholds      `yaml:"big_win"`
	Features           []domain.FeatureOffer `yaml:"features"`
	FreeRound          *domain.FreeRound     `yaml:"free_round"`
	AutoplayDisabled   bool                  `yaml:"autoplay_disabled"`
	Seed               uint64                `yaml:"seed"`
}

func pays(m map[int]float64) map[int]decimal.Decimal {
	out := make(map[int]decimal.Decimal, len(m))
	for n, v := range m {
		out[n] = decimal.NewFromFloat(v)
	}
	return out
}

// DefaultConfig returns a five by three game with the stock strip.
func DefaultConfig() Config {
	coin := decimal.NewFromInt(1)
	return Config{
		Reels:           5,
		Rows:            3,
		StartingBalance: decimal.NewFromInt(DefaultStartingBalance),
		BetTable: domain.BetTable{
			Levels:     []int{1, 2, 5, 10},
			CoinValues: []decimal.Decimal{decimal.RequireFromString("0.1"), coin},
			Lines:      []int{1, 3, 5},
		},
		DefaultBet: domain.Bet{Level: 1, CoinValue: coin, Line: 5},
		Symbols: []SymbolConfig{
			{Symbol: SymbolLemon, Weight: 400, Pays: pays(map[int]float64{3: 0.5, 4: 1, 5: 2})},
			{Symbol: SymbolCherry, Weight: 250, Pays: pays(map[int]float64{3: 1, 4: 2, 5: 5})},
			{Symbol: SymbolBell, Weight: 150, Pays: pays(map[int]float64{3: 2, 4: 5, 5: 10})},
			{Symbol: SymbolBar, Weight: 95, Pays: pays(map[int]float64{3: 5, 4: 10, 5: 25})},
			{Symbol: SymbolSeven, Weight: 70, Pays: pays(map[int]float64{3: 10, 4: 25, 5: 100})},
			{Symbol: SymbolDiamond, Weight: 25, Pays: pays(map[int]float64{3: 25, 4: 100, 5: 500})},
			{Symbol: SymbolStar, Weight: 30},
		},
		Scatter:            SymbolStar,
		FreeSpinsAward:     DefaultFreeSpinsAward,
		FreeSpinsRetrigger: DefaultFreeSpinsRetrigger,
		Multipliers:        []int{1, 1, 1, 2, 3},
		BigWin:             DefaultBigWinThresholds(),
		Features:           []domain.FeatureOffer{{ID: "free_spins", CostMultiplier: 100, FreeSpins: DefaultFreeSpinsAward}},
	}
}

var validate = validator.New()

// Validate checks the config against its limits.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !c.BetTable.Allows(c.DefaultBet) {
		return fmt.Errorf("%w: default bet is not in the bet table", domain.ErrInvalidInput)
	}
	if n := maxLine(c.BetTable.Lines); n > len(paylines(c.Reels, c.Rows)) {
		return fmt.Errorf("%w: %d lines offered, game has %d", domain.ErrInvalidInput, n, len(paylines(c.Reels, c.Rows)))
	}
	return nil
}

func maxLine(lines []int) int {
	m := 0
	for _, l := range lines {
		m = max(m, l)
	}
	return m
}
