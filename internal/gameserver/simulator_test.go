package gameserver

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/reelflow/internal/domain"
)

const (
	a = iota
	b
	s
)

func testConfig() Config {
	one := decimal.NewFromInt(1)
	return Config{
		Reels:           3,
		Rows:            3,
		StartingBalance: decimal.NewFromInt(10),
		BetTable:        domain.BetTable{Levels: []int{1, 2}, CoinValues: []decimal.Decimal{one}, Lines: []int{1, 5}},
		DefaultBet:      domain.Bet{Level: 1, CoinValue: one, Line: 1},
		Symbols: []SymbolConfig{
			{Symbol: "A", Weight: 1, Pays: map[int]decimal.Decimal{3: one}},
			{Symbol: "B", Weight: 1},
			{Symbol: "S", Weight: 1},
		},
		Scatter:            "S",
		FreeSpinsAward:     2,
		FreeSpinsRetrigger: 1,
		Features:           []domain.FeatureOffer{{ID: "bonus", CostMultiplier: 5, FreeSpins: 3}},
		BigWin:             DefaultBigWinThresholds(),
	}
}

// script returns an rng that replays vals in order and then repeats them.
func script(vals ...int) func(int) int {
	i := 0
	return func(n int) int {
		v := vals[i%len(vals)]
		i++
		return v % n
	}
}

// cells flattens a layout given reel by reel into the draw order.
func cells(reels ...[]int) []int {
	var out []int
	for _, r := range reels {
		out = append(out, r...)
	}
	return out
}

var (
	topRowA   = cells([]int{a, b, b}, []int{a, b, b}, []int{a, b, b})
	noWin     = cells([]int{a, b, b}, []int{b, b, b}, []int{a, b, b})
	scatters3 = cells([]int{s, b, b}, []int{b, s, b}, []int{b, b, s})
)

func newSim(t *testing.T, cfg Config, draws ...[]int) *Simulator {
	t.Helper()
	sim, err := NewSimulator(cfg, nil)
	require.NoError(t, err)
	var all []int
	for _, d := range draws {
		all = append(all, d...)
	}
	if len(all) > 0 {
		sim.rng = script(all...)
	}
	return sim
}

func request(t *testing.T, sim *Simulator, path string, req domain.RoundRequest) (json.RawMessage, error) {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return sim.Request(context.Background(), path, body)
}

func round(t *testing.T, sim *Simulator, path string, req domain.RoundRequest) domain.RoundResult {
	t.Helper()
	raw, err := request(t, sim, path, req)
	require.NoError(t, err)
	var res domain.RoundResult
	require.NoError(t, json.Unmarshal(raw, &res))
	return res
}

func apiCode(t *testing.T, err error) string {
	t.Helper()
	apiErr, ok := domain.AsAPIError(err)
	require.True(t, ok, "expected api error, got %v", err)
	return apiErr.Code
}

func unitBet() domain.Bet {
	return domain.Bet{Level: 1, CoinValue: decimal.NewFromInt(1), Line: 1}
}

func TestSimulator_Init(t *testing.T) {
	sim := newSim(t, testConfig(), noWin)
	raw, err := sim.Request(context.Background(), domain.PathInit, nil)
	require.NoError(t, err)

	var st domain.InitialState
	require.NoError(t, json.Unmarshal(raw, &st))
	assert.NotEmpty(t, st.SessionID)
	assert.True(t, decimal.NewFromInt(10).Equal(st.Balance))
	assert.Len(t, st.Reels, 3)
	assert.Equal(t, domain.GameModeBase, st.GameMode)
	assert.Len(t, st.Features, 1)
}

func TestSimulator_SpinPaysLine(t *testing.T) {
	sim := newSim(t, testConfig(), topRowA)
	res := round(t, sim, domain.PathSpin, domain.RoundRequest{RoundID: "r1", Bet: unitBet()})

	assert.Equal(t, "r1", res.RoundID)
	require.Len(t, res.Wins, 1)
	assert.Equal(t, 1, res.Wins[0].Line)
	assert.Equal(t, 3, res.Wins[0].Count)
	assert.True(t, decimal.NewFromInt(1).Equal(res.RoundWin))
	assert.True(t, decimal.NewFromInt(10).Equal(res.Balance))
	assert.Empty(t, res.BigWins)
}

func TestSimulator_SpinWithoutWinCharges(t *testing.T) {
	sim := newSim(t, testConfig(), noWin)
	res := round(t, sim, domain.PathSpin, domain.RoundRequest{Bet: unitBet()})

	assert.Empty(t, res.Wins)
	assert.NotEmpty(t, res.RoundID)
	assert.True(t, decimal.NewFromInt(9).Equal(res.Balance))
	assert.True(t, decimal.NewFromInt(9).Equal(sim.Balance()))
}

func TestSimulator_Rejections(t *testing.T) {
	poor := testConfig()
	poor.StartingBalance = decimal.Zero

	tests := []struct {
		name string
		cfg  Config
		path string
		req  domain.RoundRequest
		code string
	}{
		{"unknown path", testConfig(), "jackpot", domain.RoundRequest{}, CodeUnknownPath},
		{"bet not offered", testConfig(), domain.PathSpin, domain.RoundRequest{Bet: domain.Bet{Level: 3, CoinValue: decimal.NewFromInt(1), Line: 1}}, CodeInvalidBet},
		{"insufficient funds", poor, domain.PathSpin, domain.RoundRequest{Bet: unitBet()}, CodeInsufficientFunds},
		{"unknown feature", testConfig(), domain.PathBuyFeature, domain.RoundRequest{Bet: unitBet(), FeatureID: "nope"}, CodeUnknownFeature},
		{"no free spins", testConfig(), domain.PathFreeSpin, domain.RoundRequest{}, CodeNoFreeSpins},
		{"unknown free round", testConfig(), domain.PathSpin, domain.RoundRequest{Bet: unitBet(), FreeRoundID: "fr9"}, CodeUnknownFreeRound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newSim(t, tt.cfg, noWin)
			_, err := request(t, sim, tt.path, tt.req)
			assert.Equal(t, tt.code, apiCode(t, err))
			assert.True(t, tt.cfg.StartingBalance.Equal(sim.Balance()), "rejections never move the wallet")
		})
	}
}

func TestSimulator_MalformedBody(t *testing.T) {
	sim := newSim(t, testConfig())
	_, err := sim.Request(context.Background(), domain.PathSpin, []byte("{"))
	assert.Equal(t, CodeBadRequest, apiCode(t, err))
}

func TestSimulator_CancelledContext(t *testing.T) {
	sim := newSim(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sim.Request(ctx, domain.PathInit, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulator_FreeSpinsLifecycle(t *testing.T) {
	sim := newSim(t, testConfig(), scatters3, topRowA, scatters3, topRowA)

	trigger := round(t, sim, domain.PathSpin, domain.RoundRequest{Bet: unitBet()})
	assert.Equal(t, 2, trigger.FreeSpinsAwarded)
	assert.Equal(t, 2, trigger.FreeSpinsRemaining)
	assert.Equal(t, domain.GameModeFreeSpins, trigger.GameMode)

	_, err := request(t, sim, domain.PathSpin, domain.RoundRequest{Bet: unitBet()})
	assert.Equal(t, CodeFeatureUnavailable, apiCode(t, err))

	first := round(t, sim, domain.PathFreeSpin, domain.RoundRequest{})
	assert.Equal(t, 1, first.FreeSpinsRemaining)
	assert.True(t, decimal.NewFromInt(1).Equal(first.TotalWin))

	retrigger := round(t, sim, domain.PathFreeSpin, domain.RoundRequest{})
	assert.Equal(t, 1, retrigger.FreeSpinExtra)
	assert.Equal(t, 1, retrigger.FreeSpinsRemaining)
	assert.Equal(t, domain.GameModeFreeSpins, retrigger.GameMode)

	last := round(t, sim, domain.PathFreeSpin, domain.RoundRequest{})
	assert.Equal(t, 0, last.FreeSpinsRemaining)
	assert.True(t, decimal.NewFromInt(2).Equal(last.TotalWin))
	assert.Equal(t, domain.GameModeBase, last.GameMode)
	assert.True(t, decimal.NewFromInt(11).Equal(last.Balance))

	_, err = request(t, sim, domain.PathFreeSpin, domain.RoundRequest{})
	assert.Equal(t, CodeNoFreeSpins, apiCode(t, err))
}

func TestSimulator_FreeSpinMultiplier(t *testing.T) {
	cfg := testConfig()
	cfg.Multipliers = []int{3}
	sim := newSim(t, cfg, scatters3, []int{0}, topRowA)

	round(t, sim, domain.PathSpin, domain.RoundRequest{Bet: unitBet()})
	res := round(t, sim, domain.PathFreeSpin, domain.RoundRequest{})
	assert.Equal(t, 3, res.FreeSpinMultiplier)
	assert.True(t, decimal.NewFromInt(3).Equal(res.RoundWin))
}

func TestSimulator_BuyFeature(t *testing.T) {
	sim := newSim(t, testConfig(), noWin)
	res := round(t, sim, domain.PathBuyFeature, domain.RoundRequest{Bet: unitBet(), FeatureID: "bonus"})

	assert.Equal(t, 3, res.FreeSpinsAwarded)
	assert.Equal(t, domain.GameModeFreeSpins, res.GameMode)
	assert.True(t, decimal.NewFromInt(5).Equal(res.Balance))

	_, err := request(t, sim, domain.PathBuyFeature, domain.RoundRequest{Bet: unitBet(), FeatureID: "bonus"})
	assert.Equal(t, CodeFeatureUnavailable, apiCode(t, err))
}

func TestSimulator_FreeRound(t *testing.T) {
	cfg := testConfig()
	cfg.FreeRound = &domain.FreeRound{ID: "fr1", Total: 2, Remaining: 2, Bet: unitBet()}
	sim := newSim(t, cfg, topRowA)

	raw, err := sim.Request(context.Background(), domain.PathInit, nil)
	require.NoError(t, err)
	var st domain.InitialState
	require.NoError(t, json.Unmarshal(raw, &st))
	require.NotNil(t, st.FreeRound)
	assert.False(t, st.FreeRound.Accepted)

	req := domain.RoundRequest{Bet: unitBet(), FreeRoundID: "fr1"}
	first := round(t, sim, domain.PathSpin, req)
	require.NotNil(t, first.FreeRound)
	assert.Equal(t, 1, first.FreeRound.Remaining)
	assert.True(t, first.FreeRound.Accepted)
	assert.True(t, decimal.NewFromInt(11).Equal(first.Balance), "free round spins are not charged")

	second := round(t, sim, domain.PathSpin, req)
	assert.True(t, second.FreeRound.Exhausted())
	assert.True(t, decimal.NewFromInt(2).Equal(second.FreeRound.TotalWin))

	_, err = request(t, sim, domain.PathSpin, req)
	assert.Equal(t, CodeUnknownFreeRound, apiCode(t, err))
}

func TestSimulator_SameSeedSameGame(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	one, err := NewSimulator(cfg, nil)
	require.NoError(t, err)
	two, err := NewSimulator(cfg, nil)
	require.NoError(t, err)

	req := domain.RoundRequest{RoundID: "r", Bet: cfg.DefaultBet}
	for i := 0; i < 20; i++ {
		x := round(t, one, domain.PathSpin, req)
		y := round(t, two, domain.PathSpin, req)
		require.Equal(t, x.Reels, y.Reels)
		require.True(t, x.Balance.Equal(y.Balance))
		if x.FreeSpinsRemaining > 0 {
			break
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := testConfig()
	bad.DefaultBet.Level = 7
	assert.ErrorIs(t, bad.Validate(), domain.ErrInvalidInput)

	bad = testConfig()
	bad.BetTable.Lines = []int{1, 9}
	assert.ErrorIs(t, bad.Validate(), domain.ErrInvalidInput)

	bad = testConfig()
	bad.Symbols = nil
	assert.ErrorIs(t, bad.Validate(), domain.ErrInvalidInput)
}

func TestPaylines(t *testing.T) {
	lines := paylines(5, 3)
	require.Len(t, lines, 5)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, lines[0])
	assert.Equal(t, []int{2, 2, 2, 2, 2}, lines[2])
	assert.Equal(t, []int{0, 1, 2, 1, 0}, lines[3])
	assert.Equal(t, []int{2, 1, 0, 1, 2}, lines[4])

	assert.Len(t, paylines(3, 1), 1)
}

func TestBigWinTier(t *testing.T) {
	bet := decimal.NewFromInt(2)
	tests := []struct {
		win  int64
		tier domain.BigWinTier
		ok   bool
	}{
		{19, "", false},
		{20, domain.BigWinTierBig, true},
		{50, domain.BigWinTierMega, true},
		{100, domain.BigWinTierEpic, true},
	}
	for _, tt := range tests {
		tier, ok := bigWinTier(decimal.NewFromInt(tt.win), bet, DefaultBigWinThresholds())
		assert.Equal(t, tt.ok, ok, "win %d", tt.win)
		assert.Equal(t, tt.tier, tier, "win %d", tt.win)
	}
	_, ok := bigWinTier(decimal.NewFromInt(5), decimal.Zero, DefaultBigWinThresholds())
	assert.False(t, ok)
}

func TestAPIErrorStatus(t *testing.T) {
	sim := newSim(t, testConfig())
	_, err := request(t, sim, "nope", domain.RoundRequest{})
	apiErr, ok := domain.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
