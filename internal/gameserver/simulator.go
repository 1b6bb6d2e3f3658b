// Package gameserver holds the game server side of a session: an in-process
// simulator for headless runs and an HTTP client for a remote server.
package gameserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/reelflow/internal/domain"
)

// Simulator is a stand-in game server. It keeps one wallet and one free spin
// bank and answers the round paths with server-authoritative results.
// It is safe for concurrent use.
type Simulator struct {
	cfg     Config
	lines   [][]int
	pays    map[domain.Symbol]map[int]decimal.Decimal
	weights int
	log     *slog.Logger

	mu        sync.Mutex
	rng       func(n int) int // Injectable for testing
	sessionID string
	balance   decimal.Decimal
	freeSpins int
	freeTotal decimal.Decimal
	freeBet   domain.Bet
	freeRound *domain.FreeRound
}

// NewSimulator builds a simulator. A zero seed draws a random one.
func NewSimulator(cfg Config, log *slog.Logger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	r := rand.New(rand.NewPCG(seed, seed>>1|1))

	s := &Simulator{
		cfg:     cfg,
		lines:   paylines(cfg.Reels, cfg.Rows),
		pays:    make(map[domain.Symbol]map[int]decimal.Decimal, len(cfg.Symbols)),
		log:     log,
		rng:     r.IntN,
		balance: cfg.StartingBalance,
	}
	for _, sc := range cfg.Symbols {
		s.pays[sc.Symbol] = sc.Pays
		s.weights += sc.Weight
	}
	if cfg.FreeRound != nil {
		fr := *cfg.FreeRound
		fr.Accepted = false
		s.freeRound = &fr
	}
	return s, nil
}

// Balance returns the wallet.
func (s *Simulator) Balance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// Request answers one round path. Rejections are *domain.APIError values.
func (s *Simulator) Request(ctx context.Context, path string, body []byte) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var req domain.RoundRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, apiError(http.StatusBadRequest, CodeBadRequest, err.Error())
		}
	}

	s.mu.Lock()
	out, err := s.handle(path, req)
	s.mu.Unlock()
	if err != nil {
		s.log.Debug(LogMsgRoundRejected, "path", path, "error", err)
		return nil, err
	}
	return json.Marshal(out)
}

func (s *Simulator) handle(path string, req domain.RoundRequest) (any, error) {
	switch path {
	case domain.PathInit:
		return s.initial(), nil
	case domain.PathSpin:
		return s.spin(req)
	case domain.PathBuyFeature:
		return s.buyFeature(req)
	case domain.PathFreeSpin:
		return s.freeSpin(req)
	}
	return nil, apiError(http.StatusNotFound, CodeUnknownPath, path)
}

func (s *Simulator) initial() domain.InitialState {
	if s.sessionID == "" {
		s.sessionID = uuid.NewString()
		s.log.Info(LogMsgSessionOpened, "session_id", s.sessionID, "balance", s.balance)
	}
	st := domain.InitialState{
		SessionID:        s.sessionID,
		Balance:          s.balance,
		Reels:            s.draw(),
		BetTable:         s.cfg.BetTable.Clone(),
		DefaultBet:       s.cfg.DefaultBet,
		GameMode:         s.mode(),
		FreeSpins:        s.freeSpins,
		Features:         append([]domain.FeatureOffer(nil), s.cfg.Features...),
		AutoplayDisabled: s.cfg.AutoplayDisabled,
	}
	if s.freeRound != nil && s.freeRound.Remaining > 0 {
		fr := *s.freeRound
		st.FreeRound = &fr
	}
	return st
}

func (s *Simulator) spin(req domain.RoundRequest) (domain.RoundResult, error) {
	if s.freeSpins > 0 {
		return domain.RoundResult{}, apiError(http.StatusConflict, CodeFeatureUnavailable, "free spins pending")
	}
	if req.FreeRoundID != "" {
		return s.freeRoundSpin(req)
	}
	if err := s.charge(req.Bet, req.Bet.Amount()); err != nil {
		return domain.RoundResult{}, err
	}
	res := s.play(req.RoundID, req.Bet, 1)
	s.award(&res, req.Bet, countSymbol(res.Reels, s.cfg.Scatter) >= MinScatters, s.cfg.FreeSpinsAward)
	return s.finish(res, req.Bet), nil
}

func (s *Simulator) buyFeature(req domain.RoundRequest) (domain.RoundResult, error) {
	if s.freeSpins > 0 || req.FreeRoundID != "" {
		return domain.RoundResult{}, apiError(http.StatusConflict, CodeFeatureUnavailable, "feature buy not available now")
	}
	var offer *domain.FeatureOffer
	for i := range s.cfg.Features {
		if s.cfg.Features[i].ID == req.FeatureID {
			offer = &s.cfg.Features[i]
		}
	}
	if offer == nil {
		return domain.RoundResult{}, apiError(http.StatusBadRequest, CodeUnknownFeature, req.FeatureID)
	}
	cost := req.Bet.Amount().Mul(decimal.NewFromInt(offer.CostMultiplier))
	if err := s.charge(req.Bet, cost); err != nil {
		return domain.RoundResult{}, err
	}
	res := s.play(req.RoundID, req.Bet, 1)
	s.award(&res, req.Bet, true, offer.FreeSpins)
	return s.finish(res, req.Bet), nil
}

func (s *Simulator) freeSpin(req domain.RoundRequest) (domain.RoundResult, error) {
	if s.freeSpins <= 0 {
		return domain.RoundResult{}, apiError(http.StatusConflict, CodeNoFreeSpins, "no free spins left")
	}
	s.freeSpins--
	mult := 1
	if len(s.cfg.Multipliers) > 0 {
		mult = s.cfg.Multipliers[s.rng(len(s.cfg.Multipliers))]
	}
	res := s.play(req.RoundID, s.freeBet, mult)
	if mult > 1 {
		res.FreeSpinMultiplier = mult
	}
	if countSymbol(res.Reels, s.cfg.Scatter) >= MinScatters && s.cfg.FreeSpinsRetrigger > 0 {
		s.freeSpins += s.cfg.FreeSpinsRetrigger
		res.FreeSpinExtra = s.cfg.FreeSpinsRetrigger
	}
	s.freeTotal = s.freeTotal.Add(res.RoundWin)
	res.TotalWin = s.freeTotal
	return s.finish(res, s.freeBet), nil
}

func (s *Simulator) freeRoundSpin(req domain.RoundRequest) (domain.RoundResult, error) {
	fr := s.freeRound
	if fr == nil || fr.ID != req.FreeRoundID || fr.Remaining <= 0 {
		return domain.RoundResult{}, apiError(http.StatusBadRequest, CodeUnknownFreeRound, req.FreeRoundID)
	}
	fr.Accepted = true
	fr.Remaining--
	res := s.play(req.RoundID, fr.Bet, 1)
	fr.TotalWin = fr.TotalWin.Add(res.RoundWin)
	out := *fr
	res.FreeRound = &out
	if fr.Remaining <= 0 {
		s.freeRound = nil
	}
	return s.finish(res, fr.Bet), nil
}

func (s *Simulator) charge(bet domain.Bet, cost decimal.Decimal) error {
	if !s.cfg.BetTable.Allows(bet) {
		return apiError(http.StatusBadRequest, CodeInvalidBet, fmt.Sprintf("bet %d x %s x %d is not offered", bet.Level, bet.CoinValue, bet.Line))
	}
	if s.balance.LessThan(cost) {
		return apiError(http.StatusPaymentRequired, CodeInsufficientFunds, fmt.Sprintf("balance %s is below %s", s.balance, cost))
	}
	s.balance = s.balance.Sub(cost)
	return nil
}

// play draws a layout and pays its lines.
func (s *Simulator) play(roundID string, bet domain.Bet, mult int) domain.RoundResult {
	if roundID == "" {
		roundID = uuid.NewString()
	}
	layout := s.draw()
	lineBet := bet.CoinValue.Mul(decimal.NewFromInt(int64(bet.Level)))
	wins := evaluateLines(layout, s.lines, bet.Line, s.pays, s.cfg.Scatter, lineBet)
	if mult > 1 {
		m := decimal.NewFromInt(int64(mult))
		for i := range wins {
			wins[i].Amount = wins[i].Amount.Mul(m)
		}
	}
	win := totalWin(wins)
	res := domain.RoundResult{
		RoundID:  roundID,
		Reels:    layout,
		Wins:     wins,
		RoundWin: win,
		TotalWin: win,
	}
	if tier, ok := bigWinTier(win, bet.Amount(), s.cfg.BigWin); ok {
		res.BigWins = []domain.BigWin{{Tier: tier, Amount: win}}
	}
	return res
}

// award opens the free spin bank.
func (s *Simulator) award(res *domain.RoundResult, bet domain.Bet, triggered bool, n int) {
	if !triggered || n <= 0 {
		return
	}
	s.freeSpins = n
	s.freeTotal = decimal.Zero
	s.freeBet = bet
	res.FreeSpinsAwarded = n
}

func (s *Simulator) finish(res domain.RoundResult, bet domain.Bet) domain.RoundResult {
	s.balance = s.balance.Add(res.RoundWin)
	res.Balance = s.balance
	res.GameMode = s.mode()
	res.FreeSpinsRemaining = s.freeSpins
	s.log.Debug(LogMsgRoundPlayed, "round_id", res.RoundID, "win", res.RoundWin, "balance", res.Balance, "bet", bet.Amount(), "free_spins", s.freeSpins)
	return res
}

func (s *Simulator) mode() domain.GameMode {
	if s.freeSpins > 0 {
		return domain.GameModeFreeSpins
	}
	return domain.GameModeBase
}

// draw fills a layout with weighted symbols.
func (s *Simulator) draw() domain.Layout {
	layout := make(domain.Layout, s.cfg.Reels)
	for i := range layout {
		strip := make(domain.Strip, s.cfg.Rows)
		for row := range strip {
			strip[row] = s.selectWeightedSymbol()
		}
		layout[i] = strip
	}
	return layout
}

func (s *Simulator) selectWeightedSymbol() domain.Symbol {
	roll := s.rng(s.weights)
	cumulative := 0
	for _, sc := range s.cfg.Symbols {
		cumulative += sc.Weight
		if roll < cumulative {
			return sc.Symbol
		}
	}
	return s.cfg.Symbols[0].Symbol
}

func apiError(status int, code, msg string) *domain.APIError {
	return &domain.APIError{Status: status, Code: code, Message: msg}
}
