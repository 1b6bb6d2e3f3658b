package gameserver

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/reelflow/internal/domain"
)

// paylines returns the row of every reel for each line: the straight rows
// first, then a V and an inverted V when there is more than one row.
func paylines(reels, rows int) [][]int {
	var lines [][]int
	for r := 0; r < rows; r++ {
		line := make([]int, reels)
		for i := range line {
			line[i] = r
		}
		lines = append(lines, line)
	}
	if rows < 2 {
		return lines
	}
	v := make([]int, reels)
	inv := make([]int, reels)
	for i := range v {
		v[i] = min(i, reels-1-i, rows-1)
		inv[i] = rows - 1 - v[i]
	}
	return append(lines, v, inv)
}

// evaluateLines pays left-to-right runs of at least MinLineCount on the first n lines.
func evaluateLines(layout domain.Layout, lines [][]int, n int, pays map[domain.Symbol]map[int]decimal.Decimal, scatter domain.Symbol, lineBet decimal.Decimal) []domain.Win {
	var wins []domain.Win
	for idx, line := range lines[:min(n, len(lines))] {
		first := layout[0][line[0]]
		if first == scatter {
			continue
		}
		count := 1
		for reel := 1; reel < len(layout); reel++ {
			if layout[reel][line[reel]] != first {
				break
			}
			count++
		}
		if count < MinLineCount {
			continue
		}
		mult, ok := pays[first][count]
		if !ok || !mult.IsPositive() {
			continue
		}
		positions := make([]domain.Position, count)
		for reel := range positions {
			positions[reel] = domain.Position{Reel: reel, Row: line[reel]}
		}
		wins = append(wins, domain.Win{
			Line:      idx + 1,
			Symbol:    first,
			Count:     count,
			Amount:    lineBet.Mul(mult),
			Positions: positions,
		})
	}
	return wins
}

func countSymbol(layout domain.Layout, sym domain.Symbol) int {
	if sym == "" {
		return 0
	}
	n := 0
	for _, strip := range layout {
		for _, s := range strip {
			if s == sym {
				n++
			}
		}
	}
	return n
}

func totalWin(wins []domain.Win) decimal.Decimal {
	sum := decimal.Zero
	for _, w := range wins {
		sum = sum.Add(w.Amount)
	}
	return sum
}

// bigWinTier classifies win as a multiple of bet.
func bigWinTier(win, bet decimal.Decimal, th BigWinThresholds) (domain.BigWinTier, bool) {
	if !bet.IsPositive() {
		return "", false
	}
	ratio := win.Div(bet)
	switch {
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(th.Epic)):
		return domain.BigWinTierEpic, true
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(th.Mega)):
		return domain.BigWinTierMega, true
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(th.Big)):
		return domain.BigWinTierBig, true
	}
	return "", false
}
