package main

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/reelflow/internal/config"
	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/flow"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSimulate_AutoplayRun(t *testing.T) {
	profile := config.DefaultProfile()
	profile.Server.Seed = 99

	sum, err := simulate(Options{
		Profile: profile,
		Rounds:  10,
		Speed:   domain.GameSpeedTurbo,
	}, quietLogger())

	require.NoError(t, err)
	assert.GreaterOrEqual(t, sum.Rounds, 10, "free spins may add rounds on top of the autoplay count")
	assert.True(t, sum.Wagered.IsPositive())
	assert.Equal(t, flow.StateIdle, sum.FinalState)
	assert.NotEmpty(t, sum.StopReason)
	assert.LessOrEqual(t, len(sum.RecentRecords), 5)
	assert.Positive(t, sum.VirtualTime)
}

func TestSimulate_SameSeedSameResult(t *testing.T) {
	run := func() Summary {
		profile := config.DefaultProfile()
		profile.Server.Seed = 7
		sum, err := simulate(Options{Profile: profile, Rounds: 5, Speed: domain.GameSpeedTurbo}, quietLogger())
		require.NoError(t, err)
		return sum
	}

	a, b := run(), run()
	assert.Equal(t, a.Rounds, b.Rounds)
	assert.True(t, a.Won.Equal(b.Won))
	assert.True(t, a.FinalBalance.Equal(b.FinalBalance))
}

func TestPopupAnswer(t *testing.T) {
	tests := []struct {
		name   string
		popup  domain.Popup
		accept bool
		want   flow.Event
	}{
		{"free round accepted", domain.Popup{Kind: domain.PopupFreeRoundIntro}, true, flow.FreeRoundAccept{}},
		{"free round declined", domain.Popup{Kind: domain.PopupFreeRoundIntro}, false, flow.FreeRoundDecline{}},
		{"network error restores", domain.Popup{Kind: domain.PopupNetworkError, Actions: []domain.PopupAction{domain.PopupActionRestore}}, true, flow.ErrorRestore{}},
		{"api error dismisses", domain.Popup{Kind: domain.PopupAPIError, Actions: []domain.PopupAction{domain.PopupActionDismiss}}, true, flow.ErrorDismiss{}},
		{"outro closes", domain.Popup{Kind: domain.PopupFreeRoundOutro, Actions: []domain.PopupAction{domain.PopupActionClose}}, true, flow.PopupClosed{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, popupAnswer(&tt.popup, tt.accept))
		})
	}
}

func TestSummary_RTPAndPrint(t *testing.T) {
	s := Summary{
		Rounds:       4,
		Wagered:      decimal.NewFromInt(40),
		Won:          decimal.NewFromInt(38),
		StartBalance: decimal.NewFromInt(1000),
		FinalBalance: decimal.NewFromInt(998),
		BiggestWin:   decimal.NewFromInt(20),
		FinalState:   flow.StateIdle,
	}
	assert.True(t, s.RTP().Equal(decimal.RequireFromString("0.95")))
	assert.True(t, Summary{}.RTP().IsZero())

	var buf bytes.Buffer
	printSummary(&buf, "classic", s)
	assert.Contains(t, buf.String(), "rtp            95.00%")
	assert.Contains(t, buf.String(), "balance        1000.00 -> 998.00")
}
