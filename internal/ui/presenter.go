// Package ui turns session UI calls into ui.* events on the SSE stream.
package ui

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/session"
)

// Broadcaster delivers one event to every listening client. *sse.Hub satisfies it.
type Broadcaster interface {
	Broadcast(eventType string, payload interface{})
}

// Presenter implements session.UI by broadcasting descriptors with localized text.
// Like every UI it is called on the session goroutine only.
type Presenter struct {
	out     Broadcaster
	printer *message.Printer
	title   cases.Caser

	sessionID string
}

var _ session.UI = (*Presenter)(nil)

// NewPresenter builds a presenter for the given locale.
func NewPresenter(out Broadcaster, lang language.Tag) *Presenter {
	return &Presenter{
		out:     out,
		printer: message.NewPrinter(lang, message.Catalog(messages)),
		title:   cases.Title(lang),
	}
}

// Amount formats money with two decimals and the locale's separators.
func (p *Presenter) Amount(d decimal.Decimal) string {
	return p.printer.Sprint(number.Decimal(d.Round(amountScale).InexactFloat64(), number.Scale(amountScale)))
}

func (p *Presenter) Initialize(opts session.UIOptions) {
	p.sessionID = opts.SessionID
	p.out.Broadcast(EventTypeInitialize, InitPayload{
		SessionID:   opts.SessionID,
		Options:     opts,
		CreditsText: p.printer.Sprintf(msgCredits, p.Amount(opts.Credits)),
		BetText:     p.printer.Sprintf(msgBet, p.Amount(opts.BetAmount)),
	})
}

func (p *Presenter) ShowCurrentWin(amount decimal.Decimal, mode domain.WinMode, tickup, delay time.Duration) {
	p.out.Broadcast(EventTypeWin, WinPayload{
		SessionID: p.sessionID,
		Amount:    amount,
		Text:      p.printer.Sprintf(msgWin, p.Amount(amount)),
		Mode:      mode,
		TickupMS:  tickup.Milliseconds(),
		DelayMS:   delay.Milliseconds(),
	})
}

func (p *Presenter) SetVisible(element domain.UIElement, visible bool) {
	p.out.Broadcast(EventTypeVisibility, VisibilityPayload{
		SessionID: p.sessionID,
		Element:   element,
		Visible:   visible,
	})
}

func (p *Presenter) ShowPopup(popup domain.Popup) {
	p.out.Broadcast(EventTypePopup, PopupPayload{
		SessionID: p.sessionID,
		Popup:     *popup.Clone(),
		Title:     p.title.String(strings.ReplaceAll(string(popup.Kind), "_", " ")),
		Text:      p.popupText(popup),
	})
}

func (p *Presenter) ClosePopup() {
	p.out.Broadcast(EventTypePopupClosed, PopupClosedPayload{SessionID: p.sessionID})
}

func (p *Presenter) SyncBet(bet domain.Bet, amount decimal.Decimal) {
	p.out.Broadcast(EventTypeBet, BetPayload{
		SessionID: p.sessionID,
		Bet:       bet,
		Amount:    amount,
		Text:      p.printer.Sprintf(msgBet, p.Amount(amount)),
	})
}

func (p *Presenter) ShowHistory(records []domain.RoundRecord) {
	rows := make([]HistoryRow, len(records))
	for i, r := range records {
		rows[i] = HistoryRow{
			Record:  r,
			BetText: p.Amount(r.Bet),
			WinText: p.Amount(r.Win),
		}
	}
	p.out.Broadcast(EventTypeHistory, HistoryPayload{SessionID: p.sessionID, Rounds: rows})
}

func (p *Presenter) popupText(popup domain.Popup) string {
	switch popup.Kind {
	case domain.PopupNetworkError:
		return p.printer.Sprintf(msgNetworkError)
	case domain.PopupAPIError:
		return p.printer.Sprintf(msgAPIError, popup.Message, popup.Code)
	case domain.PopupFreeRoundIntro:
		return p.printer.Sprintf(msgFreeRoundIntro, popup.Count, p.Amount(popup.Amount))
	case domain.PopupFreeRoundOutro:
		return p.printer.Sprintf(msgFreeRoundOutro, p.Amount(popup.Amount))
	case domain.PopupReplayEnd:
		return p.printer.Sprintf(msgReplayEnd)
	}
	return popup.Message
}
