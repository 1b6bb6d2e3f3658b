package ui

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// SupportedLanguages are the locales with translated popup text. Amounts are
// localized for any tag.
var SupportedLanguages = []language.Tag{language.English, language.German}

var messages = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	de := map[string]string{
		msgNetworkError:   "Der Spielserver ist nicht erreichbar. Bitte Verbindung prüfen und erneut versuchen.",
		msgAPIError:       "%s (Code %s)",
		msgFreeRoundIntro: "Du hast %d Freirunden zu je %s.",
		msgFreeRoundOutro: "Deine Freirunden brachten %s.",
		msgReplayEnd:      "Wiederholung beendet.",
		msgWin:            "Gewinn %s",
		msgBet:            "Einsatz %s",
		msgCredits:        "Guthaben %s",
	}
	for key, text := range de {
		// keys are constants, SetString only fails on malformed input
		_ = b.SetString(language.German, key, text)
	}
	return b
}
