// Command simulate plays an autoplay run headless on a virtual clock against
// the built-in game server and prints a summary.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"github.com/osse101/reelflow/internal/config"
	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/logger"
)

var hundred = decimal.NewFromInt(100)

func main() {
	profileRef := flag.String("profile", config.DefaultProfileName, "Bundled profile name or path to a YAML profile")
	rounds := flag.Int("rounds", 100, "Autoplay rounds to play (at most 1000)")
	seed := flag.Uint64("seed", 1, "Simulator seed (0 draws a random one)")
	speed := flag.String("speed", string(domain.GameSpeedTurbo), "Game speed: normal, fast or turbo")
	acceptFree := flag.Bool("accept-free-round", true, "Accept an offered free round package")
	logLevel := flag.String("log-level", "warn", "Log level")
	flag.Parse()

	logger.InitLoggerWithWriter(logger.NewConfig(*logLevel, "text", "reelflow-simulate", "dev", "dev", false), os.Stderr)
	log := slog.Default()

	if !domain.GameSpeed(*speed).Valid() {
		log.Error("Invalid speed", "speed", *speed)
		os.Exit(2)
	}

	profile, err := config.LoadProfile(*profileRef)
	if err != nil {
		log.Error("Failed to load profile", "error", err)
		os.Exit(1)
	}
	profile.Server.Seed = *seed

	sum, err := simulate(Options{
		Profile:         profile,
		Rounds:          *rounds,
		Speed:           domain.GameSpeed(*speed),
		AcceptFreeRound: *acceptFree,
	}, log)
	printSummary(os.Stdout, profile.Name, sum)
	if err != nil {
		log.Error("Simulation did not finish", "error", err)
		os.Exit(1)
	}
}

func printSummary(w io.Writer, profile string, s Summary) {
	fmt.Fprintf(w, "profile        %s\n", profile)
	fmt.Fprintf(w, "rounds         %d\n", s.Rounds)
	fmt.Fprintf(w, "wagered        %s\n", s.Wagered.StringFixed(2))
	fmt.Fprintf(w, "won            %s\n", s.Won.StringFixed(2))
	fmt.Fprintf(w, "rtp            %s%%\n", s.RTP().Mul(hundred).StringFixed(2))
	fmt.Fprintf(w, "biggest win    %s\n", s.BiggestWin.StringFixed(2))
	fmt.Fprintf(w, "features       %d\n", s.Features)
	fmt.Fprintf(w, "errors         %d\n", s.Errors)
	fmt.Fprintf(w, "balance        %s -> %s\n", s.StartBalance.StringFixed(2), s.FinalBalance.StringFixed(2))
	fmt.Fprintf(w, "stop reason    %s\n", s.StopReason)
	fmt.Fprintf(w, "final state    %s\n", s.FinalState)
	fmt.Fprintf(w, "virtual time   %s\n", s.VirtualTime)
}
