package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	engine "github.com/jason-s-yu/dobon/engine"
	"github.com/jason-s-yu/dobon/engine/agent"
	"github.com/jason-s-yu/dobon/service/internal/config"
	"github.com/jason-s-yu/dobon/service/internal/game"
	"github.com/jason-s-yu/dobon/service/internal/sim"
	"github.com/sirupsen/logrus"
)

const helpText = `commands:
  play <card>   play a card, e.g. "play 7H" or "p 10d"
  draw          draw from the deck
  dobon         declare Dobon (your turn or an open window)
  pass          decline a Dobon window, or skip when stuck
  new           deal a new match (stats carry over)
  reveal <cpuN> show a CPU hand once the match is over
  stats         show win statistics
  resume        continue CPU turns after an interruption
  help          show this text
  quit          leave`

// runInteractive reads commands from in and prints the table to out until
// quit, EOF or ctx is cancelled.
func runInteractive(ctx context.Context, cfg *config.Config, logger *logrus.Logger, in io.Reader, out io.Writer) error {
	seats, err := cfg.Seats()
	if err != nil {
		return err
	}
	opts := game.Options{
		Rules:       cfg.Rules(),
		Seats:       seats,
		Delay:       game.SleepDelay(cfg.CPUDelay),
		BroadcastFn: func(ev game.GameEvent) { printEvent(out, ev) },
		Logger:      logger,
	}
	if cfg.Seed != 0 {
		opts.Seeds = game.SequentialSeeds(cfg.Seed)
	}
	m, err := game.New(opts)
	if err != nil {
		return err
	}

	snap, err := m.NewMatch(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, helpText)
	printSnapshot(out, snap)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(strings.ToLower(scanner.Text()))
		if len(fields) == 0 {
			continue
		}
		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
		}

		switch fields[0] {
		case "quit", "exit", "q":
			return nil
		case "help", "h", "?":
			fmt.Fprintln(out, helpText)
			continue
		case "stats":
			printStats(out, m.Stats())
			continue
		case "reveal":
			printReveal(out, m, arg)
			continue
		}

		snap, err = dispatch(ctx, m, fields[0], arg)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "rejected: %v\n", err)
			continue
		}
		printSnapshot(out, snap)
	}
}

// dispatch applies one match command.
func dispatch(ctx context.Context, m *game.Match, cmd, arg string) (game.Snapshot, error) {
	switch cmd {
	case "play", "p":
		c, err := engine.ParseCard(arg)
		if err != nil {
			return game.Snapshot{}, err
		}
		return m.Play(ctx, c)
	case "draw", "d":
		return m.Draw(ctx)
	case "dobon", "declare":
		return m.Declare(ctx)
	case "pass":
		return m.Pass(ctx)
	case "new", "n":
		return m.NewMatch(ctx)
	case "resume":
		return m.Resume(ctx)
	}
	return game.Snapshot{}, fmt.Errorf("unknown command %q (try help)", cmd)
}

func printReveal(out io.Writer, m *game.Match, arg string) {
	for _, r := range engine.Roles {
		if r.String() != arg {
			continue
		}
		hand, err := m.RevealHand(r)
		if err != nil {
			fmt.Fprintf(out, "rejected: %v\n", err)
			return
		}
		fmt.Fprintf(out, "%s: %s (sum %d)\n", r, joinCards(hand), engine.HandSum(hand))
		return
	}
	fmt.Fprintf(out, "unknown role %q\n", arg)
}

func joinCards(cards []engine.Card) string {
	labels := make([]string, len(cards))
	for i, c := range cards {
		labels[i] = c.String()
	}
	return strings.Join(labels, " ")
}

func joinViews(cards []game.EventCard) string {
	labels := make([]string, len(cards))
	for i, c := range cards {
		labels[i] = c.Label
	}
	return strings.Join(labels, " ")
}

func printSnapshot(out io.Writer, snap game.Snapshot) {
	field := "--"
	if snap.Field != nil {
		field = snap.Field.Label
	}
	fmt.Fprintf(out, "\nturn %d  field %s  deck %d  discard %d\n", snap.Turn, field, snap.DeckCount, snap.DiscardCount)
	for _, rv := range snap.Roles[1:] {
		line := fmt.Sprintf("  %-5s %d cards", rv.Role, rv.HandSize)
		if len(rv.Hand) > 0 {
			line += "  [" + joinViews(rv.Hand) + "]"
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "  you   %s\n", joinViews(snap.Hand))

	switch {
	case snap.Stalemate:
		fmt.Fprintln(out, "stalemate: nobody wins. type new to deal again")
	case snap.GameOver:
		fmt.Fprintf(out, "DOBON! %s wins, %s loses. type new to deal again\n", snap.Winner, snap.Loser)
	case snap.Phase == engine.PhaseDobonWindow.String():
		fmt.Fprintf(out, "dobon window on %s: %s\n", field, strings.Join(snap.LegalActions, " / "))
	default:
		fmt.Fprintf(out, "your move: %s\n", strings.Join(snap.LegalActions, " / "))
	}
}

func printEvent(out io.Writer, ev game.GameEvent) {
	card := ""
	if ev.Card != nil {
		card = ev.Card.Label
	}
	switch ev.Type {
	case game.EventPlayerPlay:
		fmt.Fprintf(out, "  %s plays %s\n", ev.Role, card)
	case game.EventPlayerDraw:
		if card != "" {
			fmt.Fprintf(out, "  %s draws %s\n", ev.Role, card)
		} else {
			fmt.Fprintf(out, "  %s draws\n", ev.Role)
		}
	case game.EventRefillStockpile:
		fmt.Fprintln(out, "  discard pile shuffled into the deck")
	case game.EventPlayerPass:
		fmt.Fprintf(out, "  %s passes\n", ev.Role)
	case game.EventDobonWindow:
		fmt.Fprintf(out, "  you can DOBON on %s before %v moves\n", card, ev.Payload["next"])
	}
}

func printStats(out io.Writer, stats game.WinStats) {
	for _, r := range engine.Roles {
		s := stats[r]
		fmt.Fprintf(out, "  %-5s %4d/%-4d %5.1f%%\n", r, s.Wins, s.TotalGames, 100*s.WinRate())
	}
}

func printReport(out io.Writer, rep sim.Report, seats agent.Seats) {
	fmt.Fprintf(out, "%d games (base seed %d), %d stalemates, %.1f turns per game\n",
		rep.Games, rep.BaseSeed, rep.Stalemates, rep.AvgTurns())
	for _, r := range engine.Roles {
		s := rep.Stats[r]
		fmt.Fprintf(out, "  %-5s %-9s %5d wins %5.1f%%\n", r, seats[r], s.Wins, 100*s.WinRate())
	}
}
