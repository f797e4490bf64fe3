// Package cli is the hot-seat turn controller: every player shares one
// terminal and takes turns at the prompt.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"tickettoride/internal/engine"
	"tickettoride/internal/lobby"
)

// ErrQuit is returned when a player quits or input runs out.
var ErrQuit = errors.New("quit")

// Publisher receives every state change, e.g. the TV feed hub.
type Publisher interface {
	PublishLobby(players []lobby.PlayerInfo, started bool)
	Publish(view engine.PublicViewData, events []engine.Event)
}

type CLI struct {
	in     *bufio.Scanner
	out    io.Writer
	pub    Publisher
	logger *zap.Logger
}

func New(in io.Reader, out io.Writer, logger *zap.Logger) *CLI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CLI{
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger.Named("cli"),
	}
}

// SetPublisher mirrors every state change to p.
func (c *CLI) SetPublisher(p Publisher) { c.pub = p }

func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// ask prints a prompt and returns the next trimmed input line.
func (c *CLI) ask(prompt string) (string, error) {
	c.printf("%s", prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrQuit
	}
	line := strings.TrimSpace(c.in.Text())
	if strings.EqualFold(line, "quit") {
		return "", ErrQuit
	}
	return line, nil
}

// askInt re-prompts until the answer is a number in [lo, hi].
func (c *CLI) askInt(prompt string, lo, hi int) (int, error) {
	for {
		line, err := c.ask(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= lo && n <= hi {
			return n, nil
		}
		c.printf("Please enter a number from %d to %d.\n", lo, hi)
	}
}

// Register asks for the player count and names and starts the lobby.
func (c *CLI) Register(l *lobby.Lobby) ([]lobby.PlayerInfo, error) {
	n, err := c.askInt(fmt.Sprintf("Number of players (%d-%d): ", l.MinPlayers, l.MaxPlayers), l.MinPlayers, l.MaxPlayers)
	if err != nil {
		return nil, err
	}
	for len(l.GetPlayers()) < n {
		name, err := c.ask(fmt.Sprintf("Name for player %d: ", len(l.GetPlayers())+1))
		if err != nil {
			return nil, err
		}
		if _, err := l.Join(name); err != nil {
			c.printf("  %v\n", err)
			continue
		}
		c.publishLobby(l)
	}
	if err := l.Start(); err != nil {
		return nil, err
	}
	c.publishLobby(l)
	return l.GetPlayers(), nil
}

// Play starts the game and runs turns until it ends or someone quits.
func (c *CLI) Play(g *engine.Game) error {
	events, err := g.StartGame()
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	c.publish(g, events)
	c.printf("\n=== Ticket to Ride: %d players, %d cities, %d routes ===\n",
		len(g.Players), g.Routes.CityCount(), len(g.Routes.Routes()))

	for _, p := range g.Players {
		if len(g.Offer(p.ID)) == 0 {
			continue
		}
		c.printf("\n--- %s, choose your starting destinations ---\n", p.Name)
		if err := c.keepDestinations(g, p); err != nil {
			return err
		}
	}

	for g.Phase != engine.PhaseGameOver {
		p := g.CurrentPlayer()
		var err error
		switch g.Phase {
		case engine.PhaseDestinations:
			err = c.keepDestinations(g, p)
		case engine.PhaseDrawing:
			err = c.secondDraw(g, p)
		default:
			err = c.turn(g, p)
		}
		if err != nil {
			return err
		}
	}

	c.printScores(g)
	return nil
}

// apply runs one action, reports its events and publishes the new state.
// Rule errors are printed and leave the prompt where it was.
func (c *CLI) apply(g *engine.Game, p *engine.Player, action engine.Action) bool {
	events, err := g.Apply(p.ID, action)
	if err != nil {
		c.printf("  Not allowed: %v\n", err)
		c.logger.Debug("action rejected",
			zap.String("player", p.ID),
			zap.String("action", string(action.Type)),
			zap.Error(err))
		return false
	}
	for _, ev := range events {
		if line := describe(g, ev); line != "" {
			c.printf("  %s\n", line)
		}
	}
	c.publish(g, events)
	return true
}

func (c *CLI) turn(g *engine.Game, p *engine.Player) error {
	c.printf("\n=== Round %d: %s's turn ===\n", g.Round, p.Name)
	if g.FinalRound {
		c.printf("(final round)\n")
	}
	c.printStatus(g, p)

	for {
		choice, err := c.ask("[d]raw cards, [c]laim a route, draw [t]ickets, show [r]outes, show [h]and, [q]uit: ")
		if err != nil {
			return err
		}
		switch strings.ToLower(choice) {
		case "d", "draw":
			c.printVisible(g)
			if ok, err := c.drawOnce(g, p, "First card: slot [1-5] or [m]ystery: "); err != nil || ok {
				return err
			}
		case "c", "claim":
			if ok, err := c.claim(g, p); err != nil || ok {
				return err
			}
		case "t", "tickets":
			if c.apply(g, p, engine.Action{Type: engine.ActionDrawDestinations}) {
				return nil
			}
		case "r", "routes":
			c.printRoutes(g)
		case "h", "hand":
			c.printHand(g, p)
		case "q":
			return ErrQuit
		default:
			c.printf("Unknown choice %q.\n", choice)
		}
	}
}

func (c *CLI) secondDraw(g *engine.Game, p *engine.Player) error {
	c.printVisible(g)
	_, err := c.drawOnce(g, p, fmt.Sprintf("%s, second card: slot [1-5] or [m]ystery: ", p.Name))
	return err
}

func (c *CLI) drawOnce(g *engine.Game, p *engine.Player, prompt string) (bool, error) {
	line, err := c.ask(prompt)
	if err != nil {
		return false, err
	}
	if strings.EqualFold(line, "m") {
		return c.apply(g, p, engine.Action{Type: engine.ActionDrawMystery}), nil
	}
	slot, err := strconv.Atoi(line)
	if err != nil || slot < 1 || slot > engine.VisibleSlots {
		c.printf("Enter 1-%d or m.\n", engine.VisibleSlots)
		return false, nil
	}
	return c.apply(g, p, engine.Action{Type: engine.ActionDrawVisible, Slot: slot - 1}), nil
}

func (c *CLI) claim(g *engine.Game, p *engine.Player) (bool, error) {
	a, err := c.ask("From city: ")
	if err != nil {
		return false, err
	}
	b, err := c.ask("To city: ")
	if err != nil {
		return false, err
	}
	color, err := c.ask("Card color (blank for a colored route's own color): ")
	if err != nil {
		return false, err
	}
	for color == "" && onlyGray(g, a, b) {
		c.printf("Gray routes need a card color.\n")
		if color, err = c.ask("Card color: "); err != nil {
			return false, err
		}
	}
	return c.apply(g, p, engine.Action{Type: engine.ActionBuildRoute, CityA: a, CityB: b, Color: color}), nil
}

// onlyGray reports whether every open route between a and b takes any color.
func onlyGray(g *engine.Game, a, b string) bool {
	open := 0
	for _, r := range g.Routes.FindRoutes(a, b) {
		if r.Claimed() {
			continue
		}
		if r.Color != engine.ColorNone {
			return false
		}
		open++
	}
	return open > 0
}

func (c *CLI) keepDestinations(g *engine.Game, p *engine.Player) error {
	view := g.ViewFor(p.ID)
	for {
		c.printf("%s, destinations on offer:\n", p.Name)
		for i, d := range view.Offered {
			c.printf("  %d) %s - %s (%d pts)\n", i+1, d.City1, d.City2, d.Points)
		}
		line, err := c.ask(fmt.Sprintf("Keep at least %d (numbers separated by spaces, or 'all'): ", view.KeepAtLeast))
		if err != nil {
			return err
		}
		ids, ok := pickIDs(line, view.Offered)
		if !ok {
			c.printf("Enter numbers from 1 to %d.\n", len(view.Offered))
			continue
		}
		if c.apply(g, p, engine.Action{Type: engine.ActionKeepDestinations, CardIDs: ids}) {
			return nil
		}
	}
}

func pickIDs(line string, offered []engine.DestinationView) ([]string, bool) {
	if strings.EqualFold(line, "all") {
		ids := make([]string, len(offered))
		for i, d := range offered {
			ids[i] = d.ID
		}
		return ids, true
	}
	var ids []string
	for _, f := range strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' }) {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 || n > len(offered) {
			return nil, false
		}
		ids = append(ids, offered[n-1].ID)
	}
	return ids, true
}

func (c *CLI) publish(g *engine.Game, events []engine.Event) {
	if c.pub != nil {
		c.pub.Publish(g.PublicView(), events)
	}
}

func (c *CLI) publishLobby(l *lobby.Lobby) {
	if c.pub != nil {
		c.pub.PublishLobby(l.GetPlayers(), l.Started)
	}
}
