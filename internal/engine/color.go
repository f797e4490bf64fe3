package engine

import (
	"fmt"
	"strings"
)

// Color is a train card color. ColorNone marks a gray route that accepts any color.
type Color int

const (
	ColorNone Color = iota
	ColorRed
	ColorBlue
	ColorGreen
	ColorYellow
	ColorBlack
	ColorWhite
	ColorPink
	ColorOrange
	ColorMulticolor // wildcard
)

// NumColors sizes arrays indexed by Color.
const NumColors = int(ColorMulticolor) + 1

var colorNames = map[Color]string{
	ColorNone:       "any",
	ColorRed:        "red",
	ColorBlue:       "blue",
	ColorGreen:      "green",
	ColorYellow:     "yellow",
	ColorBlack:      "black",
	ColorWhite:      "white",
	ColorPink:       "pink",
	ColorOrange:     "orange",
	ColorMulticolor: "multicolor",
}

func (c Color) String() string {
	if s, ok := colorNames[c]; ok {
		return s
	}
	return "unknown"
}

// DisplayName is the capitalized name shown to players; the wildcard shows as "Wild".
func (c Color) DisplayName() string {
	if c == ColorMulticolor {
		return "Wild"
	}
	s := c.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// IsWild reports whether c is the wildcard color.
func (c Color) IsWild() bool { return c == ColorMulticolor }

// IsConcrete reports whether c is one of the eight non-wildcard card colors.
func (c Color) IsConcrete() bool { return c > ColorNone && c < ColorMulticolor }

// CardColors lists every color a train card can have, wildcard last.
func CardColors() []Color {
	out := make([]Color, 0, NumColors-1)
	for c := ColorRed; c <= ColorMulticolor; c++ {
		out = append(out, c)
	}
	return out
}

// ParseColor parses a card color name, case-insensitively. "wild" is accepted
// as an alias for the wildcard.
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "wild" {
		return ColorMulticolor, nil
	}
	for c := ColorRed; c <= ColorMulticolor; c++ {
		if colorNames[c] == name {
			return c, nil
		}
	}
	return ColorNone, fmt.Errorf("%w: unknown color %q", ErrValidation, s)
}

// ParseRouteColor parses the color column of a route record. Blank, "null"
// and "multicolor" all mean a gray route (ColorNone).
func ParseRouteColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "", "null", "multicolor", "any":
		return ColorNone, nil
	}
	c, err := ParseColor(name)
	if err != nil {
		return ColorNone, err
	}
	if c.IsWild() {
		return ColorNone, nil
	}
	return c, nil
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	if strings.EqualFold(strings.TrimSpace(string(b)), "any") {
		*c = ColorNone
		return nil
	}
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
