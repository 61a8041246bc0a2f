package valueobjects

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultButtonColor is the color applied when a link carries none.
const DefaultButtonColor = "6366f1"

var colorPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// ButtonColor is a 6-hex-digit color. It is stored without the leading '#'
// (the marker breaks query strings) and re-prefixed for display.
type ButtonColor struct {
	hex string
}

// NewButtonColor accepts "RRGGBB" or "#RRGGBB"; empty input maps to the
// default color.
func NewButtonColor(s string) (ButtonColor, error) {
	s = strings.TrimPrefix(s, "#")
	if s == "" {
		s = DefaultButtonColor
	}
	if !colorPattern.MatchString(s) {
		return ButtonColor{}, fmt.Errorf("invalid button color: %q", s)
	}
	return ButtonColor{hex: strings.ToLower(s)}, nil
}

// Hex returns the bare 6-digit form used in storage and query strings.
func (c ButtonColor) Hex() string {
	if c.hex == "" {
		return DefaultButtonColor
	}
	return c.hex
}

// Display returns the '#'-prefixed form used for rendering.
func (c ButtonColor) Display() string {
	return "#" + c.Hex()
}
