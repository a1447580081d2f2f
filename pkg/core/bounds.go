package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Bounds represents element position and size.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the center point of the bounds.
func (b Bounds) Center() (int, int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// String renders the Android attribute form "[x1,y1][x2,y2]".
func (b Bounds) String() string {
	return fmt.Sprintf("[%d,%d][%d,%d]", b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// ParseBounds parses the Android "[x1,y1][x2,y2]" attribute form.
func ParseBounds(s string) (Bounds, error) {
	var b Bounds
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return b, fmt.Errorf("invalid bounds %q", s)
	}
	parts := strings.SplitN(strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]"), "][", 2)
	if len(parts) != 2 {
		return b, fmt.Errorf("invalid bounds %q", s)
	}

	x1, y1, err := parsePoint(parts[0])
	if err != nil {
		return b, fmt.Errorf("invalid bounds %q: %w", s, err)
	}
	x2, y2, err := parsePoint(parts[1])
	if err != nil {
		return b, fmt.Errorf("invalid bounds %q: %w", s, err)
	}

	b.X = x1
	b.Y = y1
	b.Width = x2 - x1
	b.Height = y2 - y1
	return b, nil
}

func parsePoint(s string) (int, int, error) {
	coords := strings.SplitN(s, ",", 2)
	if len(coords) != 2 {
		return 0, 0, fmt.Errorf("invalid point %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(coords[0]))
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(coords[1]))
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
