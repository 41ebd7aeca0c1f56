// beat_pattern.go - Accent/beat/pause pattern parsing and display

package main

import (
	"fmt"
	"strings"
)

// BeatSymbol is one slot of a beat pattern.
type BeatSymbol int

const (
	BeatAccent BeatSymbol = iota
	BeatNormal
	BeatPause
)

// Rune returns the textual encoding of the symbol.
func (s BeatSymbol) Rune() rune {
	switch s {
	case BeatAccent:
		return '!'
	case BeatNormal:
		return '+'
	default:
		return '.'
	}
}

func parseBeatSymbol(r rune) (BeatSymbol, error) {
	switch r {
	case '!':
		return BeatAccent, nil
	case '+':
		return BeatNormal, nil
	case '.':
		return BeatPause, nil
	default:
		return 0, fmt.Errorf("char %q is not a beat pattern symbol", r)
	}
}

// BeatPattern is an ordered, non-empty sequence of beat symbols defining
// one measure.
type BeatPattern []BeatSymbol

// ParseBeatPattern parses a pattern string over the alphabet '!' (accent),
// '+' (beat) and '.' (pause). Any other character is a parse error naming
// the offending character.
func ParseBeatPattern(value string) (BeatPattern, error) {
	if value == "" {
		return nil, fmt.Errorf("beat pattern is empty")
	}
	pattern := make(BeatPattern, 0, len(value))
	for _, r := range value {
		sym, err := parseBeatSymbol(r)
		if err != nil {
			return nil, err
		}
		pattern = append(pattern, sym)
	}
	return pattern, nil
}

func (p BeatPattern) String() string {
	var sb strings.Builder
	for _, sym := range p {
		sb.WriteRune(sym.Rune())
	}
	return sb.String()
}

// StringWithMarker renders the pattern with the currently playing symbol
// wrapped in brackets, e.g. "![+]++". The marker is display-only; playback
// timing never derives from it. An out-of-range index renders plain.
func (p BeatPattern) StringWithMarker(current int) string {
	if current < 0 || current >= len(p) {
		return p.String()
	}
	var sb strings.Builder
	for i, sym := range p {
		if i == current {
			sb.WriteByte('[')
			sb.WriteRune(sym.Rune())
			sb.WriteByte(']')
			continue
		}
		sb.WriteRune(sym.Rune())
	}
	return sb.String()
}
