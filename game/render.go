package game

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// BoardString renders the board as plain ASCII with row/column headers.
// Used in logs and test dumps.
func (s *State) BoardString() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for c := 0; c < s.Size; c++ {
		fmt.Fprintf(&sb, "%2d", c)
	}
	sb.WriteByte('\n')
	for r := 0; r < s.Size; r++ {
		fmt.Fprintf(&sb, "%2d ", r)
		for c := 0; c < s.Size; c++ {
			sb.WriteByte(' ')
			sb.WriteString(s.Cells[s.Action(r, c)].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Render renders the board for an interactive terminal, highlighting the
// last placed stone.
func (s *State) Render() string {
	profile := termenv.ColorProfile()
	black := termenv.String("X").Foreground(profile.Color("1")).Bold()
	white := termenv.String("O").Foreground(profile.Color("4")).Bold()
	last := termenv.String("*").Foreground(profile.Color("3")).Bold()

	var sb strings.Builder
	sb.WriteString("   ")
	for c := 0; c < s.Size; c++ {
		fmt.Fprintf(&sb, "%2d", c)
	}
	sb.WriteByte('\n')
	for r := 0; r < s.Size; r++ {
		fmt.Fprintf(&sb, "%2d ", r)
		for c := 0; c < s.Size; c++ {
			a := s.Action(r, c)
			sb.WriteByte(' ')
			switch {
			case a == s.LastMove && s.Cells[a] != Empty:
				sb.WriteString(last.String())
			case s.Cells[a] == Black:
				sb.WriteString(black.String())
			case s.Cells[a] == White:
				sb.WriteString(white.String())
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
