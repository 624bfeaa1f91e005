package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tally banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  _        _ _       ", "#818cf8"},
		{" | |_ __ _| | |_  _  ", "#a78bfa"},
		{" |  _/ _` | | | || | ", "#c084fc"},
		{"  \\__\\__,_|_|_|\\_, | ", "#e879f9"},
		{"               |__/  ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String(" v"+version).Faint())
	fmt.Fprintln(w)
}
