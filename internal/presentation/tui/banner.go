package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tandem ASCII art banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"  _                  _              ", "#818cf8"},
		{" | |_ __ _ _ __   __| | ___ _ __ ___  ", "#a78bfa"},
		{" | __/ _` | '_ \\ / _` |/ _ \\ '_ ` _ \\ ", "#c084fc"},
		{" | || (_| | | | | (_| |  __/ | | | | |", "#e879f9"},
		{"  \\__\\__,_|_| |_|\\__,_|\\___|_| |_| |_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
