package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown at the start of an
// interactive survey run.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Warm gradient (amber into rose), one color per line.
	lines := []struct {
		text  string
		color string
	}{
		{"                 _         _   ", "#fbbf24"},
		{"   ___ _ __  ___| | ____ _| |_ ", "#fb923c"},
		{"  / _ \\ '_ \\| |/ / |/ / _` | __|", "#f97316"},
		{" |  __/ | | |   <|   < (_| | |_ ", "#f43f5e"},
		{"  \\___|_| |_|_|\\_\\_|\\_\\__,_|\\__|", "#e11d48"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Println(termenv.String("  " + strings.TrimSpace(version)).Foreground(p.Color("#9ca3af")).Italic())
	fmt.Println()
}
