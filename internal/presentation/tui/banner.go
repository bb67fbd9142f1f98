package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Axle with the running version.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	s1 := termenv.String("                 _").Foreground(p.Color("#818cf8"))
	s2 := termenv.String("    /\\          | |").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String("   /  \\   __  __| |  ___").Foreground(p.Color("#c084fc"))
	s4 := termenv.String("  / /\\ \\  \\ \\/ /| | / _ \\").Foreground(p.Color("#e879f9"))
	s5 := termenv.String(" / ____ \\  >  < | ||  __/").Foreground(p.Color("#f472b6"))
	s6 := termenv.String("/_/    \\_\\/_/\\_\\|_| \\___|").Foreground(p.Color("#fb7185"))
	v := termenv.String("  v" + strings.TrimSpace(version)).Faint()

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println(v)
	fmt.Println()
}
