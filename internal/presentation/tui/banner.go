package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for the interactive player.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Teal-to-green gradient.
	s1 := termenv.String("                                ").Foreground(p.Color("#2dd4bf"))
	s2 := termenv.String("  _ __   ___  _   _  ___  ___   ").Foreground(p.Color("#34d399"))
	s3 := termenv.String(" | '_ \\ / _ \\| | | |/ _ \\/ __|  ").Foreground(p.Color("#4ade80"))
	s4 := termenv.String(" | | | | (_) | |_| |  __/\\__ \\  ").Foreground(p.Color("#a3e635"))
	s5 := termenv.String(" |_| |_|\\___/ \\__, |\\___||___/  ").Foreground(p.Color("#facc15"))
	s6 := termenv.String("              |___/             ").Foreground(p.Color("#fb923c"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println()
}
