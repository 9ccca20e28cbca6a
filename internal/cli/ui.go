package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives user-facing output. Tests replace it.
var stdout io.Writer = os.Stdout

// Palette. Block fills in rendered images come from the render theme; these
// only color terminal output.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleHighlight marks names of inputs.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleLink marks URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	// StyleDim is used for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	stylePath        = lipgloss.NewStyle().Foreground(colorWhite)
)

const (
	iconInfo   = "›"
	iconCached = "cached"
	iconFresh  = "fresh"
)

// level is the kind of a status line.
type level int

const (
	levelInfo level = iota
	levelSuccess
	levelWarning
	levelError
)

var levels = [...]struct {
	icon  string
	style lipgloss.Style
	body  lipgloss.Style // applied to the message; zero style leaves it plain
}{
	levelInfo:    {iconInfo, lipgloss.NewStyle().Foreground(colorGray), lipgloss.NewStyle()},
	levelSuccess: {"✓", lipgloss.NewStyle().Foreground(colorGreen), lipgloss.NewStyle()},
	levelWarning: {"!", lipgloss.NewStyle().Foreground(colorYellow), lipgloss.NewStyle().Foreground(colorYellow)},
	levelError:   {"✗", lipgloss.NewStyle().Foreground(colorRed), lipgloss.NewStyle()},
}

// status writes one icon-prefixed line to stdout.
func status(l level, format string, args ...any) {
	lv := levels[l]
	fmt.Fprintln(stdout, lv.style.Render(lv.icon)+" "+lv.body.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any)    { status(levelInfo, format, args...) }
func printSuccess(format string, args ...any) { status(levelSuccess, format, args...) }
func printWarning(format string, args ...any) { status(levelWarning, format, args...) }
func printError(format string, args ...any)   { status(levelError, format, args...) }

// printDetail prints an indented, dimmed line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written artifact.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+stylePath.Render(path))
}

// printStats prints analysis counts on one line, ending with whether the
// analysis came from the cache.
func printStats(cached bool, parts ...string) {
	tag := lipgloss.NewStyle().Foreground(colorGray).Render(iconFresh)
	if cached {
		tag = lipgloss.NewStyle().Foreground(colorGreen).Render(iconCached)
	}
	sep := StyleDim.Render(" · ")
	dimmed := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		dimmed = append(dimmed, StyleDim.Render(p))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(append(dimmed, tag), sep))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}
