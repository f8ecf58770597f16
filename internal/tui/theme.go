package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette. Every color is adaptive so rows stay readable on light and dark
// backgrounds; faint styling is only applied on dark ones.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      = ac("240", "243")
	colorSurfaceFg  = ac("235", "252")
	colorControlBg  = ac("252", "235")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorAccent     = ac("27", "62")
	colorAccentFg   = ac("255", "235")
	colorFlashErr   = ac("196", "160")
	colorDoneFg     = ac("244", "241")
	colorHandleFg   = ac("245", "240")
	colorHandleHot  = ac("27", "111")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
}

func styleFlashError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorFlashErr).Padding(0, 1)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI. Only
// NO_COLOR is honored; CLICOLOR handling in termenv.EnvColorProfile is meant for
// piped output and would strip colors from an interactive session.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	term := strings.ToLower(os.Getenv("TERM"))
	switch {
	case profile == termenv.Ascii:
	case strings.Contains(colorterm, "truecolor"), strings.Contains(colorterm, "24bit"):
		profile = termenv.TrueColor
	case profile == termenv.ANSI && strings.Contains(term, "256color"):
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference forces the background guess when DRAGSORT_TUI_THEME or
// COLORFGBG say more than the terminal reports.
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DRAGSORT_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if dark, ok := colorFGBGIsDark(os.Getenv("COLORFGBG")); ok {
		lipgloss.SetHasDarkBackground(dark)
	}
}

// colorFGBGIsDark reads the "fg;bg" COLORFGBG convention; palette entries 0-6 are dark.
func colorFGBGIsDark(v string) (dark, ok bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return false, false
	}
	parts := strings.Split(v, ";")
	bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil || bg < 0 {
		return false, false
	}
	return bg < 7, true
}

func isDarkTheme() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DRAGSORT_TUI_THEME"))) {
	case "light":
		return false
	case "dark":
		return true
	}
	if dark, ok := colorFGBGIsDark(os.Getenv("COLORFGBG")); ok {
		return dark
	}
	return lipgloss.HasDarkBackground()
}
