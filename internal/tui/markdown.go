package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle is avoided: its terminal
	// background query can block on some terminals.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// RenderMarkdown renders md for a terminal of the given width with the dragsort
// palette. On any renderer error the raw markdown is returned.
func RenderMarkdown(md string, width int) string {
	return renderMarkdown(md, width, false)
}

// renderNote renders an item note without document margins, for the detail strip
// under the list.
func renderNote(md string, width int) string {
	return renderMarkdown(md, width, true)
}

func renderMarkdown(md string, width int, compact bool) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	width = max(width, 10)

	name := markdownStyle()
	key := name + ":" + strconv.Itoa(width)
	if compact {
		key += ":compact"
	}

	mdRendererMu.Lock()
	r := mdRenderers[key]
	if r == nil {
		cfg := markdownStyleConfig(name)
		if compact {
			zero := uint(0)
			cfg.Document.Margin = &zero
			cfg.Paragraph.Margin = &zero
			cfg.List.Margin = &zero
		}
		rr, err := glamour.NewTermRenderer(glamour.WithStyles(cfg), glamour.WithWordWrap(width))
		if err != nil {
			mdRendererMu.Unlock()
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	mdRendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyle() string {
	if isDarkTheme() {
		return "dark"
	}
	return "light"
}

func markdownStyleConfig(name string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if name == "light" {
		cfg = styles.LightStyleConfig
	}
	text := mdColor(colorSurfaceFg, name)
	cfg.Text.Color = text
	cfg.Heading.Color = text
	cfg.H1.Color = text
	cfg.H2.Color = text
	cfg.Code.Color = text
	cfg.Link.Color = mdColor(colorAccent, name)
	cfg.Link.Underline = mdBoolPtr(true)
	cfg.LinkText.Color = cfg.Link.Color
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	return cfg
}

func mdColor(c lipgloss.AdaptiveColor, name string) *string {
	if name == "light" {
		return &c.Light
	}
	return &c.Dark
}

func mdBoolPtr(b bool) *bool { return &b }
