package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/glamour/styles"
)

func TestMarkdownStyle_FollowsTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")

	t.Setenv("DRAGSORT_TUI_THEME", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}
	t.Setenv("DRAGSORT_TUI_THEME", "dark")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark; got %q", got)
	}

	t.Setenv("DRAGSORT_TUI_THEME", "")
	t.Setenv("COLORFGBG", "0;15")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light from COLORFGBG; got %q", got)
	}
}

func TestMarkdownStyleConfig_UsesPaletteWithoutMutatingDefaults(t *testing.T) {
	before := styles.DarkStyleConfig.Text.Color
	cfg := markdownStyleConfig("dark")
	if cfg.Text.Color == nil || *cfg.Text.Color != colorSurfaceFg.Dark {
		t.Fatalf("expected surface foreground for text")
	}
	if styles.DarkStyleConfig.Text.Color != before {
		t.Fatalf("style defaults were mutated")
	}
}

func TestRenderMarkdown_PlainTextSurvives(t *testing.T) {
	t.Setenv("DRAGSORT_TUI_THEME", "dark")
	out := RenderMarkdown("buy **oat** milk", 40)
	if !strings.Contains(out, "oat") || !strings.Contains(out, "milk") {
		t.Fatalf("expected rendered text; got %q", out)
	}
	if RenderMarkdown("   ", 40) != "" {
		t.Fatalf("expected empty output for blank input")
	}
}
