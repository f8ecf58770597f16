package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"dragsort-cli/internal/cli"
)

func isListID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "list-") && len(s) > len("list-")
}

// rewriteDirectListArgs turns `dragsort <list-id>` into `dragsort --list <list-id>`,
// which opens the TUI on that list. Cobra would otherwise parse the id as a
// subcommand, so argv is rewritten before parsing.
func rewriteDirectListArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Persistent flags may come first; skip them (and their values) to find the
	// first positional token.
	valueFlags := map[string]bool{
		"--db":     true,
		"--config": true,
		"--list":   true,
		"--format": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		// First positional token; only rewrite a lone list id.
		if isListID(a) && i == len(argv)-1 {
			out := make([]string, 0, len(argv)+1)
			out = append(out, argv[:i]...)
			out = append(out, "--list", a)
			return out
		}
		return argv
	}
	return argv
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCmd()
	cmd.SetArgs(rewriteDirectListArgs(os.Args)[1:])
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
