package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
)

var termIsTerminal = term.IsTerminal

var (
	nameStyle    = lipgloss.NewStyle().Bold(true)
	brandStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	macroStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// wantJSON resolves the --json flag. Unless set explicitly, JSON is used
// when stdout is not a terminal.
func wantJSON(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag != nil && flag.Changed {
		v, _ := cmd.Flags().GetBool("json")
		return v
	}
	return !isTerminal(cmd.OutOrStdout())
}

func writeResultJSON(w io.Writer, result *domain.SearchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return nil
}

func writeResultText(w io.Writer, result *domain.SearchResult, limit int) {
	foods := result.Foods
	if limit > 0 && len(foods) > limit {
		foods = foods[:limit]
	}

	if len(foods) == 0 {
		fmt.Fprintln(w, "No foods found.")
	} else {
		for i := range foods {
			writeFood(w, i+1, &foods[i])
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, formatSources(result))
}

func writeFood(w io.Writer, n int, f *domain.Food) {
	title := nameStyle.Render(f.Name)
	if f.BrandName != "" {
		title += " " + brandStyle.Render("("+f.BrandName+")")
	}
	fmt.Fprintf(w, "  [%d] %s %s\n", n, title, sourceStyle.Render(f.Source.String()))

	macros := fmt.Sprintf("%.0f kcal  P %.1fg  C %.1fg  F %.1fg", f.Calories, f.Protein, f.Carbs, f.Fat)
	if serving := f.ServingLabel(); serving != "" {
		macros += "  per " + serving
	}
	fmt.Fprintf(w, "      %s\n", macroStyle.Render(macros))

	var extra []string
	if f.Fiber != nil {
		extra = append(extra, fmt.Sprintf("fiber %.1fg", *f.Fiber))
	}
	if f.Sugar != nil {
		extra = append(extra, fmt.Sprintf("sugar %.1fg", *f.Sugar))
	}
	if f.Sodium != nil {
		extra = append(extra, fmt.Sprintf("sodium %.0fmg", *f.Sodium))
	}
	if f.Barcode != "" {
		extra = append(extra, "barcode "+f.Barcode)
	}
	if len(extra) > 0 {
		fmt.Fprintf(w, "      %s\n", mutedStyle.Render(strings.Join(extra, ", ")))
	}
}

// formatSources renders one compact line of per-source outcomes.
func formatSources(result *domain.SearchResult) string {
	parts := make([]string, 0, len(result.Sources))
	for _, s := range result.Sources {
		var text string
		switch s.Status {
		case domain.StatusSuccess:
			text = successStyle.Render(fmt.Sprintf("%s %d", s.Name, s.Count))
		case domain.StatusSkipped:
			text = mutedStyle.Render(fmt.Sprintf("%s skipped", s.Name))
		case domain.StatusTimeout:
			text = warnStyle.Render(fmt.Sprintf("%s timeout", s.Name))
		default:
			text = errorStyle.Render(fmt.Sprintf("%s error", s.Name))
		}
		if s.DurationMs > 0 {
			text += mutedStyle.Render(fmt.Sprintf(" %dms", s.DurationMs))
		}
		parts = append(parts, text)
	}

	line := mutedStyle.Render("Sources: ") + strings.Join(parts, mutedStyle.Render(" · "))
	if result.FromCache {
		line += mutedStyle.Render(" (cached)")
	}
	return line
}
