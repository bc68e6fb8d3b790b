package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tokgauge/tokgauge/internal/analyzer"
)

const ruleWidth = 80

var printer = message.NewPrinter(language.English)

// statusColors maps a report's colour tag to an ANSI colour.
var statusColors = map[string]lipgloss.Color{
	"green":  lipgloss.Color("2"),
	"yellow": lipgloss.Color("3"),
	"red":    lipgloss.Color("1"),
}

// TextExporter renders the human-readable console report. An empty Method
// omits the "Counted with" line.
type TextExporter struct {
	Color  bool
	Method string
}

func (e *TextExporter) Export(rep analyzer.FileTokenReport) (string, error) {
	rule := strings.Repeat("=", ruleWidth)

	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "📊 CONTEXT TOKEN ANALYSIS")
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "📁 File: %s\n", rep.FilePath)
	fmt.Fprintf(&b, "   Size: %s KB\n", formatFloat(rep.FileSizeKB))
	fmt.Fprintf(&b, "   Lines: %s\n", commas(rep.LineCount))
	fmt.Fprintf(&b, "   Characters: %s\n", commas(rep.CharCount))
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "🎯 Token Count: %s tokens\n", commas(rep.TokenCount))
	fmt.Fprintf(&b, "   Characters per token: %s\n", formatFloat(rep.CharsPerToken))
	if e.Method != "" {
		fmt.Fprintf(&b, "   Counted with: %s\n", e.Method)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "💾 Context Window Usage:")
	fmt.Fprintf(&b, "   Total available: %s tokens\n", commas(rep.ContextWindowTotal))
	fmt.Fprintf(&b, "   This file uses: %s tokens (%s%%)\n", commas(rep.TokenCount), formatFloat(rep.ContextPercentage))
	fmt.Fprintf(&b, "   Remaining: %s tokens\n", commas(rep.TokensRemaining))
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "📈 Status: %s\n", e.statusLine(rep))

	switch rep.Status {
	case analyzer.StatusDanger:
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "⚠️  RECOMMENDATION:")
		fmt.Fprintf(&b, "   This file consumes >%g%% of the context window.\n", analyzer.DangerThreshold)
		fmt.Fprintln(&b, "   Consider:")
		fmt.Fprintln(&b, "   - Breaking it into smaller modules")
		fmt.Fprintln(&b, "   - Using summarization for large files")
		fmt.Fprintln(&b, "   - Processing in chunks")
	case analyzer.StatusWarning:
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "💡 NOTE:")
		fmt.Fprintf(&b, "   This file consumes >%g%% of the context window.\n", analyzer.WarningThreshold)
		fmt.Fprintln(&b, "   It's usable but may limit available context for other files.")
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)
	return b.String(), nil
}

func (e *TextExporter) statusLine(rep analyzer.FileTokenReport) string {
	label := statusLabel(rep.Status)
	color, ok := statusColors[rep.StatusColor]
	if !e.Color || !ok {
		return label
	}

	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	return r.NewStyle().Bold(true).Foreground(color).Render(label)
}

func statusLabel(s analyzer.Status) string {
	switch s {
	case analyzer.StatusDanger:
		return "🔴 DANGER"
	case analyzer.StatusWarning:
		return "⚠️  WARNING"
	default:
		return "✅ SAFE"
	}
}

// commas formats n with thousands separators, e.g. 200000 -> "200,000".
func commas(n int) string {
	return printer.Sprintf("%d", n)
}

// formatFloat prints v in its shortest form but keeps one decimal place for
// whole numbers, e.g. 3 -> "3.0", 0.29 -> "0.29".
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
