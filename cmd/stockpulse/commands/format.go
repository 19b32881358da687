package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/wonny/stockpulse/backend/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	doubleSeparator = "═══════════════════════════════════════════════════════════"
	singleSeparator = "───────────────────────────────────────────────────────────"
)

// PrintSeparator prints a visual separator
func PrintSeparator(w io.Writer) {
	fmt.Fprintln(w, singleSeparator)
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator(w io.Writer) {
	fmt.Fprintln(w, doubleSeparator)
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "⚠️  %s\n", message)
	fmt.Fprintln(w)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "✅ %s\n", message)
}

// formatNullable renders a nullable number, "n/a" when absent
func formatNullable(v *float64, decimals int) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}

// actionIcon maps a recommendation to its console marker
func actionIcon(action contracts.Action) string {
	switch action {
	case contracts.ActionBuy:
		return "🟢"
	case contracts.ActionSell:
		return "🔴"
	default:
		return "🟡"
	}
}

// PrintScoreReport prints a recommendation with its factor breakdown and indicator panel
func PrintScoreReport(w io.Writer, symbol string, overview *contracts.Overview, quote *contracts.Quote, rec contracts.Recommendation, ind contracts.IndicatorSet) {
	name := symbol
	if overview != nil && overview.Name != "" {
		name = overview.Name
	}

	fmt.Fprintln(w)
	PrintDoubleSeparator(w)
	fmt.Fprintf(w, "  %s  (%s)\n", symbol, name)
	PrintSeparator(w)

	if quote != nil {
		fmt.Fprintf(w, "  Price     : %s (%s%%)\n", formatNullable(quote.Price, 2), formatNullable(quote.ChangePercent, 2))
	}
	fmt.Fprintf(w, "  Score     : %.1f / 10\n", rec.Score)
	fmt.Fprintf(w, "  Action    : %s %s - %s\n", actionIcon(rec.Action()), rec.Action(), rec.Verdict.Description)

	PrintSeparator(w)
	for _, f := range rec.Factors {
		fmt.Fprintf(w, "  %-20s %.1f / %.0f\n", f.Name, f.Score, f.Max)
	}

	PrintSeparator(w)
	fmt.Fprintf(w, "  SMA20     : %s\n", formatNullable(ind.SMA20, 2))
	fmt.Fprintf(w, "  SMA50     : %s\n", formatNullable(ind.SMA50, 2))
	fmt.Fprintf(w, "  RSI       : %s\n", formatNullable(ind.RSI, 2))
	if ind.MACD != nil {
		fmt.Fprintf(w, "  MACD      : %.4f\n", ind.MACD.MACDLine)
	} else {
		fmt.Fprintln(w, "  MACD      : n/a")
	}
	if bb := ind.BollingerBands; bb != nil {
		fmt.Fprintf(w, "  Bollinger : %.2f / %.2f / %.2f\n", bb.Lower, bb.Middle, bb.Upper)
	} else {
		fmt.Fprintln(w, "  Bollinger : n/a")
	}
	PrintDoubleSeparator(w)
}
