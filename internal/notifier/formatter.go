package notifier

import (
	"fmt"
	"html"
	"strings"

	"PriceSentinel/internal/model"
)

// FormatBuy formats the message sent when a Buy signal appears.
func FormatBuy(symbol string, ev *model.Evaluation) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🟢 <b>%s: Buy signal detected</b>\n\n", html.EscapeString(symbol)))
	writeEvaluation(&b, ev)
	return b.String()
}

// FormatCleared formats the message sent when a Buy signal is no longer current.
func FormatCleared(symbol string, ev *model.Evaluation) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚪ <b>%s: Buy signal cleared</b>\n\n", html.EscapeString(symbol)))
	writeEvaluation(&b, ev)
	return b.String()
}

// FormatRejection formats a refused batch.
func FormatRejection(symbol string, cause error) string {
	return fmt.Sprintf("❌ <b>%s: price batch rejected</b>\n%s", html.EscapeString(symbol), html.EscapeString(cause.Error()))
}

// FormatStatus formats the answer to the /signal command.
func FormatStatus(symbol string, ev *model.Evaluation, retained, retention int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s</b>\n\n", html.EscapeString(symbol)))
	if ev == nil {
		b.WriteString("No evaluation yet\n")
	} else {
		b.WriteString(fmt.Sprintf("Signal: %s\n", ev.Signal))
		writeEvaluation(&b, ev)
	}
	if retention > 0 {
		b.WriteString(fmt.Sprintf("\nSeries: %d/%d points", retained, retention))
	} else {
		b.WriteString(fmt.Sprintf("\nSeries: %d points", retained))
	}
	return b.String()
}

func writeEvaluation(b *strings.Builder, ev *model.Evaluation) {
	if len(ev.Criteria) == 0 {
		b.WriteString(fmt.Sprintf("Waiting for history (%d points)\n", ev.Length))
		return
	}
	ind := ev.Indicators
	if !ev.LastTime.IsZero() {
		b.WriteString(fmt.Sprintf("Last: %.2f @ %s\n", ind.LastPrice, ev.LastTime.Format("15:04")))
	} else {
		b.WriteString(fmt.Sprintf("Last: %.2f\n", ind.LastPrice))
	}
	if ind.RSIOK {
		b.WriteString(fmt.Sprintf("RSI(14): %.1f\n", ind.RSI))
	}
	for _, c := range ev.Criteria {
		mark := "✗"
		switch {
		case !c.Available:
			mark = "–"
		case c.Met:
			mark = "✓"
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", mark, c.Name))
	}
	b.WriteString(fmt.Sprintf("Criteria met: %d/%d\n", ev.Tally, len(ev.Criteria)))
}
