package telegram

import (
	"fmt"
	"html"
	"strings"

	"SmartScan/internal/domain/models"
)

const dateLayout = "02-Jan-2006"

// RenderStarted is the kick-off notice for a scheduled run.
func RenderStarted() string {
	return "🕗 SmartMoney scan started (NSE EOD)"
}

// RenderFailure formats a run failure notice.
func RenderFailure(err error) string {
	return fmt.Sprintf("⚠️ SmartMoney job failed: <code>%s</code>", html.EscapeString(err.Error()))
}

// RenderResult formats a ranked result as a Telegram HTML message.
func RenderResult(res models.RankedResult) string {
	dateStr := html.EscapeString(res.ReferenceDate.Format(dateLayout))
	if len(res.Candidates) == 0 {
		return fmt.Sprintf("📭 No candidates for %s (filters strict or data missing).", dateStr)
	}

	lines := make([]string, 0, len(res.Candidates)+1)
	lines = append(lines, fmt.Sprintf("<b>India Smart Money Top 5</b> — %s", dateStr))
	for i, c := range res.Candidates {
		lines = append(lines, renderRow(i+1, c))
	}
	return strings.Join(lines, "\n")
}

func renderRow(rank int, c models.Candidate) string {
	ind := c.Indicators
	vs := metricStr(ind.VolSurge, "%.2fx", 1)
	dp := metricStr(ind.DeliveryPct, "%.1f%%", 100)
	ds := metricStr(ind.DeliverySurge, "%.2fx", 1)
	oi := metricStr(ind.OIChgPct, "%.1f%%", 1)

	bo := "No"
	if ind.Breakout.Valid && ind.Breakout.Value == 1 {
		bo = "Yes"
	}

	return fmt.Sprintf("%d) <b>%s</b> — ₹%.2f | Vol:%s | Del:%s (%s) | OIΔ:%s | BO:%s | Score:%.2f",
		rank, html.EscapeString(c.Symbol), c.Close, vs, dp, ds, oi, bo, c.Score)
}

// metricStr renders a metric with format, or NA when undefined. The
// delivery share is stored as a fraction and scaled to percent here.
func metricStr(m models.Metric, format string, scale float64) string {
	if !m.Valid {
		return "NA"
	}
	return fmt.Sprintf(format, m.Value*scale)
}
