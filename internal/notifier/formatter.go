package notifier

import (
	"fmt"
	"html"
	"strings"

	"IPOSentinel/internal/analysis"
	"IPOSentinel/internal/model"
)

// FormatSummary formats a summary table into a Telegram message.
func FormatSummary(table *model.SummaryTable) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>IPOSentinel 新股表现</b> | %s\n\n", table.GeneratedAt.Format("2006-01-02")))

	if table.Len() == 0 {
		b.WriteString("近期无可用行情的新股\n")
		return b.String()
	}

	agg := analysis.AggregateSummary(table)
	b.WriteString(fmt.Sprintf("新股数量: %d | 上涨: %d\n", agg.Tickers, agg.Gainers))
	b.WriteString(fmt.Sprintf("平均涨跌: %+.1f%% | 平均峰值涨幅: %+.1f%%\n", agg.MeanPctChange, agg.MeanPeakGain))
	b.WriteString(fmt.Sprintf("平均最佳卖出日: 第%.1f天 | 峰值未定: %d\n\n", agg.MeanSellDay, agg.Ongoing))

	b.WriteString("<pre>\n")
	b.WriteString(fmt.Sprintf("%-7s %8s %4s %8s %4s\n", "代码", "涨跌%", "OSD", "峰值%", "未定"))
	for _, row := range table.Rows {
		ongoing := ""
		if row.OSDOngoing {
			ongoing = "●"
		}
		b.WriteString(fmt.Sprintf("%-7s %+8.1f %4d %+8.1f %4s\n",
			html.EscapeString(row.Ticker), row.PctOverallChange, row.OSD, row.OSDMaxPctGain, ongoing))
	}
	b.WriteString("</pre>")
	return b.String()
}

// FormatHelp lists the supported chat commands.
func FormatHelp() string {
	return "可用命令:\n• /summary 重新计算新股表现\n• /last 查看最近一次记录"
}
