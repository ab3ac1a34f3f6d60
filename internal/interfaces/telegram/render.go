package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"dexspread/internal/domain/model"
)

// renderWelcome /start 欢迎语
func renderWelcome(instruments, venues []string) string {
	var sb strings.Builder
	sb.WriteString("👋 *DEX Spread Scanner*\n\n")
	fmt.Fprintf(&sb, "Watching %s across %s.\n\n", strings.Join(instruments, ", "), upperJoin(venues))
	sb.WriteString("/scan - scan for arbitrage spreads now\n")
	sb.WriteString("/settings - set the minimum net profit\n")
	sb.WriteString("/status - show scanner configuration\n")
	sb.WriteString("/recent - show the latest alerts")
	return sb.String()
}

// renderScanStart 扫描开始的即时反馈
func renderScanStart(instruments int) string {
	return fmt.Sprintf("🔍 Scanning %d instruments...", instruments)
}

// renderSpread 最优价差的播报消息，带 hashtag 方便频道检索
func renderSpread(result model.ScanResult, notional float64, leverage int) string {
	sp := result.Best
	coin := strings.SplitN(sp.Instrument, "-", 2)[0]

	var sb strings.Builder
	fmt.Fprintf(&sb, "🚀 *DEAL #%d*\n\n", result.DealID())
	fmt.Fprintf(&sb, "#open #%d #%s #%s%s\n\n", result.DealID(), coin, sp.CheapVenue, sp.ExpensiveVenue)
	fmt.Fprintf(&sb, "*%s*  ($%s notional, %dx)\n", sp.Instrument, humanize.Commaf(notional), leverage)
	fmt.Fprintf(&sb, "📉 Buy %s at $%s\n", strings.ToUpper(sp.CheapVenue), humanize.CommafWithDigits(sp.CheapPrice, 0))
	fmt.Fprintf(&sb, "📈 Sell %s at $%s\n", strings.ToUpper(sp.ExpensiveVenue), humanize.CommafWithDigits(sp.ExpensivePrice, 0))
	fmt.Fprintf(&sb, "💰 Gross: $%.2f (%.3f%%)\n", sp.Gross, sp.GrossPct)
	fmt.Fprintf(&sb, "💸 Fees: $%.2f\n", sp.Fees)
	fmt.Fprintf(&sb, "✅ Net: *$%.2f*", sp.Net)
	if len(result.Spreads) > 1 {
		fmt.Fprintf(&sb, "\n\n🧮 Qualifying spreads: %d", len(result.Spreads))
	}
	return sb.String()
}

// renderNoSpread 无机会时回显各交易所现价，方便人工判断
func renderNoSpread(result model.ScanResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "😴 No spreads above $%.2f net.\n\nCurrent prices:\n", result.Threshold)
	for _, snap := range result.Snapshots {
		fmt.Fprintf(&sb, "*%s*: %s\n", snap.Instrument, renderQuotes(snap.Quotes))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderQuotes(quotes []model.Quote) string {
	if len(quotes) == 0 {
		return "no prices"
	}
	parts := make([]string, 0, len(quotes))
	for _, q := range quotes {
		parts = append(parts, fmt.Sprintf("%s $%s", strings.ToUpper(q.Venue), humanize.CommafWithDigits(q.Price, 0)))
	}
	return strings.Join(parts, " | ")
}

// renderSettings /settings 界面文案
func renderSettings(current float64) string {
	return fmt.Sprintf("⚙️ Min net profit: *$%.2f*\n\nPick a new threshold:", current)
}

// settingsKeyboard 阈值选择键盘，布局 [[$1 $5] [$10 $30] [$100]]
func settingsKeyboard() *InlineKeyboardMarkup {
	row := func(values ...int) []InlineKeyboardButton {
		buttons := make([]InlineKeyboardButton, 0, len(values))
		for _, v := range values {
			buttons = append(buttons, InlineKeyboardButton{
				Text:         fmt.Sprintf("$%d", v),
				CallbackData: fmt.Sprintf("profit_%d", v),
			})
		}
		return buttons
	}
	return &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		row(1, 5),
		row(10, 30),
		row(100),
	}}
}

// renderThresholdSaved 回调后改写原消息的文案
func renderThresholdSaved(value float64) string {
	return fmt.Sprintf("✅ Min net profit set to *$%.2f*", value)
}

// renderThresholdAck 回调的弹窗短提示
func renderThresholdAck(value float64) string {
	return fmt.Sprintf("Saved: $%.2f", value)
}

// renderRecent 最近告警列表，新的在前
func renderRecent(alerts []model.Alert) string {
	if len(alerts) == 0 {
		return "🗒 No alerts recorded yet."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗒 *Last %d alerts*\n\n", len(alerts))
	for _, a := range alerts {
		ts := time.UnixMilli(a.Timestamp).UTC().Format("01-02 15:04")
		fmt.Fprintf(&sb, "#%d %s %s→%s net $%.2f (%s UTC)\n",
			a.DealID, a.Spread.Instrument,
			strings.ToUpper(a.Spread.CheapVenue), strings.ToUpper(a.Spread.ExpensiveVenue),
			a.Spread.Net, ts)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderStatus /status 配置概览
func renderStatus(instruments, venues []string, notional float64, leverage int, threshold float64) string {
	var sb strings.Builder
	sb.WriteString("📊 *Scanner status*\n\n")
	fmt.Fprintf(&sb, "Venues: %s\n", upperJoin(venues))
	fmt.Fprintf(&sb, "Instruments: %s\n", strings.Join(instruments, ", "))
	fmt.Fprintf(&sb, "Notional: $%s (%dx)\n", humanize.Commaf(notional), leverage)
	fmt.Fprintf(&sb, "Min net profit: $%.2f", threshold)
	return sb.String()
}

func upperJoin(names []string) string {
	upper := make([]string, 0, len(names))
	for _, n := range names {
		upper = append(upper, strings.ToUpper(n))
	}
	return strings.Join(upper, ", ")
}
