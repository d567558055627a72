package notifier

import (
	"fmt"
	"html"
	"strings"

	"SignalBot/internal/model"
	"SignalBot/internal/recorder"
)

// HelpText lists the available commands.
const HelpText = "Hi! Use /signal SYMBOL [INTERVAL] for a trading signal.\n" +
	"Example: /signal BTCUSDT 4h\n" +
	"/order SYMBOL SIDE QTY to place a market order.\n" +
	"/orders to list recent orders."

// OrderUsage explains the /order syntax.
const OrderUsage = "Format: /order SYMBOL SIDE(BUY/SELL) QTY. Example: /order BTCUSDT BUY 0.001"

// NotAllowed answers order commands from chats without trading rights.
const NotAllowed = "⛔ This chat is not allowed to place or list orders."

// FormatSignalReport renders an analysis and optional news as a Telegram HTML message.
func FormatSignalReport(a *model.Analysis, news []model.NewsItem) string {
	var b strings.Builder
	plan := a.Plan

	b.WriteString(fmt.Sprintf("📈 <b>Signal %s</b> (%s): %s\n", html.EscapeString(a.Symbol), html.EscapeString(a.Interval), plan.Direction))
	if plan.Direction.Actionable() {
		b.WriteString(fmt.Sprintf("Entry: %.2f\n", plan.Entry.Value))
		b.WriteString(fmt.Sprintf("SL: %.2f\n", plan.StopLoss.Value))
		b.WriteString(fmt.Sprintf("TP: %.2f\n", plan.TakeProfit.Value))
		if plan.Momentum.Valid {
			b.WriteString(fmt.Sprintf("RSI: %.1f\n", plan.Momentum.Value))
		}
	} else {
		b.WriteString(fmt.Sprintf("No actionable trade. Last close: %.2f\n", a.LastClose))
	}

	bt := a.Backtest
	b.WriteString(fmt.Sprintf("⚖️ Historical win rate (%d): %.2f%% over %d signals\n", bt.Lookback, bt.WinRate, bt.SampleSize))

	if len(news) > 0 {
		b.WriteString("\n📰 <b>Latest news:</b>\n")
		for _, n := range news {
			date := n.Date
			if len(date) > 10 {
				date = date[:10]
			}
			b.WriteString(fmt.Sprintf("- <a href=\"%s\">%s</a> %s\n",
				html.EscapeString(n.URL), html.EscapeString(n.Title), html.EscapeString(date)))
		}
	}
	return b.String()
}

// FormatDataUnavailable tells the user to retry later.
func FormatDataUnavailable(symbol string) string {
	return fmt.Sprintf("Failed to fetch signal data for %s. Please try again later.", html.EscapeString(symbol))
}

// FormatInsufficientData reports that the market has too little history.
func FormatInsufficientData(symbol, interval string) string {
	return fmt.Sprintf("Not enough %s history for %s to compute a signal.", html.EscapeString(interval), html.EscapeString(symbol))
}

// FormatOrderConfirmation renders an accepted order.
func FormatOrderConfirmation(c *model.OrderConfirmation) string {
	if c.Status == model.StatusUnconfirmed {
		return fmt.Sprintf("⚠️ Order sent: %s %s %s was accepted by %s but the confirmation was unreadable.\n"+
			"Client order id: %s. Check the account before placing it again.",
			c.Side, c.Quantity.String(), html.EscapeString(c.Symbol), html.EscapeString(c.Venue),
			html.EscapeString(c.ClientOrderID))
	}
	venue := ""
	if c.Venue == "paper" {
		venue = " [paper]"
	}
	return fmt.Sprintf("✅ Order placed: %s %s %s %s (%s)%s",
		html.EscapeString(c.OrderID), c.Side, c.Quantity.String(), html.EscapeString(c.Symbol),
		html.EscapeString(c.Status), venue)
}

// FormatOrderFailed surfaces an execution failure verbatim.
func FormatOrderFailed(err error) string {
	return "❌ Order failed: " + html.EscapeString(err.Error())
}

// FormatOrderHistory lists journaled orders, newest first.
func FormatOrderHistory(events []recorder.OrderEvent) string {
	if len(events) == 0 {
		return "No orders recorded yet."
	}
	var b strings.Builder
	b.WriteString("🧾 <b>Recent orders</b>\n")
	for _, e := range events {
		b.WriteString(fmt.Sprintf("%s %s %s %s %s",
			e.Timestamp.UTC().Format("2006-01-02 15:04"), e.Side, e.Quantity,
			html.EscapeString(e.Symbol), html.EscapeString(e.Status)))
		if e.Error != "" {
			b.WriteString(": " + html.EscapeString(e.Error))
		}
		b.WriteString("\n")
	}
	return b.String()
}
