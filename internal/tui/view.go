package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chainscope/internal/mode"
	"chainscope/internal/notify"
)

var (
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	lossStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	gainStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	tabStyle   = lipgloss.NewStyle().Padding(0, 1)
	activeMark = "●"
)

func (a *App) View() string {
	md := a.engine.Resolver.Resolve()
	th := a.engine.Theme.Current()

	var b strings.Builder
	b.WriteString(th.Badge.Render(th.Icon+" "+th.Title) + "\n\n")
	b.WriteString(a.renderChainTabs(md) + "\n")
	b.WriteString(a.renderExchangeRow(md) + "\n\n")
	b.WriteString(a.renderFilterCard(md) + "\n")
	b.WriteString(a.renderTable(md) + "\n")
	b.WriteString(a.renderToasts())
	b.WriteString(dimStyle.Render("tab/1-9 chain · a all · [ ] x cex · esc back · q quit"))
	return b.String()
}

// renderChainTabs draws the chain selector. In exchange mode the row is
// dimmed: chain selection is irrelevant to the active scope.
func (a *App) renderChainTabs(md mode.Mode) string {
	cells := make([]string, 0, len(a.chainKeys)+1)

	all := "all"
	if md.Kind() == mode.KindMulti {
		all = activeMark + " all"
	}
	cells = append(cells, tabStyle.Render(all))

	for i, ck := range a.chainKeys {
		label := fmt.Sprintf("%d:%s", i+1, ck)
		if md.Kind() == mode.KindSingle && md.Chain() == ck {
			label = activeMark + " " + label
		}
		cells = append(cells, tabStyle.Render(label))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	if md.Kind() == mode.KindCex {
		return dimStyle.Render(row)
	}
	return row
}

func (a *App) renderExchangeRow(md mode.Mode) string {
	cells := make([]string, 0, len(a.exchangeKeys))
	for i, ek := range a.exchangeKeys {
		label := ek
		if i == a.exCursor {
			label = "[" + label + "]"
		}
		if md.Kind() == mode.KindCex && md.Exchange() == ek {
			label = activeMark + " " + label
		}
		cells = append(cells, tabStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// renderFilterCard summarizes the active scope's filter record.
func (a *App) renderFilterCard(md mode.Mode) string {
	var parts []string
	switch md.Kind() {
	case mode.KindSingle:
		f := a.engine.Filters.Chain(md.Chain())
		parts = summarize(map[string][]string{"dex": f.Dexes, "pair": f.Pairs, "cex": f.Exchanges}, f.PnlThreshold, "")
	case mode.KindCex:
		f := a.engine.Filters.Exchange(md.Exchange())
		parts = summarize(map[string][]string{"chain": f.Chains, "dex": f.Dexes, "pair": f.Pairs}, f.PnlThreshold, f.Sort)
	default:
		f := a.engine.Filters.Aggregate()
		parts = summarize(map[string][]string{"chain": f.Chains, "cex": f.Exchanges, "dex": f.Dexes, "pair": f.Pairs}, f.PnlThreshold, "")
	}
	if len(parts) == 0 {
		return dimStyle.Render("filters: none")
	}
	return dimStyle.Render("filters: " + strings.Join(parts, "  "))
}

func summarize(sel map[string][]string, threshold float64, sortOrder string) []string {
	var parts []string
	for _, name := range []string{"chain", "cex", "dex", "pair"} {
		if vals, ok := sel[name]; ok && len(vals) > 0 {
			parts = append(parts, name+"="+strings.Join(vals, ","))
		}
	}
	if threshold != 0 {
		parts = append(parts, fmt.Sprintf("pnl>=%.1f", threshold))
	}
	if sortOrder != "" {
		parts = append(parts, "sort="+sortOrder)
	}
	return parts
}

func (a *App) renderTable(md mode.Mode) string {
	toks := a.engine.Pool.ForMode(md)
	if len(toks) == 0 {
		return dimStyle.Render("\n  no tokens in scope\n")
	}

	th := a.engine.Theme.Current()
	showChain := md.Kind() != mode.KindSingle

	var b strings.Builder
	header := fmt.Sprintf("  %-10s %-14s %-12s %10s %8s", "SYMBOL", "DEX", "PAIR", "PRICE", "PNL")
	if showChain {
		header = fmt.Sprintf("  %-10s %-10s %-14s %-12s %10s %8s", "SYMBOL", "CHAIN", "DEX", "PAIR", "PRICE", "PNL")
	}
	b.WriteString(th.Header.Render(header) + "\n")

	for _, tok := range toks {
		pnl := fmt.Sprintf("%+.1f%%", tok.Pnl)
		if tok.Pnl < 0 {
			pnl = lossStyle.Render(pnl)
		} else {
			pnl = gainStyle.Render(pnl)
		}
		if showChain {
			b.WriteString(fmt.Sprintf("  %-10s %-10s %-14s %-12s %10.4f %8s\n",
				tok.Symbol, tok.Chain, tok.Dex, tok.Pair, tok.PriceUSD, pnl))
		} else {
			b.WriteString(fmt.Sprintf("  %-10s %-14s %-12s %10.4f %8s\n",
				tok.Symbol, tok.Dex, tok.Pair, tok.PriceUSD, pnl))
		}
	}
	return b.String()
}

func (a *App) renderToasts() string {
	if len(a.toasts) == 0 {
		return "\n"
	}
	var b strings.Builder
	for _, t := range a.toasts {
		line := "· " + t.Message
		switch t.Level {
		case notify.LevelWarn:
			line = warnStyle.Render(line)
		case notify.LevelError:
			line = errStyle.Render(line)
		default:
			line = dimStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	return b.String()
}
