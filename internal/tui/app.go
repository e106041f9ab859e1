package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"chainscope/internal/cex"
	"chainscope/internal/config"
	"chainscope/internal/filters"
	"chainscope/internal/mode"
	"chainscope/internal/nav"
	"chainscope/internal/notify"
	"chainscope/internal/registry"
	"chainscope/internal/theme"
	"chainscope/internal/tokens"
)

// Engine bundles the mode engine pieces the dashboard consumes. The TUI is
// a renderer: it never derives mode itself, it asks the resolver.
type Engine struct {
	Nav        *nav.History
	Resolver   *mode.Resolver
	Controller *cex.Controller
	Filters    *filters.Store
	Pool       *tokens.Pool
	Theme      *theme.Manager
	Chains     registry.Chains
	Exchanges  registry.Exchanges
	Toasts     *notify.Channel
}

// App is the bubbletea model for the dashboard.
type App struct {
	engine Engine
	cfg    config.Config
	keys   keyMap

	chainKeys    []string
	exchangeKeys []string
	exCursor     int

	width  int
	height int

	toasts      []notify.Toast
	cancelToast func()
}

type tickMsg time.Time

// New constructs the dashboard. The controller must have completed Start
// (Ready closed) before the program runs; New subscribes, it does not
// reconcile.
func New(engine Engine, cfg config.Config) *App {
	a := &App{
		engine:       engine,
		cfg:          cfg,
		keys:         newKeyMap(),
		chainKeys:    engine.Chains.Keys(),
		exchangeKeys: engine.Exchanges.Keys(),
	}
	if engine.Toasts != nil {
		a.cancelToast = engine.Toasts.Listen(func(t notify.Toast) {
			a.toasts = append(a.toasts, t)
			if len(a.toasts) > 3 {
				a.toasts = a.toasts[len(a.toasts)-3:]
			}
		})
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return a.tick()
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(time.Duration(a.cfg.UI.RefreshSeconds)*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil
	case tickMsg:
		return a, a.tick()
	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		if a.cancelToast != nil {
			a.cancelToast()
		}
		a.engine.Controller.Stop()
		return a, tea.Quit

	case key.Matches(msg, a.keys.AllChains):
		a.engine.Nav.Push(nav.Params{})
		return a, nil

	case key.Matches(msg, a.keys.NextChain):
		a.selectChain(a.nextChainIdx(1))
		return a, nil

	case key.Matches(msg, a.keys.PrevChain):
		a.selectChain(a.nextChainIdx(-1))
		return a, nil

	case key.Matches(msg, a.keys.PrevExchange):
		if len(a.exchangeKeys) > 0 {
			a.exCursor = (a.exCursor - 1 + len(a.exchangeKeys)) % len(a.exchangeKeys)
		}
		return a, nil

	case key.Matches(msg, a.keys.NextExchange):
		if len(a.exchangeKeys) > 0 {
			a.exCursor = (a.exCursor + 1) % len(a.exchangeKeys)
		}
		return a, nil

	case key.Matches(msg, a.keys.ToggleCex):
		if len(a.exchangeKeys) > 0 {
			a.engine.Controller.Toggle(a.exchangeKeys[a.exCursor])
		}
		return a, nil

	case key.Matches(msg, a.keys.Back):
		a.engine.Nav.Back()
		return a, nil

	case key.Matches(msg, a.keys.Forward):
		a.engine.Nav.Forward()
		return a, nil
	}

	// Digits jump straight to a chain.
	if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(a.chainKeys) {
		a.selectChain(n - 1)
	}
	return a, nil
}

// selectChain navigates to one chain scope. Navigation is the source of
// truth: the resolver and controller react through the provider, the TUI
// never mutates mode state directly.
func (a *App) selectChain(idx int) {
	if idx < 0 || idx >= len(a.chainKeys) {
		return
	}
	a.engine.Nav.Push(nav.Params{nav.ParamChain: a.chainKeys[idx]})
}

func (a *App) nextChainIdx(delta int) int {
	current := -1
	if md := a.engine.Resolver.Resolve(); md.Kind() == mode.KindSingle {
		for i, k := range a.chainKeys {
			if k == md.Chain() {
				current = i
				break
			}
		}
	}
	n := len(a.chainKeys)
	if n == 0 {
		return -1
	}
	return ((current+delta)%n + n) % n
}
