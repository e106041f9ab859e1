// Package cex owns the exchange-scoped mode layered on top of chain
// scopes. The controller is the only component that writes the cex query
// parameter; everyone else observes the result through the resolver.
package cex

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"chainscope/internal/mode"
	"chainscope/internal/nav"
	"chainscope/internal/notify"
	"chainscope/internal/registry"
	"chainscope/internal/store"
)

// State is the persisted controller state. Selected is non-empty exactly
// when Active is true.
type State struct {
	Active   bool   `json:"active"`
	Selected string `json:"selectedExchange,omitempty"`
}

// Hooks are the optional refresh callbacks fired after a transition. Nil
// members are configuration, not errors.
type Hooks struct {
	ReloadTable      func()
	RenderFilterCard func()
	RenderSignalCard func()
}

// ThemeApplier is the boundary to the theme subsystem.
type ThemeApplier interface {
	Apply(mode.Mode)
	Reset()
}

// Deps is the controller's explicit capability set. Optional collaborators
// (Theme, Hooks, Notify) may be absent; navigation, storage and the
// resolver are required.
type Deps struct {
	Nav       nav.Provider
	Store     *store.KV
	Resolver  *mode.Resolver
	Exchanges registry.Exchanges
	Theme     ThemeApplier
	Hooks     Hooks
	Notify    *notify.Channel
	Log       *zap.Logger
}

// Controller is a two-state machine: Inactive and Active(exchange). All
// transitions run synchronously on the caller's goroutine; the engine is
// single-threaded by contract.
type Controller struct {
	deps  Deps
	state State

	ready     chan struct{}
	readyOnce sync.Once
	cancelSub func()
}

// New constructs a Controller. Call Start before relying on its state:
// construction alone performs no reconciliation.
func New(deps Deps) *Controller {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &Controller{deps: deps, ready: make(chan struct{})}
}

// Ready is closed once startup reconciliation has completed. Dependent
// consumers subscribe or render only after it; no timed delays.
func (c *Controller) Ready() <-chan struct{} { return c.ready }

// Start restores persisted state, reconciles it against the current
// navigation (the URL is authoritative), subscribes for out-of-band
// changes and signals readiness.
func (c *Controller) Start() {
	var persisted State
	c.deps.Store.GetJSON(mode.KeyCexState, &persisted)
	if persisted.Active && persisted.Selected == "" {
		// Broken invariant in storage; treat as inactive.
		persisted = State{}
	}
	c.state = persisted

	params := c.deps.Nav.Read()
	urlCex := strings.ToUpper(strings.TrimSpace(params.Get(nav.ParamCex)))
	switch {
	case urlCex != "":
		c.applyEnable(urlCex, true, false)
	case c.state.Active:
		// Persisted says active but the URL carries no selector: the URL
		// wins, and the correction is persisted.
		c.applyDisable(true, false)
	default:
		c.applyTheme(c.deps.Resolver.Resolve())
	}

	c.cancelSub = c.deps.Nav.Subscribe(c.onNav)
	c.readyOnce.Do(func() { close(c.ready) })
}

// Stop cancels the navigation subscription.
func (c *Controller) Stop() {
	if c.cancelSub != nil {
		c.cancelSub()
		c.cancelSub = nil
	}
}

// IsActive reports whether an exchange scope is active.
func (c *Controller) IsActive() bool { return c.state.Active }

// Selected returns the active exchange, or ok=false when inactive.
func (c *Controller) Selected() (string, bool) {
	return c.state.Selected, c.state.Active
}

// Enable activates the exchange scope. Re-enabling the selected exchange is
// a state-level no-op that still re-applies side effects. withRefresh
// controls whether the dependent refresh hooks fire.
func (c *Controller) Enable(exchange string, withRefresh bool) {
	c.applyEnable(strings.ToUpper(strings.TrimSpace(exchange)), withRefresh, true)
}

// Disable deactivates the exchange scope and re-applies whatever theme the
// navigation now implies (chain or aggregate).
func (c *Controller) Disable(withRefresh bool) {
	if !c.state.Active {
		return
	}
	c.applyDisable(withRefresh, true)
}

// Toggle disables when the given exchange is already active, enables it
// otherwise.
func (c *Controller) Toggle(exchange string) {
	ex := strings.ToUpper(strings.TrimSpace(exchange))
	if c.state.Active && c.state.Selected == ex {
		c.Disable(true)
		return
	}
	c.Enable(ex, true)
}

// onNav is the reverse synchronization path: URL -> state. Any observed
// navigation invalidates the resolver cache, then the controller reconciles
// its state with the selector actually present, without writing history
// (the URL is already correct).
func (c *Controller) onNav(ev nav.Event) {
	c.deps.Resolver.Invalidate()
	urlCex := strings.ToUpper(strings.TrimSpace(ev.Params.Get(nav.ParamCex)))
	switch {
	case urlCex != "" && (!c.state.Active || c.state.Selected != urlCex):
		c.deps.Log.Debug("cex enable from navigation", zap.String("exchange", urlCex), zap.Stringer("source", ev.Source))
		c.applyEnable(urlCex, true, false)
	case urlCex == "" && c.state.Active:
		c.deps.Log.Debug("cex disable from navigation", zap.Stringer("source", ev.Source))
		c.applyDisable(true, false)
	}
}

func (c *Controller) applyEnable(exchange string, withRefresh, writeHistory bool) {
	if exchange == "" {
		return
	}
	if c.deps.Exchanges != nil && !c.deps.Exchanges.Has(exchange) {
		msg := "unknown exchange " + exchange
		if near := c.deps.Exchanges.Nearest(exchange); near != "" {
			msg += ", did you mean " + near + "?"
		}
		c.deps.Notify.Post(notify.LevelWarn, msg)
		// Proceed anyway: validity is a display concern, the scope still
		// activates and resolves.
	}

	c.state = State{Active: true, Selected: exchange}
	c.deps.Store.SetJSON(mode.KeyCexState, c.state)

	if writeHistory {
		params := c.deps.Nav.Read()
		delete(params, nav.ParamChain) // scopes are mutually exclusive
		params[nav.ParamCex] = exchange
		c.deps.Nav.Push(params)
	}

	c.deps.Resolver.Invalidate()
	c.applyTheme(mode.Cex(exchange))
	if withRefresh {
		c.fireHooks()
	}
}

func (c *Controller) applyDisable(withRefresh, writeHistory bool) {
	c.state = State{}
	c.deps.Store.SetJSON(mode.KeyCexState, c.state)

	if writeHistory {
		params := c.deps.Nav.Read()
		delete(params, nav.ParamCex)
		c.deps.Nav.Push(params)
	}

	c.deps.Resolver.Invalidate()
	if c.deps.Theme != nil {
		c.deps.Theme.Reset()
	}
	// Re-apply for whatever scope the navigation now implies.
	c.applyTheme(c.deps.Resolver.Resolve())
	if withRefresh {
		c.fireHooks()
	}
}

func (c *Controller) applyTheme(md mode.Mode) {
	if c.deps.Theme == nil {
		return
	}
	c.deps.Theme.Apply(md)
}

// fireHooks invokes each registered refresh hook. A failing hook is logged
// and never blocks the transition or the remaining hooks.
func (c *Controller) fireHooks() {
	c.fireHook("reload_table", c.deps.Hooks.ReloadTable)
	c.fireHook("render_filter_card", c.deps.Hooks.RenderFilterCard)
	c.fireHook("render_signal_card", c.deps.Hooks.RenderSignalCard)
}

func (c *Controller) fireHook(name string, fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.deps.Log.Warn("refresh hook failed", zap.String("hook", name), zap.Any("panic", r))
		}
	}()
	fn()
}
