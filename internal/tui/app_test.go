package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"chainscope/internal/cex"
	"chainscope/internal/config"
	"chainscope/internal/filters"
	"chainscope/internal/mode"
	"chainscope/internal/nav"
	"chainscope/internal/notify"
	"chainscope/internal/registry"
	"chainscope/internal/store"
	"chainscope/internal/theme"
	"chainscope/internal/tokens"
)

func newTestApp(t *testing.T, params nav.Params) *App {
	t.Helper()
	return newTestAppWithExchanges(t, params, registry.DefaultExchanges())
}

func newTestAppWithExchanges(t *testing.T, params nav.Params, exchanges registry.Exchanges) *App {
	t.Helper()
	kv, err := store.Open(filepath.Join(t.TempDir(), "tui.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	chains := registry.DefaultChains()
	h := nav.NewHistory(params, nil)
	resolver := mode.NewResolver(h, chains)
	fs := filters.New(kv, resolver, chains, registry.DefaultDexes(), nil)
	pool := tokens.NewPool(kv, chains, fs, nil)
	tm := theme.NewManager(chains, exchanges, nil)
	toasts := notify.NewChannel()

	ctrl := cex.New(cex.Deps{
		Nav:       h,
		Store:     kv,
		Resolver:  resolver,
		Exchanges: exchanges,
		Theme:     tm,
		Notify:    toasts,
	})
	ctrl.Start()
	<-ctrl.Ready()

	pool.SetChainTokens("bsc", []tokens.Token{
		{Symbol: "CAKE", Chain: "bsc", Dex: "pancakeswap", Pair: "CAKEUSDT", Exchanges: []string{"BINANCE"}, PriceUSD: 2.1, Pnl: 4},
	})

	return New(Engine{
		Nav:        h,
		Resolver:   resolver,
		Controller: ctrl,
		Filters:    fs,
		Pool:       pool,
		Theme:      tm,
		Chains:     chains,
		Exchanges:  exchanges,
		Toasts:     toasts,
	}, config.Config{UI: config.UIConfig{RefreshSeconds: 15}})
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDigitSelectsChain(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, nav.Params{})
	// Chain keys are sorted; index 2 is "bsc".
	require.Equal(t, "bsc", a.chainKeys[2])

	a.Update(runeKey('3'))
	md := a.engine.Resolver.Resolve()
	require.Equal(t, mode.KindSingle, md.Kind())
	require.Equal(t, "bsc", md.Chain())
}

func TestToggleCexFromKeyboard(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, nav.Params{nav.ParamChain: "bsc"})

	a.Update(runeKey('x'))
	require.True(t, a.engine.Controller.IsActive())
	require.Equal(t, mode.KindCex, a.engine.Resolver.Resolve().Kind())

	a.Update(runeKey('x'))
	require.False(t, a.engine.Controller.IsActive())
}

func TestEscNavigatesBackAndReconciles(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, nav.Params{})
	a.Update(runeKey('x')) // enable first exchange
	require.True(t, a.engine.Controller.IsActive())

	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, a.engine.Controller.IsActive(), "back-navigation reconciled through the controller")
	require.Equal(t, mode.KindMulti, a.engine.Resolver.Resolve().Kind())
}

func TestViewMarksActiveScope(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, nav.Params{nav.ParamChain: "bsc"})
	view := a.View()
	require.Contains(t, view, "● 3:bsc")
	require.Contains(t, view, "CAKE")
	require.NotContains(t, view, "CHAIN", "chain column hidden in single-chain scope")
}

func TestViewShowsSortHintInCexScope(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, nav.Params{nav.ParamCex: "BINANCE"})
	view := a.View()
	require.Contains(t, view, "sort=pnl")
	require.Contains(t, view, "CHAIN", "chain column shown for aggregate-backed scopes")
}

func TestToastsRendered(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, nav.Params{})
	a.engine.Toasts.Post(notify.LevelWarn, "unknown chain bsx, did you mean bsc?")
	require.Contains(t, a.View(), "did you mean bsc?")
}

func TestEmptyExchangeRegistryKeysAreInert(t *testing.T) {
	t.Parallel()

	a := newTestAppWithExchanges(t, nav.Params{}, registry.Exchanges{})

	// Cursor movement and toggle have nothing to act on; none may panic.
	a.Update(runeKey('['))
	a.Update(runeKey(']'))
	a.Update(runeKey('x'))

	require.Equal(t, 0, a.exCursor)
	require.False(t, a.engine.Controller.IsActive())
	require.Equal(t, mode.KindMulti, a.engine.Resolver.Resolve().Kind())
}
