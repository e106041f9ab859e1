package tokens

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"chainscope/internal/filters"
	"chainscope/internal/mode"
	"chainscope/internal/nav"
	"chainscope/internal/registry"
	"chainscope/internal/store"
)

func newTestPool(t *testing.T) (*Pool, *filters.Store) {
	t.Helper()
	kv, err := store.Open(filepath.Join(t.TempDir(), "tokens.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	h := nav.NewHistory(nav.Params{}, nil)
	r := mode.NewResolver(h, registry.DefaultChains())
	fs := filters.New(kv, r, registry.DefaultChains(), registry.DefaultDexes(), nil)
	return NewPool(kv, registry.DefaultChains(), fs, nil), fs
}

func seed(p *Pool) {
	p.SetChainTokens("bsc", []Token{
		{Symbol: "CAKE", Chain: "bsc", Dex: "pancakeswap", Pair: "CAKEUSDT", Exchanges: []string{"BINANCE", "GATE"}, PriceUSD: 2.1, Pnl: 4},
		{Symbol: "XVS", Chain: "bsc", Dex: "pancakeswap", Pair: "XVSUSDT", Exchanges: []string{"GATE"}, PriceUSD: 8.4, Pnl: -2},
	})
	p.SetChainTokens("ethereum", []Token{
		{Symbol: "UNI", Chain: "ethereum", Dex: "uniswap", Pair: "UNIUSDT", Exchanges: []string{"BINANCE", "OKX"}, PriceUSD: 9.9, Pnl: 11},
	})
}

func TestAggregateMergesAllChains(t *testing.T) {
	t.Parallel()

	p, _ := newTestPool(t)
	seed(p)

	agg := p.Aggregate()
	require.Len(t, agg, 3)
	require.Equal(t, "CAKE", agg[0].Symbol, "sorted by chain then symbol")
	require.Equal(t, "UNI", agg[2].Symbol)
}

func TestSetChainTokensRefreshesAggregate(t *testing.T) {
	t.Parallel()

	p, _ := newTestPool(t)
	seed(p)
	require.Len(t, p.Aggregate(), 3)

	p.SetChainTokens("bsc", nil)
	require.Len(t, p.Aggregate(), 1, "aggregate rebuilt in the same turn")
}

func TestForModeSingleChain(t *testing.T) {
	t.Parallel()

	p, _ := newTestPool(t)
	seed(p)

	got := p.ForMode(mode.Single("bsc"))
	require.Len(t, got, 2)
	for _, tok := range got {
		require.Equal(t, "bsc", tok.Chain)
	}
}

func TestForModeCexFiltersByListing(t *testing.T) {
	t.Parallel()

	p, _ := newTestPool(t)
	seed(p)

	got := p.ForMode(mode.Cex("BINANCE"))
	require.Len(t, got, 2)
	for _, tok := range got {
		require.True(t, tok.ListedOn("BINANCE"))
	}
	// Default exchange-scope sort is pnl descending.
	require.Equal(t, "UNI", got[0].Symbol)
	require.Equal(t, "CAKE", got[1].Symbol)
}

func TestForModeAppliesFilterRecord(t *testing.T) {
	t.Parallel()

	p, fs := newTestPool(t)
	seed(p)

	dexes := []string{"uniswap"}
	fs.SetAggregate(filters.Update{Dexes: &dexes})
	got := p.ForMode(mode.Multi())
	require.Len(t, got, 1)
	require.Equal(t, "UNI", got[0].Symbol)
}

func TestForModeAppliesThreshold(t *testing.T) {
	t.Parallel()

	p, fs := newTestPool(t)
	seed(p)

	got := p.ForMode(mode.Single("bsc"))
	require.Len(t, got, 2, "unset threshold admits everything")

	thr := 1.0
	fs.SetChain("bsc", filters.Update{PnlThreshold: &thr})
	got = p.ForMode(mode.Single("bsc"))
	require.Len(t, got, 1)
	require.Equal(t, "CAKE", got[0].Symbol)
}

func TestListedOnIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	tok := Token{Exchanges: []string{"gate"}}
	require.True(t, tok.ListedOn("GATE"))
	require.False(t, tok.ListedOn("OKX"))
}
