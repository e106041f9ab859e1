package mode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chainscope/internal/nav"
	"chainscope/internal/registry"
)

func newResolver(params nav.Params) (*Resolver, *nav.History) {
	h := nav.NewHistory(params, nil)
	return NewResolver(h, registry.DefaultChains()), h
}

func TestResolveChainParam(t *testing.T) {
	t.Parallel()

	r, _ := newResolver(nav.Params{nav.ParamChain: "bsc"})
	m := r.Resolve()
	require.Equal(t, KindSingle, m.Kind())
	require.Equal(t, "bsc", m.Chain())
}

func TestResolveCexWinsOverChain(t *testing.T) {
	t.Parallel()

	r, _ := newResolver(nav.Params{nav.ParamCex: "gate", nav.ParamChain: "ethereum"})
	m := r.Resolve()
	require.Equal(t, KindCex, m.Kind())
	require.Equal(t, "GATE", m.Exchange())
	require.Equal(t, "", m.Chain())
}

func TestResolveFallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params nav.Params
		want   Kind
	}{
		{"empty query", nav.Params{}, KindMulti},
		{"explicit all", nav.Params{nav.ParamChain: "all"}, KindMulti},
		{"all uppercase", nav.Params{nav.ParamChain: "ALL"}, KindMulti},
		{"unknown chain", nav.Params{nav.ParamChain: "nosuchchain"}, KindMulti},
		{"whitespace chain", nav.Params{nav.ParamChain: "   "}, KindMulti},
		{"known chain", nav.Params{nav.ParamChain: "polygon"}, KindSingle},
		{"unvalidated exchange still wins", nav.Params{nav.ParamCex: "NOTREAL"}, KindCex},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r, _ := newResolver(tc.params)
			require.Equal(t, tc.want, r.Resolve().Kind())
		})
	}
}

func TestResolveIsMemoizedUntilInvalidate(t *testing.T) {
	t.Parallel()

	r, h := newResolver(nav.Params{nav.ParamChain: "bsc"})
	first := r.Resolve()
	require.Equal(t, KindSingle, first.Kind())

	// Mutate the query underneath the resolver without invalidating: the
	// stale cached value must keep winning.
	h.Replace(nav.Params{nav.ParamCex: "BINANCE"})
	require.Equal(t, first, r.Resolve())
	require.True(t, r.Cache.Valid())

	r.Invalidate()
	require.False(t, r.Cache.Valid())
	after := r.Resolve()
	require.Equal(t, KindCex, after.Kind())
	require.Equal(t, "BINANCE", after.Exchange())
}

func TestIndependentCachesPerScenario(t *testing.T) {
	t.Parallel()

	r1, _ := newResolver(nav.Params{nav.ParamChain: "bsc"})
	r2, _ := newResolver(nav.Params{nav.ParamCex: "OKX"})
	require.Equal(t, KindSingle, r1.Resolve().Kind())
	require.Equal(t, KindCex, r2.Resolve().Kind())
	r1.Invalidate()
	require.True(t, r2.Cache.Valid(), "caches are per-resolver, not ambient")
}

func TestModeConstructorsNormalizeCase(t *testing.T) {
	t.Parallel()

	require.Equal(t, "bsc", Single("BSC").Chain())
	require.Equal(t, "GATE", Cex("gate").Exchange())
	require.Equal(t, KindMulti, Multi().Kind())
}
