package registry

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Chain describes one supported chain: display metadata consumed by the
// theme manager and the TUI toolbar.
type Chain struct {
	Key   string // canonical lower-case key, e.g. "bsc"
	Name  string
	Color string // hex accent, e.g. "#f0b90b"
	Icon  string
}

// Exchange describes one supported centralized exchange.
type Exchange struct {
	Key   string // canonical upper-case key, e.g. "BINANCE"
	Name  string
	Color string
	Icon  string
}

// Chains is a lookup of chain key -> metadata. Keys are stored lower-case.
type Chains map[string]Chain

// Exchanges is a lookup of exchange key -> metadata. Keys are stored upper-case.
type Exchanges map[string]Exchange

// DefaultChains returns the built-in chain registry. Config may override or
// extend it.
func DefaultChains() Chains {
	return Chains{
		"ethereum": {Key: "ethereum", Name: "Ethereum", Color: "#627eea", Icon: "Ξ"},
		"bsc":      {Key: "bsc", Name: "BNB Chain", Color: "#f0b90b", Icon: "◆"},
		"polygon":  {Key: "polygon", Name: "Polygon", Color: "#8247e5", Icon: "⬡"},
		"arbitrum": {Key: "arbitrum", Name: "Arbitrum", Color: "#28a0f0", Icon: "◉"},
		"base":     {Key: "base", Name: "Base", Color: "#0052ff", Icon: "●"},
		"solana":   {Key: "solana", Name: "Solana", Color: "#9945ff", Icon: "◎"},
	}
}

// DefaultExchanges returns the built-in exchange registry.
func DefaultExchanges() Exchanges {
	return Exchanges{
		"BINANCE": {Key: "BINANCE", Name: "Binance", Color: "#f3ba2f", Icon: "ᗸ"},
		"OKX":     {Key: "OKX", Name: "OKX", Color: "#c8c8c8", Icon: "○"},
		"GATE":    {Key: "GATE", Name: "Gate.io", Color: "#2354e6", Icon: "G"},
		"BYBIT":   {Key: "BYBIT", Name: "Bybit", Color: "#f7a600", Icon: "B"},
		"KUCOIN":  {Key: "KUCOIN", Name: "KuCoin", Color: "#23af91", Icon: "K"},
	}
}

// Override carries chain or exchange metadata supplied by configuration.
// Empty fields leave the built-in value in place.
type Override struct {
	Name  string
	Color string
	Icon  string
}

// WithOverrides merges config-supplied chain entries over the built-ins.
// Keys are normalized to lower-case; unknown keys add new chains, with the
// key doubling as the display name when none is given.
func (c Chains) WithOverrides(overrides map[string]Override) Chains {
	out := make(Chains, len(c)+len(overrides))
	for k, ch := range c {
		out[k] = ch
	}
	for k, ov := range overrides {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		ch, ok := out[key]
		if !ok {
			ch = Chain{Key: key, Name: key}
		}
		out[key] = mergedChain(ch, ov)
	}
	return out
}

// WithOverrides merges config-supplied exchange entries over the built-ins.
// Keys are normalized to upper-case.
func (e Exchanges) WithOverrides(overrides map[string]Override) Exchanges {
	out := make(Exchanges, len(e)+len(overrides))
	for k, ex := range e {
		out[k] = ex
	}
	for k, ov := range overrides {
		key := strings.ToUpper(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		ex, ok := out[key]
		if !ok {
			ex = Exchange{Key: key, Name: key}
		}
		out[key] = mergedExchange(ex, ov)
	}
	return out
}

func mergedChain(ch Chain, ov Override) Chain {
	if ov.Name != "" {
		ch.Name = ov.Name
	}
	if ov.Color != "" {
		ch.Color = ov.Color
	}
	if ov.Icon != "" {
		ch.Icon = ov.Icon
	}
	return ch
}

func mergedExchange(ex Exchange, ov Override) Exchange {
	if ov.Name != "" {
		ex.Name = ov.Name
	}
	if ov.Color != "" {
		ex.Color = ov.Color
	}
	if ov.Icon != "" {
		ex.Icon = ov.Icon
	}
	return ex
}

// DefaultDexes returns the built-in DEX list, lower-case. Filter defaults
// for exchange scope enable all of these.
func DefaultDexes() []string {
	return []string{"uniswap", "pancakeswap", "raydium", "curve", "sushiswap"}
}

// Has reports whether key names a known chain. Lookups are case-insensitive.
func (c Chains) Has(key string) bool {
	_, ok := c[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

// Get returns the chain for key, case-insensitively.
func (c Chains) Get(key string) (Chain, bool) {
	ch, ok := c[strings.ToLower(strings.TrimSpace(key))]
	return ch, ok
}

// Keys returns all chain keys, sorted.
func (c Chains) Keys() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Has reports whether key names a known exchange. Lookups are case-insensitive.
func (e Exchanges) Has(key string) bool {
	_, ok := e[strings.ToUpper(strings.TrimSpace(key))]
	return ok
}

// Get returns the exchange for key, case-insensitively.
func (e Exchanges) Get(key string) (Exchange, bool) {
	ex, ok := e[strings.ToUpper(strings.TrimSpace(key))]
	return ex, ok
}

// Keys returns all exchange keys, sorted.
func (e Exchanges) Keys() []string {
	out := make([]string, 0, len(e))
	for k := range e {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// nearestMaxDistance bounds how far a typo may be from a registry key
// before Nearest gives up. Anything further is noise, not a typo.
const nearestMaxDistance = 3

// Nearest returns the registry key closest to the given unknown key, for
// "did you mean" hints on stale links. Returns "" when nothing is within
// editing distance. Mode derivation never consults this; it is a
// notification-only affordance.
func (c Chains) Nearest(key string) string {
	return nearest(strings.ToLower(strings.TrimSpace(key)), c.Keys())
}

// Nearest returns the exchange key closest to the given unknown key, or "".
func (e Exchanges) Nearest(key string) string {
	return nearest(strings.ToUpper(strings.TrimSpace(key)), e.Keys())
}

func nearest(key string, candidates []string) string {
	if key == "" {
		return ""
	}
	best := ""
	bestDist := nearestMaxDistance + 1
	for _, cand := range candidates {
		d := levenshtein.ComputeDistance(key, cand)
		if d < bestDist {
			best = cand
			bestDist = d
		}
	}
	if bestDist > nearestMaxDistance {
		return ""
	}
	return best
}
