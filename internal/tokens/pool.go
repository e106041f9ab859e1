// Package tokens maintains the per-chain token pools and the aggregate
// pool merged across them. Exchange-scoped views are a client-side filter
// over the aggregate pool, never a separately ingested dataset.
package tokens

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"chainscope/internal/filters"
	"chainscope/internal/mode"
	"chainscope/internal/registry"
	"chainscope/internal/store"
)

// Token is one tracked token record.
type Token struct {
	Symbol    string   `json:"symbol"`
	Chain     string   `json:"chain"`
	Dex       string   `json:"dex"`
	Pair      string   `json:"pair"`
	Exchanges []string `json:"exchanges,omitempty"` // CEXes listing this token
	PriceUSD  float64  `json:"priceUsd"`
	Pnl       float64  `json:"pnl"`
}

// ListedOn reports whether the token is listed on the given exchange.
func (t Token) ListedOn(exchange string) bool {
	exchange = strings.ToUpper(exchange)
	for _, e := range t.Exchanges {
		if strings.ToUpper(e) == exchange {
			return true
		}
	}
	return false
}

// Pool reads and writes token pools in the kv store.
type Pool struct {
	KV      *store.KV
	Chains  registry.Chains
	Filters *filters.Store
	Log     *zap.Logger
}

// NewPool constructs a Pool.
func NewPool(kv *store.KV, chains registry.Chains, fs *filters.Store, log *zap.Logger) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{KV: kv, Chains: chains, Filters: fs, Log: log}
}

// ChainTokens returns the pool for one chain, or nil when none is stored.
func (p *Pool) ChainTokens(chain string) []Token {
	var out []Token
	p.KV.GetJSON(mode.ChainTokenKey(chain), &out)
	return out
}

// SetChainTokens replaces one chain's pool and rebuilds the aggregate pool
// so both keys stay consistent within the same turn.
func (p *Pool) SetChainTokens(chain string, toks []Token) {
	p.KV.SetJSON(mode.ChainTokenKey(chain), toks)
	p.rebuildAggregate()
}

// Aggregate returns the merged all-chains pool.
func (p *Pool) Aggregate() []Token {
	var out []Token
	if p.KV.GetJSON(mode.KeyAggregateTokens, &out) {
		return out
	}
	return p.rebuildAggregate()
}

func (p *Pool) rebuildAggregate() []Token {
	var merged []Token
	for _, chain := range p.Chains.Keys() {
		merged = append(merged, p.ChainTokens(chain)...)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Chain != merged[j].Chain {
			return merged[i].Chain < merged[j].Chain
		}
		return merged[i].Symbol < merged[j].Symbol
	})
	p.KV.SetJSON(mode.KeyAggregateTokens, merged)
	return merged
}

// ForMode returns the visible token set for the given mode with the active
// filter record applied. Single reads its chain pool, Multi the aggregate,
// Cex the aggregate restricted to tokens listed on the exchange.
func (p *Pool) ForMode(md mode.Mode) []Token {
	switch md.Kind() {
	case mode.KindSingle:
		f := p.Filters.Chain(md.Chain())
		return filterTokens(p.ChainTokens(md.Chain()), nil, f.Exchanges, f.Dexes, f.Pairs, f.PnlThreshold, "")
	case mode.KindCex:
		f := p.Filters.Exchange(md.Exchange())
		pool := make([]Token, 0)
		for _, tok := range p.Aggregate() {
			if tok.ListedOn(md.Exchange()) {
				pool = append(pool, tok)
			}
		}
		return filterTokens(pool, f.Chains, nil, f.Dexes, f.Pairs, f.PnlThreshold, f.Sort)
	default:
		f := p.Filters.Aggregate()
		return filterTokens(p.Aggregate(), f.Chains, f.Exchanges, f.Dexes, f.Pairs, f.PnlThreshold, "")
	}
}

// filterTokens applies selection filters. Empty selections do not restrict,
// matching the filter store's documented defaults.
func filterTokens(pool []Token, chains, exchanges, dexes, pairs []string, threshold float64, sortOrder string) []Token {
	chainSet := toSet(chains, strings.ToLower)
	exSet := toSet(exchanges, strings.ToUpper)
	dexSet := toSet(dexes, strings.ToLower)
	pairSet := toSet(pairs, strings.ToUpper)

	out := make([]Token, 0, len(pool))
	for _, tok := range pool {
		if chainSet != nil && !chainSet[strings.ToLower(tok.Chain)] {
			continue
		}
		if dexSet != nil && !dexSet[strings.ToLower(tok.Dex)] {
			continue
		}
		if pairSet != nil && !pairSet[strings.ToUpper(tok.Pair)] {
			continue
		}
		if exSet != nil && !listedOnAny(tok, exSet) {
			continue
		}
		// A zero threshold is the unset default: no restriction.
		if threshold != 0 && tok.Pnl < threshold {
			continue
		}
		out = append(out, tok)
	}
	sortPool(out, sortOrder)
	return out
}

func listedOnAny(tok Token, exSet map[string]bool) bool {
	for _, e := range tok.Exchanges {
		if exSet[strings.ToUpper(e)] {
			return true
		}
	}
	return false
}

func sortPool(pool []Token, order string) {
	switch order {
	case filters.SortPnl:
		sort.SliceStable(pool, func(i, j int) bool { return pool[i].Pnl > pool[j].Pnl })
	case filters.SortPrice:
		sort.SliceStable(pool, func(i, j int) bool { return pool[i].PriceUSD > pool[j].PriceUSD })
	case filters.SortSymbol:
		sort.SliceStable(pool, func(i, j int) bool { return pool[i].Symbol < pool[j].Symbol })
	}
}

func toSet(in []string, fold func(string) string) map[string]bool {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]bool, len(in))
	for _, v := range in {
		out[fold(v)] = true
	}
	return out
}
