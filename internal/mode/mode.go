// Package mode derives the canonical view mode from navigational state and
// maps it to the storage keys the rest of the engine partitions by.
package mode

import (
	"strings"

	"chainscope/internal/nav"
	"chainscope/internal/registry"
)

// Kind discriminates the Mode variant.
type Kind int

const (
	// KindMulti is the aggregate view: no chain or exchange selected.
	KindMulti Kind = iota
	// KindSingle is a single validated chain.
	KindSingle
	// KindCex is an exchange-scoped view layered over chain data.
	KindCex
)

func (k Kind) String() string {
	switch k {
	case KindMulti:
		return "multi"
	case KindSingle:
		return "single"
	case KindCex:
		return "cex"
	}
	return "unknown"
}

// Mode is the tagged variant describing the active view scope. Exactly one
// variant is active: Chain is set only for KindSingle, Exchange only for
// KindCex.
type Mode struct {
	kind     Kind
	chain    string
	exchange string
}

// Multi returns the aggregate mode.
func Multi() Mode { return Mode{kind: KindMulti} }

// Single returns the mode for one chain. The chain key is stored lower-case.
func Single(chain string) Mode {
	return Mode{kind: KindSingle, chain: strings.ToLower(chain)}
}

// Cex returns the exchange-scoped mode. The exchange key is stored upper-case.
func Cex(exchange string) Mode {
	return Mode{kind: KindCex, exchange: strings.ToUpper(exchange)}
}

// Kind returns the variant discriminator.
func (m Mode) Kind() Kind { return m.kind }

// Chain returns the chain key for KindSingle, "" otherwise.
func (m Mode) Chain() string { return m.chain }

// Exchange returns the exchange key for KindCex, "" otherwise.
func (m Mode) Exchange() string { return m.exchange }

// sentinel chain value meaning "no chain selected".
const chainAll = "all"

// Cache memoizes one resolved Mode. It is an explicitly owned value passed
// to the Resolver, so tests construct independent instances per scenario.
// Invalidation always clears to unresolved; there is no partial update.
type Cache struct {
	value Mode
	valid bool
}

// Invalidate clears the cache unconditionally. Any component that mutates
// the query, or observes it mutated out-of-band, must call this before the
// next resolution.
func (c *Cache) Invalidate() {
	c.value = Mode{}
	c.valid = false
}

// Valid reports whether a resolution is memoized.
func (c *Cache) Valid() bool { return c.valid }

// Resolver derives Mode from the navigation provider and memoizes the
// result in Cache until invalidated.
type Resolver struct {
	Nav    nav.Provider
	Chains registry.Chains
	Cache  *Cache
}

// NewResolver constructs a Resolver with a fresh cache.
func NewResolver(p nav.Provider, chains registry.Chains) *Resolver {
	return &Resolver{Nav: p, Chains: chains, Cache: &Cache{}}
}

// Resolve returns the current Mode. The first call in a given navigational
// state parses the query; later calls return the memoized value until
// Invalidate. The exchange selector wins over the chain selector; an
// unknown chain key degrades to Multi, never an error. Exchange validity is
// deliberately not checked here: that is the consumer's concern.
func (r *Resolver) Resolve() Mode {
	if r.Cache.valid {
		return r.Cache.value
	}
	params := r.Nav.Read()

	m := Multi()
	if cex := strings.TrimSpace(params.Get(nav.ParamCex)); cex != "" {
		m = Cex(cex)
	} else if chain := strings.TrimSpace(params.Get(nav.ParamChain)); chain != "" && !strings.EqualFold(chain, chainAll) {
		if r.Chains.Has(chain) {
			m = Single(chain)
		}
	}

	r.Cache.value = m
	r.Cache.valid = true
	return m
}

// Invalidate clears the resolver's cache.
func (r *Resolver) Invalidate() { r.Cache.Invalidate() }
