// Package filters owns the per-scope filter records. All mutation goes
// through its merge-on-write setters; consumers never replace a record
// wholesale, so a UI editing one selection cannot clobber another.
package filters

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"chainscope/internal/mode"
	"chainscope/internal/registry"
	"chainscope/internal/store"
)

// Sort orders for exchange scope.
const (
	SortPnl    = "pnl"
	SortSymbol = "symbol"
	SortPrice  = "price"
)

// Aggregate is the filter record for the all-chains view. Empty selections
// mean "no restriction".
type Aggregate struct {
	Chains       []string
	Exchanges    []string
	Dexes        []string
	Pairs        []string
	PnlThreshold float64
}

// ChainScope is the filter record for a single-chain view.
type ChainScope struct {
	Exchanges    []string
	Dexes        []string
	Pairs        []string
	PnlThreshold float64
}

// ExchangeScope is the filter record for an exchange view. Unlike the other
// scopes its default enables every known chain and dex.
type ExchangeScope struct {
	Chains       []string
	Dexes        []string
	Pairs        []string
	Sort         string
	PnlThreshold float64
}

// Update is a partial record: only non-nil fields are applied on write.
type Update struct {
	Chains       *[]string
	Exchanges    *[]string
	Dexes        *[]string
	Pairs        *[]string
	Sort         *string
	PnlThreshold *float64
}

// record is the persisted shape shared by all scopes. Scope accessors
// project the fields that apply to them.
type record struct {
	Chains       []string `json:"chains,omitempty"`
	Exchanges    []string `json:"exchanges,omitempty"`
	Dexes        []string `json:"dexes,omitempty"`
	Pairs        []string `json:"pairs,omitempty"`
	Sort         string   `json:"sort,omitempty"`
	PnlThreshold float64  `json:"pnlThreshold,omitempty"`
}

// Store reads and writes filter records keyed by scope. Persistence
// failures degrade to defaults and are logged by the kv layer; filters are
// reconstructible, so availability wins here.
type Store struct {
	KV       *store.KV
	Resolver *mode.Resolver
	Chains   registry.Chains
	Dexes    []string
	Log      *zap.Logger
}

// New constructs a filter store over kv, resolving the current scope
// through r.
func New(kv *store.KV, r *mode.Resolver, chains registry.Chains, dexes []string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	if dexes == nil {
		dexes = registry.DefaultDexes()
	}
	return &Store{KV: kv, Resolver: r, Chains: chains, Dexes: dexes, Log: log}
}

// Aggregate returns the aggregate-scope record, normalized.
func (s *Store) Aggregate() Aggregate {
	rec := s.read(mode.KeyAggregateFilters)
	return Aggregate{
		Chains:       lowered(rec.Chains),
		Exchanges:    uppered(rec.Exchanges),
		Dexes:        lowered(rec.Dexes),
		Pairs:        uppered(rec.Pairs),
		PnlThreshold: rec.PnlThreshold,
	}
}

// SetAggregate merges u into the aggregate-scope record.
func (s *Store) SetAggregate(u Update) {
	s.merge(mode.KeyAggregateFilters, u, record{})
}

// Chain returns the record for one chain scope, normalized.
func (s *Store) Chain(chain string) ChainScope {
	rec := s.read(mode.ChainFilterKey(chain))
	return ChainScope{
		Exchanges:    uppered(rec.Exchanges),
		Dexes:        lowered(rec.Dexes),
		Pairs:        uppered(rec.Pairs),
		PnlThreshold: rec.PnlThreshold,
	}
}

// SetChain merges u into one chain-scope record.
func (s *Store) SetChain(chain string, u Update) {
	s.merge(mode.ChainFilterKey(chain), u, record{})
}

// Exchange returns the record for one exchange scope. Before the first
// write the default enables all known chains and dexes.
func (s *Store) Exchange(exchange string) ExchangeScope {
	key := mode.CexFilterKey(exchange)
	rec, ok := s.readOK(key)
	if !ok {
		rec = s.exchangeDefault()
	}
	out := ExchangeScope{
		Chains:       lowered(rec.Chains),
		Dexes:        lowered(rec.Dexes),
		Pairs:        uppered(rec.Pairs),
		Sort:         rec.Sort,
		PnlThreshold: rec.PnlThreshold,
	}
	if out.Sort == "" {
		out.Sort = SortPnl
	}
	return out
}

// SetExchange merges u into one exchange-scope record. An unsupplied field
// on the first write keeps its scope default.
func (s *Store) SetExchange(exchange string, u Update) {
	s.merge(mode.CexFilterKey(exchange), u, s.exchangeDefault())
}

// Threshold returns the pnl threshold for whatever scope is currently
// active; the caller does not need to know the mode.
func (s *Store) Threshold() float64 {
	return s.read(mode.FilterKey(s.Resolver.Resolve())).PnlThreshold
}

// SetThreshold writes the pnl threshold under the current scope's key.
func (s *Store) SetThreshold(v float64) {
	key := mode.FilterKey(s.Resolver.Resolve())
	base := record{}
	if s.Resolver.Resolve().Kind() == mode.KindCex {
		base = s.exchangeDefault()
	}
	s.merge(key, Update{PnlThreshold: &v}, base)
}

func (s *Store) exchangeDefault() record {
	return record{
		Chains: append([]string(nil), s.Chains.Keys()...),
		Dexes:  append([]string(nil), s.Dexes...),
		Sort:   SortPnl,
	}
}

func (s *Store) read(key string) record {
	rec, _ := s.readOK(key)
	return rec
}

func (s *Store) readOK(key string) (record, bool) {
	var rec record
	ok := s.KV.GetJSON(key, &rec)
	return rec, ok
}

// merge applies u over the persisted record (or base when nothing is
// persisted yet) and writes the result back. Only fields present in u are
// touched; normalization mirrors the read side so case drift cannot
// desynchronize comparisons.
func (s *Store) merge(key string, u Update, base record) {
	rec, ok := s.readOK(key)
	if !ok {
		rec = base
	}
	if u.Chains != nil {
		rec.Chains = lowered(*u.Chains)
	}
	if u.Exchanges != nil {
		rec.Exchanges = uppered(*u.Exchanges)
	}
	if u.Dexes != nil {
		rec.Dexes = lowered(*u.Dexes)
	}
	if u.Pairs != nil {
		rec.Pairs = uppered(*u.Pairs)
	}
	if u.Sort != nil {
		rec.Sort = strings.ToLower(strings.TrimSpace(*u.Sort))
	}
	if u.PnlThreshold != nil {
		rec.PnlThreshold = *u.PnlThreshold
	}
	s.KV.SetJSON(key, rec)
}

func lowered(in []string) []string { return normalized(in, strings.ToLower) }

func uppered(in []string) []string { return normalized(in, strings.ToUpper) }

// normalized trims, case-folds, dedupes and sorts a selection so stored
// records compare deterministically.
func normalized(in []string, fold func(string) string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = fold(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
