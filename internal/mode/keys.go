package mode

import "strings"

// Storage key contract. These names are persisted-state compatible and must
// not change: other subsystems read and write under them.
const (
	// KeyAggregateTokens holds the merged all-chains token pool. Multi and
	// Cex modes both read it: exchange scope is a client-side view over
	// chain data, not a separately ingested dataset.
	KeyAggregateTokens = "ALL_TOKENS"
	// KeyAggregateFilters holds the aggregate-scope filter record.
	KeyAggregateFilters = "ALL_FILTERS"
	// KeyCexState holds the persisted CEX controller state.
	KeyCexState = "CEX_MODE_STATE"

	chainTokenPrefix  = "TOKENS_"
	chainFilterPrefix = "FILTERS_"
	cexFilterPrefix   = "CEX_FILTERS_"
)

// ChainTokenKey returns the token pool key for one chain.
func ChainTokenKey(chain string) string {
	return chainTokenPrefix + strings.ToUpper(chain)
}

// ChainFilterKey returns the filter record key for one chain.
func ChainFilterKey(chain string) string {
	return chainFilterPrefix + strings.ToUpper(chain)
}

// CexFilterKey returns the filter record key for one exchange.
func CexFilterKey(exchange string) string {
	return cexFilterPrefix + strings.ToUpper(exchange)
}

// TokenKey maps a mode to the token pool it reads from. Pure and total:
// Single reads its chain pool; Multi and Cex both read the aggregate pool.
func TokenKey(m Mode) string {
	if m.Kind() == KindSingle {
		return ChainTokenKey(m.Chain())
	}
	return KeyAggregateTokens
}

// FilterKey maps a mode to its filter record key. Pure and total; the three
// scopes are pairwise distinct.
func FilterKey(m Mode) string {
	switch m.Kind() {
	case KindSingle:
		return ChainFilterKey(m.Chain())
	case KindCex:
		return CexFilterKey(m.Exchange())
	}
	return KeyAggregateFilters
}
