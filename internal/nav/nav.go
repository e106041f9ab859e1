// Package nav is the single source of navigational truth for the engine.
// Every component reads and writes query parameters through a Provider;
// nothing touches ambient state, and out-of-band changes (back/forward)
// reach interested components through subscriptions rather than
// interception.
package nav

import "go.uber.org/zap"

// Well-known query parameters.
const (
	ParamChain = "chain"
	ParamCex   = "cex"
)

// Params is one navigational state: a flat set of query parameters.
type Params map[string]string

// Clone returns an independent copy so history entries never alias.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Get returns the value for key, or "" when absent.
func (p Params) Get(key string) string {
	if p == nil {
		return ""
	}
	return p[key]
}

// Source says how a navigation happened.
type Source int

const (
	// SourcePush is a programmatic navigation that added a history entry.
	SourcePush Source = iota
	// SourceReplace is a programmatic navigation that replaced the current entry.
	SourceReplace
	// SourceTraverse is passive traversal of existing history (back/forward).
	SourceTraverse
)

func (s Source) String() string {
	switch s {
	case SourcePush:
		return "push"
	case SourceReplace:
		return "replace"
	case SourceTraverse:
		return "traverse"
	}
	return "unknown"
}

// Event is delivered to subscribers after every navigation, including ones
// the subscriber's own component initiated.
type Event struct {
	Params Params
	Source Source
}

// Provider abstracts the navigational environment. Read is cheap and may be
// called freely; Push and Replace are the only ways to mutate the query.
type Provider interface {
	Read() Params
	Push(Params)
	Replace(Params)
	// Subscribe registers a callback invoked synchronously on every
	// navigation. The returned func cancels the subscription.
	Subscribe(func(Event)) (cancel func())
}

// History is an in-process Provider holding a linear history stack, so
// passive traversal (Back/Forward) is exercisable in tests and bound to
// keys in the TUI.
type History struct {
	entries []Params
	pos     int
	subs    map[int]func(Event)
	nextSub int
	log     *zap.Logger
}

// NewHistory returns a History seeded with the given initial params.
func NewHistory(initial Params, log *zap.Logger) *History {
	if log == nil {
		log = zap.NewNop()
	}
	if initial == nil {
		initial = Params{}
	}
	return &History{
		entries: []Params{initial.Clone()},
		subs:    make(map[int]func(Event)),
		log:     log,
	}
}

// Read returns a copy of the current params.
func (h *History) Read() Params {
	return h.entries[h.pos].Clone()
}

// Push appends a new history entry and notifies subscribers.
func (h *History) Push(p Params) {
	h.entries = append(h.entries[:h.pos+1], p.Clone())
	h.pos = len(h.entries) - 1
	h.log.Debug("nav push", zap.Any("params", p))
	h.notify(Event{Params: p.Clone(), Source: SourcePush})
}

// Replace overwrites the current history entry and notifies subscribers.
func (h *History) Replace(p Params) {
	h.entries[h.pos] = p.Clone()
	h.log.Debug("nav replace", zap.Any("params", p))
	h.notify(Event{Params: p.Clone(), Source: SourceReplace})
}

// Back moves one entry backwards, if possible, and notifies subscribers.
// Returns false at the start of history.
func (h *History) Back() bool {
	if h.pos == 0 {
		return false
	}
	h.pos--
	h.notify(Event{Params: h.Read(), Source: SourceTraverse})
	return true
}

// Forward moves one entry forwards, if possible, and notifies subscribers.
func (h *History) Forward() bool {
	if h.pos >= len(h.entries)-1 {
		return false
	}
	h.pos++
	h.notify(Event{Params: h.Read(), Source: SourceTraverse})
	return true
}

// Len returns the number of history entries.
func (h *History) Len() int { return len(h.entries) }

// Subscribe registers fn for all future navigation events.
func (h *History) Subscribe(fn func(Event)) (cancel func()) {
	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn
	return func() { delete(h.subs, id) }
}

func (h *History) notify(ev Event) {
	for _, fn := range h.subs {
		fn(ev)
	}
}
