package handlers

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"checkmkmcp/pkg/logging"
)

// Match is the outcome of handler selection for one (service, ruleset) pair.
type Match struct {
	Handler Handler
	// RulesetMatched records whether the ruleset pattern matched, as opposed
	// to a service-name-only match. Used as the selection tiebreaker.
	RulesetMatched bool
}

type registration struct {
	handler     Handler
	servicePats []*regexp.Regexp
	rulesetPats []*regexp.Regexp
}

// Registry holds the registered handlers and resolves services to their best
// match. Resolution results are cached after first lookup; the registry is
// safe for concurrent use.
type Registry struct {
	mu            sync.RWMutex
	registrations []registration
	cache         map[string]*Match
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{cache: make(map[string]*Match)}
}

// NewDefaultRegistry constructs a Registry with the four built-in handlers
// registered: temperature, database, network, and custom checks.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, h := range []Handler{
		NewTemperatureHandler(),
		NewDatabaseHandler(),
		NewNetworkHandler(),
		NewCustomCheckHandler(),
	} {
		if err := r.Register(h); err != nil {
			// Built-in patterns are compile-time constants; a failure here
			// is a programming error, not a runtime condition.
			panic(err)
		}
	}
	return r
}

// Register adds a handler, compiling its patterns. Registering a handler
// with an already-taken name is an error.
func (r *Registry) Register(h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, reg := range r.registrations {
		if reg.handler.Name() == h.Name() {
			return fmt.Errorf("handlers: %q already registered", h.Name())
		}
	}

	reg := registration{handler: h}
	for _, p := range h.ServicePatterns() {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("handlers: %q service pattern %q: %w", h.Name(), p, err)
		}
		reg.servicePats = append(reg.servicePats, re)
	}
	for _, p := range h.RulesetPatterns() {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("handlers: %q ruleset pattern %q: %w", h.Name(), p, err)
		}
		reg.rulesetPats = append(reg.rulesetPats, re)
	}

	r.registrations = append(r.registrations, reg)
	r.cache = make(map[string]*Match) // drop stale resolutions
	return nil
}

// Select returns the best handler for a service and optional ruleset, or nil
// when no handler matches. Among all matching handlers the highest priority
// wins; at equal priority a ruleset-pattern match beats a service-name-only
// match.
func (r *Registry) Select(service, ruleset string) *Match {
	key := service + "\x00" + ruleset

	r.mu.RLock()
	if m, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return m
	}
	r.mu.RUnlock()

	m := r.resolve(service, ruleset)

	r.mu.Lock()
	r.cache[key] = m
	r.mu.Unlock()

	if m != nil {
		logging.Debug("HandlerRegistry", "resolved service %q (ruleset %q) to handler %q", service, ruleset, m.Handler.Name())
	}
	return m
}

func (r *Registry) resolve(service, ruleset string) *Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var candidates []*Match
	for _, reg := range r.registrations {
		rulesetMatched := false
		if ruleset != "" {
			for _, re := range reg.rulesetPats {
				if re.MatchString(ruleset) {
					rulesetMatched = true
					break
				}
			}
		}
		serviceMatched := false
		if !rulesetMatched {
			for _, re := range reg.servicePats {
				if re.MatchString(service) {
					serviceMatched = true
					break
				}
			}
		}
		if rulesetMatched || serviceMatched {
			candidates = append(candidates, &Match{Handler: reg.handler, RulesetMatched: rulesetMatched})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := candidates[i].Handler.Priority(), candidates[j].Handler.Priority()
		if pi != pj {
			return pi > pj
		}
		return candidates[i].RulesetMatched && !candidates[j].RulesetMatched
	})
	return candidates[0]
}

// ByName returns the registered handler with the given name, or nil.
func (r *Registry) ByName(name string) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, reg := range r.registrations {
		if reg.handler.Name() == name {
			return reg.handler
		}
	}
	return nil
}

// List returns every registered handler, ordered by descending priority.
func (r *Registry) List() []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Handler, 0, len(r.registrations))
	for _, reg := range r.registrations {
		out = append(out, reg.handler)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority() > out[j].Priority() })
	return out
}
