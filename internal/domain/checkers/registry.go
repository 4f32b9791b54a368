package checkers

import (
	"sync"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

// Location is where a registry key was first seen.
type Location struct {
	Path m.Path
	Line int
}

// firstSeen remembers the first location of every key. Keys are registered
// during the sequential index pass and looked up from parallel checks.
type firstSeen struct {
	mu    sync.RWMutex
	first map[string]Location
}

func newFirstSeen() *firstSeen {
	return &firstSeen{first: make(map[string]Location)}
}

// register records loc for key unless key is already known.
func (r *firstSeen) register(key string, loc Location) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.first[key]; !ok {
		r.first[key] = loc
	}
}

func (r *firstSeen) lookup(key string) (Location, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, ok := r.first[key]

	return loc, ok
}

func (r *firstSeen) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.first)
}

// LocatorRegistry maps locator strings to the first page object defining
// them, for one analysis run.
type LocatorRegistry struct {
	seen *firstSeen
}

// NewLocatorRegistry creates an empty registry.
func NewLocatorRegistry() *LocatorRegistry {
	return &LocatorRegistry{seen: newFirstSeen()}
}

// Register records path as the owner of locator if it has none yet.
func (r *LocatorRegistry) Register(locator string, path m.Path, line int) {
	r.seen.register(locator, Location{Path: path, Line: line})
}

// Owner returns the first file that registered locator.
func (r *LocatorRegistry) Owner(locator string) (Location, bool) {
	return r.seen.lookup(locator)
}

// StepRegistry maps BDD step patterns to their first definition, for one
// analysis run.
type StepRegistry struct {
	seen *firstSeen
}

// NewStepRegistry creates an empty registry.
func NewStepRegistry() *StepRegistry {
	return &StepRegistry{seen: newFirstSeen()}
}

// Register records the definition of pattern at path:line if it is the
// first one.
func (r *StepRegistry) Register(pattern string, path m.Path, line int) {
	r.seen.register(pattern, Location{Path: path, Line: line})
}

// Definition returns the first definition of pattern.
func (r *StepRegistry) Definition(pattern string) (Location, bool) {
	return r.seen.lookup(pattern)
}
