package masks

import (
	"sort"
	"strings"
	"sync"
)

// Built-in mask names.
const (
	NameRUT         = "rut"
	NamePhone       = "phone"
	NameDate        = "date"
	NameTime        = "time"
	NameDateTime    = "datetime"
	NameSanitize    = "sanitize"
	NameSanitizeUGC = "sanitize-ugc"
	NameTrim        = "trim"
	NameUpper       = "upper"
	NameLower       = "lower"
)

// Registry resolves masks by name. Names are case-insensitive and the latest
// registration wins.
type Registry struct {
	mu    sync.RWMutex
	masks map[string]Func
}

// NewRegistry returns a registry with the built-in masks registered.
func NewRegistry() *Registry {
	reg := &Registry{masks: make(map[string]Func)}
	reg.registerBuiltins()
	return reg
}

// Register adds fn under name. Empty names and nil functions are ignored.
func (r *Registry) Register(name string, fn Func) {
	if r == nil || fn == nil {
		return
	}
	key := normalizeName(name)
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.masks == nil {
		r.masks = make(map[string]Func)
	}
	r.masks[key] = fn
}

// Lookup returns the mask registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.masks[normalizeName(name)]
	return fn, ok
}

// Resolve chains the named masks in order. It reports the first unknown name.
func (r *Registry) Resolve(names ...string) (Func, string, bool) {
	fns := make([]Func, 0, len(names))
	for _, name := range names {
		fn, ok := r.Lookup(name)
		if !ok {
			return nil, name, false
		}
		fns = append(fns, fn)
	}
	if len(fns) == 1 {
		return fns[0], "", true
	}
	return Chain(fns...), "", true
}

// Names lists registered masks alphabetically.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.masks))
	for name := range r.masks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *Registry) registerBuiltins() {
	r.Register(NameRUT, RUT)
	r.Register(NamePhone, Phone)
	r.Register(NameDate, Date)
	r.Register(NameTime, Time)
	r.Register(NameDateTime, DateTime)
	r.Register(NameSanitize, Sanitize)
	r.Register(NameSanitizeUGC, SanitizeUGC)
	r.Register(NameTrim, Trim)
	r.Register(NameUpper, Upper)
	r.Register(NameLower, Lower)
}
