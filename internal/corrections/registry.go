// Package corrections is the pluggable per-vendor post-extraction
// fixup registry. Rules are pure Entry -> Entry functions keyed by
// vendor_id and run before hashing and dedup.
package corrections

import (
	"sync"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/extract"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/posco"
)

// Registry maps vendor ids to correction rules.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]extract.CorrectionFunc
}

func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]extract.CorrectionFunc)}
}

// DefaultRegistry carries every built-in vendor rule.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(posco.VendorID, posco.Corrections)
	return r
}

// Register installs (or replaces) the rule for a vendor.
func (r *Registry) Register(vendorID string, fn extract.CorrectionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[vendorID] = fn
}

// Apply runs the vendor's rule over the entry; vendors without a rule
// get the entry back unchanged.
func (r *Registry) Apply(vendorID string, e extract.Entry) extract.Entry {
	r.mu.RLock()
	fn := r.rules[vendorID]
	r.mu.RUnlock()
	if fn == nil {
		return e
	}
	return fn(e)
}
