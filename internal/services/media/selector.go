package media

import (
	mediaTypes "github.com/princekumarofficial/autohouse-service/internal/types/media"
)

// FallbackOrder is the priority used when the preferred storage type has no
// usable backend.
var FallbackOrder = []mediaTypes.StorageType{
	mediaTypes.StorageRemoteBucket,
	mediaTypes.StorageLocalFolder,
	mediaTypes.StorageLocalDatabase,
}

// Registry holds the backends known to the process. It is read-only after
// construction and safe for concurrent use.
type Registry struct {
	backends []Backend
}

func NewRegistry(backends ...Backend) *Registry {
	bs := make([]Backend, 0, len(backends))
	for _, b := range backends {
		if b != nil {
			bs = append(bs, b)
		}
	}
	return &Registry{backends: bs}
}

// Find returns a configured backend of exactly type t.
func (r *Registry) Find(t mediaTypes.StorageType) (Backend, bool) {
	for _, b := range r.backends {
		if b.Type() == t && b.IsConfigured() {
			return b, true
		}
	}
	return nil, false
}

// Get is Find without a fallback. It is used for reading and removing files,
// which must go to the backend that stored them.
func (r *Registry) Get(t mediaTypes.StorageType) (Backend, error) {
	if b, ok := r.Find(t); ok {
		return b, nil
	}
	return nil, &StorageNotConfiguredError{Type: t}
}

// GetOrFallback returns the preferred backend, or else the first configured
// backend in FallbackOrder. The error names the preferred type.
func (r *Registry) GetOrFallback(preferred mediaTypes.StorageType) (Backend, error) {
	if b, ok := r.Find(preferred); ok {
		return b, nil
	}
	for _, t := range FallbackOrder {
		if b, ok := r.Find(t); ok {
			return b, nil
		}
	}
	return nil, &StorageNotConfiguredError{Type: preferred}
}

// Configured lists the storage types that currently have a usable backend.
func (r *Registry) Configured() []mediaTypes.StorageType {
	var out []mediaTypes.StorageType
	for _, b := range r.backends {
		if b.IsConfigured() {
			out = append(out, b.Type())
		}
	}
	return out
}
