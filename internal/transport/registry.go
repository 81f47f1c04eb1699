package transport

import (
	"fmt"
	"sort"
	"sync"
)

// TransportLayer couples a stable protocol profile URI with the
// constructor for channels speaking that protocol. The engine selects
// a transport by URI and never sees the implementation type.
type TransportLayer struct {
	// ProfileURI identifies the protocol, e.g.
	// "http://opcfoundation.org/UA-Profile/Transport/pubsub-mqtt".
	ProfileURI string

	// CreateChannel builds and connects one channel. On failure it
	// returns a nil Channel and leaves nothing for the caller to
	// clean up.
	CreateChannel func(cfg *ChannelConfig) (Channel, error)
}

// Registry maps profile URIs to transport layers.
//
// A Registry is safe for concurrent use. It is a plain value owned by
// the caller rather than package-level state, so tests and embedders
// can hold independent registries.
type Registry struct {
	mu     sync.RWMutex
	layers map[string]TransportLayer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		layers: make(map[string]TransportLayer),
	}
}

// Register adds a transport layer. Registering an empty profile URI, a
// nil constructor, or a URI that is already present is an error.
func (r *Registry) Register(layer TransportLayer) error {
	if layer.ProfileURI == "" {
		return fmt.Errorf("transport: layer has empty profile URI")
	}
	if layer.CreateChannel == nil {
		return fmt.Errorf("transport: layer %s has no constructor", layer.ProfileURI)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.layers[layer.ProfileURI]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProfile, layer.ProfileURI)
	}
	r.layers[layer.ProfileURI] = layer
	return nil
}

// Create builds a channel using the transport registered for
// profileURI.
func (r *Registry) Create(profileURI string, cfg *ChannelConfig) (Channel, error) {
	r.mu.RLock()
	layer, exists := r.layers[profileURI]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, profileURI)
	}
	return layer.CreateChannel(cfg)
}

// Profiles returns the registered profile URIs in sorted order.
func (r *Registry) Profiles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uris := make([]string, 0, len(r.layers))
	for uri := range r.layers {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}
