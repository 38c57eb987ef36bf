package llmprovider

import (
	"fmt"
	"sync"
)

// ProviderID represents a unique provider identifier.
type ProviderID string

// Known provider identifiers
const (
	// ProviderOpenAI is the OpenAI Responses-style provider
	ProviderOpenAI ProviderID = "openai"

	// ProviderAnthropic is the Anthropic pass-through provider
	ProviderAnthropic ProviderID = "anthropic"

	// ProviderLorem is the mock lorem ipsum provider for testing
	ProviderLorem ProviderID = "lorem"
)

// String returns the string representation of the provider ID.
func (p ProviderID) String() string {
	return string(p)
}

// IsValid returns true if this is a known provider ID.
func (p ProviderID) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderLorem:
		return true
	}
	return false
}

// ProviderDefinition describes how to create a provider
type ProviderDefinition struct {
	ID          ProviderID               // Unique provider identifier
	Description string                   // Human-readable description
	Factory     func() (Provider, error) // Factory function to create the provider
}

// ProviderRegistry manages runtime registration of providers.
// This allows library users to register their own providers beyond the
// built-in ones and to construct them lazily by ID.
type ProviderRegistry struct {
	providers map[ProviderID]ProviderDefinition
	mu        sync.RWMutex
}

var (
	globalProviderRegistry     *ProviderRegistry
	globalProviderRegistryOnce sync.Once
)

// GetProviderRegistry returns the global provider registry (singleton)
func GetProviderRegistry() *ProviderRegistry {
	globalProviderRegistryOnce.Do(func() {
		globalProviderRegistry = &ProviderRegistry{
			providers: make(map[ProviderID]ProviderDefinition),
		}
	})
	return globalProviderRegistry
}

// Register adds a provider definition to the registry
func (r *ProviderRegistry) Register(def ProviderDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("provider id is required")
	}

	if def.Factory == nil {
		return fmt.Errorf("factory function is required for provider %s", def.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[def.ID]; exists {
		return fmt.Errorf("provider %s is already registered", def.ID)
	}

	r.providers[def.ID] = def
	return nil
}

// Unregister removes a provider definition from the registry
// This is useful for testing or replacing provider implementations
func (r *ProviderRegistry) Unregister(id ProviderID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[id]; !exists {
		return fmt.Errorf("provider %s is not registered", id)
	}

	delete(r.providers, id)
	return nil
}

// Get retrieves a provider definition by ID
func (r *ProviderRegistry) Get(id ProviderID) (ProviderDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.providers[id]
	if !exists {
		return ProviderDefinition{}, fmt.Errorf("unknown provider: %s", id)
	}

	return def, nil
}

// IsRegistered checks if a provider is registered
func (r *ProviderRegistry) IsRegistered(id ProviderID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.providers[id]
	return exists
}

// List returns all registered provider IDs
func (r *ProviderRegistry) List() []ProviderID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]ProviderID, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	return ids
}

// Create creates a provider instance using the registered factory
func (r *ProviderRegistry) Create(id ProviderID) (Provider, error) {
	def, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	return def.Factory()
}

// RegisterProvider is a convenience function that registers a provider with the global registry
func RegisterProvider(def ProviderDefinition) error {
	return GetProviderRegistry().Register(def)
}

// CreateProvider is a convenience function that creates a provider using the global registry
func CreateProvider(id ProviderID) (Provider, error) {
	return GetProviderRegistry().Create(id)
}
