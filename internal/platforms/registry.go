package platforms

import (
	"sync"

	"pricesync/internal/models"
)

var (
	regMu    sync.RWMutex
	registry = map[models.PlatformType]Factory{}
)

// Register installs a client factory for a platform identifier. Client
// packages call it from init.
func Register(platform models.PlatformType, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[platform] = f
}

// Get resolves the factory for a platform, or a ConfigurationError when
// none is registered.
func Get(platform models.PlatformType) (Factory, error) {
	regMu.RLock()
	defer regMu.RUnlock()
	f, ok := registry[platform]
	if !ok {
		return nil, &ConfigurationError{Platform: string(platform)}
	}
	return f, nil
}

// Registered lists the installed platform identifiers.
func Registered() []models.PlatformType {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]models.PlatformType, 0, len(registry))
	for p := range registry {
		out = append(out, p)
	}
	return out
}
