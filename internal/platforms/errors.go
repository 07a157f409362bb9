package platforms

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when a data method is called before
// Authenticate has succeeded.
var ErrNotAuthenticated = errors.New("platform client not authenticated")

// ConfigurationError means no client factory is registered for a store's
// platform identifier.
type ConfigurationError struct {
	Platform string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no platform client registered for %q", e.Platform)
}

// AuthenticationError means the channel rejected the store's credentials or
// the authentication probe could not complete.
type AuthenticationError struct {
	Platform string
	Err      error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s: authentication failed: %v", e.Platform, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// FetchError means catalogue retrieval failed; the cycle that hit it must
// not diff against a partial catalogue.
type FetchError struct {
	Platform string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: fetching products: %v", e.Platform, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// UpdateError means a single price push failed. Detail carries the
// channel's reported cause normalized to one string.
type UpdateError struct {
	Platform  string
	ProductID string
	Detail    string
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("%s: updating product %s: %s", e.Platform, e.ProductID, e.Detail)
}
