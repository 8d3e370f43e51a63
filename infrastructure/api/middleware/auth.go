package middleware

import (
	"net/http"
)

const apiKeyHeader = "X-API-KEY"

// AuthConfig holds API key authentication configuration.
type AuthConfig struct {
	apiKeys map[string]struct{}
	enabled bool
}

// NewAuthConfigWithKeys creates an AuthConfig from a list of API keys.
// Empty keys are ignored; with no usable keys authentication is disabled.
func NewAuthConfigWithKeys(apiKeys []string) AuthConfig {
	keys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys[k] = struct{}{}
		}
	}
	if len(keys) == 0 {
		return AuthConfig{enabled: false}
	}
	return AuthConfig{apiKeys: keys, enabled: true}
}

// Enabled returns true if authentication is enabled.
func (c AuthConfig) Enabled() bool { return c.enabled }

// WriteProtect returns a middleware that requires a valid X-API-KEY header
// on mutating requests. Submitting, cancelling, and deleting operations
// are write-protected; reading counts, operations, and history is always
// open. With authentication disabled, all requests pass.
func WriteProtect(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.enabled || isReadMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(apiKeyHeader)
			if key == "" {
				WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"error": apiKeyHeader + " header is required",
				})
				return
			}
			if _, ok := config.apiKeys[key]; !ok {
				WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"error": "invalid API key",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isReadMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// WriteProtectAuth is a convenience wrapper that builds the auth config from
// a slice of API keys.
func WriteProtectAuth(apiKeys []string) func(http.Handler) http.Handler {
	return WriteProtect(NewAuthConfigWithKeys(apiKeys))
}
