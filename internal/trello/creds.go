package trello

import "os"

// Environment variable names for the required configuration surface.
const (
	// EnvAPIKey holds the Trello API key.
	EnvAPIKey = "TRELLO_API_KEY"

	// EnvAPIToken holds the Trello API token.
	EnvAPIToken = "TRELLO_API_TOKEN"

	// EnvBasePath holds the directory that file-attachment tools read
	// uploads from. Only those tools require it.
	EnvBasePath = "BASE_PATH"
)

// Query/body parameter names the credentials are merged under.
const (
	authParamKey   = "key"
	authParamToken = "token"
)

// CredentialProvider resolves a named secret. Implementations must return
// a *ConfigError when the value is missing or empty.
//
// Credentials are resolved on every request rather than cached, so rotated
// values take effect immediately.
type CredentialProvider interface {
	Resolve(name string) (string, error)
}

// EnvProvider resolves secrets from the process environment.
type EnvProvider struct{}

// Resolve returns the value of the named environment variable, or a
// *ConfigError if it is unset or empty.
func (EnvProvider) Resolve(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", &ConfigError{Name: name}
	}
	return value, nil
}

// StaticProvider resolves secrets from a fixed map. Intended for tests.
type StaticProvider map[string]string

// Resolve returns the mapped value, or a *ConfigError if absent or empty.
func (p StaticProvider) Resolve(name string) (string, error) {
	value := p[name]
	if value == "" {
		return "", &ConfigError{Name: name}
	}
	return value, nil
}

// resolveAuth loads the API key and token pair from the provider.
func resolveAuth(p CredentialProvider) (key, token string, err error) {
	key, err = p.Resolve(EnvAPIKey)
	if err != nil {
		return "", "", err
	}
	token, err = p.Resolve(EnvAPIToken)
	if err != nil {
		return "", "", err
	}
	return key, token, nil
}
