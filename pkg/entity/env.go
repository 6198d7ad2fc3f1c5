package entity

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/moonstream-to/entity_sdk_go/internal/httpx"
)

const (
	// EnvAPIURL overrides the Entity API base URL.
	EnvAPIURL = "ENTITY_API_URL"
	// EnvAccessToken holds the bearer token. The core client never reads it
	// itself; wrappers pass it in explicitly.
	EnvAccessToken = "ENTITY_ACCESS_TOKEN"
	// EnvRequestTimeout holds the request timeout in seconds.
	EnvRequestTimeout = "ENTITY_REQUEST_TIMEOUT"
)

// NewFromEnv initialises an HTTP-backed Client from Entity environment
// variables: ENTITY_API_URL (default DefaultAPIURL), ENTITY_ACCESS_TOKEN and
// ENTITY_REQUEST_TIMEOUT. Mode-aware construction, including the mock
// backend, lives in pkg/entitysdk.
func NewFromEnv(opts ...httpx.Option) (*Client, error) {
	apiURL := strings.TrimSpace(os.Getenv(EnvAPIURL))
	token := strings.TrimSpace(os.Getenv(EnvAccessToken))

	timeout, err := TimeoutFromEnv()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append([]httpx.Option{httpx.WithTimeout(timeout)}, opts...)
	}

	return New(token, apiURL, opts...)
}

// TimeoutFromEnv parses ENTITY_REQUEST_TIMEOUT as whole seconds. Unset yields
// zero, meaning the transport default applies.
func TimeoutFromEnv() (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(EnvRequestTimeout))
	if raw == "" {
		return 0, nil
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("entity: parse %s value %q: %w", EnvRequestTimeout, raw, err)
	}
	return time.Duration(seconds) * time.Second, nil
}
