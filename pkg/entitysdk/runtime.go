// Package entitysdk resolves an Entity API client from environment variables,
// choosing between the HTTP transport and the in-memory mock so the same
// program runs against production, a sandbox, or fully offline.
package entitysdk

import (
	"fmt"
	"os"
	"strings"

	"github.com/moonstream-to/entity_sdk_go/pkg/entity"
	"github.com/moonstream-to/entity_sdk_go/pkg/entity/mock"
)

const (
	envMode     = "ENTITY_RUNTIME_MODE"
	envMockSeed = "ENTITY_MOCK_SEED"

	modeAuto = "auto"
	modeHTTP = "http"
	modeMock = "mock"
)

// NewFromEnv initialises a client based on Entity environment variables and
// returns the resolved mode ("http" or "mock"). Mode auto picks HTTP when
// ENTITY_API_URL is set and mock otherwise.
func NewFromEnv() (client *entity.Client, mode string, err error) {
	mode = strings.ToLower(strings.TrimSpace(os.Getenv(envMode)))
	apiURL := strings.TrimSpace(os.Getenv(entity.EnvAPIURL))

	switch mode {
	case "", modeAuto:
		if apiURL != "" {
			return newHTTPClient()
		}
		return newMockClient()
	case modeHTTP:
		return newHTTPClient()
	case modeMock:
		return newMockClient()
	default:
		return nil, "", fmt.Errorf("entitysdk: unsupported %s value %q", envMode, mode)
	}
}

func newHTTPClient() (*entity.Client, string, error) {
	client, err := entity.NewFromEnv()
	if err != nil {
		return nil, "", fmt.Errorf("entitysdk: init HTTP client: %w", err)
	}
	return client, modeHTTP, nil
}

func newMockClient() (*entity.Client, string, error) {
	store := mock.New()
	if path := strings.TrimSpace(os.Getenv(envMockSeed)); path != "" {
		seed, err := mock.LoadSeed(path)
		if err != nil {
			return nil, "", fmt.Errorf("entitysdk: load mock seed: %w", err)
		}
		if err := store.Seed(seed); err != nil {
			return nil, "", fmt.Errorf("entitysdk: apply mock seed: %w", err)
		}
	}
	return entity.NewWithBackend(store), modeMock, nil
}
