package entitysdk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonstream-to/entity_sdk_go/pkg/entity"
)

func TestNewFromEnvAutoFallsBackToMock(t *testing.T) {
	t.Setenv("ENTITY_RUNTIME_MODE", "")
	t.Setenv(entity.EnvAPIURL, "")

	client, mode, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "mock", mode)

	// The mock backend is live: operations work without a server.
	collection, err := client.CreateCollection(context.Background(), "watchlist")
	require.NoError(t, err)
	assert.NotEmpty(t, collection.CollectionID)
}

func TestNewFromEnvAutoPicksHTTP(t *testing.T) {
	t.Setenv("ENTITY_RUNTIME_MODE", "auto")
	t.Setenv(entity.EnvAPIURL, "http://localhost:8787")
	t.Setenv(entity.EnvRequestTimeout, "")

	client, mode, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "http", mode)
	assert.Equal(t, "http://localhost:8787", client.APIURL())
}

func TestNewFromEnvExplicitModes(t *testing.T) {
	t.Setenv(entity.EnvAPIURL, "http://localhost:8787")
	t.Setenv(entity.EnvRequestTimeout, "")

	t.Setenv("ENTITY_RUNTIME_MODE", "mock")
	_, mode, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "mock", mode)

	t.Setenv("ENTITY_RUNTIME_MODE", "HTTP")
	_, mode, err = NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "http", mode)

	t.Setenv("ENTITY_RUNTIME_MODE", "carrier-pigeon")
	_, _, err = NewFromEnv()
	require.Error(t, err)
}
