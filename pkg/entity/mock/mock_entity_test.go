package mock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonstream-to/entity_sdk_go/pkg/entity"
)

func deterministicStoreOptions() []Option {
	var n int
	return []Option{
		WithClock(func() time.Time {
			return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		}),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	}
}

func TestCollectionLifecycle(t *testing.T) {
	ctx := context.Background()
	client := NewClient(deterministicStoreOptions()...)

	created, err := client.CreateCollection(ctx, "watchlist")
	require.NoError(t, err)
	assert.Equal(t, "id-1", created.CollectionID)

	collections, err := client.ListCollections(ctx)
	require.NoError(t, err)
	require.Len(t, collections, 1)
	assert.Equal(t, "watchlist", collections[0].Name)

	deleted, err := client.DeleteCollection(ctx, created.CollectionID)
	require.NoError(t, err)
	assert.Equal(t, created.CollectionID, deleted.CollectionID)

	collections, err = client.ListCollections(ctx)
	require.NoError(t, err)
	assert.Empty(t, collections)

	_, err = client.DeleteCollection(ctx, "unknown")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEntityRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := NewClient(deterministicStoreOptions()...)

	collection, err := client.CreateCollection(ctx, "watchlist")
	require.NoError(t, err)

	in := entity.Entity{
		Address:    "0xabc",
		Blockchain: "ethereum",
		Name:       "Permit2",
		RequiredFields: []entity.FieldMap{
			{"protocol": entity.String("uniswap")},
		},
		Content: entity.FieldMap{
			"deployer": entity.String("uniswap-labs"),
			"tvl":      entity.Number(1500000),
			"verified": entity.Bool(true),
			"tags":     entity.List(entity.String("dex"), entity.String("router")),
		},
	}
	created, err := client.CreateEntity(ctx, collection.CollectionID, in)
	require.NoError(t, err)

	// The flattened create body comes back split into the original shape.
	assert.Equal(t, in.Address, created.Address)
	assert.Equal(t, in.Blockchain, created.Blockchain)
	assert.Equal(t, in.Name, created.Name)
	assert.Equal(t, in.RequiredFields, created.RequiredFields)
	require.Len(t, created.Content, len(in.Content))
	for k, v := range in.Content {
		assert.True(t, created.Content[k].Equal(v), "content field %q", k)
	}

	got, err := client.GetEntity(ctx, collection.CollectionID, created.EntityID)
	require.NoError(t, err)
	require.Len(t, got, 1, "single-id lookup answers with a one-element array")
	assert.Equal(t, created.EntityID, got[0].EntityID)
}

func TestReturnedRecordsAreIsolatedFromStore(t *testing.T) {
	ctx := context.Background()
	client := NewClient()

	collection, err := client.CreateCollection(ctx, "watchlist")
	require.NoError(t, err)

	created, err := client.CreateEntity(ctx, collection.CollectionID, entity.Entity{
		Address:    "0xabc",
		Blockchain: "ethereum",
		Name:       "Permit2",
		RequiredFields: []entity.FieldMap{
			{"protocol": entity.String("uniswap")},
		},
		Content: entity.FieldMap{
			"deployer": entity.String("uniswap-labs"),
		},
	})
	require.NoError(t, err)

	// Mutating the returned field maps must not corrupt stored state.
	created.RequiredFields[0]["protocol"] = entity.String("mutated")
	created.Content["deployer"] = entity.String("mutated")
	created.Content["extra"] = entity.Bool(true)

	got, err := client.GetEntity(ctx, collection.CollectionID, created.EntityID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].RequiredFields[0]["protocol"].Equal(entity.String("uniswap")))
	assert.True(t, got[0].Content["deployer"].Equal(entity.String("uniswap-labs")))
	assert.NotContains(t, got[0].Content, "extra")
}

func TestContentOverwritesFixedKeys(t *testing.T) {
	ctx := context.Background()
	client := NewClient()

	collection, err := client.CreateCollection(ctx, "watchlist")
	require.NoError(t, err)

	created, err := client.CreateEntity(ctx, collection.CollectionID, entity.Entity{
		Address:    "0xabc",
		Blockchain: "ethereum",
		Name:       "original",
		Content: entity.FieldMap{
			"name": entity.String("override"),
		},
	})
	require.NoError(t, err)

	// The flattened merge is last-write-wins, so the content field lands in
	// the fixed slot and never reappears under Content.
	assert.Equal(t, "override", created.Name)
	assert.NotContains(t, created.Content, "name")
}

func TestUpdateEntityPreservesCreatedAt(t *testing.T) {
	ctx := context.Background()

	stamps := []time.Time{
		time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC),
	}
	var calls int
	store := New(WithClock(func() time.Time {
		stamp := stamps[calls]
		if calls < len(stamps)-1 {
			calls++
		}
		return stamp
	}))
	client := entity.NewWithBackend(store)

	collection, err := client.CreateCollection(ctx, "watchlist")
	require.NoError(t, err)
	created, err := client.CreateEntity(ctx, collection.CollectionID, entity.Entity{Name: "before"})
	require.NoError(t, err)

	updated, err := client.UpdateEntity(ctx, collection.CollectionID, created.EntityID, entity.Entity{Name: "after"})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Name)

	got, err := store.GetEntity(ctx, collection.CollectionID, created.EntityID)
	require.NoError(t, err)
	require.NotNil(t, got[0].CreatedAt)
	require.NotNil(t, got[0].UpdatedAt)
	assert.Equal(t, stamps[0], *got[0].CreatedAt)
	assert.Equal(t, stamps[1], *got[0].UpdatedAt)
}

func TestDeleteEntityReportsIdsOnly(t *testing.T) {
	ctx := context.Background()
	client := NewClient()

	collection, err := client.CreateCollection(ctx, "watchlist")
	require.NoError(t, err)
	created, err := client.CreateEntity(ctx, collection.CollectionID, entity.Entity{Name: "Permit2"})
	require.NoError(t, err)

	deleted, err := client.DeleteEntity(ctx, collection.CollectionID, created.EntityID)
	require.NoError(t, err)
	assert.Equal(t, created.EntityID, deleted.EntityID)
	assert.Empty(t, deleted.Name)

	_, err = client.GetEntity(ctx, collection.CollectionID, created.EntityID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	client := NewClient()

	collection, err := client.CreateCollection(ctx, "tokens")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := client.CreateEntity(ctx, collection.CollectionID, entity.Entity{
			Address:    fmt.Sprintf("0x%d", i),
			Blockchain: "ethereum",
			Name:       fmt.Sprintf("token-%d", i),
			RequiredFields: []entity.FieldMap{
				{"kind": entity.String("erc20")},
			},
			Content: entity.FieldMap{
				"index": entity.Number(float64(i)),
			},
		})
		require.NoError(t, err)
	}

	// All five match the required term; page size two yields a next offset.
	result, err := client.Search(ctx, collection.CollectionID, entity.SearchParams{
		RequiredFields: []string{"kind=erc20"},
		Limit:          2,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.TotalResults)
	assert.Len(t, result.Entities, 2)
	require.NotNil(t, result.NextOffset)
	assert.Equal(t, 2, *result.NextOffset)
	assert.Equal(t, 1.0, result.MaxScore)

	// The next page continues where the first left off.
	result, err = client.Search(ctx, collection.CollectionID, entity.SearchParams{
		RequiredFields: []string{"kind=erc20"},
		Limit:          2,
		Offset:         *result.NextOffset,
	})
	require.NoError(t, err)
	assert.Equal(t, "token-2", result.Entities[0].Name)

	// Secondary field terms match exact rendered values.
	result, err = client.Search(ctx, collection.CollectionID, entity.SearchParams{
		SecondaryFields: []string{"index=3"},
	})
	require.NoError(t, err)
	require.Len(t, result.Entities, 1)
	assert.Equal(t, "token-3", result.Entities[0].Name)

	// No terms matches everything, capped by the default limit.
	result, err = client.Search(ctx, collection.CollectionID, entity.SearchParams{})
	require.NoError(t, err)
	assert.Equal(t, 5, result.TotalResults)

	// An offset past the end yields an empty page.
	result, err = client.Search(ctx, collection.CollectionID, entity.SearchParams{Offset: 100})
	require.NoError(t, err)
	assert.Empty(t, result.Entities)
	assert.Nil(t, result.NextOffset)

	// A term containing a space survives the wire encoding and matches.
	_, err = client.CreateEntity(ctx, collection.CollectionID, entity.Entity{
		Address:    "0xbig",
		Blockchain: "ethereum",
		Name:       "big",
		Content: entity.FieldMap{
			"label": entity.String("Big Token"),
		},
	})
	require.NoError(t, err)

	result, err = client.Search(ctx, collection.CollectionID, entity.SearchParams{
		SecondaryFields: []string{"label=Big Token"},
	})
	require.NoError(t, err)
	require.Len(t, result.Entities, 1)
	assert.Equal(t, "big", result.Entities[0].Name)
}

func TestSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{
			"name": "watchlist",
			"entities": [
				{
					"address": "0xabc",
					"blockchain": "ethereum",
					"name": "Permit2",
					"required_fields": [{"protocol": "uniswap"}],
					"deployer": "uniswap-labs"
				}
			]
		}
	]`), 0o644))

	seed, err := LoadSeed(path)
	require.NoError(t, err)

	store := New()
	require.NoError(t, store.Seed(seed))
	client := entity.NewWithBackend(store)

	collections, err := client.ListCollections(context.Background())
	require.NoError(t, err)
	require.Len(t, collections, 1)

	records, err := client.ListEntities(context.Background(), collections[0].CollectionID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Permit2", records[0].Name)
	assert.True(t, records[0].Content["deployer"].Equal(entity.String("uniswap-labs")))
}
