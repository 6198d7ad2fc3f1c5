package entity

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/moonstream-to/entity_sdk_go/internal/httpx"
)

const (
	// DefaultAPIURL points at the production Entity API.
	DefaultAPIURL = "https://api.moonstream.to/entity"
	// DefaultSearchLimit is applied when SearchParams.Limit is zero.
	DefaultSearchLimit = 10
)

// Client provides access to the Entity REST API. Each instance owns its
// credentials and base URL; there is no shared mutable state between calls.
type Client struct {
	backend Backend
	apiURL  string
}

// New constructs a Client for the given access token and base URL. An empty
// apiURL falls back to DefaultAPIURL; trailing slashes are stripped.
func New(accessToken, apiURL string, opts ...httpx.Option) (*Client, error) {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	opts = append([]httpx.Option{httpx.WithBearerToken(accessToken)}, opts...)
	cl, err := httpx.NewClient(apiURL, opts...)
	if err != nil {
		return nil, err
	}
	c := NewWithHTTPClient(cl)
	return c, nil
}

// NewWithHTTPClient wraps an existing httpx.Client.
func NewWithHTTPClient(httpClient *httpx.Client) *Client {
	return &Client{backend: &httpBackend{client: httpClient}, apiURL: httpClient.BaseURL()}
}

// NewWithBackend allows callers to supply a custom backend (e.g., mocks).
func NewWithBackend(b Backend) *Client {
	return &Client{backend: b}
}

// APIURL returns the normalized base URL, or an empty string for non-HTTP
// backends.
func (c *Client) APIURL() string {
	return c.apiURL
}

// Ping checks connectivity with the Entity API.
func (c *Client) Ping(ctx context.Context) (*PingResponse, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("entity: client is nil")
	}
	return c.backend.Ping(ctx)
}

// Version reports the Entity API server version.
func (c *Client) Version(ctx context.Context) (*VersionResponse, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("entity: client is nil")
	}
	return c.backend.Version(ctx)
}

// CreateCollection creates a named collection and returns it with its
// server-assigned identifier.
func (c *Client) CreateCollection(ctx context.Context, name string) (*Collection, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("entity: client is nil")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("entity: collection name is required")
	}
	resp, err := c.backend.CreateCollection(ctx, name)
	if err != nil {
		return nil, err
	}
	return &Collection{CollectionID: resp.CollectionID, Name: resp.Name}, nil
}

// ListCollections enumerates the caller's collections, preserving server
// order.
func (c *Client) ListCollections(ctx context.Context) ([]Collection, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("entity: client is nil")
	}
	resp, err := c.backend.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	collections := make([]Collection, 0, len(resp.Collections))
	for _, wire := range resp.Collections {
		collections = append(collections, Collection{CollectionID: wire.CollectionID, Name: wire.Name})
	}
	return collections, nil
}

// DeleteCollection removes a collection and returns its last known state.
func (c *Client) DeleteCollection(ctx context.Context, collectionID string) (*Collection, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("entity: client is nil")
	}
	if strings.TrimSpace(collectionID) == "" {
		return nil, fmt.Errorf("entity: collection id is required")
	}
	resp, err := c.backend.DeleteCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	return &Collection{CollectionID: resp.CollectionID, Name: resp.Name}, nil
}

// CreateEntity stores an entity in the collection and returns the decoded
// record with its server-assigned identifiers.
func (c *Client) CreateEntity(ctx context.Context, collectionID string, e Entity) (*EntityRecord, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("entity: client is nil")
	}
	if strings.TrimSpace(collectionID) == "" {
		return nil, fmt.Errorf("entity: collection id is required")
	}
	resp, err := c.backend.CreateEntity(ctx, collectionID, EncodeCreateRequest(e))
	if err != nil {
		return nil, err
	}
	record := DecodeRecord(*resp)
	return &record, nil
}

// CreateEntitiesBulk stores a pack of entities in one request.
func (c *Client) CreateEntitiesBulk(ctx context.Context, collectionID string, entities []Entity) ([]EntityRecord, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("entity: client is nil")
	}
	if strings.TrimSpace(collectionID) == "" {
		return nil, fmt.Errorf("entity: collection id is required")
	}
	bodies := make([]map[string]any, 0, len(entities))
	for _, e := range entities {
		bodies = append(bodies, EncodeCreateRequest(e))
	}
	resp, err := c.backend.CreateEntitiesBulk(ctx, collectionID, bodies)
	if err != nil {
		return nil, err
	}
	return decodeRecords(resp.Entities), nil
}

// GetEntity fetches an entity by id. The server answers this path with an
// array even though exactly one entity was requested; that contract is
// preserved and every element is decoded.
func (c *Client) GetEntity(ctx context.Context, collectionID, entityID string) ([]EntityRecord, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("entity: client is nil")
	}
	if strings.TrimSpace(collectionID) == "" {
		return nil, fmt.Errorf("entity: collection id is required")
	}
	if strings.TrimSpace(entityID) == "" {
		return nil, fmt.Errorf("entity: entity id is required")
	}
	wires, err := c.backend.GetEntity(ctx, collectionID, entityID)
	if err != nil {
		return nil, err
	}
	return decodeRecords(wires), nil
}

// ListEntities enumerates all entities in a collection.
func (c *Client) ListEntities(ctx context.Context, collectionID string) ([]EntityRecord, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("entity: client is nil")
	}
	if strings.TrimSpace(collectionID) == "" {
		return nil, fmt.Errorf("entity: collection id is required")
	}
	resp, err := c.backend.ListEntities(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	return decodeRecords(resp.Entities), nil
}

// UpdateEntity replaces an entity's fields.
func (c *Client) UpdateEntity(ctx context.Context, collectionID, entityID string, e Entity) (*EntityRecord, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("entity: client is nil")
	}
	if strings.TrimSpace(collectionID) == "" {
		return nil, fmt.Errorf("entity: collection id is required")
	}
	if strings.TrimSpace(entityID) == "" {
		return nil, fmt.Errorf("entity: entity id is required")
	}
	resp, err := c.backend.UpdateEntity(ctx, collectionID, entityID, EncodeCreateRequest(e))
	if err != nil {
		return nil, err
	}
	record := DecodeRecord(*resp)
	return &record, nil
}

// DeleteEntity removes an entity. The server reports only the identifiers of
// the removed entity, so the record's domain fields are empty.
func (c *Client) DeleteEntity(ctx context.Context, collectionID, entityID string) (*EntityRecord, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("entity: client is nil")
	}
	if strings.TrimSpace(collectionID) == "" {
		return nil, fmt.Errorf("entity: collection id is required")
	}
	if strings.TrimSpace(entityID) == "" {
		return nil, fmt.Errorf("entity: entity id is required")
	}
	resp, err := c.backend.DeleteEntity(ctx, collectionID, entityID)
	if err != nil {
		return nil, err
	}
	record := DecodeRecord(*resp)
	return &record, nil
}

// Validate rejects negative limits and offsets.
func (p SearchParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Limit, validation.Min(0)),
		validation.Field(&p.Offset, validation.Min(0)),
	)
}

// Search matches entities by required and secondary field terms. Negative
// limit or offset fails before any network request; zero values fall back to
// DefaultSearchLimit and 0.
func (c *Client) Search(ctx context.Context, collectionID string, params SearchParams) (*SearchResult, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("entity: client is nil")
	}
	if strings.TrimSpace(collectionID) == "" {
		return nil, fmt.Errorf("entity: collection id is required")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	limit := params.Limit
	if limit == 0 {
		limit = DefaultSearchLimit
	}
	q := BuildSearchQuery(params.RequiredFields, params.SecondaryFields)
	resp, err := c.backend.Search(ctx, collectionID, q, limit, params.Offset)
	if err != nil {
		return nil, err
	}
	return &SearchResult{
		TotalResults: resp.TotalResults,
		Offset:       resp.Offset,
		NextOffset:   resp.NextOffset,
		MaxScore:     resp.MaxScore,
		Entities:     decodeRecords(resp.Entities),
	}, nil
}

// Backend abstracts the remote API so mocks can stand in for HTTP.
type Backend interface {
	Ping(ctx context.Context) (*PingResponse, error)
	Version(ctx context.Context) (*VersionResponse, error)
	CreateCollection(ctx context.Context, name string) (*EntityCollectionResponse, error)
	ListCollections(ctx context.Context) (*EntityCollectionsResponse, error)
	DeleteCollection(ctx context.Context, collectionID string) (*EntityCollectionResponse, error)
	CreateEntity(ctx context.Context, collectionID string, body map[string]any) (*EntityResponse, error)
	CreateEntitiesBulk(ctx context.Context, collectionID string, bodies []map[string]any) (*EntitiesResponse, error)
	GetEntity(ctx context.Context, collectionID, entityID string) ([]EntityResponse, error)
	ListEntities(ctx context.Context, collectionID string) (*EntitiesResponse, error)
	UpdateEntity(ctx context.Context, collectionID, entityID string, body map[string]any) (*EntityResponse, error)
	DeleteEntity(ctx context.Context, collectionID, entityID string) (*EntityResponse, error)
	Search(ctx context.Context, collectionID, q string, limit, offset int) (*EntitySearchResponse, error)
}

type httpBackend struct {
	client *httpx.Client
}

func (b *httpBackend) do(ctx context.Context, method, path, rawQuery string, body, out any) error {
	if b == nil || b.client == nil {
		return fmt.Errorf("entity: http backend not configured")
	}
	req := &httpx.Request{
		Method:   method,
		Path:     path,
		RawQuery: rawQuery,
	}
	if body != nil {
		reader, contentType, err := httpx.WithJSONBody(body)
		if err != nil {
			return fmt.Errorf("entity: encode request body: %w", err)
		}
		req.Body = reader
		req.Header = http.Header{"Content-Type": []string{contentType}}
	}
	resp, err := b.client.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		_, err = httpx.ReadAllAndClose(resp.Body)
		return err
	}
	return httpx.DecodeJSON(resp.Body, out)
}

func (b *httpBackend) Ping(ctx context.Context) (*PingResponse, error) {
	var out PingResponse
	if err := b.do(ctx, http.MethodGet, "/ping", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *httpBackend) Version(ctx context.Context) (*VersionResponse, error) {
	var out VersionResponse
	if err := b.do(ctx, http.MethodGet, "/version", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *httpBackend) CreateCollection(ctx context.Context, name string) (*EntityCollectionResponse, error) {
	var out EntityCollectionResponse
	if err := b.do(ctx, http.MethodPost, "/collections", "", map[string]any{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *httpBackend) ListCollections(ctx context.Context) (*EntityCollectionsResponse, error) {
	var out EntityCollectionsResponse
	if err := b.do(ctx, http.MethodGet, "/collections", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *httpBackend) DeleteCollection(ctx context.Context, collectionID string) (*EntityCollectionResponse, error) {
	var out EntityCollectionResponse
	if err := b.do(ctx, http.MethodDelete, "/collections/"+collectionID, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *httpBackend) CreateEntity(ctx context.Context, collectionID string, body map[string]any) (*EntityResponse, error) {
	var out EntityResponse
	if err := b.do(ctx, http.MethodPost, "/collections/"+collectionID+"/entities", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *httpBackend) CreateEntitiesBulk(ctx context.Context, collectionID string, bodies []map[string]any) (*EntitiesResponse, error) {
	var out EntitiesResponse
	if err := b.do(ctx, http.MethodPost, "/collections/"+collectionID+"/bulk", "", bodies, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *httpBackend) GetEntity(ctx context.Context, collectionID, entityID string) ([]EntityResponse, error) {
	var out []EntityResponse
	if err := b.do(ctx, http.MethodGet, "/collections/"+collectionID+"/entities/"+entityID, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *httpBackend) ListEntities(ctx context.Context, collectionID string) (*EntitiesResponse, error) {
	var out EntitiesResponse
	if err := b.do(ctx, http.MethodGet, "/collections/"+collectionID+"/entities", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *httpBackend) UpdateEntity(ctx context.Context, collectionID, entityID string, body map[string]any) (*EntityResponse, error) {
	var out EntityResponse
	if err := b.do(ctx, http.MethodPut, "/collections/"+collectionID+"/entities/"+entityID, "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *httpBackend) DeleteEntity(ctx context.Context, collectionID, entityID string) (*EntityResponse, error) {
	var out EntityResponse
	if err := b.do(ctx, http.MethodDelete, "/collections/"+collectionID+"/entities/"+entityID, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *httpBackend) Search(ctx context.Context, collectionID, q string, limit, offset int) (*EntitySearchResponse, error) {
	var out EntitySearchResponse
	rawQuery := searchRawQuery(q, limit, offset)
	if err := b.do(ctx, http.MethodGet, "/collections/"+collectionID+"/search", rawQuery, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
