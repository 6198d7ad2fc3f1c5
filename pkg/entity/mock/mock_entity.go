// Package mock implements an in-memory stand-in for the Entity API. It keeps
// collections and entities behind a mutex, assigns UUID identifiers, and
// reproduces the server's storage split: fixed keys are pulled out of create
// bodies and every remaining key lands under secondary_fields. The Store
// satisfies entity.Backend, so entity.NewWithBackend(mock.New()) yields a
// fully offline client.
package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moonstream-to/entity_sdk_go/internal/version"
	"github.com/moonstream-to/entity_sdk_go/pkg/entity"
)

// ErrNotFound is returned when a collection or entity id is unknown.
var ErrNotFound = errors.New("entity mock: not found")

type collectionState struct {
	name     string
	order    []string
	entities map[string]*entity.EntityResponse
}

// Store is an in-memory Entity API replacement.
type Store struct {
	mu          sync.RWMutex
	order       []string
	collections map[string]*collectionState
	now         func() time.Time
	newID       func() string
}

// Option configures the store.
type Option func(*Store)

// WithClock overrides the clock used for created_at/updated_at stamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithIDGenerator overrides identifier generation (useful in tests).
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		collections: make(map[string]*collectionState),
		now: func() time.Time {
			return time.Now().UTC()
		},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewClient wraps a fresh store in an entity.Client.
func NewClient(opts ...Option) *entity.Client {
	return entity.NewWithBackend(New(opts...))
}

// Ping always reports ok.
func (s *Store) Ping(ctx context.Context) (*entity.PingResponse, error) {
	return &entity.PingResponse{Status: "ok"}, nil
}

// Version reports the SDK version.
func (s *Store) Version(ctx context.Context) (*entity.VersionResponse, error) {
	return &entity.VersionResponse{Version: version.Version}, nil
}

func (s *Store) CreateCollection(ctx context.Context, name string) (*entity.EntityCollectionResponse, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("entity mock: collection name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	s.collections[id] = &collectionState{
		name:     name,
		entities: make(map[string]*entity.EntityResponse),
	}
	s.order = append(s.order, id)
	return &entity.EntityCollectionResponse{CollectionID: id, Name: name}, nil
}

func (s *Store) ListCollections(ctx context.Context) (*entity.EntityCollectionsResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := &entity.EntityCollectionsResponse{Collections: []entity.EntityCollectionResponse{}}
	for _, id := range s.order {
		resp.Collections = append(resp.Collections, entity.EntityCollectionResponse{
			CollectionID: id,
			Name:         s.collections[id].name,
		})
	}
	return resp, nil
}

func (s *Store) DeleteCollection(ctx context.Context, collectionID string) (*entity.EntityCollectionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collectionID]
	if !ok {
		return nil, fmt.Errorf("%w: collection %s", ErrNotFound, collectionID)
	}
	delete(s.collections, collectionID)
	for i, id := range s.order {
		if id == collectionID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return &entity.EntityCollectionResponse{CollectionID: collectionID, Name: col.name}, nil
}

func (s *Store) CreateEntity(ctx context.Context, collectionID string, body map[string]any) (*entity.EntityResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collectionID]
	if !ok {
		return nil, fmt.Errorf("%w: collection %s", ErrNotFound, collectionID)
	}
	resp, err := splitCreateBody(collectionID, s.newID(), body, s.now())
	if err != nil {
		return nil, err
	}
	col.entities[resp.EntityID] = resp
	col.order = append(col.order, resp.EntityID)
	return cloneResponse(resp), nil
}

func (s *Store) CreateEntitiesBulk(ctx context.Context, collectionID string, bodies []map[string]any) (*entity.EntitiesResponse, error) {
	resp := &entity.EntitiesResponse{Entities: []entity.EntityResponse{}}
	for _, body := range bodies {
		created, err := s.CreateEntity(ctx, collectionID, body)
		if err != nil {
			return nil, err
		}
		resp.Entities = append(resp.Entities, *created)
	}
	return resp, nil
}

// GetEntity answers with a one-element array, matching the upstream API's
// array-shaped response for a single-id lookup.
func (s *Store) GetEntity(ctx context.Context, collectionID, entityID string) ([]entity.EntityResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[collectionID]
	if !ok {
		return nil, fmt.Errorf("%w: collection %s", ErrNotFound, collectionID)
	}
	e, ok := col.entities[entityID]
	if !ok {
		return nil, fmt.Errorf("%w: entity %s", ErrNotFound, entityID)
	}
	return []entity.EntityResponse{*cloneResponse(e)}, nil
}

func (s *Store) ListEntities(ctx context.Context, collectionID string) (*entity.EntitiesResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[collectionID]
	if !ok {
		return nil, fmt.Errorf("%w: collection %s", ErrNotFound, collectionID)
	}
	resp := &entity.EntitiesResponse{Entities: []entity.EntityResponse{}}
	for _, id := range col.order {
		resp.Entities = append(resp.Entities, *cloneResponse(col.entities[id]))
	}
	return resp, nil
}

func (s *Store) UpdateEntity(ctx context.Context, collectionID, entityID string, body map[string]any) (*entity.EntityResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collectionID]
	if !ok {
		return nil, fmt.Errorf("%w: collection %s", ErrNotFound, collectionID)
	}
	existing, ok := col.entities[entityID]
	if !ok {
		return nil, fmt.Errorf("%w: entity %s", ErrNotFound, entityID)
	}
	updated, err := splitCreateBody(collectionID, entityID, body, s.now())
	if err != nil {
		return nil, err
	}
	updated.CreatedAt = existing.CreatedAt
	col.entities[entityID] = updated
	return cloneResponse(updated), nil
}

// DeleteEntity reports only the identifiers of the removed entity, matching
// the upstream delete response.
func (s *Store) DeleteEntity(ctx context.Context, collectionID, entityID string) (*entity.EntityResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collectionID]
	if !ok {
		return nil, fmt.Errorf("%w: collection %s", ErrNotFound, collectionID)
	}
	if _, ok := col.entities[entityID]; !ok {
		return nil, fmt.Errorf("%w: entity %s", ErrNotFound, entityID)
	}
	delete(col.entities, entityID)
	for i, id := range col.order {
		if id == entityID {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
	return &entity.EntityResponse{EntityID: entityID, CollectionID: collectionID}, nil
}

func (s *Store) Search(ctx context.Context, collectionID, q string, limit, offset int) (*entity.EntitySearchResponse, error) {
	requiredTerms, secondaryTerms, err := entity.ParseSearchQuery(q)
	if err != nil {
		return nil, fmt.Errorf("entity mock: parse query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[collectionID]
	if !ok {
		return nil, fmt.Errorf("%w: collection %s", ErrNotFound, collectionID)
	}

	matched := make([]*entity.EntityResponse, 0, len(col.order))
	for _, id := range col.order {
		e := col.entities[id]
		if matchesTerms(e.RequiredFields, requiredTerms) && matchesTerms([]entity.FieldMap{e.SecondaryFields}, secondaryTerms) {
			matched = append(matched, e)
		}
	}

	resp := &entity.EntitySearchResponse{
		TotalResults: len(matched),
		Offset:       offset,
		Entities:     []entity.EntityResponse{},
	}
	if len(matched) > 0 {
		resp.MaxScore = 1.0
	}
	if offset >= len(matched) {
		return resp, nil
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
		next := end
		resp.NextOffset = &next
	}
	for _, e := range matched[offset:end] {
		resp.Entities = append(resp.Entities, *cloneResponse(e))
	}
	return resp, nil
}

// matchesTerms requires every term to match some field. A "key=value" term
// matches a field with that name whose rendered text equals the value; a bare
// term matches any field name or rendered value.
func matchesTerms(fields []entity.FieldMap, terms []string) bool {
	for _, term := range terms {
		if !matchesTerm(fields, term) {
			return false
		}
	}
	return true
}

func matchesTerm(fields []entity.FieldMap, term string) bool {
	key, want, exact := strings.Cut(term, "=")
	for _, fm := range fields {
		for name, value := range fm {
			if exact {
				if name == key && value.Text() == want {
					return true
				}
			} else if name == term || value.Text() == term {
				return true
			}
		}
	}
	return false
}

var fixedKeys = map[string]struct{}{
	"address":         {},
	"blockchain":      {},
	"name":            {},
	"required_fields": {},
}

// splitCreateBody normalizes a flattened create/update body into the wire
// entity shape: fixed keys out, everything else under secondary_fields. This
// is the encode inverse the round-trip law relies on.
func splitCreateBody(collectionID, entityID string, body map[string]any, now time.Time) (*entity.EntityResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("entity mock: encode body: %w", err)
	}

	var fixed struct {
		Address        string            `json:"address"`
		Blockchain     string            `json:"blockchain"`
		Name           string            `json:"name"`
		RequiredFields []entity.FieldMap `json:"required_fields"`
	}
	if err := json.Unmarshal(data, &fixed); err != nil {
		return nil, fmt.Errorf("entity mock: decode body: %w", err)
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("entity mock: decode body: %w", err)
	}
	secondary := entity.FieldMap{}
	for k, raw := range all {
		if _, isFixed := fixedKeys[k]; isFixed {
			continue
		}
		var v entity.Value
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("entity mock: decode field %q: %w", k, err)
		}
		secondary[k] = v
	}

	stamp := now
	return &entity.EntityResponse{
		EntityID:        entityID,
		CollectionID:    collectionID,
		Address:         fixed.Address,
		Blockchain:      fixed.Blockchain,
		Name:            fixed.Name,
		RequiredFields:  fixed.RequiredFields,
		SecondaryFields: secondary,
		CreatedAt:       &stamp,
		UpdatedAt:       &stamp,
	}, nil
}

// cloneResponse copies the response including its field maps, so callers
// mutating a returned value never touch stored state.
func cloneResponse(e *entity.EntityResponse) *entity.EntityResponse {
	clone := *e
	if e.RequiredFields != nil {
		clone.RequiredFields = make([]entity.FieldMap, len(e.RequiredFields))
		for i, fm := range e.RequiredFields {
			clone.RequiredFields[i] = cloneFieldMap(fm)
		}
	}
	clone.SecondaryFields = cloneFieldMap(e.SecondaryFields)
	return &clone
}

func cloneFieldMap(fm entity.FieldMap) entity.FieldMap {
	if fm == nil {
		return nil
	}
	clone := make(entity.FieldMap, len(fm))
	for k, v := range fm {
		clone[k] = v
	}
	return clone
}

// SeedCollection describes one collection in a seed file.
type SeedCollection struct {
	Name     string           `json:"name"`
	Entities []map[string]any `json:"entities"`
}

// LoadSeed reads a JSON seed file: an array of collections with flattened
// entity bodies, the same shape the create endpoint accepts.
func LoadSeed(path string) ([]SeedCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("entity mock: read seed: %w", err)
	}
	var seed []SeedCollection
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("entity mock: decode seed: %w", err)
	}
	return seed, nil
}

// Seed loads collections and entities into the store.
func (s *Store) Seed(seed []SeedCollection) error {
	ctx := context.Background()
	for _, col := range seed {
		created, err := s.CreateCollection(ctx, col.Name)
		if err != nil {
			return err
		}
		for _, body := range col.Entities {
			if _, err := s.CreateEntity(ctx, created.CollectionID, body); err != nil {
				return err
			}
		}
	}
	return nil
}
