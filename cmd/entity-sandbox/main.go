// Command entity-sandbox runs a local Entity API server backed by the
// in-memory mock store. It speaks the same REST surface as the production
// API, so the SDK, the CLI, and integration tests can point at it with
// ENTITY_API_URL. Latency and failure injection flags help exercise client
// error handling.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/moonstream-to/entity_sdk_go/pkg/entity"
	"github.com/moonstream-to/entity_sdk_go/pkg/entity/mock"
)

type failConfig struct {
	rate float64
	code int
}

func main() {
	addr := flag.String("addr", ":8787", "listen address")
	seed := flag.String("seed", "", "path to JSON seed for the entity store")
	latency := flag.Duration("latency", 0, "artificial latency to inject per request")
	fail := flag.String("fail", "", "failure injection (rate=<float>,code=<httpStatus>)")
	flag.Parse()

	log := hclog.New(&hclog.LoggerOptions{Name: "entity-sandbox"})

	store := mock.New()
	if *seed != "" {
		entries, err := mock.LoadSeed(*seed)
		if err != nil {
			log.Error("load seed", "error", err)
			os.Exit(1)
		}
		if err := store.Seed(entries); err != nil {
			log.Error("apply seed", "error", err)
			os.Exit(1)
		}
	}

	failCfg, err := parseFailConfig(*fail)
	if err != nil {
		log.Error("parse fail flag", "error", err)
		os.Exit(1)
	}

	srv := &server{store: store, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", srv.handlePing)
	mux.HandleFunc("/version", srv.handleVersion)
	mux.HandleFunc("/collections", srv.handleCollections)
	mux.HandleFunc("/collections/", srv.handleCollectionSubtree)

	handler := withMiddleware(*latency, failCfg, log, mux)

	log.Info("entity-sandbox listening", "addr", *addr)
	host := *addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	fmt.Printf("\nexport %s=http://%s\n\n", entity.EnvAPIURL, host)

	httpServer := &http.Server{Addr: *addr, Handler: handler}
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func parseFailConfig(raw string) (failConfig, error) {
	cfg := failConfig{}
	if raw == "" {
		return cfg, nil
	}
	for _, part := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return cfg, fmt.Errorf("invalid fail segment %q", part)
		}
		switch key {
		case "rate":
			rate, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return cfg, fmt.Errorf("invalid fail rate %q: %w", value, err)
			}
			cfg.rate = rate
		case "code":
			code, err := strconv.Atoi(value)
			if err != nil {
				return cfg, fmt.Errorf("invalid fail code %q: %w", value, err)
			}
			cfg.code = code
		default:
			return cfg, fmt.Errorf("unknown fail key %q", key)
		}
	}
	return cfg, nil
}

func withMiddleware(delay time.Duration, failCfg failConfig, log hclog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug("request", "method", r.Method, "path", r.URL.Path)
		if delay > 0 {
			time.Sleep(delay)
		}
		if failCfg.rate > 0 && rand.Float64() < failCfg.rate {
			status := failCfg.code
			if status == 0 {
				status = http.StatusInternalServerError
			}
			http.Error(w, "failure injected", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type server struct {
	store *mock.Store
	log   hclog.Logger
}

func (s *server) handlePing(w http.ResponseWriter, r *http.Request) {
	resp, _ := s.store.Ping(r.Context())
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleVersion(w http.ResponseWriter, r *http.Request) {
	resp, _ := s.store.Version(r.Context())
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleCollections(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var payload struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := validation.Validate(payload.Name, validation.Required); err != nil {
			http.Error(w, fmt.Sprintf("name: %v", err), http.StatusBadRequest)
			return
		}
		resp, err := s.store.CreateCollection(r.Context(), payload.Name)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodGet:
		resp, err := s.store.ListCollections(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCollectionSubtree routes /collections/{cid}[/entities[/{eid}]|/bulk|/search].
func (s *server) handleCollectionSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/collections/")
	segments := strings.Split(strings.Trim(rest, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		http.NotFound(w, r)
		return
	}
	collectionID := segments[0]

	switch {
	case len(segments) == 1:
		s.handleCollection(w, r, collectionID)
	case len(segments) == 2 && segments[1] == "entities":
		s.handleEntities(w, r, collectionID)
	case len(segments) == 2 && segments[1] == "bulk":
		s.handleBulk(w, r, collectionID)
	case len(segments) == 2 && segments[1] == "search":
		s.handleSearch(w, r, collectionID)
	case len(segments) == 3 && segments[1] == "entities":
		s.handleEntity(w, r, collectionID, segments[2])
	default:
		http.NotFound(w, r)
	}
}

func (s *server) handleCollection(w http.ResponseWriter, r *http.Request, collectionID string) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp, err := s.store.DeleteCollection(r.Context(), collectionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleEntities(w http.ResponseWriter, r *http.Request, collectionID string) {
	switch r.Method {
	case http.MethodPost:
		body, err := decodeEntityBody(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp, err := s.store.CreateEntity(r.Context(), collectionID, body)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodGet:
		resp, err := s.store.ListEntities(r.Context(), collectionID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *server) handleBulk(w http.ResponseWriter, r *http.Request, collectionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var bodies []map[string]any
	if err := json.NewDecoder(r.Body).Decode(&bodies); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for i, body := range bodies {
		if err := validateEntityBody(body); err != nil {
			http.Error(w, fmt.Sprintf("entity %d: %v", i, err), http.StatusBadRequest)
			return
		}
	}
	resp, err := s.store.CreateEntitiesBulk(r.Context(), collectionID, bodies)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleEntity(w http.ResponseWriter, r *http.Request, collectionID, entityID string) {
	switch r.Method {
	case http.MethodGet:
		resp, err := s.store.GetEntity(r.Context(), collectionID, entityID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodPut:
		body, err := decodeEntityBody(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp, err := s.store.UpdateEntity(r.Context(), collectionID, entityID, body)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodDelete:
		resp, err := s.store.DeleteEntity(r.Context(), collectionID, entityID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request, collectionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := rawQueryParam(r.URL.RawQuery, "q")
	limit := intQueryParam(r, "limit", entity.DefaultSearchLimit)
	offset := intQueryParam(r, "offset", 0)
	if limit < 0 || offset < 0 {
		http.Error(w, "limit and offset must be non-negative", http.StatusBadRequest)
		return
	}
	resp, err := s.store.Search(r.Context(), collectionID, q, limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, mock.ErrNotFound) {
		status = http.StatusNotFound
	}
	s.log.Warn("request failed", "error", err, "status", status)
	http.Error(w, err.Error(), status)
}

func decodeEntityBody(r *http.Request) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	if err := validateEntityBody(body); err != nil {
		return nil, err
	}
	return body, nil
}

func validateEntityBody(body map[string]any) error {
	return validation.Validate(body,
		validation.Map(
			validation.Key("address", validation.Required),
			validation.Key("blockchain", validation.Required),
			validation.Key("name", validation.Required),
		).AllowExtraKeys(),
	)
}

// rawQueryParam extracts a parameter from the raw query string without
// decoding it. The q value keeps its literal '+' separators, which standard
// query parsing would turn into spaces.
func rawQueryParam(rawQuery, name string) string {
	for _, part := range strings.Split(rawQuery, "&") {
		if value, ok := strings.CutPrefix(part, name+"="); ok {
			return value
		}
	}
	return ""
}

func intQueryParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
