package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"tripatlas/internal/config"
	"tripatlas/internal/models"
	"tripatlas/internal/sharelink"
)

// memStore is an in-memory sharelink.Store and ResourceReader used to test
// the handlers without a database. It mirrors the store contract: sentinel
// errors, active-only resolution lookups, conditional rotation.
type memStore struct {
	mu      sync.Mutex
	links   map[uuid.UUID]*models.ShareLink
	trips   map[uuid.UUID]*models.Trip
	moments map[uuid.UUID][]models.Moment
	users   map[uuid.UUID]*models.User
}

func newMemStore() *memStore {
	return &memStore{
		links:   make(map[uuid.UUID]*models.ShareLink),
		trips:   make(map[uuid.UUID]*models.Trip),
		moments: make(map[uuid.UUID][]models.Moment),
		users:   make(map[uuid.UUID]*models.User),
	}
}

func (s *memStore) CreateShareLink(_ context.Context, link *models.ShareLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.Status != models.ShareStatusActive || l.Scope != link.Scope {
			continue
		}
		switch link.Scope {
		case models.ShareScopeTrip:
			if l.TripID != nil && link.TripID != nil && *l.TripID == *link.TripID {
				return sharelink.ErrShareLinkConflict
			}
		case models.ShareScopeProfile:
			if l.OwnerID == link.OwnerID {
				return sharelink.ErrShareLinkConflict
			}
		}
	}
	link.ID = uuid.New()
	link.Status = models.ShareStatusActive
	link.CreatedAt = time.Now()
	cp := *link
	s.links[link.ID] = &cp
	return nil
}

func (s *memStore) GetShareLinkByID(_ context.Context, id uuid.UUID) (*models.ShareLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[id]
	if !ok {
		return nil, sharelink.ErrShareLinkNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *memStore) ListShareLinksByOwner(_ context.Context, ownerID uuid.UUID) ([]models.ShareLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ShareLink
	for _, l := range s.links {
		if l.OwnerID == ownerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (s *memStore) RotateShareLinkToken(_ context.Context, id uuid.UUID, tokenHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[id]
	if !ok || l.Status != models.ShareStatusActive {
		return false, nil
	}
	now := time.Now()
	l.TokenHash = tokenHash
	l.RotatedAt = &now
	return true, nil
}

func (s *memStore) RevokeShareLink(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[id]
	if !ok {
		return sharelink.ErrShareLinkNotFound
	}
	l.Status = models.ShareStatusRevoked
	return nil
}

func (s *memStore) GetActiveShareLinkByTokenHash(_ context.Context, scope, tokenHash string) (*models.ShareLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.Status == models.ShareStatusActive && l.Scope == scope && l.TokenHash == tokenHash {
			cp := *l
			return &cp, nil
		}
	}
	return nil, sharelink.ErrShareLinkNotFound
}

func (s *memStore) TripOwnedBy(_ context.Context, tripID, ownerID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	return ok && t.OwnerID == ownerID, nil
}

func (s *memStore) GetTripByID(_ context.Context, id uuid.UUID) (*models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memStore) GetTripMoments(_ context.Context, tripID uuid.UUID) ([]models.Moment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Moment(nil), s.moments[tripID]...), nil
}

func (s *memStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) ListTripsByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Trip
	for _, t := range s.trips {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

var errNotFound = errors.New("not found")

func (s *memStore) addUser(name string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: uuid.New(), Sub: name, Name: name, Role: models.RoleUser}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addTrip(ownerID uuid.UUID, title string) *models.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &models.Trip{ID: uuid.New(), OwnerID: ownerID, Title: title}
	s.trips[t.ID] = t
	return t
}

// newTestApp wires the share link API routes the way the server does, with
// the given user injected in place of the session middleware.
func newTestApp(store *memStore, user *models.User) *fiber.App {
	cfg := &config.Config{BaseURL: "http://test.local"}
	manager := sharelink.NewManager(store, nil)

	app := fiber.New()
	app.Use(func(c fiber.Ctx) error {
		if user != nil {
			c.Locals("user", user)
		}
		return c.Next()
	})

	linkHandler := NewShareLinkHandler(manager, cfg)
	app.Get("/api/share-links", linkHandler.List)
	app.Post("/api/share-links", linkHandler.Create)
	app.Post("/api/share-links/:id/rotate", linkHandler.Rotate)
	app.Post("/api/share-links/:id/revoke", linkHandler.Revoke)

	resolveHandler := NewResolveHandler(manager, store)
	app.Get("/api/s/:scope/:token", resolveHandler.Resolve)

	return app
}

// envelope mirrors the JSON response wrapper.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("response is not the JSON envelope: %v: %s", err, raw)
		}
	}
	return resp.StatusCode, env
}
