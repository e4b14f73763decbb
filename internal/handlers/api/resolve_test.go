package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"tripatlas/internal/models"
)

func createLink(t *testing.T, app *fiber.App, body string) models.ShareLinkCreateResponse {
	t.Helper()
	status, env := doJSON(t, app, "POST", "/api/share-links", body)
	if status != http.StatusOK {
		t.Fatalf("create status = %d, want 200: %s", status, env.Error)
	}
	var resp models.ShareLinkCreateResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	return resp
}

func TestResolve_TripLink(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	trip := store.addTrip(owner.ID, "Dolomites Loop")
	store.moments[trip.ID] = []models.Moment{{TripID: trip.ID, Caption: "Tre Cime"}}
	app := newTestApp(store, owner)

	created := createLink(t, app, fmt.Sprintf(`{"scope":"trip","trip_id":%q}`, trip.ID))

	status, env := doJSON(t, app, "GET", "/api/s/trip/"+created.Token, "")
	if status != http.StatusOK {
		t.Fatalf("resolve status = %d, want 200: %s", status, env.Error)
	}
	var got models.TripWithMoments
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("failed to decode resolve response: %v", err)
	}
	if got.Trip == nil || got.Trip.Title != "Dolomites Loop" {
		t.Error("resolve did not return the shared trip")
	}
	if len(got.Moments) != 1 || got.Moments[0].Caption != "Tre Cime" {
		t.Error("resolve did not return the trip moments")
	}
}

func TestResolve_ProfileLink(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("wanderer")
	owner.Bio = "Always outside"
	store.addTrip(owner.ID, "One")
	store.addTrip(owner.ID, "Two")
	app := newTestApp(store, owner)

	created := createLink(t, app, `{"scope":"profile"}`)

	status, env := doJSON(t, app, "GET", "/api/s/profile/"+created.Token, "")
	if status != http.StatusOK {
		t.Fatalf("resolve status = %d, want 200: %s", status, env.Error)
	}

	var got struct {
		Name  string        `json:"name"`
		Bio   string        `json:"bio"`
		Trips []models.Trip `json:"trips"`
	}
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("failed to decode resolve response: %v", err)
	}
	if got.Name != "wanderer" || got.Bio != "Always outside" {
		t.Errorf("resolve returned name=%q bio=%q", got.Name, got.Bio)
	}
	if len(got.Trips) != 2 {
		t.Errorf("resolve returned %d trips, want 2", len(got.Trips))
	}

	// The projection must not expose account identifiers.
	raw := string(env.Data)
	for _, field := range []string{"sub", "email", "role"} {
		if strings.Contains(raw, `"`+field+`"`) {
			t.Errorf("shared profile exposes %q", field)
		}
	}
}

// TestResolve_UniformFailure checks that every public failure mode yields
// the same status code and body: a caller probing the endpoint cannot tell
// a wrong token from a revoked one, a malformed one, or an unknown scope.
func TestResolve_UniformFailure(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	app := newTestApp(store, owner)

	created := createLink(t, app, `{"scope":"profile"}`)

	// Revoke so the correct token also fails.
	doJSON(t, app, "POST", "/api/share-links/"+created.Link.ID.String()+"/revoke", "")

	wrongToken := strings.Repeat("0", 64)
	paths := []struct {
		name string
		path string
	}{
		{"wrong token", "/api/s/profile/" + wrongToken},
		{"revoked token", "/api/s/profile/" + created.Token},
		{"malformed token", "/api/s/profile/short"},
		{"uppercase token", "/api/s/profile/" + strings.ToUpper(created.Token)},
		{"unknown scope", "/api/s/everything/" + wrongToken},
		{"wrong scope for link", "/api/s/trip/" + created.Token},
	}

	var firstBody string
	for _, tt := range paths {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", tt.path, nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusNotFound {
				t.Errorf("status = %d, want 404", resp.StatusCode)
			}
			body := readBody(t, resp)
			if firstBody == "" {
				firstBody = body
			} else if body != firstBody {
				t.Errorf("failure body differs between cases:\n%s\nvs\n%s", body, firstBody)
			}
		})
	}
}

func TestResolve_LinkOutlivesResource(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	trip := store.addTrip(owner.ID, "Short Lived")
	app := newTestApp(store, owner)

	created := createLink(t, app, fmt.Sprintf(`{"scope":"trip","trip_id":%q}`, trip.ID))

	// Trip deleted while the link is still active: the public caller still
	// sees only the uniform failure.
	store.mu.Lock()
	delete(store.trips, trip.ID)
	store.mu.Unlock()

	status, env := doJSON(t, app, "GET", "/api/s/trip/"+created.Token, "")
	if status != http.StatusNotFound {
		t.Errorf("resolve of orphaned link status = %d, want 404", status)
	}
	if env.Error != "share link unavailable" {
		t.Errorf("resolve error = %q, want the uniform message", env.Error)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return string(raw)
}
