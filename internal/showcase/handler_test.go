// AngelaMos | 2026
// handler_test.go

package showcase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/tiered-events/internal/event"
	"github.com/carterperez-dev/tiered-events/internal/middleware"
	"github.com/carterperez-dev/tiered-events/internal/tier"
)

// asCaller stands in for the JWT authenticator and injects a verified
// identity the way the real middleware does.
func asCaller(externalID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.ExternalIDKey, externalID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestRouter(members *memberStore, events *eventStore, caller string) http.Handler {
	r := chi.NewRouter()
	NewHandler(newTestService(members, events)).RegisterRoutes(r, asCaller(caller))
	return r
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) (int, apiEnvelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env apiEnvelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func TestGetEventsReturnsVisibleCatalog(t *testing.T) {
	members := newMemberStore()
	events := &eventStore{events: []event.Event{
		gatedEvent("Community Meetup", tier.Free),
		gatedEvent("Premium Gala", tier.Silver),
	}}
	router := newTestRouter(members, events, "auth0|alice")

	status, env := doRequest(t, router, http.MethodGet, "/showcase/events", "")
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	var body EventsResponse
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.True(t, body.Success)
	assert.Equal(t, "free", body.UserTier)
	require.Len(t, body.Events, 1)
	assert.Equal(t, "Community Meetup", body.Events[0].Title)
}

func TestGetEventsDegradesWithHTTP200(t *testing.T) {
	members := newMemberStore()
	members.failAll = true
	router := newTestRouter(members, &eventStore{}, "auth0|alice")

	status, env := doRequest(t, router, http.MethodGet, "/showcase/events", "")
	require.Equal(t, http.StatusOK, status, "read failures degrade in-body")
	require.True(t, env.Success)

	var body EventsResponse
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.False(t, body.Success)
	assert.Equal(t, "free", body.UserTier)
	assert.Empty(t, body.Events)
	assert.NotEmpty(t, body.Error)
}

func TestGetTier(t *testing.T) {
	members := newMemberStore()
	router := newTestRouter(members, &eventStore{}, "auth0|alice")

	status, env := doRequest(t, router, http.MethodGet, "/showcase/tier", "")
	require.Equal(t, http.StatusOK, status)

	var body TierResponse
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "free", body.Tier)
	assert.Equal(t, 0, body.Info.Level)
	require.NotNil(t, body.NextTier)
	assert.Equal(t, "silver", *body.NextTier)
}

func TestChangeTierHappyPath(t *testing.T) {
	members := newMemberStore()
	router := newTestRouter(members, &eventStore{}, "auth0|alice")

	status, env := doRequest(t, router, http.MethodPut, "/showcase/tier", `{"tier":"silver"}`)
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	var body TierResponse
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "silver", body.Tier)
	require.NotNil(t, body.NextTier)
	assert.Equal(t, "gold", *body.NextTier)
}

func TestChangeTierRejectsSkippedRankWith422(t *testing.T) {
	members := newMemberStore()
	router := newTestRouter(members, &eventStore{}, "auth0|alice")

	status, env := doRequest(t, router, http.MethodPut, "/showcase/tier", `{"tier":"platinum"}`)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ILLEGAL_TIER_TRANSITION", env.Error.Code)
	assert.Contains(t, env.Error.Message, "free")
	assert.Contains(t, env.Error.Message, "platinum")

	status, _ = doRequest(t, router, http.MethodGet, "/showcase/tier", "")
	require.Equal(t, http.StatusOK, status)
}

func TestChangeTierBadPayloads(t *testing.T) {
	router := newTestRouter(newMemberStore(), &eventStore{}, "auth0|alice")

	for _, body := range []string{"", "{", `{"tier":""}`, `{"tier":"diamond"}`} {
		status, env := doRequest(t, router, http.MethodPut, "/showcase/tier", body)
		assert.Equal(t, http.StatusBadRequest, status, "body=%q", body)
		require.NotNil(t, env.Error)
		assert.Equal(t, "BAD_REQUEST", env.Error.Code)
	}
}

func TestChangeTierStorageFailureIs503(t *testing.T) {
	members := newMemberStore()
	members.failAll = true
	router := newTestRouter(members, &eventStore{}, "auth0|alice")

	status, env := doRequest(t, router, http.MethodPut, "/showcase/tier", `{"tier":"silver"}`)
	require.Equal(t, http.StatusServiceUnavailable, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "STORAGE_UNAVAILABLE", env.Error.Code)
}
