package api

import (
	"encoding/json/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossyapp/glossy-server/internal/domain"
)

// replyBackend serves a fixed reply for every sync generation request.
func replyBackend(t *testing.T, reply map[string]any) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.MarshalWrite(w, reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInteractMagazineOverHTTP(t *testing.T) {
	backend := replyBackend(t, map[string]any{
		"intent":        "regenerate_section",
		"section_index": 0,
		"updated_magazine": map[string]any{
			"heading": "Fresh Heading",
			"body":    "fresh body",
		},
	})
	ts := newTestServer(t, backend.URL)
	authHeader, userID := ts.registerUser(t, uniqueEmail("interact"))

	m := ts.createMagazine(t, authHeader, "Field Notes")
	m = ts.addSection(t, authHeader, m.ID, "Old Heading")
	m = ts.addSection(t, authHeader, m.ID, "Second")

	resp := ts.api.Post("/api/v1/magazines/"+m.ID+"/interact", authHeader, map[string]any{
		"message": "punch up the intro",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	result := decodeEnvelope[InteractResponse](t, resp)

	assert.Equal(t, domain.ActionRegenerateSection, result.Action)
	assert.Equal(t, "Fresh Heading", result.Message)
	require.Len(t, result.Magazine.Sections, 2)
	assert.Equal(t, "Fresh Heading", result.Magazine.Sections[0].Heading)
	assert.Equal(t, m.Version+1, result.Magazine.Version)

	// Exactly one history record, carrying the instruction and the summary.
	resp = ts.api.Get("/api/v1/magazines/" + m.ID + "/interactions")
	require.Equal(t, http.StatusOK, resp.Code)
	page := decodeEnvelope[struct {
		Interactions []InteractionResponse `json:"interactions"`
	}](t, resp)
	require.Len(t, page.Interactions, 1)
	assert.Equal(t, userID, page.Interactions[0].UserID)
	assert.Equal(t, "punch up the intro", page.Interactions[0].Message)
	assert.Equal(t, domain.ActionRegenerateSection, page.Interactions[0].ActionType)
}

func TestInteractSectionOverHTTP(t *testing.T) {
	// The backend addresses index 0 of its single-section context; the server
	// retargets it onto the addressed section's document position.
	backend := replyBackend(t, map[string]any{
		"intent":        "regenerate_section",
		"section_index": 0,
		"updated_magazine": map[string]any{
			"heading": "Middle, regenerated",
			"body":    "fresh body",
		},
	})
	ts := newTestServer(t, backend.URL)
	authHeader, _ := ts.registerUser(t, uniqueEmail("section-interact"))

	m := ts.createMagazine(t, authHeader, "Field Notes")
	m = ts.addSection(t, authHeader, m.ID, "First")
	m = ts.addSection(t, authHeader, m.ID, "Middle")
	m = ts.addSection(t, authHeader, m.ID, "Last")

	resp := ts.api.Post("/api/v1/magazines/"+m.ID+"/sections/"+m.Sections[1].ID+"/interact",
		authHeader, map[string]any{"message": "rewrite this one"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	result := decodeEnvelope[InteractResponse](t, resp)

	require.Len(t, result.Magazine.Sections, 3)
	assert.Equal(t, "First", result.Magazine.Sections[0].Heading)
	assert.Equal(t, "Middle, regenerated", result.Magazine.Sections[1].Heading)
	assert.Equal(t, "Last", result.Magazine.Sections[2].Heading)
}

func TestInteract_ForeignCallerForbidden(t *testing.T) {
	backend := replyBackend(t, map[string]any{"intent": "regenerate_section"})
	ts := newTestServer(t, backend.URL)
	ownerHeader, _ := ts.registerUser(t, uniqueEmail("ai-owner"))
	otherHeader, _ := ts.registerUser(t, uniqueEmail("ai-other"))

	m := ts.createMagazine(t, ownerHeader, "Private")

	resp := ts.api.Post("/api/v1/magazines/"+m.ID+"/interact", otherHeader, map[string]any{
		"message": "rewrite it",
	})
	require.Equal(t, http.StatusForbidden, resp.Code)

	// Document and history are untouched.
	resp = ts.api.Get("/api/v1/magazines/" + m.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	got := decodeEnvelope[MagazineResponse](t, resp)
	assert.Equal(t, m.Version, got.Version)

	resp = ts.api.Get("/api/v1/magazines/" + m.ID + "/interactions")
	require.Equal(t, http.StatusOK, resp.Code)
	page := decodeEnvelope[struct {
		Interactions []InteractionResponse `json:"interactions"`
	}](t, resp)
	assert.Empty(t, page.Interactions)
}

func TestInteract_BackendUnreachable(t *testing.T) {
	// Nothing listens on this address.
	ts := newTestServer(t, "http://127.0.0.1:1")
	authHeader, _ := ts.registerUser(t, uniqueEmail("downstream"))

	m := ts.createMagazine(t, authHeader, "Stalled")

	resp := ts.api.Post("/api/v1/magazines/"+m.ID+"/interact", authHeader, map[string]any{
		"message": "rewrite it",
	})
	require.Equal(t, http.StatusBadGateway, resp.Code, resp.Body.String())
	code, _ := decodeError(t, resp)
	assert.Equal(t, "UPSTREAM_UNREACHABLE", code)
}

func TestListInteractions_BadCursor(t *testing.T) {
	ts := newTestServer(t, "")
	authHeader, _ := ts.registerUser(t, uniqueEmail("cursor"))
	m := ts.createMagazine(t, authHeader, "History")

	resp := ts.api.Get("/api/v1/magazines/" + m.ID + "/interactions?before=not-a-time")
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListInteractions_MissingMagazine(t *testing.T) {
	ts := newTestServer(t, "")

	resp := ts.api.Get("/api/v1/magazines/mag-missing/interactions")
	require.Equal(t, http.StatusNotFound, resp.Code)
}
