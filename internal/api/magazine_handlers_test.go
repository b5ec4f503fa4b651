package api

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createMagazine makes a magazine through the API and returns its response.
func (ts *testServer) createMagazine(t *testing.T, authHeader, title string) MagazineResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/magazines", authHeader, map[string]any{
		"title": title,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return decodeEnvelope[MagazineResponse](t, resp)
}

// addSection appends a section through the API and returns the magazine.
func (ts *testServer) addSection(t *testing.T, authHeader, magazineID, heading string) MagazineResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/magazines/"+magazineID+"/sections", authHeader, map[string]any{
		"heading": heading,
		"body":    "original body",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return decodeEnvelope[MagazineResponse](t, resp)
}

// testPNG encodes a small gradient image for upload tests.
func testPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 120, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y * 3), B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMagazineCRUD(t *testing.T) {
	ts := newTestServer(t, "")
	authHeader, userID := ts.registerUser(t, uniqueEmail("mag"))

	created := ts.createMagazine(t, authHeader, "Field Notes")
	assert.Equal(t, userID, created.OwnerID)
	assert.Equal(t, int64(1), created.Version)
	assert.Empty(t, created.Sections)

	// Magazines are publicly readable, no token needed.
	resp := ts.api.Get("/api/v1/magazines/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	got := decodeEnvelope[MagazineResponse](t, resp)
	assert.Equal(t, "Field Notes", got.Title)

	// Update bumps the version.
	resp = ts.api.Patch("/api/v1/magazines/"+created.ID, authHeader, map[string]any{
		"title": "Renamed",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	updated := decodeEnvelope[MagazineResponse](t, resp)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, created.Version+1, updated.Version)

	// List shows the owner's magazines.
	resp = ts.api.Get("/api/v1/magazines", authHeader)
	require.Equal(t, http.StatusOK, resp.Code)
	list := decodeEnvelope[struct {
		Magazines []MagazineResponse `json:"magazines"`
	}](t, resp)
	require.Len(t, list.Magazines, 1)

	// Delete, then the magazine is gone.
	resp = ts.api.Delete("/api/v1/magazines/"+created.ID, authHeader)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/magazines/" + created.ID)
	require.Equal(t, http.StatusNotFound, resp.Code)
	code, _ := decodeError(t, resp)
	assert.Equal(t, "NOT_FOUND", code)
}

func TestMagazineCreate_RequiresAuth(t *testing.T) {
	ts := newTestServer(t, "")

	resp := ts.api.Post("/api/v1/magazines", map[string]any{"title": "No token"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestMagazineUpdate_ForeignCallerForbidden(t *testing.T) {
	ts := newTestServer(t, "")
	ownerHeader, _ := ts.registerUser(t, uniqueEmail("owner"))
	otherHeader, _ := ts.registerUser(t, uniqueEmail("other"))

	created := ts.createMagazine(t, ownerHeader, "Mine")

	resp := ts.api.Patch("/api/v1/magazines/"+created.ID, otherHeader, map[string]any{
		"title": "Stolen",
	})
	require.Equal(t, http.StatusForbidden, resp.Code)
	code, _ := decodeError(t, resp)
	assert.Equal(t, "FORBIDDEN", code)
}

func TestSectionLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t, "")
	authHeader, _ := ts.registerUser(t, uniqueEmail("sections"))

	m := ts.createMagazine(t, authHeader, "Field Notes")
	m = ts.addSection(t, authHeader, m.ID, "First")
	m = ts.addSection(t, authHeader, m.ID, "Second")
	m = ts.addSection(t, authHeader, m.ID, "Third")
	require.Len(t, m.Sections, 3)
	for i, sec := range m.Sections {
		assert.Equal(t, i, sec.DisplayOrder)
	}

	// Update the middle section in place.
	target := m.Sections[1]
	resp := ts.api.Patch("/api/v1/magazines/"+m.ID+"/sections/"+target.ID, authHeader, map[string]any{
		"heading": "Second, revised",
		"paragraphs": []map[string]any{
			{"subtitle": "One", "body": "first paragraph"},
			{"subtitle": "Two", "body": "second paragraph"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	m = decodeEnvelope[MagazineResponse](t, resp)
	assert.Equal(t, "Second, revised", m.Sections[1].Heading)
	assert.Equal(t, target.ID, m.Sections[1].ID)
	assert.Equal(t, 1, m.Sections[1].DisplayOrder)
	require.Len(t, m.Sections[1].Paragraphs, 2)
	assert.Equal(t, 0, m.Sections[1].Paragraphs[0].DisplayOrder)

	// Reorder with every ID named once.
	resp = ts.api.Put("/api/v1/magazines/"+m.ID+"/sections/order", authHeader, map[string]any{
		"section_ids": []string{m.Sections[2].ID, m.Sections[0].ID, m.Sections[1].ID},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	m = decodeEnvelope[MagazineResponse](t, resp)
	assert.Equal(t, "Third", m.Sections[0].Heading)

	// A partial reorder is rejected.
	resp = ts.api.Put("/api/v1/magazines/"+m.ID+"/sections/order", authHeader, map[string]any{
		"section_ids": []string{m.Sections[0].ID},
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	// Delete the first section: the rest close the gap.
	resp = ts.api.Delete("/api/v1/magazines/"+m.ID+"/sections/"+m.Sections[0].ID, authHeader)
	require.Equal(t, http.StatusOK, resp.Code)
	m = decodeEnvelope[MagazineResponse](t, resp)
	require.Len(t, m.Sections, 2)
	assert.Equal(t, 0, m.Sections[0].DisplayOrder)
	assert.Equal(t, 1, m.Sections[1].DisplayOrder)

	// Unknown section is 404.
	resp = ts.api.Delete("/api/v1/magazines/"+m.ID+"/sections/sec-missing", authHeader)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUploadCover(t *testing.T) {
	ts := newTestServer(t, "")
	authHeader, _ := ts.registerUser(t, uniqueEmail("cover"))

	m := ts.createMagazine(t, authHeader, "Covered")

	resp := ts.api.Post("/api/v1/magazines/"+m.ID+"/cover", authHeader,
		"Content-Type: image/png", bytes.NewReader(testPNG(t)))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	updated := decodeEnvelope[MagazineResponse](t, resp)
	assert.NotEmpty(t, updated.CoverBlurhash)
	require.NotEmpty(t, updated.CoverImage)

	// The cover URL resolves through the image route.
	rr := ts.getRaw(t, updated.CoverImage)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/jpeg", rr.Header().Get("Content-Type"))

	// Garbage data is a validation error.
	resp = ts.api.Post("/api/v1/magazines/"+m.ID+"/cover", authHeader,
		"Content-Type: image/png", bytes.NewReader([]byte("not an image")))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	code, _ := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", code)
}
