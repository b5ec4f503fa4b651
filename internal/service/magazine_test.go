package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossyapp/glossy-server/internal/config"
	domainerrors "github.com/glossyapp/glossy-server/internal/errors"
	"github.com/glossyapp/glossy-server/internal/media/images"
)

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

func newMagazineEnv(t *testing.T) *testEnv {
	t.Helper()
	// The magazine service never calls the backend.
	return newTestEnv(t, "", config.AITransportSync)
}

func TestMagazineService_CreateAndGet(t *testing.T) {
	env := newMagazineEnv(t)
	ctx := context.Background()

	m, err := env.magazines.Create(ctx, "user-a", CreateMagazineRequest{
		Title:        "Field Notes",
		Introduction: "A quarterly about nothing in particular.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, int64(1), m.Version)
	assert.Empty(t, m.Sections)

	got, err := env.magazines.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Field Notes", got.Title)
	assert.Equal(t, "user-a", got.OwnerID)
}

func TestMagazineService_CreateValidation(t *testing.T) {
	env := newMagazineEnv(t)

	_, err := env.magazines.Create(context.Background(), "user-a", CreateMagazineRequest{})
	assertErrCode(t, err, domainerrors.CodeValidation)
}

func TestMagazineService_GetMissing(t *testing.T) {
	env := newMagazineEnv(t)

	_, err := env.magazines.Get(context.Background(), "mag-missing")
	assertErrCode(t, err, domainerrors.CodeNotFound)
}

func TestMagazineService_Update(t *testing.T) {
	env := newMagazineEnv(t)
	ctx := context.Background()

	m := env.seedMagazine(t, "user-a")

	title := "Renamed"
	updated, err := env.magazines.Update(ctx, m.ID, "user-a", UpdateMagazineRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, m.Version+1, updated.Version)

	// A non-owner cannot update.
	_, err = env.magazines.Update(ctx, m.ID, "user-b", UpdateMagazineRequest{Title: &title})
	assertErrCode(t, err, domainerrors.CodeForbidden)
}

func TestMagazineService_Delete(t *testing.T) {
	env := newMagazineEnv(t)
	ctx := context.Background()

	m := env.seedMagazine(t, "user-a")

	// Non-owner delete is refused.
	err := env.magazines.Delete(ctx, m.ID, "user-b")
	assertErrCode(t, err, domainerrors.CodeForbidden)

	require.NoError(t, env.magazines.Delete(ctx, m.ID, "user-a"))

	_, err = env.magazines.Get(ctx, m.ID)
	assertErrCode(t, err, domainerrors.CodeNotFound)
}

func TestMagazineService_ListOwn(t *testing.T) {
	env := newMagazineEnv(t)
	ctx := context.Background()

	env.seedMagazine(t, "user-a")
	env.seedMagazine(t, "user-a")
	env.seedMagazine(t, "user-b")

	mine, err := env.magazines.ListOwn(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := env.magazines.ListOwn(ctx, "user-b")
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestMagazineService_SectionLifecycle(t *testing.T) {
	env := newMagazineEnv(t)
	ctx := context.Background()

	m := env.seedMagazine(t, "user-a", "First", "Second", "Third")
	require.Len(t, m.Sections, 3)
	for i, section := range m.Sections {
		assert.Equal(t, i, section.DisplayOrder)
	}

	// Update the middle section in place.
	target := m.Sections[1]
	m, err := env.magazines.UpdateSection(ctx, m.ID, target.ID, "user-a", SectionRequest{
		Heading: "Second, revised",
		Body:    "new body",
	})
	require.NoError(t, err)
	assert.Equal(t, "Second, revised", m.Sections[1].Heading)
	assert.Equal(t, target.ID, m.Sections[1].ID)
	assert.Equal(t, 1, m.Sections[1].DisplayOrder)

	// Delete the first section: the rest close the gap in order.
	m, err = env.magazines.DeleteSection(ctx, m.ID, m.Sections[0].ID, "user-a")
	require.NoError(t, err)
	require.Len(t, m.Sections, 2)
	assert.Equal(t, "Second, revised", m.Sections[0].Heading)
	assert.Equal(t, 0, m.Sections[0].DisplayOrder)
	assert.Equal(t, "Third", m.Sections[1].Heading)
	assert.Equal(t, 1, m.Sections[1].DisplayOrder)

	// Unknown section is NotFound.
	_, err = env.magazines.DeleteSection(ctx, m.ID, "sec-missing", "user-a")
	assertErrCode(t, err, domainerrors.CodeNotFound)
}

func TestMagazineService_ReorderSections(t *testing.T) {
	env := newMagazineEnv(t)
	ctx := context.Background()

	m := env.seedMagazine(t, "user-a", "A", "B", "C")

	reordered, err := env.magazines.ReorderSections(ctx, m.ID, "user-a", ReorderRequest{
		SectionIDs: []string{m.Sections[2].ID, m.Sections[0].ID, m.Sections[1].ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "C", reordered.Sections[0].Heading)
	assert.Equal(t, "A", reordered.Sections[1].Heading)
	assert.Equal(t, "B", reordered.Sections[2].Heading)
	for i, section := range reordered.Sections {
		assert.Equal(t, i, section.DisplayOrder)
	}

	// Partial or duplicated orders are rejected.
	_, err = env.magazines.ReorderSections(ctx, m.ID, "user-a", ReorderRequest{
		SectionIDs: []string{m.Sections[0].ID},
	})
	assertErrCode(t, err, domainerrors.CodeValidation)

	_, err = env.magazines.ReorderSections(ctx, m.ID, "user-a", ReorderRequest{
		SectionIDs: []string{m.Sections[0].ID, m.Sections[0].ID, m.Sections[1].ID},
	})
	assertErrCode(t, err, domainerrors.CodeValidation)
}

func TestMagazineService_UploadCover(t *testing.T) {
	env := newMagazineEnv(t)
	ctx := context.Background()

	m := env.seedMagazine(t, "user-a")

	updated, err := env.magazines.UploadCover(ctx, m.ID, "user-a", testPNG(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.CoverImage, images.PublicPrefix))
	assert.NotEmpty(t, updated.CoverBlurhash)

	// Garbage data is a validation error, not a crash.
	_, err = env.magazines.UploadCover(ctx, m.ID, "user-a", []byte("not an image"))
	assertErrCode(t, err, domainerrors.CodeValidation)

	// Non-owner cannot set the cover.
	_, err = env.magazines.UploadCover(ctx, m.ID, "user-b", testPNG(t))
	assertErrCode(t, err, domainerrors.CodeForbidden)
}
