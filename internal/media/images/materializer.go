package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/glossyapp/glossy-server/internal/id"
)

const (
	// PublicPrefix is the URL path under which stored images are served.
	PublicPrefix = "/images/"

	// fetchTimeout is the maximum time for a single image download.
	fetchTimeout = 30 * time.Second
)

// Materializer converts externally-hosted image URLs into stored references.
// The generation backend hands back transient CDN URLs that expire; fetching
// them at apply time is the only window where they are reliably available.
type Materializer struct {
	httpClient *http.Client
	processor  *Processor
	maxBytes   int64
	logger     *slog.Logger
}

// NewMaterializer creates a materializer writing through the given processor.
func NewMaterializer(processor *Processor, maxBytes int64, logger *slog.Logger) *Materializer {
	return &Materializer{
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
		processor: processor,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// Materialize fetches an external image URL and returns the stored reference.
// Best-effort: on any failure the original URL is returned unchanged so the
// document still renders (possibly with a dead link) rather than the whole
// interaction failing over a cosmetic asset. Idempotent for URLs that
// already point at the store.
func (m *Materializer) Materialize(ctx context.Context, rawURL string) string {
	if rawURL == "" {
		return rawURL
	}

	// Already one of ours.
	if strings.HasPrefix(rawURL, PublicPrefix) {
		return rawURL
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}

	stored, err := m.fetch(ctx, rawURL)
	if err != nil {
		m.logger.Warn("failed to materialize image, keeping external URL",
			"url", rawURL,
			"error", err,
		)
		return rawURL
	}

	return stored
}

// MaterializeAll rewrites every image reference in place.
func (m *Materializer) MaterializeAll(ctx context.Context, refs []*string) {
	for _, ref := range refs {
		*ref = m.Materialize(ctx, *ref)
	}
}

// fetch downloads, normalizes, and stores one image, returning its public path.
func (m *Materializer) fetch(ctx context.Context, rawURL string) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	// Read with size limit
	data, err := io.ReadAll(io.LimitReader(resp.Body, m.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read data: %w", err)
	}

	imageID, err := id.Generate("img")
	if err != nil {
		return "", fmt.Errorf("generate image id: %w", err)
	}

	if _, err := m.processor.ProcessAndStore(imageID, data); err != nil {
		return "", err
	}

	m.logger.Debug("materialized image",
		"url", rawURL,
		"id", imageID,
		"bytes", len(data),
	)

	return PublicPrefix + imageID + ".jpg", nil
}
