package pair

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"banana-image-pipeline/modules/common/fault"
)

// Fetcher - retrieves raw bytes for a source-image URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher - Fetcher over plain HTTP GET. Fails fast on non-2xx,
// no retry.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	log.Printf("📥 Downloading image from %s...", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fault.Wrap(fault.Fetch, fmt.Errorf("invalid url %s: %w", url, err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fault.Wrap(fault.Fetch, fmt.Errorf("failed to download image: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fault.New(fault.Fetch, "failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fault.Wrap(fault.Fetch, fmt.Errorf("failed to read image data: %w", err))
	}

	log.Printf("✅ Image downloaded successfully: %d bytes", len(data))
	return data, nil
}
