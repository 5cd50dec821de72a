package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"banana-image-pipeline/modules/common/fault"
)

// Publisher - uploads raw bytes to Vercel Blob storage and returns the
// public URL from the response body
type Publisher struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewPublisher - baseURL is the blob-store endpoint, token the
// read-write bearer credential
func NewPublisher(baseURL, token string) *Publisher {
	return &Publisher{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{},
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Publish - PUT the bytes under filename and return the public URL
func (p *Publisher) Publish(ctx context.Context, filename string, data []byte) (string, error) {
	log.Printf("📤 Uploading %s to blob storage (%d bytes)...", filename, len(data))

	uploadURL := fmt.Sprintf("%s/%s", p.baseURL, filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fault.Wrap(fault.Publish, fmt.Errorf("failed to create upload request: %w", err))
	}

	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "image/jpeg")
	req.Header.Set("x-content-type", "image/jpeg")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fault.Wrap(fault.Publish, fmt.Errorf("failed to upload blob: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fault.New(fault.Publish, "upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fault.Wrap(fault.Publish, fmt.Errorf("failed to parse upload response: %w", err))
	}
	if uploaded.URL == "" {
		return "", fault.New(fault.Publish, "no URL returned from blob store")
	}

	log.Printf("✅ Uploaded to: %s", uploaded.URL)
	return uploaded.URL, nil
}
