// Package content resolves the text a submission should be analyzed with:
// the typed text when present, otherwise the text of the linked status
// fetched through the public oembed endpoint.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/moeghashim/X-RAY/internal/logging"
)

const oembedEndpoint = "https://publish.twitter.com/oembed"

// Fetcher retrieves the plain text of a status link.
type Fetcher interface {
	TweetText(ctx context.Context, link string) (string, error)
}

// OEmbedFetcher fetches status text via the publish.twitter.com oembed API,
// which requires no credentials and returns the status body as HTML.
type OEmbedFetcher struct {
	client   *http.Client
	endpoint string
}

// NewOEmbedFetcher creates a fetcher with the given HTTP timeout.
// A zero timeout means the 30 second default.
func NewOEmbedFetcher(timeout time.Duration) *OEmbedFetcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &OEmbedFetcher{
		client:   &http.Client{Timeout: timeout},
		endpoint: oembedEndpoint,
	}
}

// NewOEmbedFetcherWithEndpoint allows overriding the oembed endpoint (testing).
func NewOEmbedFetcherWithEndpoint(timeout time.Duration, endpoint string) *OEmbedFetcher {
	f := NewOEmbedFetcher(timeout)
	f.endpoint = endpoint
	return f
}

// TweetText fetches the status at link and returns its body as plain text.
// An empty result means the status had no extractable text.
func (f *OEmbedFetcher) TweetText(ctx context.Context, link string) (string, error) {
	reqURL := fmt.Sprintf("%s?url=%s&omit_script=1", f.endpoint, url.QueryEscape(link))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create oembed request: %w", err)
	}
	req.Header.Set("User-Agent", "X-RAY/1.0 (https://github.com/moeghashim/X-RAY)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch oembed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oembed HTTP %d for %s", resp.StatusCode, link)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read oembed response: %w", err)
	}

	var payload struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode oembed response: %w", err)
	}
	if payload.HTML == "" {
		return "", nil
	}

	text := StripHTML(payload.HTML)
	logging.Debug("Fetched status text", "link", link, "length", len(text))
	return text, nil
}
