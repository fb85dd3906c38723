package content

import (
	"context"
	"errors"
	"strings"

	"github.com/moeghashim/X-RAY/internal/logging"
)

// ErrMissingContent means no usable text remained after resolution.
// The message is shown to the user verbatim.
var ErrMissingContent = errors.New("Please include content or a link with content.")

// Resolver decides what text a submission should be analyzed with.
type Resolver struct {
	fetcher Fetcher
}

// NewResolver creates a Resolver backed by the given fetcher.
func NewResolver(fetcher Fetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Resolve returns the text to analyze. Typed text wins; a link is fetched
// only when the typed text is empty, and only once - a failed or empty fetch
// falls through to ErrMissingContent rather than retrying.
func (r *Resolver) Resolve(ctx context.Context, cleanedText, link string) (string, error) {
	if text := strings.TrimSpace(cleanedText); text != "" {
		return text, nil
	}

	if link != "" {
		text, err := r.fetcher.TweetText(ctx, link)
		if err != nil {
			logging.Warn("Status fetch failed", "link", link, "error", err)
		} else if trimmed := strings.TrimSpace(text); trimmed != "" {
			return trimmed, nil
		}
	}

	return "", ErrMissingContent
}
