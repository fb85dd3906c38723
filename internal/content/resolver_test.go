package content

import (
	"context"
	"errors"
	"testing"
)

// fakeFetcher returns canned text or an error and records calls.
type fakeFetcher struct {
	text  string
	err   error
	calls int
}

func (f *fakeFetcher) TweetText(ctx context.Context, link string) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestResolveTypedTextWins(t *testing.T) {
	fetcher := &fakeFetcher{text: "fetched"}
	r := NewResolver(fetcher)

	text, err := r.Resolve(context.Background(), "typed words", "https://x.com/a/status/1")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if text != "typed words" {
		t.Errorf("text = %q", text)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times for typed text", fetcher.calls)
	}
}

func TestResolveFetchesLink(t *testing.T) {
	fetcher := &fakeFetcher{text: "  tweet body  "}
	r := NewResolver(fetcher)

	text, err := r.Resolve(context.Background(), "", "https://x.com/a/status/1")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if text != "tweet body" {
		t.Errorf("text = %q", text)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}
}

func TestResolveFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("network down")}
	r := NewResolver(fetcher)

	_, err := r.Resolve(context.Background(), "   ", "https://x.com/a/status/1")
	if !errors.Is(err, ErrMissingContent) {
		t.Fatalf("err = %v, want ErrMissingContent", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want exactly 1 (no retry)", fetcher.calls)
	}
}

func TestResolveEmptyFetch(t *testing.T) {
	fetcher := &fakeFetcher{text: ""}
	r := NewResolver(fetcher)

	_, err := r.Resolve(context.Background(), "", "https://x.com/a/status/1")
	if !errors.Is(err, ErrMissingContent) {
		t.Fatalf("err = %v, want ErrMissingContent", err)
	}
}

func TestResolveNothing(t *testing.T) {
	fetcher := &fakeFetcher{}
	r := NewResolver(fetcher)

	_, err := r.Resolve(context.Background(), "", "")
	if !errors.Is(err, ErrMissingContent) {
		t.Fatalf("err = %v, want ErrMissingContent", err)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times with no link", fetcher.calls)
	}
}
