// Package pipeline runs the submission lifecycle: draft, resolve, generate,
// finalize.
//
// Each submission is one asynchronous sequence. The draft insert happens
// synchronously so the caller gets an id back immediately and the library
// always shows the submission - first loading, then success or error. The
// rest of the sequence runs in its own goroutine; independent submissions
// interleave freely with no mutual exclusion beyond the store's per-write
// atomicity.
//
// Every failure after the draft is converted into a terminal error write.
// Nothing past the draft step propagates to the caller; subscribers observe
// completion through the event feed.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/moeghashim/X-RAY/internal/content"
	"github.com/moeghashim/X-RAY/internal/extract"
	"github.com/moeghashim/X-RAY/internal/gateway"
	"github.com/moeghashim/X-RAY/internal/logging"
	"github.com/moeghashim/X-RAY/internal/store"
)

// FallbackErrorMessage is stored when a generation failure carries no
// message of its own.
const FallbackErrorMessage = "Failed to process content. Please try again with a different tweet/link."

// ErrEmptySubmission means the submission had no text at all. Rejected
// before any record is created.
var ErrEmptySubmission = errors.New("submission is empty")

// Event tells subscribers that an item changed state.
type Event struct {
	ItemID   string
	Category store.Category
	Change   string // "drafted", "finalized"
}

// Orchestrator owns the draft-then-finalize state machine.
type Orchestrator struct {
	store     *store.Store
	generator gateway.Generator
	resolver  *content.Resolver

	subscribers   []chan Event
	subscribersMu sync.RWMutex

	wg sync.WaitGroup
}

// New creates an Orchestrator. The generator and resolver are injected so
// tests can substitute fakes.
func New(st *store.Store, generator gateway.Generator, resolver *content.Resolver) *Orchestrator {
	return &Orchestrator{
		store:     st,
		generator: generator,
		resolver:  resolver,
	}
}

// Submit starts one submission through the pipeline.
//
// The draft record is created before Submit returns, and its id is the
// return value; callers observe the analysis outcome through the store or
// the event feed, not the return. A store failure at the draft step is the
// only error surfaced synchronously (besides input validation).
func (o *Orchestrator) Submit(ctx context.Context, originalText string, category store.Category) (string, error) {
	if strings.TrimSpace(originalText) == "" {
		return "", ErrEmptySubmission
	}
	if !category.Valid() {
		return "", fmt.Errorf("invalid category: %q", category)
	}

	link, _ := extract.StatusURL(originalText)
	cleanedText := extract.RemoveURL(originalText, link)

	id, err := o.store.CreateDraft(originalText, link, category)
	if err != nil {
		return "", err
	}

	logging.Info("Draft created", "id", id, "category", category, "has_link", link != "")
	o.notify(Event{ItemID: id, Category: category, Change: "drafted"})

	// The analysis outlives the submitting request; abandoning the UI
	// must not cancel an in-flight generation.
	bgCtx := context.WithoutCancel(ctx)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.finish(bgCtx, id, category, cleanedText, link)
	}()

	return id, nil
}

// finish runs resolve and generate, then applies the single finalize write.
func (o *Orchestrator) finish(ctx context.Context, id string, category store.Category, cleanedText, link string) {
	patch := o.analyze(ctx, id, category, cleanedText, link)

	if err := o.store.Finalize(id, patch); err != nil {
		// No repair path: the item stays loading until a process restart
		// or manual intervention.
		logging.Error("Finalize failed, item stuck loading", "id", id, "error", err)
		return
	}

	if patch.Error != "" {
		logging.Info("Item finalized with error", "id", id, "error", patch.Error)
	} else {
		logging.Info("Item finalized", "id", id, "category", category)
	}
	o.notify(Event{ItemID: id, Category: category, Change: "finalized"})
}

// analyze produces the finalize patch. All failures, panics included, come
// back as an error patch so finish always has exactly one write to apply.
func (o *Orchestrator) analyze(ctx context.Context, id string, category store.Category, cleanedText, link string) (patch store.Patch) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Analysis panicked", "id", id, "panic", r)
			patch = store.Patch{Error: FallbackErrorMessage}
		}
	}()

	text, err := o.resolver.Resolve(ctx, cleanedText, link)
	if err != nil {
		return store.Patch{Error: err.Error()}
	}

	analysis, err := gateway.Generate(ctx, o.generator, category, text)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = FallbackErrorMessage
		}
		return store.Patch{Error: msg}
	}

	return store.Patch{Result: &analysis}
}

// Wait blocks until all in-flight submissions have finalized.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Subscribe returns a channel receiving pipeline events.
// The channel should be drained to avoid dropped events.
func (o *Orchestrator) Subscribe() <-chan Event {
	ch := make(chan Event, 64)
	o.subscribersMu.Lock()
	o.subscribers = append(o.subscribers, ch)
	o.subscribersMu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel and closes it.
func (o *Orchestrator) Unsubscribe(ch <-chan Event) {
	o.subscribersMu.Lock()
	defer o.subscribersMu.Unlock()

	for i, sub := range o.subscribers {
		if sub == ch {
			o.subscribers = append(o.subscribers[:i], o.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// notify sends an event to all subscribers without blocking the pipeline.
func (o *Orchestrator) notify(event Event) {
	o.subscribersMu.RLock()
	defer o.subscribersMu.RUnlock()

	for _, ch := range o.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber not keeping up, drop event
			logging.Debug("Pipeline event dropped (subscriber full)",
				"id", event.ItemID, "change", event.Change)
		}
	}
}
