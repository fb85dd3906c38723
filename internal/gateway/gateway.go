// Package gateway defines the text-to-structured-data generation contract
// and its OpenAI-backed implementation.
//
// The pipeline depends only on the Generator interface; the concrete client
// is constructed once at process start and injected. Failures carry
// user-displayable messages and are never retried here.
package gateway

import (
	"context"
	"fmt"

	"github.com/moeghashim/X-RAY/internal/store"
)

// Generator produces category-shaped structured data from resolved text.
type Generator interface {
	// GenerateLearning breaks text down into a 4-step learning path.
	GenerateLearning(ctx context.Context, text string) ([]store.LearningStep, error)

	// GenerateNews converts text into a news briefing.
	GenerateNews(ctx context.Context, text string) (*store.NewsData, error)

	// GenerateInspiration analyzes text for creative inspiration.
	GenerateInspiration(ctx context.Context, text string) (*store.InspirationData, error)
}

// Generate dispatches to the Generator operation matching category and wraps
// the result as a tagged Analysis.
func Generate(ctx context.Context, g Generator, category store.Category, text string) (store.Analysis, error) {
	switch category {
	case store.CategoryLearning:
		steps, err := g.GenerateLearning(ctx, text)
		if err != nil {
			return store.Analysis{}, err
		}
		return store.LearningAnalysis(steps), nil
	case store.CategoryNews:
		data, err := g.GenerateNews(ctx, text)
		if err != nil {
			return store.Analysis{}, err
		}
		return store.NewsAnalysis(data), nil
	case store.CategoryInspiration:
		data, err := g.GenerateInspiration(ctx, text)
		if err != nil {
			return store.Analysis{}, err
		}
		return store.InspirationAnalysis(data), nil
	default:
		return store.Analysis{}, fmt.Errorf("invalid category: %q", category)
	}
}
