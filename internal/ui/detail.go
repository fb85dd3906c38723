package ui

import (
	"fmt"
	"strings"

	"github.com/moeghashim/X-RAY/internal/store"
)

// renderDetail shows the full analysis for the selected item.
func (m Model) renderDetail() string {
	item := m.selected()
	if item == nil {
		return NormalItem.Render("No item selected.")
	}

	var b strings.Builder

	b.WriteString(DetailHeading.Render("Original"))
	b.WriteString("\n")
	b.WriteString(DetailBody.Render(item.OriginalText))
	b.WriteString("\n")
	if item.TweetURL != "" {
		b.WriteString(DetailBody.Render(item.TweetURL))
		b.WriteString("\n")
	}

	switch {
	case item.IsLoading:
		b.WriteString(LoadingItem.Render(m.spinner.View() + " Analyzing..."))
	case item.Error != "":
		b.WriteString(ErrorItem.Render(item.Error))
	default:
		b.WriteString(renderAnalysis(*item))
	}

	return b.String()
}

func renderAnalysis(item store.Item) string {
	var b strings.Builder

	switch {
	case item.Learning != nil:
		for _, step := range item.Learning {
			b.WriteString(DetailHeading.Render(fmt.Sprintf("Step %d: %s", step.StepNumber, step.Concept)))
			b.WriteString("\n")
			b.WriteString(DetailBody.Render(step.Explanation))
			b.WriteString("\n")
			if step.Analogy != "" {
				b.WriteString(DetailBody.Render("Analogy: " + step.Analogy))
				b.WriteString("\n")
			}
		}

	case item.News != nil:
		b.WriteString(DetailHeading.Render("Summary"))
		b.WriteString("\n")
		b.WriteString(DetailBody.Render(item.News.Summary))
		b.WriteString("\n")
		if len(item.News.KeyPoints) > 0 {
			b.WriteString(DetailHeading.Render("Key points"))
			b.WriteString("\n")
			for _, point := range item.News.KeyPoints {
				b.WriteString(DetailBody.Render("• " + point))
				b.WriteString("\n")
			}
		}
		if len(item.News.SimilarLinks) > 0 {
			b.WriteString(DetailHeading.Render("Related"))
			b.WriteString("\n")
			for _, link := range item.News.SimilarLinks {
				b.WriteString(DetailBody.Render(link.Title + " " + link.URL))
				b.WriteString("\n")
			}
		}

	case item.Inspiration != nil:
		if len(item.Inspiration.Tags) > 0 {
			var tags []string
			for _, tag := range item.Inspiration.Tags {
				tags = append(tags, TagBadge.Render(tag))
			}
			b.WriteString(strings.Join(tags, ""))
			b.WriteString("\n")
		}
		if item.Inspiration.ContextAnalysis != "" {
			b.WriteString(DetailHeading.Render("Context"))
			b.WriteString("\n")
			b.WriteString(DetailBody.Render(item.Inspiration.ContextAnalysis))
			b.WriteString("\n")
		}
		if item.Inspiration.SuggestedTweet != "" {
			b.WriteString(DetailHeading.Render("Suggested tweet"))
			b.WriteString("\n")
			b.WriteString(DetailBody.Render(item.Inspiration.SuggestedTweet))
			b.WriteString("\n")
		}

	default:
		b.WriteString(NormalItem.Render("No analysis attached."))
	}

	return b.String()
}
