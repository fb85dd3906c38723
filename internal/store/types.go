package store

import "fmt"

// Category selects which analysis an item receives. Fixed for the item's lifetime.
type Category string

const (
	CategoryLearning    Category = "learning"
	CategoryNews        Category = "news"
	CategoryInspiration Category = "inspiration"
)

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{CategoryLearning, CategoryNews, CategoryInspiration}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryLearning, CategoryNews, CategoryInspiration:
		return true
	}
	return false
}

// LearningStep is one step of a 4-step learning breakdown.
type LearningStep struct {
	StepNumber  int    `json:"stepNumber"`
	Concept     string `json:"concept"`
	Explanation string `json:"explanation"`
	Analogy     string `json:"analogy"`
}

// NewsLink is a related-article reference in a news briefing.
type NewsLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// NewsData is a news briefing: summary, key points, related links.
type NewsData struct {
	Summary      string     `json:"summary"`
	KeyPoints    []string   `json:"keyPoints"`
	SimilarLinks []NewsLink `json:"similarLinks"`
}

// InspirationData is a creative inspiration spark.
type InspirationData struct {
	Tags            []string `json:"tags"`
	ContextAnalysis string   `json:"contextAnalysis"`
	SuggestedTweet  string   `json:"suggestedTweet"`
}

// Analysis is the tagged result of a successful generation. Exactly the
// variant matching Category is populated; constructors below maintain this.
type Analysis struct {
	Category    Category
	Learning    []LearningStep
	News        *NewsData
	Inspiration *InspirationData
}

// LearningAnalysis wraps a learning breakdown as a tagged Analysis.
func LearningAnalysis(steps []LearningStep) Analysis {
	return Analysis{Category: CategoryLearning, Learning: steps}
}

// NewsAnalysis wraps a news briefing as a tagged Analysis.
func NewsAnalysis(data *NewsData) Analysis {
	return Analysis{Category: CategoryNews, News: data}
}

// InspirationAnalysis wraps an inspiration spark as a tagged Analysis.
func InspirationAnalysis(data *InspirationData) Analysis {
	return Analysis{Category: CategoryInspiration, Inspiration: data}
}

// Validate checks that exactly the variant matching Category is populated.
func (a Analysis) Validate() error {
	if !a.Category.Valid() {
		return fmt.Errorf("invalid category: %q", a.Category)
	}
	hasLearning := a.Learning != nil
	hasNews := a.News != nil
	hasInspiration := a.Inspiration != nil

	var want, got int
	switch a.Category {
	case CategoryLearning:
		want = 1
		if !hasLearning {
			return fmt.Errorf("learning analysis missing learning data")
		}
	case CategoryNews:
		want = 1
		if !hasNews {
			return fmt.Errorf("news analysis missing news data")
		}
	case CategoryInspiration:
		want = 1
		if !hasInspiration {
			return fmt.Errorf("inspiration analysis missing inspiration data")
		}
	}
	for _, set := range []bool{hasLearning, hasNews, hasInspiration} {
		if set {
			got++
		}
	}
	if got != want {
		return fmt.Errorf("analysis for %q has %d data variants, want exactly 1", a.Category, got)
	}
	return nil
}

// Patch is the single write applied by Finalize. Exactly one of Error or
// Result must be set; both leave the item with IsLoading=false.
type Patch struct {
	Error  string
	Result *Analysis
}

// Validate checks the success/failure exclusivity of the patch.
func (p Patch) Validate() error {
	if p.Error != "" && p.Result != nil {
		return fmt.Errorf("patch has both error and result")
	}
	if p.Error == "" && p.Result == nil {
		return fmt.Errorf("patch has neither error nor result")
	}
	if p.Result != nil {
		return p.Result.Validate()
	}
	return nil
}

// Item is one persisted submission plus its eventual analysis or error.
//
// While IsLoading is true, Error and all data fields are absent. Once
// finalized, exactly one of the following holds: the data field matching
// Category is populated (success), or Error is set (failure).
type Item struct {
	ID           string           `json:"id"`
	OriginalText string           `json:"originalText"`
	TweetURL     string           `json:"tweetUrl,omitempty"`
	Category     Category         `json:"category"`
	CreatedAt    int64            `json:"createdAt"` // epoch millis
	IsLoading    bool             `json:"isLoading"`
	Error        string           `json:"error,omitempty"`
	Learning     []LearningStep   `json:"learningData,omitempty"`
	News         *NewsData        `json:"newsData,omitempty"`
	Inspiration  *InspirationData `json:"inspirationData,omitempty"`
}
