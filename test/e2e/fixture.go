package e2e

import (
	"os"
	"path/filepath"

	"github.com/moeghashim/X-RAY/internal/store"
)

// seedFixtureDB creates ~/.xray/xray.db under homeDir with one finalized
// news item so the TUI has deterministic content to render.
func seedFixtureDB(homeDir string) error {
	dataDir := filepath.Join(homeDir, ".xray")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	st, err := store.Open(filepath.Join(dataDir, "xray.db"))
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.CreateDraft("Fixture tweet about Go generics", "", store.CategoryNews)
	if err != nil {
		return err
	}
	analysis := store.NewsAnalysis(&store.NewsData{
		Summary:   "Generics landed and nothing broke.",
		KeyPoints: []string{"type parameters", "no runtime cost"},
	})
	return st.Finalize(id, store.Patch{Result: &analysis})
}
