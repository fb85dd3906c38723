// Package sweep clears stale error markers left by retired generation
// backends. Safe to run repeatedly; items that don't match are untouched.
package sweep

import (
	"strings"

	"github.com/moeghashim/X-RAY/internal/logging"
	"github.com/moeghashim/X-RAY/internal/store"
)

// Obsolete reports whether an item error comes from a retired backend and
// can be cleared. Two signatures qualify: errors from the old Gemini
// implementation, and the specific temperature-parameter rejection hit
// during the model migration.
func Obsolete(errMsg string) bool {
	lower := strings.ToLower(errMsg)
	return retiredProviderError(lower) || temperatureError(lower)
}

func retiredProviderError(lower string) bool {
	return strings.Contains(lower, "gemini") ||
		strings.Contains(lower, "generativelanguage.googleapis.com")
}

// temperatureError matches the exact rejection
// "Unsupported value: 'temperature' does not support 0.7 with this model".
// All four conditions are required to avoid clearing unrelated errors that
// merely mention "0.7".
func temperatureError(lower string) bool {
	return strings.Contains(lower, "temperature") &&
		(strings.Contains(lower, "does not support") || strings.Contains(lower, "unsupported value")) &&
		strings.Contains(lower, "0.7") &&
		(strings.Contains(lower, "with this model") || strings.Contains(lower, "only the default"))
}

// Run scans all items carrying an error and clears the obsolete ones.
// Returns the number cleared. A cleared item keeps is_loading=false and has
// no data fields - a carried-over quirk of the original cleanup, preserved
// so swept items surface as empty rather than re-queued.
func Run(st *store.Store) (int, error) {
	items, err := st.ItemsWithError()
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for _, item := range items {
		if !Obsolete(item.Error) {
			continue
		}
		if err := st.ClearError(item.ID); err != nil {
			logging.Error("Failed to clear obsolete error", "id", item.ID, "error", err)
			return cleaned, err
		}
		cleaned++
		logging.Info("Cleared obsolete error", "id", item.ID, "category", item.Category)
	}

	logging.Info("Sweep finished", "scanned", len(items), "cleaned", cleaned)
	return cleaned, nil
}
