package store

import "github.com/mbolis/grace-register/model"

// Merge reconciles candidate against existing without touching
// existing. A record with the same id is replaced in place, so the last
// link opened always wins; otherwise candidate is appended.
func Merge(candidate model.Config, existing []model.Config) (merged []model.Config, inserted bool) {
	merged = make([]model.Config, len(existing), len(existing)+1)
	copy(merged, existing)

	if idx := indexOf(merged, candidate.ID); idx >= 0 {
		merged[idx] = candidate
		return merged, false
	}
	return append(merged, candidate), true
}

// Reselect picks the active configuration after deleted was removed:
// the first remaining one when the active one went away, or none.
func Reselect(active, deleted string, remaining []model.Config) string {
	if active != deleted {
		return active
	}
	if len(remaining) > 0 {
		return remaining[0].ID
	}
	return ""
}
