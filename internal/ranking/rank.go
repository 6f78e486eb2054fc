package ranking

import (
	"sort"

	"youbuddy/internal/model"
)

// Rank returns the n best items by descending score. Equal scores keep their
// input order. The input slice is left untouched.
func Rank(items []model.ScoredVideo, n int) []model.ScoredVideo {
	out := make([]model.ScoredVideo, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
