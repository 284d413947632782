package screen

import (
	"sort"

	"SmartScan/internal/domain/models"
)

// Rank orders candidates by score descending and truncates to topN. Equal
// scores are ordered by ascending symbol so a run is reproducible.
func Rank(cands []models.Candidate, topN int) []models.Candidate {
	out := make([]models.Candidate, len(cands))
	copy(out, cands)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Symbol < out[j].Symbol
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
