package rank

import (
	"sort"

	"github.com/clipforge/clipforge/internal/models"
)

// SelectTop returns the min(k, len(segments)) highest-scored segments in
// descending score order. The sort is stable, so ties keep discovery
// order. Pure function, no I/O.
func SelectTop(segments []models.Segment, k int) []models.Segment {
	if k <= 0 || len(segments) == 0 {
		return nil
	}
	out := make([]models.Segment, len(segments))
	copy(out, segments)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ViralScore > out[j].ViralScore
	})
	if k > len(out) {
		k = len(out)
	}
	return out[:k]
}
