package planner

import (
	"math/rand/v2"
)

// Select picks the recipes for the seven days of a week. Element i is the
// dinner for day i+1.
//
// Recipes not served in the previous week come first. With at least seven
// distinct recipes no dinner repeats within the week. With fewer, every
// distinct recipe is used once before random repeats fill the remaining days.
func Select(catalog []int64, previous map[int64]struct{}, rng *rand.Rand) ([]int64, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[int64]struct{}, len(catalog))
	var fresh, recent []int64
	for _, id := range catalog {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, used := previous[id]; used {
			recent = append(recent, id)
		} else {
			fresh = append(fresh, id)
		}
	}

	shuffle(rng, fresh)
	shuffle(rng, recent)

	picks := make([]int64, 0, max(DaysInWeek, len(seen)))
	picks = append(picks, fresh...)
	picks = append(picks, recent...)
	for len(picks) < DaysInWeek {
		picks = append(picks, catalog[rng.IntN(len(catalog))])
	}
	return picks[:DaysInWeek], nil
}

func shuffle(rng *rand.Rand, ids []int64) {
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
}
