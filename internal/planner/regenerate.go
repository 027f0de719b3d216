package planner

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// LockedPolicy decides how recipes on locked days affect the candidates for
// the unlocked ones.
type LockedPolicy string

const (
	// PolicyDeprioritize only moves locked recipes to the back of the
	// candidate order, so they repeat when the catalog runs short.
	PolicyDeprioritize LockedPolicy = "deprioritize"
	// PolicyExclude removes locked recipes from the candidates unless that
	// would leave none.
	PolicyExclude LockedPolicy = "exclude"
)

// ParseLockedPolicy parses a policy name. The empty string means
// PolicyDeprioritize.
func ParseLockedPolicy(s string) (LockedPolicy, error) {
	switch p := LockedPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyDeprioritize, nil
	case PolicyDeprioritize, PolicyExclude:
		return p, nil
	}
	return "", fmt.Errorf("unknown locked policy %q, want %q or %q", s, PolicyDeprioritize, PolicyExclude)
}

// RegenerateUnlocked returns a full week in which locked entries are kept as
// they are and every other day gets a newly selected recipe. Days missing
// from entries count as unlocked. Regenerated entries are unlocked and carry
// no note.
func RegenerateUnlocked(entries []Entry, catalog []int64, rng *rand.Rand, policy LockedPolicy) ([]Entry, error) {
	locked := make(map[int]Entry, DaysInWeek)
	lockedIDs := make(map[int64]struct{})
	for _, e := range entries {
		if !e.Locked || ValidateDayOfWeek(e.DayOfWeek) != nil {
			continue
		}
		if _, dup := locked[e.DayOfWeek]; dup {
			continue
		}
		locked[e.DayOfWeek] = e
		lockedIDs[e.RecipeID] = struct{}{}
	}

	var picks []int64
	if len(locked) < DaysInWeek {
		pool := catalog
		if policy == PolicyExclude {
			if rest := without(catalog, lockedIDs); len(rest) > 0 {
				pool = rest
			}
		}
		var err error
		if picks, err = Select(pool, lockedIDs, rng); err != nil {
			return nil, err
		}
	}

	out := make([]Entry, 0, DaysInWeek)
	for day := 1; day <= DaysInWeek; day++ {
		if e, ok := locked[day]; ok {
			out = append(out, e)
			continue
		}
		out = append(out, Entry{DayOfWeek: day, RecipeID: picks[0]})
		picks = picks[1:]
	}
	return out, nil
}

func without(ids []int64, drop map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := drop[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
