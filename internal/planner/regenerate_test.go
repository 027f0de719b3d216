package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func week(recipeIDs ...int64) []Entry {
	out := make([]Entry, len(recipeIDs))
	for i, id := range recipeIDs {
		out[i] = Entry{DayOfWeek: i + 1, RecipeID: id}
	}
	return out
}

func TestRegenerateUnlocked_KeepsLockedEntries(t *testing.T) {
	entries := week(1, 2, 3, 4, 5, 6, 7)
	entries[1].Locked, entries[1].Note = true, "bursdag"
	entries[5].Locked = true

	for _, policy := range []LockedPolicy{PolicyDeprioritize, PolicyExclude} {
		for seed := range uint64(30) {
			out, err := RegenerateUnlocked(entries, ids(20), seeded(seed), policy)
			require.NoError(t, err)
			require.Len(t, out, DaysInWeek)

			for i, e := range out {
				assert.Equal(t, i+1, e.DayOfWeek)
			}
			assert.Equal(t, entries[1], out[1])
			assert.Equal(t, entries[5], out[5])

			for _, day := range []int{0, 2, 3, 4, 6} {
				assert.False(t, out[day].Locked)
				assert.Empty(t, out[day].Note)
				// Locked recipes are pushed back, and 18 others are available.
				assert.NotEqual(t, int64(2), out[day].RecipeID)
				assert.NotEqual(t, int64(6), out[day].RecipeID)
			}
		}
	}
}

func TestRegenerateUnlocked_AllLocked(t *testing.T) {
	entries := week(1, 2, 3, 4, 5, 6, 7)
	for i := range entries {
		entries[i].Locked = true
	}
	out, err := RegenerateUnlocked(entries, nil, seeded(1), PolicyDeprioritize)
	require.NoError(t, err)
	assert.Equal(t, entries, out)
}

func TestRegenerateUnlocked_FillsMissingDays(t *testing.T) {
	entries := []Entry{{DayOfWeek: 3, RecipeID: 9, Locked: true}}
	out, err := RegenerateUnlocked(entries, ids(10), seeded(2), PolicyDeprioritize)
	require.NoError(t, err)
	require.Len(t, out, DaysInWeek)
	assert.Equal(t, entries[0], out[2])
}

func TestRegenerateUnlocked_EmptyCatalog(t *testing.T) {
	_, err := RegenerateUnlocked(week(1, 2, 3, 4, 5, 6, 7), nil, seeded(1), PolicyDeprioritize)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestRegenerateUnlocked_SmallCatalogPolicies(t *testing.T) {
	entries := week(1, 2, 1, 2, 1, 2, 1)
	entries[0].Locked = true

	for seed := range uint64(30) {
		// Deprioritize still uses the locked recipe once every other one is
		// placed.
		out, err := RegenerateUnlocked(entries, []int64{1, 2}, seeded(seed), PolicyDeprioritize)
		require.NoError(t, err)
		assert.Equal(t, int64(2), out[1].RecipeID)
		assert.Equal(t, int64(1), out[2].RecipeID)

		// Exclude never uses it while an alternative exists.
		out, err = RegenerateUnlocked(entries, []int64{1, 2}, seeded(seed), PolicyExclude)
		require.NoError(t, err)
		for _, e := range out[1:] {
			assert.Equal(t, int64(2), e.RecipeID)
		}
	}
}

func TestRegenerateUnlocked_ExcludeFallsBackToCatalog(t *testing.T) {
	entries := week(1, 1, 1, 1, 1, 1, 1)
	entries[0].Locked = true

	out, err := RegenerateUnlocked(entries, []int64{1}, seeded(1), PolicyExclude)
	require.NoError(t, err)
	for _, e := range out {
		assert.Equal(t, int64(1), e.RecipeID)
	}
}

func TestParseLockedPolicy(t *testing.T) {
	p, err := ParseLockedPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyDeprioritize, p)

	p, err = ParseLockedPolicy(" Exclude ")
	require.NoError(t, err)
	assert.Equal(t, PolicyExclude, p)

	_, err = ParseLockedPolicy("ignore")
	assert.Error(t, err)
}
