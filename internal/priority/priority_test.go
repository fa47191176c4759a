package priority

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/ingestq/internal/domain"
)

func slot(id int64, p int, st domain.LiveStatus, upd domain.Flag) Slot {
	return Slot{ConfigID: id, Priority: p, Status: st, Updated: upd}
}

func processing(id int64, p int) Slot {
	return slot(id, p, domain.LiveStatusProcessing, domain.FlagNo)
}

func ids(slots []Slot) []int64 {
	out := make([]int64, len(slots))
	for i, s := range slots {
		out[i] = s.ConfigID
	}
	return out
}

func priorities(slots []Slot) map[int64]int {
	out := make(map[int64]int, len(slots))
	for _, s := range slots {
		out[s.ConfigID] = s.Priority
	}
	return out
}

func renumber(t *testing.T, slots []Slot) []Slot {
	t.Helper()
	assigned, err := Assign(Sort(slots), len(slots))
	require.NoError(t, err)
	return assigned
}

func TestUnique(t *testing.T) {
	assert.True(t, Unique(nil))
	assert.True(t, Unique([]Slot{processing(1, 1), processing(2, 2)}))
	assert.False(t, Unique([]Slot{processing(1, 2), processing(2, 2)}))
	assert.False(t, Unique([]Slot{processing(1, 0), processing(2, 0)}))
	assert.True(t, Unique([]Slot{processing(1, 0), processing(2, 1)}))
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		name  string
		slots []Slot
		want  bool
	}{
		{"empty", nil, true},
		{"dense", []Slot{processing(1, 2), processing(2, 1), processing(3, 3)}, true},
		{"gap", []Slot{processing(1, 1), processing(2, 3), processing(3, 4)}, false},
		{"zero", []Slot{processing(1, 0), processing(2, 1)}, false},
		{"collision", []Slot{processing(1, 1), processing(2, 1)}, false},
		{"beyond count", []Slot{processing(1, 1), processing(2, 7)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.slots))
		})
	}
}

func TestSort_ZeroSortsLast(t *testing.T) {
	slots := []Slot{processing(10, 0), processing(11, 1), processing(12, 2)}

	sorted := Sort(slots)
	assert.Equal(t, []int64{11, 12, 10}, ids(sorted))

	assigned := renumber(t, slots)
	assert.Equal(t, map[int64]int{11: 1, 12: 2, 10: 3}, priorities(assigned))
}

func TestSort_TieBreakers(t *testing.T) {
	slots := []Slot{
		slot(1, 2, domain.LiveStatusProcessing, domain.FlagNo),
		slot(2, 2, domain.LiveStatusProcessing, domain.FlagYes),
		slot(3, 2, domain.LiveStatusAssignPriorityPending, domain.FlagNo),
		slot(4, 2, domain.LiveStatusFetched, domain.FlagYes),
		slot(5, 1, domain.LiveStatusError, domain.FlagNo),
	}

	assert.Equal(t, []int64{5, 3, 2, 1, 4}, ids(Sort(slots)))
}

func TestSort_StableAndPure(t *testing.T) {
	slots := []Slot{processing(3, 1), processing(1, 1), processing(2, 1)}

	sorted := Sort(slots)
	assert.Equal(t, []int64{3, 1, 2}, ids(sorted))
	assert.Equal(t, []int64{3, 1, 2}, ids(slots), "input must not be reordered")
}

func TestAssign_ConsistencyError(t *testing.T) {
	_, err := Assign([]Slot{processing(1, 5), processing(2, 6)}, 3)

	var ce *domain.ConsistencyError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 3, ce.Expected)
	assert.Equal(t, 2, ce.MaxAssigned)
}

func TestAssign_Empty(t *testing.T) {
	assigned, err := Assign(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, assigned)
}

func TestRenumber_GapClosure(t *testing.T) {
	// priority 2 was removed
	slots := []Slot{processing(1, 1), processing(3, 3), processing(4, 4)}

	assigned := renumber(t, slots)
	assert.Equal(t, map[int64]int{1: 1, 3: 2, 4: 3}, priorities(assigned))

	changes := Diff(slots, assigned)
	require.Len(t, changes, 2)
	assert.Equal(t, int64(3), changes[0].ConfigID)
	assert.Equal(t, 3, changes[0].OldPriority)
	assert.Equal(t, 2, changes[0].NewPriority)
	assert.Equal(t, int64(4), changes[1].ConfigID)
}

func TestRenumber_CollisionOnEdit(t *testing.T) {
	// A was edited from 1 to 2 and now collides with B.
	a := slot(1, 2, domain.LiveStatusProcessing, domain.FlagYes)
	b := slot(2, 2, domain.LiveStatusProcessing, domain.FlagNo)
	before := []Slot{a, b}

	after := renumber(t, before)
	assert.Equal(t, map[int64]int{1: 1, 2: 2}, priorities(after))

	changes := Diff(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, int64(1), changes[0].ConfigID)
	assert.Equal(t, domain.FlagNo, changes[0].NewUpdated)
	assert.Equal(t, domain.FlagYes, changes[0].OldUpdated)
}

func TestDiff_StatusTransitions(t *testing.T) {
	before := []Slot{
		slot(1, 0, domain.LiveStatusAssignPriorityPending, domain.FlagNo),
		slot(2, 0, domain.LiveStatusFetched, domain.FlagNo),
		slot(3, 0, domain.LiveStatusError, domain.FlagYes),
	}
	changes := Diff(before, renumber(t, before))
	require.Len(t, changes, 3)

	assert.Equal(t, domain.LiveStatusProcessing, changes[0].NewStatus)
	assert.Equal(t, domain.LiveStatusFetched, changes[1].NewStatus)
	assert.Equal(t, domain.LiveStatusError, changes[2].NewStatus)
}

func TestDiff_UnchangedProducesNothing(t *testing.T) {
	slots := []Slot{processing(1, 1), processing(2, 2), processing(3, 3)}
	assert.Empty(t, Diff(slots, renumber(t, slots)))
}

func TestRenumber_AlwaysDense(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	statuses := []domain.LiveStatus{
		domain.LiveStatusAssignPriorityPending,
		domain.LiveStatusProcessing,
		domain.LiveStatusFetched,
		domain.LiveStatusError,
	}

	for round := 0; round < 200; round++ {
		n := rng.Intn(25)
		slots := make([]Slot, n)
		for i := range slots {
			slots[i] = slot(int64(i+1), rng.Intn(6), statuses[rng.Intn(len(statuses))], domain.FlagOf(rng.Intn(2) == 0))
		}

		after := renumber(t, slots)
		require.True(t, Canonical(after), "round %d produced non-canonical priorities", round)

		// a second renumbering of the result changes nothing
		again := renumber(t, after)
		require.Empty(t, Diff(after, again), "round %d is not idempotent", round)
	}
}
