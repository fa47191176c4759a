package priority

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/ingestq/internal/domain"
)

func cfg(id, source, script int64, query string, active bool) *domain.QueueConfiguration {
	return &domain.QueueConfiguration{
		ID:          id,
		SourceID:    source,
		ScriptID:    script,
		QueryString: query,
		Active:      domain.FlagOf(active),
	}
}

func TestFindDuplicates_CaseInsensitive(t *testing.T) {
	configs := []*domain.QueueConfiguration{
		cfg(1, 1, 1, "SELECT 1", true),
		cfg(2, 1, 1, "select 1", true),
	}

	pairs := FindDuplicates(configs)
	require.Len(t, pairs, 1)
	assert.Equal(t, DuplicatePair{KeptID: 1, DuplicateID: 2}, pairs[0])
}

func TestFindDuplicates_KeepsSmallestID(t *testing.T) {
	// store order is not id order
	configs := []*domain.QueueConfiguration{
		cfg(9, 1, 1, "q", true),
		cfg(4, 1, 1, "Q", true),
		cfg(7, 1, 1, "q", true),
	}

	pairs := FindDuplicates(configs)
	assert.Equal(t, []DuplicatePair{
		{KeptID: 4, DuplicateID: 7},
		{KeptID: 4, DuplicateID: 9},
	}, pairs)
}

func TestFindDuplicates_IgnoresInactive(t *testing.T) {
	configs := []*domain.QueueConfiguration{
		cfg(1, 1, 1, "q", false),
		cfg(2, 1, 1, "q", true),
		cfg(3, 1, 1, "q", false),
	}

	assert.Empty(t, FindDuplicates(configs))
}

func TestFindDuplicates_DistinctKeys(t *testing.T) {
	configs := []*domain.QueueConfiguration{
		cfg(1, 1, 1, "q", true),
		cfg(2, 2, 1, "q", true),
		cfg(3, 1, 2, "q", true),
		cfg(4, 1, 1, "q2", true),
	}

	assert.Empty(t, FindDuplicates(configs))
}

func TestDuplicatePair_Err(t *testing.T) {
	err := DuplicatePair{KeptID: 3, DuplicateID: 8}.Err()
	assert.Equal(t, int64(3), err.KeptID)
	assert.Equal(t, int64(8), err.DuplicateID)
}

func TestSlots_SkipsInactive(t *testing.T) {
	configs := []*domain.QueueConfiguration{
		{ID: 1, Priority: 2, Active: domain.FlagYes, LiveStatus: domain.LiveStatusProcessing, PriorityUpdated: domain.FlagNo},
		{ID: 2, Priority: 1, Active: domain.FlagNo, LiveStatus: domain.LiveStatusProcessing, PriorityUpdated: domain.FlagNo},
	}

	slots := Slots(configs)
	require.Len(t, slots, 1)
	assert.Equal(t, int64(1), slots[0].ConfigID)
	assert.Equal(t, 2, slots[0].Priority)
}
