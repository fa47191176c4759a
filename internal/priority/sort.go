package priority

import (
	"math"
	"sort"

	"github.com/cesargomez89/ingestq/internal/domain"
)

// Sort returns the slots in canonical order: priority ascending with 0 last,
// then pending before processing (any other status after both), then
// updated-by-operator before not updated. Ties keep their input order.
func Sort(slots []Slot) []Slot {
	sorted := make([]Slot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}

func less(a, b Slot) bool {
	if pa, pb := priorityRank(a.Priority), priorityRank(b.Priority); pa != pb {
		return pa < pb
	}
	if sa, sb := statusRank(a.Status), statusRank(b.Status); sa != sb {
		return sa < sb
	}
	return flagRank(a.Updated) < flagRank(b.Updated)
}

func priorityRank(p int) int {
	if p == 0 {
		return math.MaxInt
	}
	return p
}

func statusRank(s domain.LiveStatus) int {
	switch s {
	case domain.LiveStatusAssignPriorityPending:
		return 0
	case domain.LiveStatusProcessing:
		return 1
	default:
		return 2
	}
}

func flagRank(f domain.Flag) int {
	if f == domain.FlagYes {
		return 0
	}
	return 1
}
