package priority

import "github.com/cesargomez89/ingestq/internal/domain"

// Assign renumbers sorted slots to 1..N in order and checks that the highest
// assigned priority equals expected, the number of active configurations the
// caller read. A mismatch is a *domain.ConsistencyError.
func Assign(sorted []Slot, expected int) ([]Slot, error) {
	assigned := make([]Slot, len(sorted))
	maxAssigned := 0
	for i, s := range sorted {
		s.Priority = i + 1
		assigned[i] = s
		if s.Priority > maxAssigned {
			maxAssigned = s.Priority
		}
	}

	if maxAssigned != expected {
		return nil, &domain.ConsistencyError{Expected: expected, MaxAssigned: maxAssigned}
	}
	return assigned, nil
}
