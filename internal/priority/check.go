package priority

// Unique reports whether no two slots share a priority. Zero is compared like
// any other value.
func Unique(slots []Slot) bool {
	seen := make(map[int]struct{}, len(slots))
	for _, s := range slots {
		if _, ok := seen[s.Priority]; ok {
			return false
		}
		seen[s.Priority] = struct{}{}
	}
	return true
}

// Dense reports whether every priority lies in 1..len(slots).
// Together with Unique this means the slots hold exactly {1..N}.
func Dense(slots []Slot) bool {
	for _, s := range slots {
		if s.Priority < 1 || s.Priority > len(slots) {
			return false
		}
	}
	return true
}

// Canonical reports whether the slots already hold the priorities a
// renumbering would converge to as a set, so no renumbering is needed.
func Canonical(slots []Slot) bool {
	return Unique(slots) && Dense(slots)
}
