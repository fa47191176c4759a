package priority

import (
	"sort"

	"github.com/cesargomez89/ingestq/internal/domain"
)

// DuplicatePair links a configuration to the older active configuration it repeats.
type DuplicatePair struct {
	KeptID      int64 `json:"kept_id"`
	DuplicateID int64 `json:"duplicate_id"`
}

// Err returns the soft error describing the pair.
func (p DuplicatePair) Err() *domain.DuplicateConfigError {
	return &domain.DuplicateConfigError{KeptID: p.KeptID, DuplicateID: p.DuplicateID}
}

// FindDuplicates returns one pair per active configuration whose
// (source, script, query) key is held by an active configuration with a
// smaller id. The kept configuration of a key is always its smallest active id.
// Pairs are ordered by DuplicateID.
func FindDuplicates(configs []*domain.QueueConfiguration) []DuplicatePair {
	kept := make(map[domain.DedupKey]int64)
	for _, c := range configs {
		if !c.IsActive() {
			continue
		}
		key := c.DedupKey()
		if id, ok := kept[key]; !ok || c.ID < id {
			kept[key] = c.ID
		}
	}

	var pairs []DuplicatePair
	for _, c := range configs {
		if !c.IsActive() {
			continue
		}
		if id := kept[c.DedupKey()]; id != c.ID {
			pairs = append(pairs, DuplicatePair{KeptID: id, DuplicateID: c.ID})
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].DuplicateID < pairs[j].DuplicateID })
	return pairs
}
