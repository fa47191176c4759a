package priority

import (
	"sort"

	"github.com/cesargomez89/ingestq/internal/domain"
)

// Change is the write needed for one configuration whose priority moved.
type Change struct {
	OldStatus   domain.LiveStatus `json:"old_status"`
	NewStatus   domain.LiveStatus `json:"new_status"`
	OldUpdated  domain.Flag       `json:"old_priority_updated"`
	NewUpdated  domain.Flag       `json:"new_priority_updated"`
	ConfigID    int64             `json:"config_id"`
	OldPriority int               `json:"old_priority"`
	NewPriority int               `json:"new_priority"`
}

// Diff compares the slots read from the store with the renumbered ones and
// returns a Change for every configuration whose priority differs, ordered by
// config id. Configurations keeping their priority produce nothing.
func Diff(before, after []Slot) []Change {
	next := make(map[int64]int, len(after))
	for _, s := range after {
		next[s.ConfigID] = s.Priority
	}

	var changes []Change
	for _, old := range before {
		np, ok := next[old.ConfigID]
		if !ok || np == old.Priority {
			continue
		}
		changes = append(changes, Change{
			ConfigID:    old.ConfigID,
			OldPriority: old.Priority,
			NewPriority: np,
			OldStatus:   old.Status,
			NewStatus:   NextStatus(old.Status),
			OldUpdated:  old.Updated,
			NewUpdated:  domain.FlagNo,
		})
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].ConfigID < changes[j].ConfigID })
	return changes
}

// NextStatus is the status a configuration moves to once it holds a final
// priority. Only pending configurations advance; the fetch worker owns the rest.
func NextStatus(s domain.LiveStatus) domain.LiveStatus {
	if s == domain.LiveStatusAssignPriorityPending {
		return domain.LiveStatusProcessing
	}
	return s
}
