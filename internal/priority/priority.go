// Package priority holds the pure parts of priority reconciliation: duplicate
// detection, the uniqueness check, the canonical ordering, dense renumbering
// and the before/after diff. Nothing here touches the store.
package priority

import "github.com/cesargomez89/ingestq/internal/domain"

// Slot is the scheduling state of one active configuration.
type Slot struct {
	Status   domain.LiveStatus
	Updated  domain.Flag
	ConfigID int64
	Priority int
}

// SlotOf extracts the scheduling state of a configuration.
func SlotOf(c *domain.QueueConfiguration) Slot {
	return Slot{
		ConfigID: c.ID,
		Priority: c.Priority,
		Status:   c.LiveStatus,
		Updated:  c.PriorityUpdated,
	}
}

// Slots returns the slots of the active configurations, in input order.
func Slots(configs []*domain.QueueConfiguration) []Slot {
	slots := make([]Slot, 0, len(configs))
	for _, c := range configs {
		if !c.IsActive() {
			continue
		}
		slots = append(slots, SlotOf(c))
	}
	return slots
}
