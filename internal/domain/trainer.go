package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AvailabilityEntry is one day of a trainer's declared bookable time slots.
// Date and slots are free-form strings (e.g. "2025-03-14", "09:00-10:00").
type AvailabilityEntry struct {
	Date  string   `bson:"date" json:"date"`
	Slots []string `bson:"slots" json:"slots"`
}

// Trainer is the trainer profile attached 1:1 to a User with role trainer.
type Trainer struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID  `bson:"userId" json:"userId"`
	Availability []AvailabilityEntry `bson:"availability" json:"availability"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// AddSlot merges slot into the entry for date, creating the entry when the date
// is not present yet. A slot already listed for the date is not added twice.
// Returns the new list; the input slice is not modified.
func AddSlot(availability []AvailabilityEntry, date, slot string) []AvailabilityEntry {
	out := cloneAvailability(availability)
	for i := range out {
		if out[i].Date != date {
			continue
		}
		for _, s := range out[i].Slots {
			if s == slot {
				return out
			}
		}
		out[i].Slots = append(out[i].Slots, slot)
		return out
	}
	return append(out, AvailabilityEntry{Date: date, Slots: []string{slot}})
}

// RemoveSlot drops slot from every entry for date. Entries left without slots are removed.
func RemoveSlot(availability []AvailabilityEntry, date, slot string) []AvailabilityEntry {
	out := make([]AvailabilityEntry, 0, len(availability))
	for _, entry := range cloneAvailability(availability) {
		if entry.Date == date {
			kept := entry.Slots[:0]
			for _, s := range entry.Slots {
				if s != slot {
					kept = append(kept, s)
				}
			}
			if len(kept) == 0 {
				continue
			}
			entry.Slots = kept
		}
		out = append(out, entry)
	}
	return out
}

func cloneAvailability(in []AvailabilityEntry) []AvailabilityEntry {
	out := make([]AvailabilityEntry, len(in))
	for i, entry := range in {
		out[i] = AvailabilityEntry{Date: entry.Date, Slots: append([]string(nil), entry.Slots...)}
	}
	return out
}
