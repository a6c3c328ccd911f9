package models

// Recordable is implemented by entities whose lifecycle events are written
// to the activity feed. Each type declares the events it wants recorded.
type Recordable interface {
	RecordableEvents() []ActivityEvent
	ActivitySubject() Subject
	// ActivityProjectID is the project the activity is filed under.
	ActivityProjectID() uint
}

// Records reports whether r declared event as recordable.
func Records(r Recordable, event ActivityEvent) bool {
	for _, e := range r.RecordableEvents() {
		if e == event {
			return true
		}
	}
	return false
}
