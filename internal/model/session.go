package model

// TimeSlot is one session time on a date. Edited is set once the user commits a value.
type TimeSlot struct {
	Time     string `json:"time"`
	GroupKey string `json:"group_key"`
	Edited   bool   `json:"edited"`
}

// SessionDate is an ISO date with at least one slot.
type SessionDate struct {
	Date  string     `json:"date"`
	Slots []TimeSlot `json:"slots"`
}

func (d SessionDate) Clone() SessionDate {
	slots := make([]TimeSlot, len(d.Slots))
	copy(slots, d.Slots)
	return SessionDate{Date: d.Date, Slots: slots}
}
