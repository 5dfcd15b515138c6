package sessions

import (
	"bytes"
	"encoding/json"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"

	"go.uber.org/zap"
)

// ToSessions renders every date in ascending order.
func (s *Store) ToSessions() model.SessionsValue {
	value := model.SessionsValue{Sessions: make([]model.SessionValue, 0, len(s.dates))}
	for _, date := range s.Dates() {
		d := s.dates[date]
		sv := model.SessionValue{Date: d.Date, Times: make([]model.SlotValue, len(d.Slots))}
		for i, slot := range d.Slots {
			sv.Times[i] = model.SlotValue{Time: slot.Time, TicketGroupKey: slot.GroupKey}
		}
		value.Sessions = append(value.Sessions, sv)
	}
	return value
}

// FromSessions replaces every date with the saved ones. Invalid or duplicate
// dates are skipped, invalid times become "", unknown group keys fall back to
// the first group. Saved non-empty times count as committed.
func (s *Store) FromSessions(value model.SessionsValue) {
	s.dates = make(map[string]*model.SessionDate, len(value.Sessions))
	s.firstGlobalEditDone = make(map[int]bool)

	for _, sv := range value.Sessions {
		canonical, _, ok := ParseDate(sv.Date)
		if !ok {
			s.log.Debug("skipping saved session with invalid date", zap.String("date", sv.Date))
			continue
		}
		if _, dup := s.dates[canonical]; dup {
			s.log.Debug("skipping duplicate saved session", zap.String("date", canonical))
			continue
		}
		d := &model.SessionDate{Date: canonical}
		for _, tv := range sv.Times {
			if len(d.Slots) >= s.limits.MaxSlots {
				break
			}
			t := NormalizeTime(tv.Time)
			key := tv.TicketGroupKey
			if !s.validKey(key) {
				key = s.firstKey()
			}
			d.Slots = append(d.Slots, model.TimeSlot{Time: t, GroupKey: key, Edited: t != ""})
		}
		if len(d.Slots) == 0 {
			d.Slots = []model.TimeSlot{{GroupKey: s.firstKey()}}
		}
		SortSlots(d.Slots)
		for i, slot := range d.Slots {
			if slot.Edited {
				s.firstGlobalEditDone[i] = true
			}
		}
		s.dates[canonical] = d
	}
	s.notify()
}

// DecodeSessions reads a saved sessions blob leniently, counting skipped entries.
func DecodeSessions(data []byte) (model.SessionsValue, int) {
	value := model.SessionsValue{Sessions: make([]model.SessionValue, 0)}
	skipped := 0

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return value, 1
	}
	raw, ok := top["sessions"]
	if !ok {
		return value, 0
	}
	var entries []json.RawMessage
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) || json.Unmarshal(raw, &entries) != nil {
		return value, 1
	}
	for _, e := range entries {
		var entry struct {
			Date  *string           `json:"date"`
			Times []json.RawMessage `json:"times"`
		}
		if !bytes.HasPrefix(bytes.TrimSpace(e), []byte("{")) || json.Unmarshal(e, &entry) != nil ||
			entry.Date == nil || entry.Times == nil {
			skipped++
			continue
		}
		sv := model.SessionValue{Date: *entry.Date, Times: make([]model.SlotValue, 0, len(entry.Times))}
		for _, t := range entry.Times {
			var slot model.SlotValue
			if !bytes.HasPrefix(bytes.TrimSpace(t), []byte("{")) || json.Unmarshal(t, &slot) != nil {
				skipped++
				continue
			}
			sv.Times = append(sv.Times, slot)
		}
		value.Sessions = append(value.Sessions, sv)
	}
	return value, skipped
}
