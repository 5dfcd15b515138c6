package sessions

import (
	"sort"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"
	apperrors "github.com/Zxen1/Events-Platform-sub002/pkg/app_errors"

	"go.uber.org/zap"
)

// GroupKeySource supplies the ordered ticket group keys a slot may reference.
type GroupKeySource interface {
	GroupKeys() []string
}

// Store owns the session dates of one fieldset and its time-autofill state.
type Store struct {
	limits model.Limits
	keys   GroupKeySource
	dates  map[string]*model.SessionDate
	// firstGlobalEditDone[i] is set once a commit at slot index i has been
	// broadcast to every date.
	firstGlobalEditDone map[int]bool
	onChange            func()
	log                 *zap.Logger
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithOnChange(fn func()) Option {
	return func(s *Store) { s.onChange = fn }
}

func NewStore(keys GroupKeySource, limits model.Limits, opts ...Option) *Store {
	s := &Store{
		limits:              limits.Normalize(),
		keys:                keys,
		dates:               make(map[string]*model.SessionDate),
		firstGlobalEditDone: make(map[int]bool),
		log:                 zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dates returns the dates in ascending order.
func (s *Store) Dates() []string {
	out := make([]string, 0, len(s.dates))
	for date := range s.dates {
		out = append(out, date)
	}
	sort.Strings(out)
	return out
}

// Date returns a copy of one date.
func (s *Store) Date(date string) (model.SessionDate, error) {
	d, err := s.find(date)
	if err != nil {
		return model.SessionDate{}, err
	}
	return d.Clone(), nil
}

// Sessions returns copies of every date in ascending order.
func (s *Store) Sessions() []model.SessionDate {
	out := make([]model.SessionDate, 0, len(s.dates))
	for _, date := range s.Dates() {
		out = append(out, s.dates[date].Clone())
	}
	return out
}

// ToggleDate adds the date with one autofilled slot, or removes it with all
// its slots. It reports whether the date is now present.
func (s *Store) ToggleDate(date string) (bool, error) {
	canonical, _, ok := ParseDate(date)
	if !ok {
		return false, apperrors.ErrInvalidDate
	}
	if _, exists := s.dates[canonical]; exists {
		delete(s.dates, canonical)
		s.notify()
		return false, nil
	}
	s.dates[canonical] = &model.SessionDate{
		Date: canonical,
		Slots: []model.TimeSlot{{
			Time:     s.AutofillForSlot(canonical, 0),
			GroupKey: s.firstKey(),
		}},
	}
	s.notify()
	return true, nil
}

// SetSlotTime commits a time, propagates it to other dates and re-sorts every
// date it touched. Invalid times are committed as "". It returns the touched dates.
func (s *Store) SetSlotTime(date string, index int, value string) ([]string, error) {
	d, err := s.slotDate(date, index)
	if err != nil {
		return nil, err
	}
	committed := NormalizeTime(value)
	d.Slots[index].Time = committed
	d.Slots[index].Edited = true

	touched := []string{d.Date}
	if committed != "" {
		touched = append(touched, s.propagate(d.Date, index, committed)...)
	}
	for _, t := range touched {
		SortSlots(s.dates[t].Slots)
	}
	s.notify()
	return touched, nil
}

// propagate applies the two-phase rule: the first commit at an index reaches
// every date, later ones only dates on the same weekday. Edited slots are
// never overwritten.
func (s *Store) propagate(date string, index int, value string) []string {
	global := !s.firstGlobalEditDone[index]
	s.firstGlobalEditDone[index] = true
	weekday := weekdayOf(date)

	touched := make([]string, 0)
	for _, other := range s.Dates() {
		if other == date {
			continue
		}
		if !global && weekdayOf(other) != weekday {
			continue
		}
		od := s.dates[other]
		if index >= len(od.Slots) || od.Slots[index].Edited {
			continue
		}
		od.Slots[index].Time = value
		touched = append(touched, other)
	}
	s.log.Debug("slot time propagated",
		zap.String("date", date), zap.Int("index", index), zap.Bool("global", global), zap.Strings("touched", touched))
	return touched
}

// AutofillForSlot suggests a time for a new slot at index on date: first from
// a same-weekday date, then from any date, else "".
func (s *Store) AutofillForSlot(date string, index int) string {
	weekday := weekdayOf(date)
	fallback := ""
	for _, other := range s.Dates() {
		if other == date {
			continue
		}
		od := s.dates[other]
		if index >= len(od.Slots) {
			continue
		}
		t := od.Slots[index].Time
		if _, ok := ParseMinutes(t); !ok {
			continue
		}
		if weekdayOf(other) == weekday {
			return t
		}
		if fallback == "" {
			fallback = t
		}
	}
	return fallback
}

// SortDate re-sorts one date's slots.
func (s *Store) SortDate(date string) error {
	d, err := s.find(date)
	if err != nil {
		return err
	}
	SortSlots(d.Slots)
	return nil
}

// SetSlotGroup assigns a slot to a ticket group. No time propagation happens.
func (s *Store) SetSlotGroup(date string, index int, key string) error {
	d, err := s.slotDate(date, index)
	if err != nil {
		return err
	}
	if !s.validKey(key) {
		return apperrors.ErrUnknownGroupKey
	}
	d.Slots[index].GroupKey = key
	s.notify()
	return nil
}

// InsertSlot adds a slot after index, inheriting that slot's group and an
// autofilled time. At capacity it does nothing and reports false.
func (s *Store) InsertSlot(date string, index int) (bool, error) {
	d, err := s.slotDate(date, index)
	if err != nil {
		return false, err
	}
	if len(d.Slots) >= s.limits.MaxSlots {
		s.log.Debug("slot capacity reached", zap.String("date", d.Date), zap.Int("max_slots", s.limits.MaxSlots))
		return false, nil
	}
	slot := model.TimeSlot{
		Time:     s.AutofillForSlot(d.Date, index+1),
		GroupKey: d.Slots[index].GroupKey,
	}
	d.Slots = append(d.Slots, model.TimeSlot{})
	copy(d.Slots[index+2:], d.Slots[index+1:])
	d.Slots[index+1] = slot
	SortSlots(d.Slots)
	s.notify()
	return true, nil
}

// RemoveSlot deletes a slot; the only slot of a date is cleared instead.
func (s *Store) RemoveSlot(date string, index int) error {
	d, err := s.slotDate(date, index)
	if err != nil {
		return err
	}
	if len(d.Slots) == 1 {
		d.Slots[0].Time = ""
		d.Slots[0].Edited = false
	} else {
		d.Slots = append(d.Slots[:index], d.Slots[index+1:]...)
	}
	s.notify()
	return nil
}

// RemapGroupKeys moves slots through a group relabel mapping. Slots whose
// group has no entry, i.e. was removed, move to the first current group.
func (s *Store) RemapGroupKeys(mapping map[string]string) {
	first := s.firstKey()
	changed := 0
	for _, d := range s.dates {
		for i := range d.Slots {
			next, ok := mapping[d.Slots[i].GroupKey]
			if !ok {
				next = first
			}
			if next != d.Slots[i].GroupKey {
				d.Slots[i].GroupKey = next
				changed++
			}
		}
	}
	if changed > 0 {
		s.log.Debug("slot group keys remapped", zap.Int("slots", changed))
		s.notify()
	}
}

// ClampGroupKeys moves slots referencing unknown groups to the first group.
func (s *Store) ClampGroupKeys() {
	first := s.firstKey()
	for _, d := range s.dates {
		for i := range d.Slots {
			if !s.validKey(d.Slots[i].GroupKey) {
				d.Slots[i].GroupKey = first
			}
		}
	}
}

// FirstGlobalEditDone lists the slot indexes whose global broadcast is spent.
func (s *Store) FirstGlobalEditDone() []int {
	out := make([]int, 0, len(s.firstGlobalEditDone))
	for i, done := range s.firstGlobalEditDone {
		if done {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

func (s *Store) RestoreFirstGlobalEditDone(indexes []int) {
	s.firstGlobalEditDone = make(map[int]bool, len(indexes))
	for _, i := range indexes {
		if i >= 0 {
			s.firstGlobalEditDone[i] = true
		}
	}
}

// EditedSlots returns the edited flag of every slot, per date.
func (s *Store) EditedSlots() map[string][]bool {
	out := make(map[string][]bool, len(s.dates))
	for date, d := range s.dates {
		flags := make([]bool, len(d.Slots))
		for i, slot := range d.Slots {
			flags[i] = slot.Edited
		}
		out[date] = flags
	}
	return out
}

// RestoreEditedSlots reapplies edited flags; dates or indexes that no longer exist are ignored.
func (s *Store) RestoreEditedSlots(flags map[string][]bool) {
	for date, d := range s.dates {
		saved := flags[date]
		for i := range d.Slots {
			d.Slots[i].Edited = i < len(saved) && saved[i]
		}
	}
}

func (s *Store) firstKey() string {
	if s.keys != nil {
		if keys := s.keys.GroupKeys(); len(keys) > 0 {
			return keys[0]
		}
	}
	return "A"
}

func (s *Store) validKey(key string) bool {
	if s.keys == nil {
		return key == "A"
	}
	for _, k := range s.keys.GroupKeys() {
		if k == key {
			return true
		}
	}
	return false
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Store) find(date string) (*model.SessionDate, error) {
	canonical, _, ok := ParseDate(date)
	if !ok {
		return nil, apperrors.ErrInvalidDate
	}
	d, ok := s.dates[canonical]
	if !ok {
		return nil, apperrors.ErrDateNotFound
	}
	return d, nil
}

func (s *Store) slotDate(date string, index int) (*model.SessionDate, error) {
	d, err := s.find(date)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(d.Slots) {
		return nil, apperrors.ErrSlotNotFound
	}
	return d, nil
}
