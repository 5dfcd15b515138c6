package sessions

import (
	"testing"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"
	apperrors "github.com/Zxen1/Events-Platform-sub002/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticKeys []string

func (k staticKeys) GroupKeys() []string { return k }

func newTestStore(t *testing.T, dates ...string) *Store {
	t.Helper()
	s := NewStore(staticKeys{"A", "B", "C"}, model.DefaultLimits())
	for _, d := range dates {
		added, err := s.ToggleDate(d)
		require.NoError(t, err)
		require.True(t, added)
	}
	return s
}

func slotTime(t *testing.T, s *Store, date string, index int) string {
	t.Helper()
	d, err := s.Date(date)
	require.NoError(t, err)
	require.Greater(t, len(d.Slots), index)
	return d.Slots[index].Time
}

func TestStore_ToggleDate(t *testing.T) {
	t.Run("Success - adds one empty slot on first group", func(t *testing.T) {
		s := newTestStore(t, "2024-01-01")

		d, err := s.Date("2024-01-01")

		require.NoError(t, err)
		assert.Equal(t, []model.TimeSlot{{Time: "", GroupKey: "A"}}, d.Slots)
	})

	t.Run("Success - second toggle removes the date", func(t *testing.T) {
		s := newTestStore(t, "2024-01-01")

		added, err := s.ToggleDate("2024-01-01")

		require.NoError(t, err)
		assert.False(t, added)
		assert.Empty(t, s.Dates())
	})

	t.Run("Success - new date seeded from same weekday first", func(t *testing.T) {
		s := newTestStore(t, "2024-01-01", "2024-01-02")
		_, err := s.SetSlotTime("2024-01-01", 0, "09:00")
		require.NoError(t, err)
		_, err = s.SetSlotTime("2024-01-02", 0, "18:30")
		require.NoError(t, err)

		_, err = s.ToggleDate("2024-01-09") // Tuesday

		require.NoError(t, err)
		d, _ := s.Date("2024-01-09")
		assert.Equal(t, "18:30", d.Slots[0].Time)
		assert.False(t, d.Slots[0].Edited)
	})

	t.Run("Success - dates stay sorted", func(t *testing.T) {
		s := newTestStore(t, "2024-03-01", "2024-01-15", "2024-02-10")

		assert.Equal(t, []string{"2024-01-15", "2024-02-10", "2024-03-01"}, s.Dates())
	})

	t.Run("Failed - invalid date", func(t *testing.T) {
		s := newTestStore(t)

		_, err := s.ToggleDate("2024-13-01")

		assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
	})
}

func TestStore_SetSlotTime_TwoPhasePropagation(t *testing.T) {
	// 2024-01-01 and 2024-01-08 are Mondays, 2024-01-02 is a Tuesday.
	s := newTestStore(t, "2024-01-01", "2024-01-08", "2024-01-02")

	touched, err := s.SetSlotTime("2024-01-01", 0, "09:00")

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2024-01-01", "2024-01-02", "2024-01-08"}, touched)
	assert.Equal(t, "09:00", slotTime(t, s, "2024-01-01", 0))
	assert.Equal(t, "09:00", slotTime(t, s, "2024-01-08", 0))
	assert.Equal(t, "09:00", slotTime(t, s, "2024-01-02", 0))

	_, err = s.SetSlotTime("2024-01-02", 0, "10:00")

	require.NoError(t, err)
	assert.Equal(t, "10:00", slotTime(t, s, "2024-01-02", 0))
	assert.Equal(t, "09:00", slotTime(t, s, "2024-01-01", 0))
	assert.Equal(t, "09:00", slotTime(t, s, "2024-01-08", 0))
}

func TestStore_SetSlotTime(t *testing.T) {
	t.Run("Success - weekday phase reaches unedited same weekday", func(t *testing.T) {
		s := newTestStore(t, "2024-01-01", "2024-01-08", "2024-01-15")
		_, _ = s.SetSlotTime("2024-01-01", 0, "09:00")

		_, err := s.SetSlotTime("2024-01-08", 0, "11:00")

		require.NoError(t, err)
		assert.Equal(t, "09:00", slotTime(t, s, "2024-01-01", 0))
		assert.Equal(t, "11:00", slotTime(t, s, "2024-01-15", 0))
	})

	t.Run("Success - edited slots are never overwritten", func(t *testing.T) {
		s := newTestStore(t, "2024-01-01", "2024-01-02")
		_, _ = s.SetSlotTime("2024-01-02", 0, "20:00")
		_, _ = s.SetSlotTime("2024-01-01", 0, "09:00")

		assert.Equal(t, "20:00", slotTime(t, s, "2024-01-02", 0))
	})

	t.Run("Success - phase is tracked per index", func(t *testing.T) {
		s := newTestStore(t, "2024-01-01", "2024-01-02")
		_, _ = s.SetSlotTime("2024-01-01", 0, "09:00")
		ok, err := s.InsertSlot("2024-01-01", 0)
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = s.InsertSlot("2024-01-02", 0)
		require.NoError(t, err)
		require.True(t, ok)

		_, err = s.SetSlotTime("2024-01-01", 1, "21:00")

		require.NoError(t, err)
		assert.Equal(t, "21:00", slotTime(t, s, "2024-01-02", 1))
		assert.Equal(t, []int{0, 1}, s.FirstGlobalEditDone())
	})

	t.Run("Success - invalid time committed as empty without propagation", func(t *testing.T) {
		s := newTestStore(t, "2024-01-01", "2024-01-02")

		touched, err := s.SetSlotTime("2024-01-01", 0, "25:00")

		require.NoError(t, err)
		assert.Equal(t, []string{"2024-01-01"}, touched)
		d, _ := s.Date("2024-01-01")
		assert.Equal(t, model.TimeSlot{Time: "", GroupKey: "A", Edited: true}, d.Slots[0])
		assert.Empty(t, s.FirstGlobalEditDone())
	})

	t.Run("Success - edited date is re-sorted", func(t *testing.T) {
		s := newTestStore(t, "2024-01-01")
		_, _ = s.SetSlotTime("2024-01-01", 0, "10:00")
		_, _ = s.InsertSlot("2024-01-01", 0)
		require.NoError(t, s.SetSlotGroup("2024-01-01", 1, "B"))

		_, err := s.SetSlotTime("2024-01-01", 1, "08:00")

		require.NoError(t, err)
		d, _ := s.Date("2024-01-01")
		assert.Equal(t, []model.TimeSlot{
			{Time: "08:00", GroupKey: "B", Edited: true},
			{Time: "10:00", GroupKey: "A", Edited: true},
		}, d.Slots)
	})

	t.Run("Failed - unknown date or index", func(t *testing.T) {
		s := newTestStore(t, "2024-01-01")

		_, err := s.SetSlotTime("2024-02-01", 0, "10:00")
		assert.ErrorIs(t, err, apperrors.ErrDateNotFound)

		_, err = s.SetSlotTime("2024-01-01", 3, "10:00")
		assert.ErrorIs(t, err, apperrors.ErrSlotNotFound)
	})
}

func TestSortSlots(t *testing.T) {
	slots := []model.TimeSlot{
		{Time: "14:00", GroupKey: "A", Edited: true},
		{Time: "", GroupKey: "B"},
		{Time: "09:00", GroupKey: "C", Edited: true},
		{Time: "9:00", GroupKey: "A"},
		{Time: "14:00", GroupKey: "C"},
	}

	SortSlots(slots)

	assert.Equal(t, []model.TimeSlot{
		{Time: "09:00", GroupKey: "C", Edited: true},
		{Time: "14:00", GroupKey: "A", Edited: true},
		{Time: "14:00", GroupKey: "C"},
		{Time: "", GroupKey: "B"},
		{Time: "9:00", GroupKey: "A"},
	}, slots)
}

func TestParseMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"9:30", 0, false},
		{"", 0, false},
		{"ab:cd", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseMinutes(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestStore_AutofillForSlot(t *testing.T) {
	s := newTestStore(t, "2024-01-01", "2024-01-02", "2024-01-03")
	_, _ = s.SetSlotTime("2024-01-02", 0, "12:00") // global: everyone gets 12:00
	_, _ = s.SetSlotTime("2024-01-03", 0, "15:00") // Wednesday only

	assert.Equal(t, "15:00", s.AutofillForSlot("2024-01-10", 0))
	assert.Equal(t, "12:00", s.AutofillForSlot("2024-01-05", 0))
	assert.Equal(t, "", s.AutofillForSlot("2024-01-05", 4))
}

func TestStore_InsertAndRemoveSlot(t *testing.T) {
	t.Run("Success - inserted slot inherits group", func(t *testing.T) {
		s := newTestStore(t, "2024-01-01")
		require.NoError(t, s.SetSlotGroup("2024-01-01", 0, "C"))

		ok, err := s.InsertSlot("2024-01-01", 0)

		require.NoError(t, err)
		require.True(t, ok)
		d, _ := s.Date("2024-01-01")
		require.Len(t, d.Slots, 2)
		assert.Equal(t, "C", d.Slots[1].GroupKey)
		assert.False(t, d.Slots[1].Edited)
	})

	t.Run("Failed - slot capacity", func(t *testing.T) {
		s := NewStore(staticKeys{"A"}, model.Limits{MaxSlots: 2})
		_, _ = s.ToggleDate("2024-01-01")
		ok, _ := s.InsertSlot("2024-01-01", 0)
		require.True(t, ok)

		ok, err := s.InsertSlot("2024-01-01", 1)

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Success - removing the only slot clears it", func(t *testing.T) {
		s := newTestStore(t, "2024-01-01")
		require.NoError(t, s.SetSlotGroup("2024-01-01", 0, "B"))
		_, _ = s.SetSlotTime("2024-01-01", 0, "10:00")

		require.NoError(t, s.RemoveSlot("2024-01-01", 0))

		d, _ := s.Date("2024-01-01")
		assert.Equal(t, []model.TimeSlot{{Time: "", GroupKey: "B"}}, d.Slots)
	})

	t.Run("Success - removing one of many deletes it", func(t *testing.T) {
		s := newTestStore(t, "2024-01-01")
		_, _ = s.InsertSlot("2024-01-01", 0)
		_, _ = s.SetSlotTime("2024-01-01", 0, "10:00")

		require.NoError(t, s.RemoveSlot("2024-01-01", 0))

		d, _ := s.Date("2024-01-01")
		assert.Len(t, d.Slots, 1)
	})

	t.Run("Failed - unknown group key", func(t *testing.T) {
		s := newTestStore(t, "2024-01-01")

		err := s.SetSlotGroup("2024-01-01", 0, "Z")

		assert.ErrorIs(t, err, apperrors.ErrUnknownGroupKey)
	})
}

func TestStore_RemapGroupKeys(t *testing.T) {
	keys := staticKeys{"A", "B", "C"}
	s := NewStore(&keys, model.DefaultLimits())
	_, _ = s.ToggleDate("2024-01-01")
	_, _ = s.InsertSlot("2024-01-01", 0)
	_, _ = s.InsertSlot("2024-01-01", 1)
	require.NoError(t, s.SetSlotGroup("2024-01-01", 1, "B"))
	require.NoError(t, s.SetSlotGroup("2024-01-01", 2, "C"))

	// group B removed: C becomes B
	keys = staticKeys{"A", "B"}
	s.RemapGroupKeys(map[string]string{"A": "A", "C": "B"})

	d, _ := s.Date("2024-01-01")
	assert.Equal(t, "A", d.Slots[0].GroupKey)
	assert.Equal(t, "A", d.Slots[1].GroupKey)
	assert.Equal(t, "B", d.Slots[2].GroupKey)
}
