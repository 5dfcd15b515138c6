package sessions

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"
)

const dateLayout = "2006-01-02"

var timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ParseMinutes returns minutes since midnight for a valid "HH:MM" string.
func ParseMinutes(value string) (int, bool) {
	if !timePattern.MatchString(value) {
		return 0, false
	}
	hour, _ := strconv.Atoi(value[:2])
	minute, _ := strconv.Atoi(value[3:])
	if hour > 23 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// NormalizeTime keeps a valid time and turns anything else into "".
func NormalizeTime(value string) string {
	value = strings.TrimSpace(value)
	if _, ok := ParseMinutes(value); !ok {
		return ""
	}
	return value
}

// ParseDate validates an ISO date and returns its canonical form and weekday.
func ParseDate(value string) (string, time.Weekday, bool) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return "", 0, false
	}
	return d.Format(dateLayout), d.Weekday(), true
}

func weekdayOf(date string) time.Weekday {
	_, wd, _ := ParseDate(date)
	return wd
}

// SortSlots orders slots by time, empty or invalid times last. Equal times
// keep their relative order; group and edited flags travel with each slot.
func SortSlots(slots []model.TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return sortKey(slots[i].Time) < sortKey(slots[j].Time)
	})
}

func sortKey(value string) int {
	if m, ok := ParseMinutes(value); ok {
		return m
	}
	return 24 * 60
}
