package pricing

import (
	"sort"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"
)

// Relabel maps a group's key before a removal to its key afterwards.
// Removed groups have no entry.
type Relabel map[string]string

// EditTracker records which attributes the user has edited directly, per group.
type EditTracker struct {
	flags map[string]map[model.AttributeKey]struct{}
}

func NewEditTracker() *EditTracker {
	return &EditTracker{flags: make(map[string]map[model.AttributeKey]struct{})}
}

func (t *EditTracker) Mark(key string, attr model.AttributeKey) {
	set, ok := t.flags[key]
	if !ok {
		set = make(map[model.AttributeKey]struct{})
		t.flags[key] = set
	}
	set[attr] = struct{}{}
}

func (t *EditTracker) IsEdited(key string, attr model.AttributeKey) bool {
	_, ok := t.flags[key][attr]
	return ok
}

// Remap moves every group's flags through the relabel mapping. Groups missing
// from the mapping lose their flags.
func (t *EditTracker) Remap(mapping Relabel) {
	next := make(map[string]map[model.AttributeKey]struct{}, len(t.flags))
	for oldKey, set := range t.flags {
		newKey, ok := mapping[oldKey]
		if !ok {
			continue
		}
		next[newKey] = set
	}
	t.flags = next
}

func (t *EditTracker) Clear() {
	t.flags = make(map[string]map[model.AttributeKey]struct{})
}

func (t *EditTracker) Len() int {
	return len(t.flags)
}

// Snapshot returns the flags with attributes in a stable order.
func (t *EditTracker) Snapshot() map[string][]model.AttributeKey {
	out := make(map[string][]model.AttributeKey, len(t.flags))
	for key, set := range t.flags {
		attrs := make([]model.AttributeKey, 0, len(set))
		for attr := range set {
			attrs = append(attrs, attr)
		}
		sort.Slice(attrs, func(i, j int) bool { return attrs[i] < attrs[j] })
		out[key] = attrs
	}
	return out
}

// Restore replaces the flags, ignoring unknown attribute names.
func (t *EditTracker) Restore(flags map[string][]model.AttributeKey) {
	t.Clear()
	for key, attrs := range flags {
		for _, attr := range attrs {
			if attr.IsValid() {
				t.Mark(key, attr)
			}
		}
	}
}
