package model

// Limits holds the capacity caps of one fieldset.
type Limits struct {
	MaxGroups int `json:"max_groups"`
	MaxAreas  int `json:"max_areas"`
	MaxTiers  int `json:"max_tiers"`
	MaxSlots  int `json:"max_slots"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxGroups: 10,
		MaxAreas:  10,
		MaxTiers:  10,
		MaxSlots:  10,
	}
}

// Normalize replaces non-positive caps with the defaults.
func (l Limits) Normalize() Limits {
	def := DefaultLimits()
	if l.MaxGroups <= 0 {
		l.MaxGroups = def.MaxGroups
	}
	if l.MaxAreas <= 0 {
		l.MaxAreas = def.MaxAreas
	}
	if l.MaxTiers <= 0 {
		l.MaxTiers = def.MaxTiers
	}
	if l.MaxSlots <= 0 {
		l.MaxSlots = def.MaxSlots
	}
	return l
}
