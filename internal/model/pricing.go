package model

// AttributeKey names a group attribute that can carry a manual-edit flag.
type AttributeKey string

const (
	AttrAgeRating      AttributeKey = "ageRating"
	AttrCurrency       AttributeKey = "currency"
	AttrAllocatedAreas AttributeKey = "allocatedAreas"
	AttrTicketAreas    AttributeKey = "ticketAreas"
)

// TemplateAttributes is the order in which template inheritance visits attributes.
var TemplateAttributes = []AttributeKey{AttrAgeRating, AttrCurrency, AttrAllocatedAreas, AttrTicketAreas}

// IsValid reports whether the key is one of the tracked attributes.
func (a AttributeKey) IsValid() bool {
	switch a {
	case AttrAgeRating, AttrCurrency, AttrAllocatedAreas, AttrTicketAreas:
		return true
	}
	return false
}

// PricingTier is a named price point. Currency is empty when inherited.
type PricingTier struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Price    string `json:"price"`
}

// TicketArea is a named subdivision of inventory with at least one tier.
type TicketArea struct {
	Name  string        `json:"name"`
	Tiers []PricingTier `json:"tiers"`
}

func NewTicketArea(name string) TicketArea {
	return TicketArea{Name: name, Tiers: []PricingTier{{}}}
}

func (a TicketArea) Clone() TicketArea {
	tiers := make([]PricingTier, len(a.Tiers))
	copy(tiers, a.Tiers)
	return TicketArea{Name: a.Name, Tiers: tiers}
}

// Inventory is either Undivided (one area priced as a whole) or Allocated
// (every area priced independently).
type Inventory interface {
	IsAllocated() bool
	// Areas returns pointers into the inventory's own storage.
	Areas() []*TicketArea
	Clone() Inventory
	inventory()
}

type Undivided struct {
	Area TicketArea
}

func (u *Undivided) IsAllocated() bool    { return false }
func (u *Undivided) Areas() []*TicketArea { return []*TicketArea{&u.Area} }
func (u *Undivided) Clone() Inventory     { return &Undivided{Area: u.Area.Clone()} }
func (u *Undivided) inventory()           {}

type Allocated struct {
	List []TicketArea
}

func (a *Allocated) IsAllocated() bool { return true }

func (a *Allocated) Areas() []*TicketArea {
	out := make([]*TicketArea, len(a.List))
	for i := range a.List {
		out[i] = &a.List[i]
	}
	return out
}

func (a *Allocated) Clone() Inventory {
	list := make([]TicketArea, len(a.List))
	for i, area := range a.List {
		list[i] = area.Clone()
	}
	return &Allocated{List: list}
}

func (a *Allocated) inventory() {}

// TicketGroup is one keyed bundle of age rating, currency override and inventory.
type TicketGroup struct {
	Key       string
	AgeRating string
	Currency  string
	Inventory Inventory
}

func NewTicketGroup(key string) *TicketGroup {
	return &TicketGroup{
		Key:       key,
		Inventory: &Undivided{Area: NewTicketArea("")},
	}
}

func (g *TicketGroup) AllocatedAreas() bool {
	return g.Inventory.IsAllocated()
}

func (g *TicketGroup) Areas() []*TicketArea {
	return g.Inventory.Areas()
}

func (g *TicketGroup) Clone() *TicketGroup {
	return &TicketGroup{
		Key:       g.Key,
		AgeRating: g.AgeRating,
		Currency:  g.Currency,
		Inventory: g.Inventory.Clone(),
	}
}

// SetAllocated switches the inventory variant. Collapsing to Undivided keeps
// only the first area; promoting to Allocated keeps the single area as the
// first list entry. It reports the number of areas dropped.
func (g *TicketGroup) SetAllocated(allocated bool) int {
	if g.Inventory.IsAllocated() == allocated {
		return 0
	}
	areas := g.Inventory.Areas()
	if allocated {
		g.Inventory = &Allocated{List: []TicketArea{areas[0].Clone()}}
		return 0
	}
	g.Inventory = &Undivided{Area: areas[0].Clone()}
	return len(areas) - 1
}

// SetAreas replaces the areas while keeping the current variant.
func (g *TicketGroup) SetAreas(list []TicketArea) int {
	if len(list) == 0 {
		list = []TicketArea{NewTicketArea("")}
	}
	if g.Inventory.IsAllocated() {
		g.Inventory = &Allocated{List: list}
		return 0
	}
	g.Inventory = &Undivided{Area: list[0]}
	return len(list) - 1
}
