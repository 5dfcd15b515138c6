package pricing

import (
	"github.com/Zxen1/Events-Platform-sub002/internal/model"
)

// TemplateArea is an area name with its ordered tier names.
type TemplateArea struct {
	Name  string
	Tiers []string
}

// Template is the non-price configuration of group A that new groups inherit.
type Template struct {
	AgeRating      string
	Currency       string
	AllocatedAreas bool
	Areas          []TemplateArea
}

// CaptureTemplate snapshots a group. Prices are never captured.
func CaptureTemplate(g *model.TicketGroup) Template {
	t := Template{
		AgeRating:      g.AgeRating,
		Currency:       g.Currency,
		AllocatedAreas: g.AllocatedAreas(),
	}
	for _, area := range g.Areas() {
		ta := TemplateArea{Name: area.Name, Tiers: make([]string, len(area.Tiers))}
		for i, tier := range area.Tiers {
			ta.Tiers[i] = tier.Name
		}
		t.Areas = append(t.Areas, ta)
	}
	return t
}

// HasValue reports whether the template carries a non-empty value for attr.
func (t Template) HasValue(attr model.AttributeKey) bool {
	switch attr {
	case model.AttrAgeRating:
		return t.AgeRating != ""
	case model.AttrCurrency:
		return t.Currency != ""
	case model.AttrAllocatedAreas:
		return t.AllocatedAreas
	case model.AttrTicketAreas:
		for _, area := range t.Areas {
			if area.Name != "" {
				return true
			}
			for _, name := range area.Tiers {
				if name != "" {
					return true
				}
			}
		}
	}
	return false
}

// areas builds fresh ticket areas from the template with blank prices.
func (t Template) areas(limits model.Limits) []model.TicketArea {
	list := make([]model.TicketArea, 0, len(t.Areas))
	for _, ta := range t.Areas {
		if len(list) == limits.MaxAreas {
			break
		}
		area := model.TicketArea{Name: ta.Name}
		for _, name := range ta.Tiers {
			if len(area.Tiers) == limits.MaxTiers {
				break
			}
			area.Tiers = append(area.Tiers, model.PricingTier{Name: name})
		}
		if len(area.Tiers) == 0 {
			area.Tiers = []model.PricingTier{{}}
		}
		list = append(list, area)
	}
	return list
}

// ApplyTemplate seeds g from t for every attribute g has not edited and t has
// a value for. It returns the attributes that were copied.
func ApplyTemplate(g *model.TicketGroup, t Template, edits *EditTracker, limits model.Limits) []model.AttributeKey {
	applied := make([]model.AttributeKey, 0, len(model.TemplateAttributes))
	for _, attr := range model.TemplateAttributes {
		if edits.IsEdited(g.Key, attr) || !t.HasValue(attr) {
			continue
		}
		switch attr {
		case model.AttrAgeRating:
			g.AgeRating = t.AgeRating
		case model.AttrCurrency:
			g.Currency = t.Currency
		case model.AttrAllocatedAreas:
			g.SetAllocated(t.AllocatedAreas)
		case model.AttrTicketAreas:
			g.SetAreas(t.areas(limits))
		}
		applied = append(applied, attr)
	}
	return applied
}
